package service

import (
	"context"
	"fmt"

	"shareit/config"
	"shareit/infras/otel"
	itemModel "shareit/internal/domains/item/model"
	itemDto "shareit/internal/domains/item/model/dto"
	itemRepo "shareit/internal/domains/item/repository"
	"shareit/internal/domains/request/model"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/repository"
	userModel "shareit/internal/domains/user/model"
	userRepo "shareit/internal/domains/user/repository"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	msgUserNotFound    = "User not found"
	msgRequestNotFound = "Item request not found"
)

type Request interface {
	Create(ctx context.Context, userID int64, req dto.CreateRequestRequest) (dto.RequestResponse, error)
	GetOwn(ctx context.Context, userID int64) (dto.GetRequestsResponse, error)
	GetAll(ctx context.Context, userID int64, page gDto.OffsetParams) (dto.GetRequestsResponse, error)
	Get(ctx context.Context, userID, requestID int64) (dto.RequestResponse, error)
}

type serviceImpl struct {
	repo     repository.Request
	itemRepo itemRepo.Item
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Request, itemRepo itemRepo.Item, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Request {
	return &serviceImpl{
		repo:     repo,
		itemRepo: itemRepo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, userID int64, req dto.CreateRequestRequest) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	request := req.ToModel(userID)

	id, err := s.repo.Insert(ctx, request)
	if err != nil {
		log.Error().Err(err).Msg("failed to create item request")

		return res, fmt.Errorf("failed to create item request: %w", err)
	}

	request.ID = id
	res.FromModel(request)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CachePrefixRequestGets)
	}()

	return res, nil
}

func (s *serviceImpl) GetOwn(ctx context.Context, userID int64) (res dto.GetRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.GetOwn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(constant.CachePrefixRequestGets, "own", userID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for own item requests")

		return res, nil
	}

	requests, err := s.repo.GetAll(ctx,
		gDto.QueryParams{SortBy: model.TableName + "." + model.FieldCreated, SortDir: gDto.SortDirDesc},
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldRequestorID,
					Value:    userID,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get own item requests")

		return res, fmt.Errorf("failed to get own item requests: %w", err)
	}

	res.FromModels(requests)

	if err = s.attachItems(ctx, res); err != nil {
		return res, err
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, userID int64, page gDto.OffsetParams) (res dto.GetRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(constant.CachePrefixRequestGets, "all", userID, page.From, page.Size)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for item requests")

		return res, nil
	}

	requests, err := s.repo.GetAll(ctx,
		page.Pageable(model.TableName+"."+model.FieldCreated, gDto.SortDirDesc),
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldRequestorID,
					Value:    userID,
					Operator: gDto.FilterOperatorNotEq,
					Table:    model.TableName,
				},
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get item requests")

		return res, fmt.Errorf("failed to get item requests: %w", err)
	}

	res.FromModels(requests)

	if err = s.attachItems(ctx, res); err != nil {
		return res, err
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, userID, requestID int64) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(constant.CachePrefixRequestGet, requestID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for item request")

		return res, nil
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(requestID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item request")

		return res, fmt.Errorf("failed to get item request: %w", err)
	}

	if request.ID == 0 {
		return res, failure.NotFound(msgRequestNotFound) //nolint:wrapcheck
	}

	res.FromModel(request)

	list := dto.GetRequestsResponse{res}
	if err = s.attachItems(ctx, list); err != nil {
		return res, err
	}

	res = list[0]

	s.save(ctx, cacheKey, res)

	return res, nil
}

// attachItems loads the items offered for the given requests in one
// query and distributes them.
func (s *serviceImpl) attachItems(ctx context.Context, requests dto.GetRequestsResponse) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]int64, len(requests))
	for i, request := range requests {
		ids[i] = request.ID
	}

	items, err := s.itemRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: itemModel.TableName + "." + itemModel.FieldID, SortDir: gDto.SortDirAsc},
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    itemModel.FieldRequestID,
					Value:    ids,
					Operator: gDto.FilterOperatorIn,
					Table:    itemModel.TableName,
				},
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get items for requests")

		return fmt.Errorf("failed to get items for requests: %w", err)
	}

	byRequest := map[int64][]itemDto.ItemResponse{}

	for _, item := range items {
		response := itemDto.ItemResponse{}
		response.FromModel(item)

		byRequest[item.RequestID.Int64] = append(byRequest[item.RequestID.Int64], response)
	}

	for i := range requests {
		if offered, ok := byRequest[requests[i].ID]; ok {
			requests[i].Items = offered
		}
	}

	return nil
}

func (s *serviceImpl) requireUser(ctx context.Context, userID int64) error {
	exist, err := s.userRepo.Exist(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound(msgUserNotFound) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save item requests to cache")
		}
	}()
}
