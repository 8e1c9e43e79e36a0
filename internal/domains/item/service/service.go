package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/config"
	"shareit/infras/otel"
	bookingDto "shareit/internal/domains/booking/model/dto"
	bookingRepo "shareit/internal/domains/booking/repository"
	"shareit/internal/domains/item/model"
	"shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/item/repository"
	requestModel "shareit/internal/domains/request/model"
	requestRepo "shareit/internal/domains/request/repository"
	userModel "shareit/internal/domains/user/model"
	userRepo "shareit/internal/domains/user/repository"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	msgUserNotFound     = "User not found"
	msgItemNotFound     = "Item not found"
	msgRequestNotFound  = "Item request not found"
	msgBlankName        = "Name cannot be blank"
	msgBlankDescription = "Description cannot be blank"
)

type Item interface {
	Create(ctx context.Context, userID int64, req dto.CreateItemRequest) (dto.ItemResponse, error)
	Update(ctx context.Context, userID, itemID int64, req dto.UpdateItemRequest) (dto.ItemResponse, error)
	Get(ctx context.Context, userID, itemID int64) (dto.ItemResponse, error)
	GetByOwner(ctx context.Context, userID int64, page gDto.OffsetParams) (dto.GetItemsResponse, error)
	Search(ctx context.Context, text string, page gDto.OffsetParams) (dto.GetItemsResponse, error)
}

type serviceImpl struct {
	repo        repository.Item
	bookingRepo bookingRepo.Booking
	requestRepo requestRepo.Request
	userRepo    userRepo.User
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Item, bookingRepo bookingRepo.Booking, requestRepo requestRepo.Request, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Item {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, userID int64, req dto.CreateItemRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	if req.RequestID != nil {
		exist, err := s.requestRepo.Exist(ctx, shared.FilterByID(*req.RequestID, requestModel.FieldID, requestModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if item request exists")

			return res, fmt.Errorf("failed to check if item request exists: %w", err)
		}

		if !exist {
			return res, failure.NotFound(msgRequestNotFound) //nolint:wrapcheck
		}
	}

	item := req.ToModel(userID)

	id, err := s.repo.Insert(ctx, item)
	if err != nil {
		log.Error().Err(err).Msg("failed to create item")

		return res, fmt.Errorf("failed to create item: %w", err)
	}

	item.ID = id
	res.FromModel(item)

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, userID, itemID int64, req dto.UpdateItemRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.repo.Get(ctx, shared.FilterByID(itemID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	// Non-owners get a 404 rather than a 403 so item ids cannot be
	// confirmed by probing the update endpoint.
	if item.ID == 0 || item.OwnerID != userID {
		return res, failure.NotFound(msgItemNotFound) //nolint:wrapcheck
	}

	fields := map[string]any{}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return res, failure.BadRequestFromString(msgBlankName) //nolint:wrapcheck
		}

		item.Name = *req.Name
		fields[model.FieldName] = *req.Name
	}

	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return res, failure.BadRequestFromString(msgBlankDescription) //nolint:wrapcheck
		}

		item.Description = *req.Description
		fields[model.FieldDescription] = *req.Description
	}

	if req.Available != nil {
		item.Available = *req.Available
		fields[model.FieldAvailable] = *req.Available
	}

	if len(fields) > 0 {
		if err = s.repo.Update(ctx, fields, shared.FilterByID(itemID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update item")

			return res, fmt.Errorf("failed to update item: %w", err)
		}
	}

	res.FromModel(item)

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, userID, itemID int64) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	// Owner views embed last/next booking refs, so the key carries the
	// viewer id.
	cacheKey := shared.BuildCacheKey(constant.CachePrefixItemGet, itemID, userID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for item")

		return res, nil
	}

	item, err := s.repo.Get(ctx, shared.FilterByID(itemID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == 0 {
		return res, failure.NotFound(msgItemNotFound) //nolint:wrapcheck
	}

	res.FromModel(item)

	if item.OwnerID == userID {
		if err = s.annotate(ctx, &res); err != nil {
			return res, err
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save item to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetByOwner(ctx context.Context, userID int64, page gDto.OffsetParams) (res dto.GetItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.GetByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(constant.CachePrefixItemGetAll, userID, page.From, page.Size)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for owner items")

		return res, nil
	}

	items, err := s.repo.GetAll(ctx,
		page.Pageable(model.TableName+"."+model.FieldID, gDto.SortDirAsc),
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldOwnerID,
					Value:    userID,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get owner items")

		return res, fmt.Errorf("failed to get owner items: %w", err)
	}

	res.FromModels(items)

	for i := range res {
		if err = s.annotate(ctx, &res[i]); err != nil {
			return res, err
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save owner items to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Search(ctx context.Context, text string, page gDto.OffsetParams) (res dto.GetItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	res = dto.GetItemsResponse{}

	if strings.TrimSpace(text) == "" {
		return res, nil
	}

	cacheKey := shared.BuildCacheKey(constant.CachePrefixItemSearch, strings.ToLower(text), page.From, page.Size)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for item search")

		return res, nil
	}

	items, err := s.repo.GetAll(ctx,
		page.Pageable(model.TableName+"."+model.FieldID, gDto.SortDirAsc),
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldAvailable,
					Value:    true,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
				gDto.FilterGroup{
					Operator: gDto.FilterGroupOperatorOr,
					Filters: []any{
						gDto.Filter{
							ArgName:  "name_text",
							Field:    model.FieldName,
							Value:    text,
							Operator: gDto.FilterOperatorLike,
							Table:    model.TableName,
						},
						gDto.Filter{
							ArgName:  "description_text",
							Field:    model.FieldDescription,
							Value:    text,
							Operator: gDto.FilterOperatorLike,
							Table:    model.TableName,
						},
					},
				},
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to search items")

		return res, fmt.Errorf("failed to search items: %w", err)
	}

	res.FromModels(items)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save item search to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) annotate(ctx context.Context, res *dto.ItemResponse) error {
	now := timezone.Now()

	last, err := s.bookingRepo.Last(ctx, res.ID, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to get last booking")

		return fmt.Errorf("failed to get last booking: %w", err)
	}

	if last.ID != 0 {
		short := bookingDto.BookingShort{}
		short.FromModel(last)
		res.LastBooking = &short
	}

	next, err := s.bookingRepo.Next(ctx, res.ID, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to get next booking")

		return fmt.Errorf("failed to get next booking: %w", err)
	}

	if next.ID != 0 {
		short := bookingDto.BookingShort{}
		short.FromModel(next)
		res.NextBooking = &short
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

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CachePrefixItemGet)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixItemGetAll)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixItemSearch)

		// Request views embed the items offered for them.
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixRequestGet)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixRequestGets)
	}()
}
