package service

import (
	"context"
	"fmt"
	"time"

	"shareit/config"
	"shareit/infras/otel"
	"shareit/internal/domains/booking/model"
	"shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/booking/repository"
	itemModel "shareit/internal/domains/item/model"
	itemRepo "shareit/internal/domains/item/repository"
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
	msgUserNotFound       = "User not found"
	msgItemNotFound       = "Item not found"
	msgItemUnavailable    = "Item is not available for booking"
	msgOwnBooking         = "Owner cannot book their own item"
	msgStartAfterEnd      = "Start date cannot be after end date"
	msgDatesEqual         = "Start and end dates cannot be equal"
	msgStartInPast        = "Start date cannot be in the past"
	msgBookingNotFound    = "Booking not found"
	msgNotOwner           = "Only owner can approve booking"
	msgAlreadyProcessed   = "Booking is already processed"
	msgOverlappingBooking = "Booking dates overlap with an approved booking"
)

type Booking interface {
	Create(ctx context.Context, userID int64, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Approve(ctx context.Context, userID, bookingID int64, approved bool) (dto.BookingResponse, error)
	Get(ctx context.Context, userID, bookingID int64) (dto.BookingResponse, error)
	GetByBooker(ctx context.Context, userID int64, state string, page gDto.OffsetParams) (dto.GetBookingsResponse, error)
	GetByOwner(ctx context.Context, userID int64, state string, page gDto.OffsetParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	itemRepo itemRepo.Item
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Booking, itemRepo itemRepo.Item, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		itemRepo: itemRepo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, userID int64, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	item, err := s.itemRepo.Get(ctx, shared.FilterByID(req.ItemID, itemModel.FieldID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == 0 {
		return res, failure.NotFound(msgItemNotFound) //nolint:wrapcheck
	}

	if !item.Available {
		return res, failure.BadRequestFromString(msgItemUnavailable) //nolint:wrapcheck
	}

	// Owners get the same 404 as a missing item so the check leaks
	// nothing about their own inventory to automation probing ids.
	if item.OwnerID == userID {
		return res, failure.NotFound(msgOwnBooking) //nolint:wrapcheck
	}

	booking, err := req.ToModel(userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking dates")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) //nolint:wrapcheck
	}

	if err = validateWindow(booking.StartDate, booking.EndDate, timezone.Now()); err != nil {
		return res, err
	}

	if s.cfg.App.Booking.StrictOverlap {
		overlap, err := s.repo.Exist(ctx, overlapFilter(req.ItemID, booking.StartDate, booking.EndDate))
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking overlap")

			return res, fmt.Errorf("failed to check booking overlap: %w", err)
		}

		if overlap {
			return res, failure.Conflict(msgOverlappingBooking) //nolint:wrapcheck
		}
	}

	id, err := s.repo.Insert(ctx, booking)
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	created, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get created booking")

		return res, fmt.Errorf("failed to get created booking: %w", err)
	}

	s.invalidateItemCaches(ctx)

	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) Approve(ctx context.Context, userID, bookingID int64, approved bool) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound(msgBookingNotFound) //nolint:wrapcheck
	}

	if booking.ItemOwnerID != userID {
		return res, failure.Forbidden(msgNotOwner) //nolint:wrapcheck
	}

	if booking.Status != model.StatusWaiting {
		return res, failure.BadRequestFromString(msgAlreadyProcessed) //nolint:wrapcheck
	}

	target := model.StatusRejected
	if approved {
		target = model.StatusApproved
	}

	changed, err := s.repo.UpdateStatus(ctx, bookingID, model.StatusWaiting, target)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	// Lost the race against a concurrent decision on the same booking.
	if !changed {
		return res, failure.BadRequestFromString(msgAlreadyProcessed) //nolint:wrapcheck
	}

	booking.Status = target

	s.invalidateItemCaches(ctx)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, userID, bookingID int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound(msgBookingNotFound) //nolint:wrapcheck
	}

	// Visibility is limited to the two parties. Everyone else gets the
	// same 404 as a missing booking, so existence is not revealed.
	if booking.BookerID != userID && booking.ItemOwnerID != userID {
		log.Warn().
			Int64("bookingId", bookingID).
			Int64("userId", userID).
			Msg("booking access denied, responding as not found")

		return res, failure.NotFound(msgBookingNotFound) //nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetByBooker(ctx context.Context, userID int64, state string, page gDto.OffsetParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByBooker")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.list(ctx, userID, state, page, gDto.Filter{
		Field:    model.FieldBookerID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})
}

func (s *serviceImpl) GetByOwner(ctx context.Context, userID int64, state string, page gDto.OffsetParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.list(ctx, userID, state, page, gDto.Filter{
		Field:    itemModel.FieldOwnerID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    itemModel.TableName,
	})
}

func (s *serviceImpl) list(ctx context.Context, userID int64, state string, page gDto.OffsetParams, scopeFilter gDto.Filter) (res dto.GetBookingsResponse, err error) {
	if err = s.requireUser(ctx, userID); err != nil {
		return res, err
	}

	filter := gDto.FilterGroup{Filters: []any{scopeFilter}}
	filter.Filters = append(filter.Filters, stateFilters(model.ParseState(state), timezone.Now())...)

	bookings, err := s.repo.GetAll(ctx,
		page.Pageable(model.TableName+"."+model.FieldStartDate, gDto.SortDirDesc),
		filter,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings)

	return res, nil
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

// Owner item views embed last/next booking refs, so booking mutations
// drop the cached item entries.
func (s *serviceImpl) invalidateItemCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CachePrefixItemGet)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixItemGetAll)
	}()
}

func validateWindow(start, end, now time.Time) error {
	if start.After(end) {
		return failure.BadRequestFromString(msgStartAfterEnd) //nolint:wrapcheck
	}

	if start.Equal(end) {
		return failure.BadRequestFromString(msgDatesEqual) //nolint:wrapcheck
	}

	if start.Before(now) {
		return failure.BadRequestFromString(msgStartInPast) //nolint:wrapcheck
	}

	return nil
}

// stateFilters maps a listing state token onto window or status
// predicates. The token set is closed: ParseState collapses anything
// unknown to StateAll, which applies no filter.
func stateFilters(state string, now time.Time) []any {
	switch state {
	case model.StateCurrent:
		return []any{
			gDto.Filter{
				ArgName:  "now_start",
				Field:    model.FieldStartDate,
				Value:    now,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "now_end",
				Field:    model.FieldEndDate,
				Value:    now,
				Operator: gDto.FilterOperatorGreater,
				Table:    model.TableName,
			},
		}
	case model.StatePast:
		return []any{
			gDto.Filter{
				ArgName:  "now",
				Field:    model.FieldEndDate,
				Value:    now,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
		}
	case model.StateFuture:
		return []any{
			gDto.Filter{
				ArgName:  "now",
				Field:    model.FieldStartDate,
				Value:    now,
				Operator: gDto.FilterOperatorGreater,
				Table:    model.TableName,
			},
		}
	case model.StateWaiting, model.StateRejected:
		return []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    state,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		}
	default:
		return nil
	}
}

func overlapFilter(itemID int64, start, end time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldItemID,
				Value:    itemID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusApproved,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "window_end",
				Field:    model.FieldStartDate,
				Value:    end,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "window_start",
				Field:    model.FieldEndDate,
				Value:    start,
				Operator: gDto.FilterOperatorGreater,
				Table:    model.TableName,
			},
		},
	}
}
