package booking

import (
	"context"
	"net/http"
	"strconv"

	"shareit/infras/otel"
	"shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/booking/service"
	"shareit/shared"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/validator"
	"shareit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookerBookings)
		routerGroup.Get("/owner", handler.GetOwnerBookings)
		routerGroup.Get("/{bookingId}", handler.GetBookingByID)
		routerGroup.Patch("/{bookingId}", handler.ApproveBooking)
	})
}

// CreateBooking places a booking request for an item; it starts out
// waiting for the owner's decision.
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithError(w, failure.MissingUserHeader)

		return
	}

	req := dto.CreateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully")

	response.WithJSON(w, http.StatusCreated, booking)
}

// ApproveBooking records the owner's decision on a waiting booking.
func (handler *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithError(w, failure.MissingUserHeader)

		return
	}

	bookingID, err := pathID(r, constant.RequestParamBookingID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	approved := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamApproved))
	if approved == nil {
		response.WithError(w, failure.BadRequestFromString("approved parameter is required"))

		return
	}

	booking, err := handler.service.Approve(ctx, userID, bookingID, *approved)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking decision recorded")

	response.WithJSON(w, http.StatusOK, booking)
}

// GetBookingByID retrieves a booking, visible to the booker and the
// item owner only.
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithError(w, failure.MissingUserHeader)

		return
	}

	bookingID, err := pathID(r, constant.RequestParamBookingID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Get(ctx, userID, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetBookerBookings lists the caller's own bookings, newest start
// first, optionally narrowed by state.
func (handler *Handler) GetBookerBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookerBookings")
	defer scope.End()

	userID, state, page, err := listParams(ctx, r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetByBooker(ctx, userID, state, page)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booker bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetOwnerBookings lists bookings on any of the caller's items.
func (handler *Handler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnerBookings")
	defer scope.End()

	userID, state, page, err := listParams(ctx, r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetByOwner(ctx, userID, state, page)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get owner bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

func listParams(ctx context.Context, r *http.Request) (int64, string, gDto.OffsetParams, error) {
	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		return 0, "", gDto.OffsetParams{}, failure.MissingUserHeader
	}

	page := gDto.OffsetParams{}
	if err := page.FromRequest(r); err != nil {
		return 0, "", page, err //nolint:wrapcheck
	}

	state := r.URL.Query().Get(constant.RequestParamState)
	if state == "" {
		state = constant.DefaultValueState
	}

	return userID, state, page, nil
}

func pathID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString("invalid " + param + " parameter") //nolint:wrapcheck
	}

	return id, nil
}
