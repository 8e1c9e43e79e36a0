package request

import (
	"net/http"
	"strconv"

	"shareit/infras/otel"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/service"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/validator"
	"shareit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Request
	otel    otel.Otel
}

func New(service service.Request, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRequest)
		routerGroup.Get("/", handler.GetOwnRequests)
		routerGroup.Get("/all", handler.GetAllRequests)
		routerGroup.Get("/{requestId}", handler.GetRequestByID)
	})
}

// CreateRequest posts a want-ad for an item.
func (handler *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRequest")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithError(w, failure.MissingUserHeader)

		return
	}

	req := dto.CreateRequestRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	request, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create item request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item request created successfully")

	response.WithJSON(w, http.StatusCreated, request)
}

// GetOwnRequests lists the caller's requests, newest first, with the
// items offered for each.
func (handler *Handler) GetOwnRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnRequests")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithError(w, failure.MissingUserHeader)

		return
	}

	requests, err := handler.service.GetOwn(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own item requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, requests)
}

// GetAllRequests lists other users' requests, paged.
func (handler *Handler) GetAllRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAllRequests")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithError(w, failure.MissingUserHeader)

		return
	}

	page := gDto.OffsetParams{}
	if err := page.FromRequest(r); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	requests, err := handler.service.GetAll(ctx, userID, page)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get item requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, requests)
}

// GetRequestByID retrieves a single request with its offered items.
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithError(w, failure.MissingUserHeader)

		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamRequestID), 10, 64)
	if err != nil || requestID <= 0 {
		response.WithError(w, failure.BadRequestFromString("invalid "+constant.RequestParamRequestID+" parameter"))

		return
	}

	request, err := handler.service.Get(ctx, userID, requestID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get item request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, request)
}
