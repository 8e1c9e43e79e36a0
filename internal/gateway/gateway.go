package gateway

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"shareit/config"
	"shareit/infras/otel"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/transport/http/response"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Gateway is the thin edge in front of the core server. It rejects
// requests that are malformed on their face (missing identity header,
// bad pagination) and forwards everything else verbatim.
type Gateway struct {
	Config *config.Config
	client *Client
	otel   otel.Otel
	mux    *chi.Mux
}

func New(cfg *config.Config, client *Client, otel otel.Otel) *Gateway {
	return &Gateway{
		Config: cfg,
		client: client,
		otel:   otel,
	}
}

func (g *Gateway) Serve() {
	log.Info().Str("port", g.Config.Gateway.Port).Msg("Starting up gateway.")

	addr := net.JoinHostPort("0.0.0.0", g.Config.Gateway.Port)
	if err := http.ListenAndServe(addr, g.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start gateway")
	}
}

func (g *Gateway) Handler() http.Handler {
	if g.mux == nil {
		g.setupRoutes()
	}

	return g.mux
}

func (g *Gateway) setupRoutes() {
	g.mux = chi.NewRouter()

	g.mux.Use(chiMiddleware.Recoverer)

	g.mux.HandleFunc("/users", g.Proxy)
	g.mux.HandleFunc("/users/*", g.Proxy)

	g.mux.Group(func(group chi.Router) {
		group.Use(g.requireIdentity)
		group.Use(g.validatePagination)

		for _, prefix := range []string{"/items", "/bookings", "/requests"} {
			group.HandleFunc(prefix, g.Proxy)
			group.HandleFunc(prefix+"/*", g.Proxy)
		}
	})
}

// Proxy relays the request and writes the downstream response without
// translation.
func (g *Gateway) Proxy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := g.otel.NewScope(r.Context(), constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".Proxy")
	defer scope.End()

	resp, err := g.client.Forward(ctx, r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, failure.InternalError(err))

		return
	}

	if resp.ContentType != "" {
		w.Header().Set(constant.RequestHeaderContentType, resp.ContentType)
	}

	w.WriteHeader(resp.StatusCode)

	if _, err := w.Write(resp.Body); err != nil {
		log.Error().Err(err).Msg("failed to write proxied response")
	}
}

func (g *Gateway) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get(constant.RequestHeaderSharerUserID))
		if header == "" {
			response.WithError(w, failure.MissingUserHeader)

			return
		}

		if userID, err := strconv.ParseInt(header, 10, 64); err != nil || userID <= 0 {
			response.WithError(w, failure.MissingUserHeader)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// validatePagination bounces bad from/size pairs at the edge so they
// never consume a core-server round trip.
func (g *Gateway) validatePagination(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := gDto.OffsetParams{}
		if err := page.FromRequest(r); err != nil {
			response.WithError(w, err)

			return
		}

		next.ServeHTTP(w, r)
	})
}
