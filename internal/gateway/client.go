package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"shareit/config"
	"shareit/infras/otel"
	"shareit/shared/constant"

	"github.com/rs/zerolog/log"
)

// Client forwards a request to the core server and returns the
// response untouched: the gateway never rewrites downstream status
// codes or bodies.
type Client struct {
	baseURL string
	http    *http.Client
	otel    otel.Otel
}

func NewClient(cfg *config.Config, otel otel.Otel) *Client {
	return &Client{
		baseURL: cfg.Gateway.ServerURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second,
		},
		otel: otel,
	}
}

type ProxyResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (c *Client) Forward(ctx context.Context, r *http.Request) (ProxyResponse, error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".Forward")
	defer scope.End()

	target := c.baseURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	scope.SetAttribute("gateway.target", target)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		scope.TraceError(err)

		return ProxyResponse{}, fmt.Errorf("failed to read request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, bytes.NewReader(body))
	if err != nil {
		scope.TraceError(err)

		return ProxyResponse{}, fmt.Errorf("failed to build downstream request: %w", err)
	}

	for _, header := range []string{
		constant.RequestHeaderContentType,
		constant.RequestHeaderSharerUserID,
		constant.RequestHeaderRequestID,
	} {
		if value := r.Header.Get(header); value != "" {
			req.Header.Set(header, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("target", target).Msg("failed to reach core server")

		return ProxyResponse{}, fmt.Errorf("failed to reach core server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		scope.TraceError(err)

		return ProxyResponse{}, fmt.Errorf("failed to read downstream response: %w", err)
	}

	return ProxyResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get(constant.RequestHeaderContentType),
		Body:        respBody,
	}, nil
}
