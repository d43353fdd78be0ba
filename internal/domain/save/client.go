package save

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/rutalocal/planner-api/internal/types"
)

// RoutesAPI is the backend persistence endpoint for itineraries.
type RoutesAPI interface {
	CreateRoute(ctx context.Context, userID string, req types.CreateRouteRequest) (*types.CreateRouteResponse, error)
}

var _ RoutesAPI = (*HTTPClient)(nil)

// HTTPClient talks to the routes backend over JSON/HTTP. A token-bucket
// limiter keeps pathological retry loops from hammering the backend.
type HTTPClient struct {
	logger  *slog.Logger
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		logger:  logger,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateRoute posts the itinerary. Non-2xx responses become a SaveError
// carrying the backend's message when one is present in the body.
func (c *HTTPClient) CreateRoute(ctx context.Context, userID string, req types.CreateRouteRequest) (*types.CreateRouteResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &types.SaveError{Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode route request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/routes", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build route request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-User-ID", userID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "Route save request failed", slog.Any("error", err))
		return nil, &types.SaveError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		saveErr := &types.SaveError{StatusCode: resp.StatusCode}
		var backendErr errorResponse
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096)); readErr == nil {
			if json.Unmarshal(data, &backendErr) == nil {
				saveErr.Message = backendErr.Error
			}
		}
		c.logger.ErrorContext(ctx, "Route save rejected by backend",
			slog.Int("status", resp.StatusCode),
			slog.String("message", saveErr.Message))
		return nil, saveErr
	}

	var created types.CreateRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, &types.SaveError{Err: fmt.Errorf("failed to decode route response: %w", err)}
	}
	return &created, nil
}
