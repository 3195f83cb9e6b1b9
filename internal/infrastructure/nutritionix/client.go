package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nutrilog/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response is kept for logging
const maxErrorBody = 4096

// Config holds the Nutritionix credentials and request pacing
type Config struct {
	AppID         string
	AppKey        string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client handles communication with the Nutritionix natural nutrients API
type Client struct {
	httpClient  *http.Client
	appID       string
	appKey      string
	baseURL     string
	timeout     time.Duration
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

var _ domain.NutrientSource = (*Client)(nil)

// NewClient creates a new Nutritionix API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		appID:       cfg.AppID,
		appKey:      cfg.AppKey,
		baseURL:     cfg.BaseURL,
		timeout:     cfg.Timeout,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:      logger.Named("nutritionix"),
	}
}

// SearchFoods sends a free-text query and returns the candidate foods. A
// non-2xx answer or an empty food list is domain.ErrNotFound; transport
// failures, timeouts, and unreadable bodies are domain.ErrNetwork. The call is
// made once, bounded by the client timeout.
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.ExternalSearchResponse, error) {
	c.logger.Debug("SearchFoods called", zap.String("query", query))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrNetwork, err)
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/natural/nutrients", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "nutrilog/1.0")
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := readLimitedBody(resp.Body, maxErrorBody)
		c.logger.Info("No match from API",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: %q (status %d)", domain.ErrNotFound, query, resp.StatusCode)
	}

	var searchResp domain.ExternalSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrNetwork, err)
	}

	if len(searchResp.Foods) == 0 {
		c.logger.Info("No foods found", zap.String("query", query))
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, query)
	}

	c.logger.Debug("Found foods", zap.String("query", query), zap.Int("count", len(searchResp.Foods)))
	return &searchResp, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
