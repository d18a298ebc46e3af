package overpass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	urls       []string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Config configures the Overpass client.
type Config struct {
	URLs           []string
	RequestTimeout time.Duration
}

// NewClient builds an OverpassRepository that tries Config.URLs in order,
// starting from the first on every query, with the attempt/backoff policy of
// a cancer-center refresh run. One rate limiter is shared by all URLs.
func NewClient(cfg Config, logger *zap.Logger) repository.OverpassRepository {
	return &client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		urls:       cfg.URLs,
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
		logger:     logger,
	}
}

type overpassResponse struct {
	Elements []domain.OverpassElement `json:"elements"`
}

const maxAttemptsPerURL = 3

// QueryOfficesAround builds the radius query and POSTs it to each
// configured URL in turn, retrying each URL up to maxAttemptsPerURL times
// on 429/5xx/network error before moving to the next URL.
func (c *client) QueryOfficesAround(ctx context.Context, lat, lon, radiusM float64) ([]domain.OverpassElement, error) {
	query := buildQuery(lat, lon, radiusM)

	var lastErr error
	for _, url := range c.urls {
		for attempt := 1; attempt <= maxAttemptsPerURL; attempt++ {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}

			elements, retryable, err := c.postOnce(ctx, url, query)
			if err == nil {
				return elements, nil
			}

			lastErr = err
			c.logger.Warn("overpass request failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))

			if !retryable {
				break
			}

			if err := sleepContext(ctx, time.Duration(400*attempt)*time.Millisecond); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("overpass: all endpoints exhausted: %w", lastErr)
}

// postOnce issues a single attempt. retryable is true for network errors
// and HTTP 429/5xx, per the component's retry policy.
func (c *client) postOnce(ctx context.Context, url, query string) ([]domain.OverpassElement, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(query))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var parsed overpassResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, false, fmt.Errorf("overpass: decode response: %w", err)
		}
		return parsed.Elements, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return nil, true, fmt.Errorf("overpass: status %d: %s", resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("overpass: status %d: %s", resp.StatusCode, string(body))
	}
}

func buildQuery(lat, lon, radiusM float64) string {
	return fmt.Sprintf(
		"[out:json][timeout:25];\n( nwr(around:%d,%f,%f)[\"office\"];\n  nwr(around:%d,%f,%f)[\"building\"=\"office\"]; );\nout center tags;",
		int64(radiusM), lat, lon, int64(radiusM), lat, lon,
	)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
