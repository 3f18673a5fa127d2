package off

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sucrecam/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// maxAttempts bounds the fetch loop: one initial try plus two retries
	maxAttempts = 3

	// initialBackoff is the delay before the first retry; it doubles on each
	// subsequent retry (600ms, 1200ms)
	initialBackoff = 600 * time.Millisecond
)

// Client handles communication with the Open Food Facts product API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Open Food Facts API client
func NewClient(baseURL, userAgent string) *Client {
	// OFF asks unauthenticated clients to stay under 100 req/min
	limiter := rate.NewLimiter(rate.Limit(1.5), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the delay before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return initialBackoff << (attempt - 1)
}

// FetchProduct retrieves a product by canonical identifier via
// GET <base>/<code>.json. Transient failures (429, 5xx, transport errors)
// are retried with exponential backoff; other HTTP errors fail immediately.
// A response with status != 1 or no product body is a not-found.
func (c *Client) FetchProduct(ctx context.Context, code string) (*domain.NutrientRecord, error) {
	reqURL := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(code))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if err := c.waitBackoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return c.parseProduct(code, body)

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			log.Printf("[OFF] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
			if err := c.waitBackoff(ctx, attempt); err != nil {
				return nil, err
			}

		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrProductNotFound

		default:
			// Other 4xx errors are not retryable
			return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
		}
	}

	log.Printf("[OFF] All retries failed for code %s", code)
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	return resp, nil
}

// waitBackoff sleeps before the next retry, honoring context cancellation.
// No delay is consumed after the final attempt.
func (c *Client) waitBackoff(ctx context.Context, attempt int) error {
	if attempt >= maxAttempts {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(exponentialBackoff(attempt)):
		return nil
	}
}

// parseProduct decodes the API body and maps it into the domain record
func (c *Client) parseProduct(code string, body []byte) (*domain.NutrientRecord, error) {
	if c.debug {
		log.Printf("[OFF] Response for %s: %s", code, string(body))
	}

	var payload productResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[OFF] JSON decode error for %s: %v", code, err)
		return nil, fmt.Errorf("%w: malformed response", domain.ErrSourceUnavailable)
	}

	if payload.Status != 1 || payload.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	return mapToNutrientRecord(payload.Product), nil
}
