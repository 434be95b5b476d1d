package requests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
)

// How many extra attempts a request gets on network failures.
const maxNetworkRetries = 2

// HTTPError is a non-retryable API failure, carrying the status code and
// body so skips can be announced with enough context for a manual re-run.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API returned status code %d: %s", e.Status, e.Body)
}

// Client does authenticated requests to the Riot API.
// It holds no per-request state; the limiter is shared across all callers.
type Client struct {
	apiKey  string
	limiter *RateLimiter
	http    *http.Client
}

// Create a instance of the client.
func CreateClient(apiKey string, limiter *RateLimiter, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		limiter: limiter,
		http:    &http.Client{Timeout: timeout},
	}
}

// Get does a authenticated GET against the given url.
// Network failures are retried under a bounded backoff. A 429 is retried
// exactly once after the limiter's pause; a second 429 comes back as a
// *HTTPError so a misbehaving endpoint can't cause a retry storm.
func (c *Client) Get(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	c.limiter.Wait()

	body, status, retryAfter, err := c.do(ctx, url, params)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		c.limiter.Backoff(retryAfter)
		c.limiter.Wait()

		body, status, _, err = c.do(ctx, url, params)
		if err != nil {
			return nil, err
		}
	}

	if status >= http.StatusBadRequest {
		return nil, &HTTPError{Status: status, Body: string(body)}
	}

	return body, nil
}

// Run the request itself, retrying network failures.
func (c *Client) do(ctx context.Context, url string, params map[string]string) (body []byte, status int, retryAfter time.Duration, err error) {
	backoff := retry.WithMaxRetries(maxNetworkRetries, retry.NewExponential(time.Second))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			return reqErr
		}

		// Add the token from the environment.
		req.Header.Set("X-Riot-Token", c.apiKey)

		query := req.URL.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		req.URL.RawQuery = query.Encode()

		resp, doErr := c.http.Do(req)
		if doErr != nil {
			// Connection failures and timeouts are worth another attempt.
			return retry.RetryableError(fmt.Errorf("API request failed: %w", doErr))
		}
		defer resp.Body.Close()

		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return retry.RetryableError(fmt.Errorf("failed to read API response: %w", readErr))
		}

		body = raw
		status = resp.StatusCode
		retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil
	})

	return body, status, retryAfter, err
}

// Parse the Retry-After header, in seconds.
// Zero means the header was absent or unreadable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
