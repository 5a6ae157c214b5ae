package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/portrait/internal/entity"
)

// Client is the single retrying fetch primitive shared by every network
// call in the module: fixed attempt budget, fixed inter-attempt delay,
// per-call timeout.
type Client struct {
	attempts int
	delay    time.Duration
	httpc    *http.Client
}

func New(attempts int, delay time.Duration) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		attempts: attempts,
		delay:    delay,
		httpc:    &http.Client{},
	}
}

// Fetch GETs url with the given per-attempt timeout, retrying up to the
// attempt budget. A non-2xx status counts as a failed attempt. Returns
// *entity.FetchError once the budget is exhausted.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		data, err := c.fetchOnce(ctx, url, timeout)
		if err == nil {
			return data, nil
		}
		lastErr = err
		logrus.Warnf("fetch %s attempt %d/%d: %v", url, attempt, c.attempts, err)

		if attempt == c.attempts {
			break
		}
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, &entity.FetchError{URL: url, Attempts: attempt, Err: ctx.Err()}
		}
	}
	return nil, &entity.FetchError{URL: url, Attempts: c.attempts, Err: lastErr}
}

func (c *Client) fetchOnce(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
