// internal/adapters/sheetdb/client.go
package sheetdb

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"marzi/internal/adapters/observability"
	"marzi/internal/domain"
)

// Client talks to the sheetdb HTTP API: one base endpoint, a sheet query
// parameter, bearer auth. The token only ever travels in the Authorization
// header, so request URLs are safe to embed in errors and logs.
type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, token string, rps int) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("sheetdb token is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 20 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) sheetURL(sheet string) string {
	if sheet == "" {
		return c.base
	}
	return c.base + "?sheet=" + url.QueryEscape(sheet)
}

// FetchSheet reads every row of the named sheet ("" for the default sheet).
func (c *Client) FetchSheet(ctx context.Context, sheet string) ([]map[string]any, error) {
	var rows []map[string]any
	if err := c.get(ctx, c.sheetURL(sheet), sheet, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// AppendRow posts a single row to the named sheet. Writes are attempted
// exactly once: sheetdb has no idempotency keys, so a retried POST would
// duplicate the row.
func (c *Client) AppendRow(ctx context.Context, sheet string, row map[string]any) error {
	payload := map[string]any{"data": []map[string]any{row}, "sheet": sheet}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	u := c.base
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("sheetdb", "append:"+sheet, 0, time.Since(start))
		return &domain.UpstreamError{URL: u, Message: err.Error()}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("sheetdb", "append:"+sheet, resp.StatusCode, time.Since(start))

	if err := classify(u, resp); err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// ---- Internals ----

// get performs a GET with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After
// when provided.
func (c *Client) get(ctx context.Context, u, sheet string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	endpoint := "fetch:" + sheet
	if sheet == "" {
		endpoint = "fetch:default"
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		c.setHeaders(req)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("sheetdb", endpoint, 0, time.Since(start))
			lastErr = &domain.UpstreamError{URL: u, Message: err.Error()}
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("sheetdb", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return &domain.UpstreamError{URL: u, Status: resp.StatusCode, Message: "decode body: " + err.Error()}
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("GET %s: %w", u, domain.ErrNotFound)

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return fmt.Errorf("GET %s: %w", u, domain.ErrUnauthorized)

		case http.StatusTooManyRequests:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("GET %s: %w", u, domain.ErrRateLimited)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			msg := errBody(resp)
			status := resp.StatusCode
			resp.Body.Close()
			lastErr = &domain.UpstreamError{URL: u, Status: status, Message: msg}
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			msg := errBody(resp)
			status := resp.StatusCode
			resp.Body.Close()
			return &domain.UpstreamError{URL: u, Status: status, Message: msg}
		}
	}

	return lastErr
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "marzi/1.0")
}

// classify maps a write response status to the error taxonomy; nil on 2xx.
func classify(u string, resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("POST %s: %w", u, domain.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("POST %s: %w", u, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("POST %s: %w", u, domain.ErrRateLimited)
	default:
		return &domain.UpstreamError{URL: u, Status: resp.StatusCode, Message: errBody(resp)}
	}
}

// errBody extracts the upstream {"error": "..."} message, falling back to
// a trimmed slice of the raw body.
func errBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(b))
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
