package domain

import (
	"errors"
	"fmt"
)

// Upstream error taxonomy. The sheet client wraps these with the requested
// URL so callers can classify with errors.Is while logs stay diagnostic.
// The bearer token travels in a header and must never appear in any of
// these messages.
var (
	ErrNotFound     = errors.New("sheetdb: not found")
	ErrRateLimited  = errors.New("sheetdb: rate limited")
	ErrUnauthorized = errors.New("sheetdb: unauthorized")
)

// UpstreamError covers any other non-success answer from the sheet store:
// unexpected status codes, malformed bodies, transport failures after
// retries. Message carries the upstream-reported error text when present.
type UpstreamError struct {
	URL     string
	Status  int // 0 when the failure happened before a response arrived
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("sheetdb: %s: %s", e.URL, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("sheetdb: %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("sheetdb: %s: status %d: %s", e.URL, e.Status, e.Message)
}
