package domain

import "context"

// SheetStore is the upstream spreadsheet-backed store. Rows come back as
// untyped key/value objects; the app layer owns all shape normalization.
type SheetStore interface {
	// FetchSheet reads all rows of the named sheet. An empty name reads
	// the default (unnamed) sheet.
	FetchSheet(ctx context.Context, sheet string) ([]map[string]any, error)
	// AppendRow adds one row to the named sheet. Never retried: the
	// store offers no idempotency and a retry could duplicate the row.
	AppendRow(ctx context.Context, sheet string, row map[string]any) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
