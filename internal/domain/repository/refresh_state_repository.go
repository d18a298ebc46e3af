package repository

import (
	"context"
	"time"
)

// RefreshStateRepository stores scalar key/value scheduler state, e.g. the
// center_cursor used to resume scheduled batch refresh.
type RefreshStateRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error

	// GetUpdatedAt reports when key was last written, for the admin status
	// endpoint's refresh-recency check.
	GetUpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}
