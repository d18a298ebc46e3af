package repository

import (
	"context"

	"github.com/location-microservice/internal/domain"
)

// CenterListFilter narrows a center listing by tier and active status.
type CenterListFilter struct {
	Tier       *string
	ActiveOnly bool
}

// CenterRepository persists and retrieves Center rows.
type CenterRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Center, error)
	GetByCode(ctx context.Context, code string) (*domain.Center, error)

	// List returns centers matching the filter, ordered by name.
	List(ctx context.Context, filter CenterListFilter) ([]domain.Center, error)

	// UpsertFromCSV inserts a new center or updates an existing one matched
	// by center_code, forcing is_active=true and stamping syncToken,
	// reporting which action was taken.
	UpsertFromCSV(ctx context.Context, row domain.CenterCSVRow, syncToken string) (domain.UpsertOutcome, *domain.Center, error)

	// DisableMissingFromSync sets is_active=false on every active center
	// whose last_csv_sync_token does not match syncToken, returning the
	// count disabled.
	DisableMissingFromSync(ctx context.Context, syncToken string) (int, error)

	// ListForRefresh returns active centers ordered by id, for scheduled
	// batch refresh, starting strictly after afterID.
	ListForRefresh(ctx context.Context, afterID int64, limit int) ([]domain.Center, error)

	Count(ctx context.Context, activeOnly bool) (int, error)
}
