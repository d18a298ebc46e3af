package repository

import (
	"context"

	"github.com/location-microservice/internal/domain"
)

// DeletionFlagRepository persists user-submitted office deletion flags and
// their admin review outcome.
type DeletionFlagRepository interface {
	// Submit creates a pending flag for the (osm_type, osm_id) unless one is
	// already pending, reporting which happened.
	Submit(ctx context.Context, f *domain.OfficeDeletionFlag) (domain.FlagSubmissionOutcome, *domain.OfficeDeletionFlag, error)

	GetByID(ctx context.Context, id int64) (*domain.OfficeDeletionFlag, error)

	// ListByStatus returns flags with the given status, or every flag when
	// status is "all".
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]domain.OfficeDeletionFlag, error)

	// Decide applies an admin decision to a pending flag, reporting the
	// resulting state transition. An approval additionally bans the office
	// and deletes its links/row within the same transaction, reporting the
	// counts deleted.
	Decide(ctx context.Context, id int64, decision domain.FlagDecision) (result domain.FlagDecisionResult, err error)
}
