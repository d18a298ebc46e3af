package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/pkg/errors"
)

type deletionFlagRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDeletionFlagRepository(db *DB) repository.DeletionFlagRepository {
	return &deletionFlagRepository{db: db.DB, logger: db.logger}
}

// Submit implements the flag submission state machine: banned takes
// precedence over an existing pending flag, which takes precedence over
// inserting a new one.
func (r *deletionFlagRepository) Submit(ctx context.Context, f *domain.OfficeDeletionFlag) (domain.FlagSubmissionOutcome, *domain.OfficeDeletionFlag, error) {
	var banned bool
	if err := r.db.GetContext(ctx, &banned, `
		SELECT EXISTS(SELECT 1 FROM banned_offices WHERE osm_type = $1 AND osm_id = $2)`,
		f.OSMType, f.OSMID,
	); err != nil {
		return "", nil, fmt.Errorf("submit deletion flag: check banned: %w", err)
	}
	if banned {
		return domain.SubmissionAlreadyBanned, nil, nil
	}

	var existing domain.OfficeDeletionFlag
	err := r.db.GetContext(ctx, &existing, `
		SELECT * FROM office_deletion_flags
		WHERE osm_type = $1 AND osm_id = $2 AND status = 'pending'`,
		f.OSMType, f.OSMID,
	)
	if err == nil {
		return domain.SubmissionAlreadyPending, &existing, nil
	}
	if err != sql.ErrNoRows {
		return "", nil, fmt.Errorf("submit deletion flag: check pending: %w", err)
	}

	var created domain.OfficeDeletionFlag
	err = r.db.GetContext(ctx, &created, `
		INSERT INTO office_deletion_flags (center_id, osm_type, osm_id, reason, status, submitted_at)
		VALUES ($1, $2, $3, $4, 'pending', now())
		RETURNING *`,
		f.CenterID, f.OSMType, f.OSMID, f.Reason,
	)
	if err != nil {
		r.logger.Error("submit deletion flag", zap.Error(err))
		return "", nil, fmt.Errorf("submit deletion flag: %w", err)
	}
	return domain.SubmissionCreated, &created, nil
}

func (r *deletionFlagRepository) GetByID(ctx context.Context, id int64) (*domain.OfficeDeletionFlag, error) {
	var f domain.OfficeDeletionFlag
	err := r.db.GetContext(ctx, &f, `SELECT * FROM office_deletion_flags WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("get deletion flag by id", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get deletion flag by id: %w", err)
	}
	return &f, nil
}

// ListByStatus lists flags in submitted_at order, filtered to status unless
// status is "all".
func (r *deletionFlagRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]domain.OfficeDeletionFlag, error) {
	var flags []domain.OfficeDeletionFlag
	var err error
	if status == "all" {
		err = r.db.SelectContext(ctx, &flags, `
			SELECT * FROM office_deletion_flags
			ORDER BY submitted_at ASC
			LIMIT $1 OFFSET $2`,
			limit, offset,
		)
	} else {
		err = r.db.SelectContext(ctx, &flags, `
			SELECT * FROM office_deletion_flags
			WHERE status = $1
			ORDER BY submitted_at ASC
			LIMIT $2 OFFSET $3`,
			status, limit, offset,
		)
	}
	if err != nil {
		r.logger.Error("list deletion flags by status", zap.String("status", status), zap.Error(err))
		return nil, fmt.Errorf("list deletion flags by status: %w", err)
	}
	return flags, nil
}

// Decide applies the full flag decision transition table, including the
// office ban and deletion an approval triggers, inside a single
// transaction.
func (r *deletionFlagRepository) Decide(ctx context.Context, id int64, decision domain.FlagDecision) (domain.FlagDecisionResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: begin tx: %w", err)
	}
	defer tx.Rollback()

	var f domain.OfficeDeletionFlag
	err = tx.GetContext(ctx, &f, `SELECT * FROM office_deletion_flags WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return domain.FlagDecisionResult{Outcome: domain.DecisionOutcomeNotFound}, nil
	}
	if err != nil {
		return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: lookup: %w", err)
	}

	switch f.Status {
	case domain.FlagStatusApproved:
		return domain.FlagDecisionResult{Outcome: domain.DecisionOutcomeAlreadyApproved, Flag: &f}, nil
	case domain.FlagStatusRejected:
		if decision == domain.DecisionReject {
			return domain.FlagDecisionResult{Outcome: domain.DecisionOutcomeAlreadyRejected, Flag: &f}, nil
		}
		// rejected -> approved is allowed; fall through.
	}

	if decision == domain.DecisionReject {
		var rejected domain.OfficeDeletionFlag
		if err := tx.GetContext(ctx, &rejected, `
			UPDATE office_deletion_flags SET status = 'rejected', reviewed_at = now()
			WHERE id = $1 RETURNING *`, id,
		); err != nil {
			return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: reject: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: commit: %w", err)
		}
		return domain.FlagDecisionResult{Outcome: domain.DecisionOutcomeRejected, Flag: &rejected}, nil
	}

	var approved domain.OfficeDeletionFlag
	if err := tx.GetContext(ctx, &approved, `
		UPDATE office_deletion_flags SET status = 'approved', reviewed_at = now()
		WHERE id = $1 RETURNING *`, id,
	); err != nil {
		return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: approve: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO banned_offices (osm_type, osm_id, approved_flag_id, approved_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (osm_type, osm_id) DO UPDATE SET
			approved_flag_id = EXCLUDED.approved_flag_id,
			approved_at = EXCLUDED.approved_at`,
		f.OSMType, f.OSMID, id,
	); err != nil {
		return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: ban office: %w", err)
	}

	linkRes, err := tx.ExecContext(ctx, `DELETE FROM center_office WHERE osm_type = $1 AND osm_id = $2`, f.OSMType, f.OSMID)
	if err != nil {
		return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: delete links: %w", err)
	}
	deletedLinks, _ := linkRes.RowsAffected()

	officeRes, err := tx.ExecContext(ctx, `DELETE FROM offices WHERE osm_type = $1 AND osm_id = $2`, f.OSMType, f.OSMID)
	if err != nil {
		return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: delete office: %w", err)
	}
	deletedOffices, _ := officeRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return domain.FlagDecisionResult{}, fmt.Errorf("decide deletion flag: commit: %w", err)
	}

	return domain.FlagDecisionResult{
		Outcome:        domain.DecisionOutcomeApproved,
		Flag:           &approved,
		DeletedLinks:   int(deletedLinks),
		DeletedOffices: int(deletedOffices),
	}, nil
}
