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

type centerRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCenterRepository(db *DB) repository.CenterRepository {
	return &centerRepository{db: db.DB, logger: db.logger}
}

func (r *centerRepository) GetByID(ctx context.Context, id int64) (*domain.Center, error) {
	var c domain.Center
	err := r.db.GetContext(ctx, &c, `SELECT * FROM centers WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("get center by id", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get center by id: %w", err)
	}
	return &c, nil
}

func (r *centerRepository) GetByCode(ctx context.Context, code string) (*domain.Center, error) {
	var c domain.Center
	err := r.db.GetContext(ctx, &c, `SELECT * FROM centers WHERE center_code = $1`, code)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("get center by code", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("get center by code: %w", err)
	}
	return &c, nil
}

func (r *centerRepository) List(ctx context.Context, filter repository.CenterListFilter) ([]domain.Center, error) {
	query := `SELECT * FROM centers WHERE 1=1`
	args := []interface{}{}

	if filter.ActiveOnly {
		query += ` AND is_active = true`
	}
	if filter.Tier != nil {
		args = append(args, *filter.Tier)
		query += fmt.Sprintf(` AND tier = $%d`, len(args))
	}
	query += ` ORDER BY name ASC`

	var centers []domain.Center
	if err := r.db.SelectContext(ctx, &centers, query, args...); err != nil {
		r.logger.Error("list centers", zap.Error(err))
		return nil, fmt.Errorf("list centers: %w", err)
	}
	return centers, nil
}

func (r *centerRepository) UpsertFromCSV(ctx context.Context, row domain.CenterCSVRow, syncToken string) (domain.UpsertOutcome, *domain.Center, error) {
	var existingID int64
	err := r.db.GetContext(ctx, &existingID, `SELECT id FROM centers WHERE center_code = $1`, row.CenterCode)

	outcome := domain.OutcomeInserted
	if err == nil {
		outcome = domain.OutcomeUpdated
	} else if err != sql.ErrNoRows {
		return "", nil, fmt.Errorf("upsert center: lookup: %w", err)
	}

	var c domain.Center
	err = r.db.GetContext(ctx, &c, `
		INSERT INTO centers (center_code, name, tier, lat, lon, country, region, source_url, is_active, last_csv_sync_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9, now(), now())
		ON CONFLICT (center_code) DO UPDATE SET
			name = EXCLUDED.name,
			tier = EXCLUDED.tier,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			country = EXCLUDED.country,
			region = EXCLUDED.region,
			source_url = EXCLUDED.source_url,
			is_active = true,
			last_csv_sync_token = EXCLUDED.last_csv_sync_token,
			updated_at = now()
		RETURNING *`,
		row.CenterCode, row.Name, row.Tier, row.Lat, row.Lon, row.Country, row.Region, row.SourceURL, syncToken,
	)
	if err != nil {
		r.logger.Error("upsert center from csv", zap.String("center_code", row.CenterCode), zap.Error(err))
		return "", nil, fmt.Errorf("upsert center from csv: %w", err)
	}

	return outcome, &c, nil
}

func (r *centerRepository) DisableMissingFromSync(ctx context.Context, syncToken string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE centers
		SET is_active = false, updated_at = now()
		WHERE is_active = true AND (last_csv_sync_token IS NULL OR last_csv_sync_token != $1)`,
		syncToken,
	)
	if err != nil {
		r.logger.Error("disable centers missing from sync", zap.Error(err))
		return 0, fmt.Errorf("disable centers missing from sync: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("disable centers missing from sync: rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *centerRepository) ListForRefresh(ctx context.Context, afterID int64, limit int) ([]domain.Center, error) {
	var centers []domain.Center
	err := r.db.SelectContext(ctx, &centers, `
		SELECT * FROM centers
		WHERE is_active = true AND id > $1
		ORDER BY id ASC
		LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		r.logger.Error("list centers for refresh", zap.Error(err))
		return nil, fmt.Errorf("list centers for refresh: %w", err)
	}
	return centers, nil
}

func (r *centerRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM centers`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		r.logger.Error("count centers", zap.Error(err))
		return 0, fmt.Errorf("count centers: %w", err)
	}
	return count, nil
}
