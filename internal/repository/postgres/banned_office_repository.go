package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
)

type bannedOfficeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewBannedOfficeRepository(db *DB) repository.BannedOfficeRepository {
	return &bannedOfficeRepository{db: db.DB, logger: db.logger}
}

func (r *bannedOfficeRepository) Ban(ctx context.Context, key domain.OfficeKey, approvedFlagID *int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO banned_offices (osm_type, osm_id, approved_flag_id, approved_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (osm_type, osm_id) DO UPDATE SET
			approved_flag_id = EXCLUDED.approved_flag_id,
			approved_at = EXCLUDED.approved_at`,
		key.OSMType, key.OSMID, approvedFlagID,
	)
	if err != nil {
		r.logger.Error("ban office", zap.String("osm_type", string(key.OSMType)), zap.Int64("osm_id", key.OSMID), zap.Error(err))
		return fmt.Errorf("ban office: %w", err)
	}
	return nil
}

func (r *bannedOfficeRepository) IsBanned(ctx context.Context, key domain.OfficeKey) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM banned_offices WHERE osm_type = $1 AND osm_id = $2)`,
		key.OSMType, key.OSMID,
	)
	if err != nil {
		return false, fmt.Errorf("check office banned: %w", err)
	}
	return exists, nil
}

func (r *bannedOfficeRepository) List(ctx context.Context, limit, offset int) ([]domain.BannedOffice, error) {
	var banned []domain.BannedOffice
	err := r.db.SelectContext(ctx, &banned, `
		SELECT * FROM banned_offices ORDER BY approved_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		r.logger.Error("list banned offices", zap.Error(err))
		return nil, fmt.Errorf("list banned offices: %w", err)
	}
	return banned, nil
}
