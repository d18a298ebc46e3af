package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain/repository"
)

type refreshStateRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRefreshStateRepository(db *DB) repository.RefreshStateRepository {
	return &refreshStateRepository{db: db.DB, logger: db.logger}
}

func (r *refreshStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM refresh_state WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("get refresh state", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("get refresh state: %w", err)
	}
	return value, true, nil
}

func (r *refreshStateRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_state (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		r.logger.Error("set refresh state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("set refresh state: %w", err)
	}
	return nil
}

func (r *refreshStateRepository) GetUpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var updatedAt time.Time
	err := r.db.GetContext(ctx, &updatedAt, `SELECT updated_at FROM refresh_state WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		r.logger.Error("get refresh state timestamp", zap.String("key", key), zap.Error(err))
		return time.Time{}, false, fmt.Errorf("get refresh state timestamp: %w", err)
	}
	return updatedAt, true, nil
}
