package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/matching"
	"github.com/location-microservice/internal/pkg/errors"
)

type companyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCompanyRepository(db *DB) repository.CompanyRepository {
	return &companyRepository{db: db.DB, logger: db.logger}
}

func (r *companyRepository) Create(ctx context.Context, c *domain.Company) error {
	c.CompanyNameNormalized = matching.Normalize(c.CompanyName)
	err := r.db.GetContext(ctx, c, `
		INSERT INTO companies (company_name, company_name_normalized, known_aliases, hq_country, description, type, geography, industry, suitability_tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *`,
		c.CompanyName, c.CompanyNameNormalized, c.KnownAliases, c.HQCountry, c.Description, c.Type, c.Geography, c.Industry, c.SuitabilityTier,
	)
	if err != nil {
		r.logger.Error("create company", zap.Error(err))
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	var c domain.Company
	err := r.db.GetContext(ctx, &c, `SELECT * FROM companies WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("get company by id", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get company by id: %w", err)
	}
	return &c, nil
}

func (r *companyRepository) List(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	var companies []domain.Company
	err := r.db.SelectContext(ctx, &companies, `
		SELECT * FROM companies ORDER BY company_name ASC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		r.logger.Error("list companies", zap.Error(err))
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func (r *companyRepository) Update(ctx context.Context, c *domain.Company) error {
	c.CompanyNameNormalized = matching.Normalize(c.CompanyName)
	_, err := r.db.ExecContext(ctx, `
		UPDATE companies SET
			company_name = $1, company_name_normalized = $2, known_aliases = $3,
			hq_country = $4, description = $5, type = $6, geography = $7,
			industry = $8, suitability_tier = $9
		WHERE id = $10`,
		c.CompanyName, c.CompanyNameNormalized, c.KnownAliases, c.HQCountry, c.Description,
		c.Type, c.Geography, c.Industry, c.SuitabilityTier, c.ID,
	)
	if err != nil {
		r.logger.Error("update company", zap.Int64("id", c.ID), zap.Error(err))
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

func (r *companyRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id); err != nil {
		r.logger.Error("delete company", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// UpsertFromCSV inserts unless a row with the same company_name_normalized
// already exists.
func (r *companyRepository) UpsertFromCSV(ctx context.Context, row domain.CompanyCSVRow) (domain.UpsertOutcome, *domain.Company, error) {
	normalized := matching.Normalize(row.CompanyName)

	var c domain.Company
	err := r.db.GetContext(ctx, &c, `
		INSERT INTO companies (company_name, company_name_normalized, known_aliases, hq_country, description, type, geography, industry, suitability_tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_name_normalized) DO NOTHING
		RETURNING *`,
		row.CompanyName, normalized, row.KnownAliases, row.HQCountry, row.Description, row.Type, row.Geography, row.Industry, row.SuitabilityTier,
	)
	if err == sql.ErrNoRows {
		var existing domain.Company
		if getErr := r.db.GetContext(ctx, &existing, `SELECT * FROM companies WHERE company_name_normalized = $1`, normalized); getErr != nil {
			return "", nil, fmt.Errorf("insert company from csv: lookup skipped row: %w", getErr)
		}
		return domain.OutcomeSkipped, &existing, nil
	}
	if err != nil {
		r.logger.Error("insert company from csv", zap.String("company_name", row.CompanyName), zap.Error(err))
		return "", nil, fmt.Errorf("insert company from csv: %w", err)
	}

	return domain.OutcomeInserted, &c, nil
}

func (r *companyRepository) ListAllForMatching(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	if err := r.db.SelectContext(ctx, &companies, `SELECT * FROM companies`); err != nil {
		r.logger.Error("list companies for matching", zap.Error(err))
		return nil, fmt.Errorf("list companies for matching: %w", err)
	}
	return companies, nil
}

func (r *companyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM companies`); err != nil {
		r.logger.Error("count companies", zap.Error(err))
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}
