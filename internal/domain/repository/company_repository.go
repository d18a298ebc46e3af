package repository

import (
	"context"

	"github.com/location-microservice/internal/domain"
)

// CompanyRepository persists curated companies and supports the lookups the
// matcher needs to score offices against them.
type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	List(ctx context.Context, limit, offset int) ([]domain.Company, error)
	Update(ctx context.Context, c *domain.Company) error
	Delete(ctx context.Context, id int64) error

	// UpsertFromCSV inserts a new company, or skips the row and returns the
	// existing company when one with the same normalized name exists.
	UpsertFromCSV(ctx context.Context, row domain.CompanyCSVRow) (domain.UpsertOutcome, *domain.Company, error)

	// ListAllForMatching returns every company with its normalized name and
	// aliases, for in-memory shortlist construction by the matcher.
	ListAllForMatching(ctx context.Context) ([]domain.Company, error)

	Count(ctx context.Context) (int, error)
}
