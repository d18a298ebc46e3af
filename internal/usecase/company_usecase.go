package usecase

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/csvimport"
	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/usecase/dto"
)

// CompanyUseCase ingests the companies CSV upload, inserting new companies
// and skipping existing ones by normalized name.
type CompanyUseCase struct {
	companies repository.CompanyRepository
	logger    *zap.Logger
}

func NewCompanyUseCase(companies repository.CompanyRepository, logger *zap.Logger) *CompanyUseCase {
	return &CompanyUseCase{companies: companies, logger: logger}
}

func (uc *CompanyUseCase) UploadCSV(ctx context.Context, r io.Reader) (dto.CompaniesUploadResponse, error) {
	parsed, err := csvimport.ParseCompanies(r)
	if err != nil {
		return dto.CompaniesUploadResponse{}, err
	}
	if len(parsed.Rows) == 0 && len(parsed.Issues) > 0 {
		return dto.CompaniesUploadResponse{Issues: toCSVIssues(parsed.Issues)}, errNoAcceptableRows
	}

	var resp dto.CompaniesUploadResponse
	for _, row := range parsed.Rows {
		outcome, _, err := uc.companies.UpsertFromCSV(ctx, row)
		if err != nil {
			return dto.CompaniesUploadResponse{}, fmt.Errorf("upload companies csv: upsert %s: %w", row.CompanyName, err)
		}
		switch outcome {
		case domain.OutcomeInserted:
			resp.Inserted++
		case domain.OutcomeUpdated, domain.OutcomeSkipped:
			resp.Updated++
		}
	}
	resp.Issues = toCSVIssues(parsed.Issues)

	uc.logger.Info("companies csv uploaded", zap.Int("inserted", resp.Inserted), zap.Int("skipped", resp.Updated))

	return resp, nil
}
