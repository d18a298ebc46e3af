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

// CenterUseCase lists curated centers and ingests the centers CSV upload.
type CenterUseCase struct {
	centers repository.CenterRepository
	logger  *zap.Logger
}

func NewCenterUseCase(centers repository.CenterRepository, logger *zap.Logger) *CenterUseCase {
	return &CenterUseCase{centers: centers, logger: logger}
}

// List returns centers matching the tier/activeOnly filter.
func (uc *CenterUseCase) List(ctx context.Context, req dto.CenterListRequest) ([]dto.CenterResponse, error) {
	var tier *string
	if req.Tier != "" {
		tier = &req.Tier
	}

	centers, err := uc.centers.List(ctx, repository.CenterListFilter{Tier: tier, ActiveOnly: req.ActiveOnly})
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}

	out := make([]dto.CenterResponse, 0, len(centers))
	for _, c := range centers {
		out = append(out, dto.CenterResponse{
			ID: c.ID, CenterCode: c.CenterCode, Name: c.Name, Tier: c.Tier,
			Lat: c.Lat, Lon: c.Lon, Country: c.Country, Region: c.Region,
		})
	}
	return out, nil
}

// GetActiveByID fetches a center, requiring it be active, for endpoints that
// operate against a center's office list.
func (uc *CenterUseCase) GetActiveByID(ctx context.Context, id int64) (*domain.Center, error) {
	center, err := uc.centers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !center.IsActive {
		return nil, nil
	}
	return center, nil
}

// UploadCSV parses and upserts a centers CSV upload, disabling every active
// center not present in the new file, under a single fresh sync token.
func (uc *CenterUseCase) UploadCSV(ctx context.Context, r io.Reader, syncToken string) (dto.CentersUploadResponse, error) {
	parsed, err := csvimport.ParseCenters(r)
	if err != nil {
		return dto.CentersUploadResponse{}, err
	}
	if len(parsed.Rows) == 0 {
		return dto.CentersUploadResponse{Issues: toCSVIssues(parsed.Issues)}, errNoAcceptableRows
	}

	var resp dto.CentersUploadResponse
	for _, row := range parsed.Rows {
		outcome, _, err := uc.centers.UpsertFromCSV(ctx, row, syncToken)
		if err != nil {
			return dto.CentersUploadResponse{}, fmt.Errorf("upload centers csv: upsert %s: %w", row.CenterCode, err)
		}
		switch outcome {
		case domain.OutcomeInserted:
			resp.Inserted++
		case domain.OutcomeUpdated:
			resp.Updated++
		}
	}

	disabled, err := uc.centers.DisableMissingFromSync(ctx, syncToken)
	if err != nil {
		return dto.CentersUploadResponse{}, fmt.Errorf("upload centers csv: disable missing: %w", err)
	}
	resp.Disabled = disabled
	resp.Issues = toCSVIssues(parsed.Issues)

	uc.logger.Info("centers csv uploaded",
		zap.Int("inserted", resp.Inserted), zap.Int("updated", resp.Updated),
		zap.Int("disabled", resp.Disabled), zap.Int("issues", len(resp.Issues)))

	return resp, nil
}

func toCSVIssues(issues []csvimport.Issue) []dto.CSVUploadIssue {
	out := make([]dto.CSVUploadIssue, 0, len(issues))
	for _, i := range issues {
		out = append(out, dto.CSVUploadIssue{Row: i.Row, Reason: i.Reason})
	}
	return out
}
