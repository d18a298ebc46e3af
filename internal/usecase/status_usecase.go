package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/usecase/dto"
)

// StatusUseCase assembles the admin health/metrics snapshot.
type StatusUseCase struct {
	centers repository.CenterRepository
	offices repository.OfficeRepository
	state   repository.RefreshStateRepository

	healthMaxAgeMinutes int

	logger *zap.Logger
}

func NewStatusUseCase(
	centers repository.CenterRepository,
	offices repository.OfficeRepository,
	state repository.RefreshStateRepository,
	refreshCfg config.RefreshConfig,
	logger *zap.Logger,
) *StatusUseCase {
	return &StatusUseCase{
		centers: centers, offices: offices, state: state,
		healthMaxAgeMinutes: refreshCfg.HealthMaxAgeMinutes, logger: logger,
	}
}

// Get reports the checks, thresholds, refresh recency, and (optionally) the
// exact row-count metrics of the admin status endpoint.
func (uc *StatusUseCase) Get(ctx context.Context, req dto.StatusRequest) (dto.StatusResponse, error) {
	now := time.Now()
	resp := dto.StatusResponse{
		GeneratedAt: now,
		Thresholds:  dto.StatusThresholds{MaxRefreshAgeMinutes: uc.healthMaxAgeMinutes},
	}

	activeCenters, err := uc.centers.Count(ctx, true)
	if err != nil {
		uc.logger.Warn("status: count active centers", zap.Error(err))
	}
	totalCenters, err := uc.centers.Count(ctx, false)
	if err != nil {
		uc.logger.Warn("status: count centers", zap.Error(err))
	}
	resp.Metrics.CentersTotal = totalCenters
	resp.Metrics.ActiveCenters = activeCenters
	resp.Checks.ActiveCentersAtLeastOne = activeCenters > 0

	if req.IncludeCounts {
		resp.Metrics.ExactCounts = true
		if officesTotal, err := uc.offices.CountOffices(ctx); err == nil {
			resp.Metrics.OfficesTotal = &officesTotal
		} else {
			uc.logger.Warn("status: count offices", zap.Error(err))
		}
		if linksTotal, err := uc.offices.CountLinks(ctx); err == nil {
			resp.Metrics.CenterOfficeLinksTotal = &linksTotal
		} else {
			uc.logger.Warn("status: count links", zap.Error(err))
		}
	}

	cursor, found, err := uc.state.Get(ctx, domain.RefreshStateCursorKey)
	if err != nil {
		uc.logger.Warn("status: read cursor", zap.Error(err))
	}
	resp.Checks.RefreshStatePresent = found
	resp.Refresh.Cursor = cursor

	if updatedAt, present, err := uc.state.GetUpdatedAt(ctx, domain.RefreshStateCursorKey); err == nil && present {
		resp.Refresh.UpdatedAt = &updatedAt
		ageMinutes := now.Sub(updatedAt).Minutes()
		resp.Refresh.AgeMinutes = &ageMinutes
		resp.Checks.RefreshRecentEnough = ageMinutes <= float64(uc.healthMaxAgeMinutes)
	} else if err != nil {
		uc.logger.Warn("status: read cursor updated_at", zap.Error(err))
	}

	resp.OK = resp.Checks.ActiveCentersAtLeastOne && resp.Checks.RefreshStatePresent && resp.Checks.RefreshRecentEnough

	return resp, nil
}
