package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain"
	apperrors "github.com/location-microservice/internal/pkg/errors"
	"github.com/location-microservice/internal/refresh"
	"github.com/location-microservice/internal/usecase/dto"
)

// RefreshUseCase exposes the refresh engine's per-center, single-batch, and
// full-sweep operations to the admin API.
type RefreshUseCase struct {
	engine         *refresh.Engine
	defaultRadiusM int
	logger         *zap.Logger
}

func NewRefreshUseCase(engine *refresh.Engine, defaultRadiusM int, logger *zap.Logger) *RefreshUseCase {
	return &RefreshUseCase{engine: engine, defaultRadiusM: defaultRadiusM, logger: logger}
}

var errInvalidRadius = apperrors.ErrBadRequest.WithMessage("radiusKm must be one of 10, 25, 50, 100")

// RefreshCenter runs a single synchronous refresh for centerID.
func (uc *RefreshUseCase) RefreshCenter(ctx context.Context, centerID int64, req dto.RefreshCenterRequest) (dto.RefreshCountsResponse, error) {
	radiusM := float64(uc.defaultRadiusM)
	if req.RadiusKm != nil {
		if !refresh.ValidRadiusKM[*req.RadiusKm] {
			return dto.RefreshCountsResponse{}, errInvalidRadius
		}
		radiusM = float64(*req.RadiusKm) * 1000
	}

	var maxOffices *int
	if req.MaxOffices != nil {
		clamped := refresh.ClampMaxOffices(*req.MaxOffices)
		maxOffices = &clamped
	}

	counts, err := uc.engine.RefreshOneCenter(ctx, centerID, refresh.CenterOptions{RadiusM: radiusM, MaxOffices: maxOffices})
	if errors.Is(err, refresh.ErrCenterNotFound) {
		return dto.RefreshCountsResponse{}, errCenterNotFound
	}
	if err != nil {
		return dto.RefreshCountsResponse{}, fmt.Errorf("refresh center %d: %w", centerID, err)
	}

	uc.logger.Info("admin refresh center", zap.Int64("center_id", centerID),
		zap.Int("offices_fetched", counts.OfficesFetched), zap.Int("links_upserted", counts.LinksUpserted))

	return toRefreshCountsResponse(counts), nil
}

// RunBatch triggers a single scheduled-refresh batch page.
func (uc *RefreshUseCase) RunBatch(ctx context.Context) (dto.RefreshAllResponse, error) {
	result, err := uc.engine.RunScheduledRefresh(ctx)
	if err != nil {
		return dto.RefreshAllResponse{}, fmt.Errorf("run refresh batch: %w", err)
	}
	return toRefreshAllResponse(result), nil
}

// RunAll triggers a full sweep of every active center.
func (uc *RefreshUseCase) RunAll(ctx context.Context, req dto.RefreshAllRequest) (dto.RefreshAllResponse, error) {
	opts := refresh.RunAllOptions{
		ThrottleMS:       1200,
		BatchSize:        10,
		RadiusM:          float64(uc.defaultRadiusM),
		FullClean:        req.FullClean,
		CenterRetryCount: 3,
		RetryDelayMS:     2000,
	}
	if req.DelayMs != nil {
		opts.ThrottleMS = *req.DelayMs
	}
	if req.BatchSize != nil {
		opts.BatchSize = *req.BatchSize
	}
	if req.RadiusKm != nil {
		if !refresh.ValidRadiusKM[*req.RadiusKm] {
			return dto.RefreshAllResponse{}, errInvalidRadius
		}
		opts.RadiusM = float64(*req.RadiusKm) * 1000
	}
	if req.MaxOffices != nil {
		clamped := refresh.ClampMaxOffices(*req.MaxOffices)
		opts.MaxOffices = &clamped
	}
	if req.CenterRetryCount != nil {
		opts.CenterRetryCount = *req.CenterRetryCount
	}
	if req.RetryDelayMs != nil {
		opts.RetryDelayMS = *req.RetryDelayMs
	}

	result, err := uc.engine.RunRefreshAll(ctx, opts)
	if err != nil {
		return dto.RefreshAllResponse{}, fmt.Errorf("run refresh all: %w", err)
	}

	uc.logger.Info("admin refresh-all completed",
		zap.Int("centers_processed", result.CentersProcessed), zap.Int("centers_failed", result.CentersFailed))

	return toRefreshAllResponse(result), nil
}

func toRefreshCountsResponse(c domain.RefreshCounts) dto.RefreshCountsResponse {
	return dto.RefreshCountsResponse{
		OfficesFetched: c.OfficesFetched, OfficesMatched: c.OfficesMatched,
		OfficesFilteredOutNoCompany: c.OfficesFilteredOutNoCompany, LinksUpserted: c.LinksUpserted,
		PrunedLinks: c.PrunedLinks, WikidataEntitiesFetched: c.WikidataEntitiesFetched,
		WikidataOfficesUpdated: c.WikidataOfficesUpdated,
	}
}

func toRefreshAllResponse(r domain.RefreshAllResult) dto.RefreshAllResponse {
	return dto.RefreshAllResponse{
		RefreshCountsResponse: toRefreshCountsResponse(r.RefreshCounts),
		CentersProcessed:      r.CentersProcessed,
		CentersFailed:         r.CentersFailed,
		OK:                    r.OK,
	}
}
