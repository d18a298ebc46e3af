package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/matching"
	"github.com/location-microservice/internal/usecase/dto"
)

// OfficeUseCase serves the center office listing, clamping radius/limit per
// the read endpoint's contract and enriching each office with its best
// company match, memoizing the assembled response in the cache.
type OfficeUseCase struct {
	centers   repository.CenterRepository
	offices   repository.OfficeRepository
	companies repository.CompanyRepository
	cache     repository.CacheRepository

	defaultRadiusM int
	cacheTTL       time.Duration

	logger *zap.Logger
}

func NewOfficeUseCase(
	centers repository.CenterRepository,
	offices repository.OfficeRepository,
	companies repository.CompanyRepository,
	cache repository.CacheRepository,
	refreshCfg config.RefreshConfig,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *OfficeUseCase {
	return &OfficeUseCase{
		centers: centers, offices: offices, companies: companies, cache: cache,
		defaultRadiusM: refreshCfg.DefaultRadiusM, cacheTTL: cacheTTL, logger: logger,
	}
}

// List resolves the center, clamps the request, and returns the enriched
// office list, serving from cache when available.
func (uc *OfficeUseCase) List(ctx context.Context, req dto.OfficeListRequest) (*dto.OfficeListResponse, error) {
	center, err := uc.centers.GetByID(ctx, req.CenterID)
	if err != nil {
		return nil, errCenterNotFound
	}
	if !center.IsActive {
		return nil, errCenterNotFound
	}

	capKm := float64(uc.defaultRadiusM) / 1000
	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = 25
	}
	if radiusKm > capKm {
		radiusKm = capKm
	}
	if radiusKm < 1 {
		radiusKm = 1
	}

	limit := req.Limit
	if limit > 5000 {
		limit = 5000
	} else if limit < 0 {
		limit = 0
	}

	digest := fmt.Sprintf("r%d-l%d-h%t-s%s", int(radiusKm*1000), limit, req.HighConfidenceOnly, req.Search)
	cacheKey := repository.OfficeListCacheKey(center.ID, digest)

	if uc.cache != nil {
		if cached, found, err := uc.cache.Get(ctx, cacheKey); err == nil && found {
			var resp dto.OfficeListResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	rows, err := uc.offices.ListNearCenter(ctx, repository.OfficeListOptions{
		CenterID:           center.ID,
		RadiusM:            radiusKm * 1000,
		Limit:              limit,
		HighConfidenceOnly: req.HighConfidenceOnly,
		Search:             req.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("list offices for center %d: %w", center.ID, err)
	}

	companies, err := uc.companies.ListAllForMatching(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offices for center %d: load companies: %w", center.ID, err)
	}
	matcher := matching.NewMatcher(matching.BuildIndex(companies))

	resp := dto.OfficeListResponse{
		Center: dto.CenterSummary{
			ID: center.ID, CenterCode: center.CenterCode, Name: center.Name,
			Lat: center.Lat, Lon: center.Lon,
		},
		RadiusKm: radiusKm,
		Offices:  make([]dto.OfficeResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Offices = append(resp.Offices, toOfficeResponse(row, matcher))
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, encoded, uc.cacheTTL); err != nil {
				uc.logger.Warn("cache office list", zap.Int64("center_id", center.ID), zap.Error(err))
			}
		}
	}

	return &resp, nil
}

func toOfficeResponse(row domain.OfficeWithDistance, matcher *matching.Matcher) dto.OfficeResponse {
	office := row.Office
	resp := dto.OfficeResponse{
		OSMType: string(office.OSMType), OSMID: office.OSMID,
		Name: office.Name, Brand: office.Brand, Operator: office.Operator, Website: office.Website,
		Wikidata: office.Wikidata, WikidataEntityID: office.WikidataEntityID,
		EmployeeCount: office.EmployeeCount, EmployeeCountAsOf: office.EmployeeCountAsOf,
		MarketCap: office.MarketCap, MarketCapCurrencyQID: office.MarketCapCurrencyQID, MarketCapAsOf: office.MarketCapAsOf,
		WikidataEnrichedAt: office.WikidataEnrichedAt,
		Lat:                office.Lat, Lon: office.Lon, LowConfidence: office.LowConfidence,
		DistanceM: row.DistanceM,
	}

	if match := matcher.MatchOffice(&office); match != nil {
		companyID := match.CompanyID
		companyName := match.CompanyName
		resp.LinkedCompanyID = &companyID
		resp.LinkedCompanyName = &companyName
	}

	return resp
}
