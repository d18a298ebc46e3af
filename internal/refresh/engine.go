package refresh

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/matching"
	"github.com/location-microservice/internal/pkg/geo"
)

// Engine composes the Overpass client, the element normalizer, the company
// matcher, the Wikidata client and the persistence layer into the
// per-center refresh pipeline and its batch drivers.
type Engine struct {
	centers   repository.CenterRepository
	offices   repository.OfficeRepository
	companies repository.CompanyRepository
	banned    repository.BannedOfficeRepository
	state     repository.RefreshStateRepository
	cache     repository.CacheRepository
	overpass  repository.OverpassRepository
	wikidata  repository.WikidataRepository

	refreshCfg  config.RefreshConfig
	overpassCfg config.OverpassConfig
	wikidataCfg config.WikidataConfig

	logger *zap.Logger
}

func NewEngine(
	centers repository.CenterRepository,
	offices repository.OfficeRepository,
	companies repository.CompanyRepository,
	banned repository.BannedOfficeRepository,
	state repository.RefreshStateRepository,
	cache repository.CacheRepository,
	overpass repository.OverpassRepository,
	wikidata repository.WikidataRepository,
	refreshCfg config.RefreshConfig,
	overpassCfg config.OverpassConfig,
	wikidataCfg config.WikidataConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		centers: centers, offices: offices, companies: companies, banned: banned,
		state: state, cache: cache, overpass: overpass, wikidata: wikidata,
		refreshCfg: refreshCfg, overpassCfg: overpassCfg, wikidataCfg: wikidataCfg,
		logger: logger,
	}
}

// CenterOptions parameterizes a single refresh_center call.
type CenterOptions struct {
	RadiusM    float64
	MaxOffices *int
}

// loadBatchSnapshot loads the company index and banned set once, to be
// treated as immutable for the duration of a batch.
func (e *Engine) loadBatchSnapshot(ctx context.Context) (*matching.Index, map[domain.OfficeKey]bool, error) {
	companies, err := e.companies.ListAllForMatching(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load batch snapshot: companies: %w", err)
	}
	idx := matching.BuildIndex(companies)

	bannedSet := make(map[domain.OfficeKey]bool)
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		page, err := e.banned.List(ctx, pageSize, offset)
		if err != nil {
			return nil, nil, fmt.Errorf("load batch snapshot: banned offices: %w", err)
		}
		for _, b := range page {
			bannedSet[domain.OfficeKey{OSMType: b.OSMType, OSMID: b.OSMID}] = true
		}
		if len(page) < pageSize {
			break
		}
	}

	return idx, bannedSet, nil
}

// RefreshCenter runs the nine-step pipeline for a single center: fetch,
// normalize, cap, match, ban-filter, upsert, enrich, prune.
func (e *Engine) RefreshCenter(ctx context.Context, center domain.Center, opts CenterOptions, idx *matching.Index, bannedSet map[domain.OfficeKey]bool) (domain.RefreshCounts, error) {
	var counts domain.RefreshCounts

	radiusM := opts.RadiusM
	if radiusM <= 0 {
		radiusM = float64(e.refreshCfg.DefaultRadiusM)
	}

	elements, err := e.overpass.QueryOfficesAround(ctx, center.Lat, center.Lon, radiusM)
	if err != nil {
		return counts, fmt.Errorf("refresh center %d: overpass query: %w", center.ID, err)
	}

	offices := NormalizeElements(elements)
	counts.OfficesFetched = len(offices)

	if opts.MaxOffices != nil && *opts.MaxOffices > 0 && len(offices) > *opts.MaxOffices {
		sort.Slice(offices, func(i, j int) bool {
			di := geo.HaversineMeters(center.Lat, center.Lon, offices[i].Lat, offices[i].Lon)
			dj := geo.HaversineMeters(center.Lat, center.Lon, offices[j].Lat, offices[j].Lon)
			return di < dj
		})
		offices = offices[:*opts.MaxOffices]
	}

	matcher := matching.NewMatcher(idx)
	filterResult := matcher.FilterOfficesWithKnownCompanies(offices)
	counts.OfficesMatched = filterResult.MatchedCount
	counts.OfficesFilteredOutNoCompany = filterResult.FilteredOutCount

	survivors := make([]domain.Office, 0, len(filterResult.Survivors))
	for _, o := range filterResult.Survivors {
		if bannedSet[o.Key()] {
			continue
		}
		survivors = append(survivors, o)
	}

	seenAt := time.Now()
	seenKeys := make([]domain.OfficeKey, 0, len(survivors))
	links := make([]domain.CenterOfficeLink, 0, len(survivors))
	for i := range survivors {
		o := survivors[i]
		distanceM := geo.HaversineMeters(center.Lat, center.Lon, o.Lat, o.Lon)
		links = append(links, domain.CenterOfficeLink{
			CenterID: center.ID, OSMType: o.OSMType, OSMID: o.OSMID, DistanceM: distanceM, LastSeen: seenAt,
		})
		seenKeys = append(seenKeys, o.Key())
	}

	linksUpserted, err := e.offices.UpsertOfficesAndLinks(ctx, survivors, links)
	counts.LinksUpserted = linksUpserted
	if err != nil {
		return counts, fmt.Errorf("refresh center %d: upsert offices and links: %w", center.ID, err)
	}

	if len(survivors) > 0 {
		fetched, updated := e.enrichWikidata(ctx, survivors)
		counts.WikidataEntitiesFetched = fetched
		counts.WikidataOfficesUpdated = updated
	}

	prunedUnseen, err := e.offices.PruneLinksNotSeenSince(ctx, center.ID, seenKeys)
	if err != nil {
		return counts, fmt.Errorf("refresh center %d: prune unseen links: %w", center.ID, err)
	}
	cutoff := seenAt.Add(-time.Duration(e.refreshCfg.StaleLinkDays) * 24 * time.Hour)
	prunedStale, err := e.offices.PruneStaleLinksOlderThan(ctx, center.ID, cutoff)
	if err != nil {
		return counts, fmt.Errorf("refresh center %d: prune stale links: %w", center.ID, err)
	}
	counts.PrunedLinks = prunedUnseen + prunedStale

	if e.cache != nil {
		if err := e.cache.InvalidateCenter(ctx, center.ID); err != nil {
			e.logger.Warn("invalidate center cache", zap.Int64("center_id", center.ID), zap.Error(err))
		}
	}

	return counts, nil
}

// enrichWikidata looks up stale Wikidata entities among survivors' QIDs and
// applies enrichment. Errors are logged and swallowed: enrichment never
// fails the refresh.
func (e *Engine) enrichWikidata(ctx context.Context, survivors []domain.Office) (fetched, updated int) {
	if !e.wikidataCfg.EnrichEnabled || e.wikidata == nil {
		return 0, 0
	}

	byQID := make(map[string][]int)
	qids := make([]string, 0)
	for i, o := range survivors {
		if o.WikidataEntityID == nil {
			continue
		}
		qid := *o.WikidataEntityID
		if _, ok := byQID[qid]; !ok {
			qids = append(qids, qid)
		}
		byQID[qid] = append(byQID[qid], i)
	}
	if len(qids) == 0 {
		return 0, 0
	}

	staleIDs, err := e.offices.ListStaleWikidataIDs(ctx, qids, e.wikidataCfg.StaleDays, e.wikidataCfg.MaxIDsPerCenter)
	if err != nil {
		e.logger.Warn("list stale wikidata ids", zap.Error(err))
		return 0, 0
	}
	if len(staleIDs) == 0 {
		return 0, 0
	}

	if err := sleepContext(ctx, time.Duration(e.wikidataCfg.ThrottleMS)*time.Millisecond); err != nil {
		return 0, 0
	}

	entities, err := e.wikidata.GetEntities(ctx, staleIDs)
	if err != nil {
		e.logger.Warn("wikidata enrichment", zap.Error(err))
		return 0, 0
	}
	fetched = len(entities)

	for qid, entity := range entities {
		entity := entity
		for _, idx := range byQID[qid] {
			o := survivors[idx]
			if entity.EmployeeCount != nil {
				count := int64(math.Round(entity.EmployeeCount.Amount))
				if count < 0 {
					count = 0
				}
				o.EmployeeCount = &count
				o.EmployeeCountAsOf = entity.EmployeeCount.AsOf
			}
			if entity.MarketCap != nil {
				marketCap := entity.MarketCap.Amount
				o.MarketCap = &marketCap
				o.MarketCapCurrencyQID = entity.MarketCap.UnitQID
				o.MarketCapAsOf = entity.MarketCap.AsOf
			}
			if err := e.offices.SetWikidataEnrichment(ctx, o.Key(), &o); err != nil {
				e.logger.Warn("apply wikidata enrichment", zap.String("qid", qid), zap.Error(err))
				continue
			}
			updated++
		}
	}

	return fetched, updated
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ErrCenterNotFound is returned by RefreshOneCenter when the center id does
// not resolve to an active center.
var ErrCenterNotFound = errors.New("refresh: center not found or inactive")

// RefreshOneCenter resolves an active center by id and runs RefreshCenter
// against a snapshot built just for this call, for the synchronous admin
// refresh-center endpoint.
func (e *Engine) RefreshOneCenter(ctx context.Context, centerID int64, opts CenterOptions) (domain.RefreshCounts, error) {
	var counts domain.RefreshCounts

	center, err := e.centers.GetByID(ctx, centerID)
	if err != nil {
		return counts, ErrCenterNotFound
	}
	if !center.IsActive {
		return counts, ErrCenterNotFound
	}

	idx, bannedSet, err := e.loadBatchSnapshot(ctx)
	if err != nil {
		return counts, fmt.Errorf("refresh one center %d: %w", centerID, err)
	}

	return e.RefreshCenter(ctx, *center, opts, idx, bannedSet)
}

// RunScheduledRefresh processes one BATCH_CENTERS_PER_RUN-sized page of
// active centers past the resumable cursor, wrapping the cursor back to the
// start once every center has been seen.
func (e *Engine) RunScheduledRefresh(ctx context.Context) (domain.RefreshAllResult, error) {
	var result domain.RefreshAllResult

	cursorStr, found, err := e.state.Get(ctx, domain.RefreshStateCursorKey)
	if err != nil {
		return result, fmt.Errorf("run scheduled refresh: load cursor: %w", err)
	}
	var cursor int64
	if found {
		cursor, _ = strconv.ParseInt(cursorStr, 10, 64)
	}

	centers, err := e.centers.ListForRefresh(ctx, cursor, e.refreshCfg.BatchCentersPerRun)
	if err != nil {
		return result, fmt.Errorf("run scheduled refresh: list centers: %w", err)
	}
	if len(centers) == 0 {
		if err := e.state.Set(ctx, domain.RefreshStateCursorKey, "0"); err != nil {
			return result, fmt.Errorf("run scheduled refresh: reset cursor: %w", err)
		}
		result.OK = true
		return result, nil
	}

	idx, bannedSet, err := e.loadBatchSnapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("run scheduled refresh: %w", err)
	}

	var lastID int64
	for _, center := range centers {
		counts, err := e.RefreshCenter(ctx, center, CenterOptions{}, idx, bannedSet)
		if err != nil {
			e.logger.Error("scheduled refresh: center failed", zap.Int64("center_id", center.ID), zap.Error(err))
			result.CentersFailed++
		} else {
			result.RefreshCounts.Add(counts)
		}
		result.CentersProcessed++
		lastID = center.ID

		if err := sleepContext(ctx, time.Duration(e.overpassCfg.ThrottleMS)*time.Millisecond); err != nil {
			break
		}
	}

	if err := e.state.Set(ctx, domain.RefreshStateCursorKey, strconv.FormatInt(lastID, 10)); err != nil {
		return result, fmt.Errorf("run scheduled refresh: advance cursor: %w", err)
	}

	result.OK = result.CentersFailed == 0
	return result, nil
}

// RunAllOptions parameterizes run_refresh_all.
type RunAllOptions struct {
	ThrottleMS       int
	BatchSize        int
	RadiusM          float64
	MaxOffices       *int
	FullClean        bool
	CenterRetryCount int
	RetryDelayMS     int
}

// RunRefreshAll sweeps every active center in id order, retrying failures
// per center, optionally wiping all office state first.
func (e *Engine) RunRefreshAll(ctx context.Context, opts RunAllOptions) (domain.RefreshAllResult, error) {
	var result domain.RefreshAllResult

	batchSize := ClampBatchSize(opts.BatchSize)
	throttleMS := ClampThrottleMS(opts.ThrottleMS)
	retryDelayMS := ClampRetryDelayMS(opts.RetryDelayMS)
	retryCount := opts.CenterRetryCount
	if retryCount < 0 {
		retryCount = 0
	}

	if opts.FullClean {
		if err := e.offices.PurgeAll(ctx); err != nil {
			return result, fmt.Errorf("run refresh all: full clean: %w", err)
		}
	}

	idx, bannedSet, err := e.loadBatchSnapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("run refresh all: %w", err)
	}

	var cursor int64
	for {
		centers, err := e.centers.ListForRefresh(ctx, cursor, batchSize)
		if err != nil {
			return result, fmt.Errorf("run refresh all: list centers: %w", err)
		}
		if len(centers) == 0 {
			break
		}

		for _, center := range centers {
			var lastErr error
			for attempt := 0; attempt <= retryCount; attempt++ {
				counts, err := e.RefreshCenter(ctx, center, CenterOptions{RadiusM: opts.RadiusM, MaxOffices: opts.MaxOffices}, idx, bannedSet)
				if err == nil {
					result.RefreshCounts.Add(counts)
					lastErr = nil
					break
				}
				lastErr = err
				if attempt < retryCount {
					if sleepErr := sleepContext(ctx, time.Duration(retryDelayMS)*time.Millisecond); sleepErr != nil {
						lastErr = sleepErr
						break
					}
				}
			}
			if lastErr != nil {
				e.logger.Error("refresh all: center failed", zap.Int64("center_id", center.ID), zap.Error(lastErr))
				result.CentersFailed++
			}
			result.CentersProcessed++

			if err := sleepContext(ctx, time.Duration(throttleMS)*time.Millisecond); err != nil {
				result.OK = result.CentersFailed == 0
				return result, nil
			}
		}

		cursor = centers[len(centers)-1].ID
		if err := e.state.Set(ctx, domain.RefreshStateCursorKey, strconv.FormatInt(cursor, 10)); err != nil {
			return result, fmt.Errorf("run refresh all: advance cursor: %w", err)
		}
	}

	result.OK = result.CentersFailed == 0
	return result, nil
}
