package repository

import (
	"context"
	"time"

	"github.com/location-microservice/internal/domain"
)

// OfficeRepository persists canonical office points and their links to
// centers.
type OfficeRepository interface {
	// UpsertOffice inserts or updates an office keyed by (osm_type, osm_id).
	UpsertOffice(ctx context.Context, o *domain.Office) error

	GetByKey(ctx context.Context, key domain.OfficeKey) (*domain.Office, error)

	// UpsertLink records or refreshes the (center, office) link and its
	// precomputed distance.
	UpsertLink(ctx context.Context, link domain.CenterOfficeLink) error

	// UpsertOfficesAndLinks upserts offices[i] paired with links[i] for every
	// index, chunked into transactions of at most 80 prepared statements
	// (40 offices, since each office contributes an office upsert and a link
	// upsert). Each chunk commits atomically; a mid-chunk error rolls that
	// chunk back and stops, leaving earlier committed chunks in place and
	// returning the count of offices upserted before the failure.
	UpsertOfficesAndLinks(ctx context.Context, offices []domain.Office, links []domain.CenterOfficeLink) (int, error)

	// PruneLinksNotSeenSince removes links for centerID whose key is absent
	// from seenKeys (the offices observed by the current refresh run).
	PruneLinksNotSeenSince(ctx context.Context, centerID int64, seenKeys []domain.OfficeKey) (int, error)

	// PruneStaleLinksOlderThan removes links for centerID whose last_seen
	// predates the cutoff.
	PruneStaleLinksOlderThan(ctx context.Context, centerID int64, cutoff time.Time) (int, error)

	// ListNearCenter returns offices linked to the center, within radiusM,
	// excluding banned offices, with an optional highConfidenceOnly filter
	// and a prefix search over the office name.
	ListNearCenter(ctx context.Context, opts OfficeListOptions) ([]domain.OfficeWithDistance, error)

	// SetWikidataEnrichment applies enrichment fields fetched for the given
	// office, per spec precedence rules.
	SetWikidataEnrichment(ctx context.Context, key domain.OfficeKey, o *domain.Office) error

	// ListWithWikidataID returns offices carrying a wikidata tag, for batch
	// enrichment.
	ListWithWikidataID(ctx context.Context, limit, offset int) ([]domain.Office, error)

	// ListStaleWikidataIDs filters qids down to those whose offices have
	// never been enriched or were last enriched before staleDays ago,
	// capped at maxIDs, to bound per-center enrichment work.
	ListStaleWikidataIDs(ctx context.Context, qids []string, staleDays, maxIDs int) ([]string, error)

	// DeleteByKey removes the offices row and every center_office row for
	// key, as part of deletion-flag approval; returns counts deleted.
	DeleteByKey(ctx context.Context, key domain.OfficeKey) (deletedLinks, deletedOffices int, err error)

	// PurgeAll deletes every center_office and offices row, used by a
	// full-clean refresh.
	PurgeAll(ctx context.Context) error

	IsBanned(ctx context.Context, key domain.OfficeKey) (bool, error)

	// CountOffices reports the total number of offices rows, for the admin
	// status endpoint's exact-counts metrics.
	CountOffices(ctx context.Context) (int, error)

	// CountLinks reports the total number of center_office rows.
	CountLinks(ctx context.Context) (int, error)
}

// OfficeListOptions parameterizes OfficeRepository.ListNearCenter.
type OfficeListOptions struct {
	CenterID           int64
	RadiusM            float64
	Limit              int
	HighConfidenceOnly bool
	Search             string
}

// BannedOfficeRepository tracks offices excluded from the directory by
// approved deletion flags.
type BannedOfficeRepository interface {
	Ban(ctx context.Context, key domain.OfficeKey, approvedFlagID *int64) error
	IsBanned(ctx context.Context, key domain.OfficeKey) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.BannedOffice, error)
}
