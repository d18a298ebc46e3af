package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/pkg/errors"
	"github.com/location-microservice/internal/pkg/geo"
)

type officeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewOfficeRepository(db *DB) repository.OfficeRepository {
	return &officeRepository{db: db.DB, logger: db.logger}
}

func (r *officeRepository) UpsertOffice(ctx context.Context, o *domain.Office) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO offices (osm_type, osm_id, name, brand, operator, website, wikidata, wikidata_entity_id, lat, lon, low_confidence, tags_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (osm_type, osm_id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			operator = EXCLUDED.operator,
			website = EXCLUDED.website,
			wikidata = EXCLUDED.wikidata,
			wikidata_entity_id = EXCLUDED.wikidata_entity_id,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			low_confidence = EXCLUDED.low_confidence,
			tags_json = EXCLUDED.tags_json,
			updated_at = now()`,
		o.OSMType, o.OSMID, o.Name, o.Brand, o.Operator, o.Website, o.Wikidata, o.WikidataEntityID, o.Lat, o.Lon, o.LowConfidence, o.TagsJSON,
	)
	if err != nil {
		r.logger.Error("upsert office", zap.String("osm_type", string(o.OSMType)), zap.Int64("osm_id", o.OSMID), zap.Error(err))
		return fmt.Errorf("upsert office: %w", err)
	}
	return nil
}

// upsertBatchOffices bounds each transaction to 80 prepared statements: an
// office upsert and a link upsert per office.
const upsertBatchOffices = 40

// UpsertOfficesAndLinks upserts offices[i] paired with links[i] in chunks of
// upsertBatchOffices, each chunk inside its own transaction so a mid-chunk
// failure rolls back that chunk instead of leaving a partial write.
func (r *officeRepository) UpsertOfficesAndLinks(ctx context.Context, offices []domain.Office, links []domain.CenterOfficeLink) (int, error) {
	if len(offices) != len(links) {
		return 0, fmt.Errorf("upsert offices and links: mismatched offices (%d) and links (%d)", len(offices), len(links))
	}

	var upserted int
	for start := 0; start < len(offices); start += upsertBatchOffices {
		end := start + upsertBatchOffices
		if end > len(offices) {
			end = len(offices)
		}
		n, err := r.upsertOfficesAndLinksChunk(ctx, offices[start:end], links[start:end])
		upserted += n
		if err != nil {
			return upserted, err
		}
	}
	return upserted, nil
}

func (r *officeRepository) upsertOfficesAndLinksChunk(ctx context.Context, offices []domain.Office, links []domain.CenterOfficeLink) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("upsert offices and links: begin tx: %w", err)
	}
	defer tx.Rollback()

	officeStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO offices (osm_type, osm_id, name, brand, operator, website, wikidata, wikidata_entity_id, lat, lon, low_confidence, tags_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (osm_type, osm_id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			operator = EXCLUDED.operator,
			website = EXCLUDED.website,
			wikidata = EXCLUDED.wikidata,
			wikidata_entity_id = EXCLUDED.wikidata_entity_id,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			low_confidence = EXCLUDED.low_confidence,
			tags_json = EXCLUDED.tags_json,
			updated_at = now()`)
	if err != nil {
		return 0, fmt.Errorf("upsert offices and links: prepare office upsert: %w", err)
	}
	defer officeStmt.Close()

	linkStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO center_office (center_id, osm_type, osm_id, distance_m, last_seen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (center_id, osm_type, osm_id) DO UPDATE SET
			distance_m = EXCLUDED.distance_m,
			last_seen = EXCLUDED.last_seen`)
	if err != nil {
		return 0, fmt.Errorf("upsert offices and links: prepare link upsert: %w", err)
	}
	defer linkStmt.Close()

	for i := range offices {
		o := offices[i]
		if _, err := officeStmt.ExecContext(ctx,
			o.OSMType, o.OSMID, o.Name, o.Brand, o.Operator, o.Website, o.Wikidata, o.WikidataEntityID, o.Lat, o.Lon, o.LowConfidence, o.TagsJSON,
		); err != nil {
			r.logger.Error("upsert office", zap.String("osm_type", string(o.OSMType)), zap.Int64("osm_id", o.OSMID), zap.Error(err))
			return 0, fmt.Errorf("upsert offices and links: upsert office: %w", err)
		}

		link := links[i]
		if _, err := linkStmt.ExecContext(ctx,
			link.CenterID, link.OSMType, link.OSMID, link.DistanceM, link.LastSeen,
		); err != nil {
			r.logger.Error("upsert center office link", zap.Int64("center_id", link.CenterID), zap.Error(err))
			return 0, fmt.Errorf("upsert offices and links: upsert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("upsert offices and links: commit: %w", err)
	}
	return len(offices), nil
}

func (r *officeRepository) GetByKey(ctx context.Context, key domain.OfficeKey) (*domain.Office, error) {
	var o domain.Office
	err := r.db.GetContext(ctx, &o, `SELECT * FROM offices WHERE osm_type = $1 AND osm_id = $2`, key.OSMType, key.OSMID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("get office by key", zap.Error(err))
		return nil, fmt.Errorf("get office by key: %w", err)
	}
	return &o, nil
}

func (r *officeRepository) UpsertLink(ctx context.Context, link domain.CenterOfficeLink) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO center_office (center_id, osm_type, osm_id, distance_m, last_seen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (center_id, osm_type, osm_id) DO UPDATE SET
			distance_m = EXCLUDED.distance_m,
			last_seen = EXCLUDED.last_seen`,
		link.CenterID, link.OSMType, link.OSMID, link.DistanceM, link.LastSeen,
	)
	if err != nil {
		r.logger.Error("upsert center office link", zap.Int64("center_id", link.CenterID), zap.Error(err))
		return fmt.Errorf("upsert center office link: %w", err)
	}
	return nil
}

// PruneLinksNotSeenSince deletes every link for centerID whose
// (osm_type, osm_id) is absent from seenKeys.
func (r *officeRepository) PruneLinksNotSeenSince(ctx context.Context, centerID int64, seenKeys []domain.OfficeKey) (int, error) {
	if len(seenKeys) == 0 {
		res, err := r.db.ExecContext(ctx, `DELETE FROM center_office WHERE center_id = $1`, centerID)
		if err != nil {
			return 0, fmt.Errorf("prune links not seen since: %w", err)
		}
		affected, _ := res.RowsAffected()
		return int(affected), nil
	}

	nodeTypes := make([]string, 0, len(seenKeys))
	osmIDs := make([]int64, 0, len(seenKeys))
	for _, k := range seenKeys {
		nodeTypes = append(nodeTypes, string(k.OSMType))
		osmIDs = append(osmIDs, k.OSMID)
	}

	query, args, err := sqlx.In(`
		DELETE FROM center_office
		WHERE center_id = ?
		  AND (osm_type, osm_id) NOT IN (`+pairPlaceholders(len(seenKeys))+`)`,
		append([]interface{}{centerID}, interleave(nodeTypes, osmIDs)...)...,
	)
	if err != nil {
		return 0, fmt.Errorf("prune links not seen since: build query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		r.logger.Error("prune links not seen since", zap.Int64("center_id", centerID), zap.Error(err))
		return 0, fmt.Errorf("prune links not seen since: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune links not seen since: rows affected: %w", err)
	}
	return int(affected), nil
}

// PruneStaleLinksOlderThan deletes links for centerID with last_seen before
// cutoff, independent of the current run's seen set.
func (r *officeRepository) PruneStaleLinksOlderThan(ctx context.Context, centerID int64, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM center_office WHERE center_id = $1 AND last_seen < $2`, centerID, cutoff)
	if err != nil {
		r.logger.Error("prune stale links", zap.Int64("center_id", centerID), zap.Error(err))
		return 0, fmt.Errorf("prune stale links: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune stale links: rows affected: %w", err)
	}
	return int(affected), nil
}

func pairPlaceholders(n int) string {
	pairs := make([]string, n)
	for i := range pairs {
		pairs[i] = "(?, ?)"
	}
	return strings.Join(pairs, ", ")
}

func interleave(a []string, b []int64) []interface{} {
	out := make([]interface{}, 0, len(a)*2)
	for i := range a {
		out = append(out, a[i], b[i])
	}
	return out
}

func (r *officeRepository) ListNearCenter(ctx context.Context, opts repository.OfficeListOptions) ([]domain.OfficeWithDistance, error) {
	query := `
		SELECT o.*, co.distance_m
		FROM center_office co
		JOIN offices o ON o.osm_type = co.osm_type AND o.osm_id = co.osm_id
		WHERE co.center_id = $1
		  AND co.distance_m <= $2
		  AND o.name IS NOT NULL AND o.name != ''
		  AND NOT EXISTS (
		      SELECT 1 FROM banned_offices b
		      WHERE b.osm_type = o.osm_type AND b.osm_id = o.osm_id
		  )`
	args := []interface{}{opts.CenterID, opts.RadiusM}

	if opts.HighConfidenceOnly {
		query += ` AND o.low_confidence = false`
	}
	if search := sanitizeSearch(opts.Search); search != "" {
		args = append(args, escapeLike(search)+"%")
		query += fmt.Sprintf(` AND o.name ILIKE $%d`, len(args))
	}
	query += ` ORDER BY co.distance_m ASC`

	var rows []domain.OfficeWithDistance
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("list offices near center", zap.Int64("center_id", opts.CenterID), zap.Error(err))
		return nil, fmt.Errorf("list offices near center: %w", err)
	}

	deduped := dedupeOffices(rows)
	if opts.Limit > 0 && opts.Limit < len(deduped) {
		deduped = deduped[:opts.Limit]
	}
	return deduped, nil
}

// sanitizeSearch caps the search term at 120 chars, per the read endpoint's
// contract.
func sanitizeSearch(raw string) string {
	raw = strings.TrimSpace(raw)
	if r := []rune(raw); len(r) > 120 {
		raw = string(r[:120])
	}
	return raw
}

// escapeLike backslash-escapes the LIKE/ILIKE wildcard and escape
// characters so a search term is matched literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// dedupeOffices keeps the first-seen office for each
// (normalized-name, rounded-coordinate) key, matching the normalizer's own
// dedupe key so a read never surfaces a near-duplicate twice.
func dedupeOffices(rows []domain.OfficeWithDistance) []domain.OfficeWithDistance {
	seen := make(map[string]bool, len(rows))
	out := make([]domain.OfficeWithDistance, 0, len(rows))
	for _, row := range rows {
		key := dedupeKey(row.Office)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

func dedupeKey(o domain.Office) string {
	name := ""
	if o.Name != nil {
		name = *o.Name
	}
	return geo.NameCoordDedupeKey(name, o.Lat, o.Lon)
}

func (r *officeRepository) SetWikidataEnrichment(ctx context.Context, key domain.OfficeKey, o *domain.Office) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE offices SET
			employee_count = $1,
			employee_count_as_of = $2,
			market_cap = $3,
			market_cap_currency_qid = $4,
			market_cap_as_of = $5,
			wikidata_enriched_at = now()
		WHERE osm_type = $6 AND osm_id = $7`,
		o.EmployeeCount, o.EmployeeCountAsOf, o.MarketCap, o.MarketCapCurrencyQID, o.MarketCapAsOf, key.OSMType, key.OSMID,
	)
	if err != nil {
		r.logger.Error("set wikidata enrichment", zap.Error(err))
		return fmt.Errorf("set wikidata enrichment: %w", err)
	}
	return nil
}

func (r *officeRepository) ListWithWikidataID(ctx context.Context, limit, offset int) ([]domain.Office, error) {
	var offices []domain.Office
	err := r.db.SelectContext(ctx, &offices, `
		SELECT * FROM offices
		WHERE wikidata_entity_id IS NOT NULL
		ORDER BY osm_type, osm_id
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		r.logger.Error("list offices with wikidata id", zap.Error(err))
		return nil, fmt.Errorf("list offices with wikidata id: %w", err)
	}
	return offices, nil
}

// ListStaleWikidataIDs returns the subset of qids with no wikidata-enriched
// office or whose freshest enrichment predates staleDays, capped at maxIDs.
func (r *officeRepository) ListStaleWikidataIDs(ctx context.Context, qids []string, staleDays, maxIDs int) ([]string, error) {
	if len(qids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT wikidata_entity_id
		FROM offices
		WHERE wikidata_entity_id IN (?)
		GROUP BY wikidata_entity_id
		HAVING MAX(wikidata_enriched_at) IS NULL
		    OR MAX(wikidata_enriched_at) < now() - (? || ' days')::interval`,
		qids, staleDays,
	)
	if err != nil {
		return nil, fmt.Errorf("list stale wikidata ids: build query: %w", err)
	}

	var stale []string
	if err := r.db.SelectContext(ctx, &stale, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("list stale wikidata ids", zap.Error(err))
		return nil, fmt.Errorf("list stale wikidata ids: %w", err)
	}
	if maxIDs > 0 && len(stale) > maxIDs {
		stale = stale[:maxIDs]
	}
	return stale, nil
}

func (r *officeRepository) DeleteByKey(ctx context.Context, key domain.OfficeKey) (int, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("delete office by key: begin tx: %w", err)
	}
	defer tx.Rollback()

	linkRes, err := tx.ExecContext(ctx, `DELETE FROM center_office WHERE osm_type = $1 AND osm_id = $2`, key.OSMType, key.OSMID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete office by key: links: %w", err)
	}
	deletedLinks, _ := linkRes.RowsAffected()

	officeRes, err := tx.ExecContext(ctx, `DELETE FROM offices WHERE osm_type = $1 AND osm_id = $2`, key.OSMType, key.OSMID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete office by key: office: %w", err)
	}
	deletedOffices, _ := officeRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("delete office by key: commit: %w", err)
	}

	return int(deletedLinks), int(deletedOffices), nil
}

func (r *officeRepository) PurgeAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("purge all office points: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM center_office`); err != nil {
		return fmt.Errorf("purge all office points: links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM offices`); err != nil {
		return fmt.Errorf("purge all office points: offices: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO refresh_state (key, value) VALUES ($1, '0')
		ON CONFLICT (key) DO UPDATE SET value = '0'`, domain.RefreshStateCursorKey,
	); err != nil {
		return fmt.Errorf("purge all office points: reset cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("purge all office points: commit: %w", err)
	}
	return nil
}

func (r *officeRepository) IsBanned(ctx context.Context, key domain.OfficeKey) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM banned_offices WHERE osm_type = $1 AND osm_id = $2)`,
		key.OSMType, key.OSMID,
	)
	if err != nil {
		return false, fmt.Errorf("check office banned: %w", err)
	}
	return exists, nil
}

func (r *officeRepository) CountOffices(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM offices`); err != nil {
		return 0, fmt.Errorf("count offices: %w", err)
	}
	return count, nil
}

func (r *officeRepository) CountLinks(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM center_office`); err != nil {
		return 0, fmt.Errorf("count center_office links: %w", err)
	}
	return count, nil
}
