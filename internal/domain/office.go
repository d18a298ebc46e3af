package domain

import "time"

// OSMType is the kind of OpenStreetMap element an office point was built from.
type OSMType string

const (
	OSMTypeNode     OSMType = "node"
	OSMTypeWay      OSMType = "way"
	OSMTypeRelation OSMType = "relation"
)

// Office is a canonical office point normalized from an Overpass element.
// Its identity is the composite (OSMType, OSMID).
type Office struct {
	OSMType         OSMType  `json:"osmType" db:"osm_type"`
	OSMID           int64    `json:"osmId" db:"osm_id"`
	Name            *string  `json:"name,omitempty" db:"name"`
	Brand           *string  `json:"brand,omitempty" db:"brand"`
	Operator        *string  `json:"operator,omitempty" db:"operator"`
	Website         *string  `json:"website,omitempty" db:"website"`
	Wikidata        *string  `json:"wikidata,omitempty" db:"wikidata"`
	WikidataEntityID *string `json:"wikidataEntityId,omitempty" db:"wikidata_entity_id"`
	Lat             float64  `json:"lat" db:"lat"`
	Lon             float64  `json:"lon" db:"lon"`
	LowConfidence   bool     `json:"lowConfidence" db:"low_confidence"`
	TagsJSON        *string  `json:"-" db:"tags_json"`

	EmployeeCount         *int64     `json:"employeeCount,omitempty" db:"employee_count"`
	EmployeeCountAsOf     *time.Time `json:"employeeCountAsOf,omitempty" db:"employee_count_as_of"`
	MarketCap             *float64   `json:"marketCap,omitempty" db:"market_cap"`
	MarketCapCurrencyQID  *string    `json:"marketCapCurrencyQid,omitempty" db:"market_cap_currency_qid"`
	MarketCapAsOf         *time.Time `json:"marketCapAsOf,omitempty" db:"market_cap_as_of"`
	WikidataEnrichedAt    *time.Time `json:"wikidataEnrichedAt,omitempty" db:"wikidata_enriched_at"`

	UpdatedAt time.Time `json:"-" db:"updated_at"`

	// EvidenceScore is a transient field used only during normalizer dedupe;
	// it is never persisted.
	EvidenceScore int `json:"-" db:"-"`
}

// Key returns the composite identity of the office.
func (o *Office) Key() OfficeKey {
	return OfficeKey{OSMType: o.OSMType, OSMID: o.OSMID}
}

// OfficeKey is the composite primary key (osm_type, osm_id).
type OfficeKey struct {
	OSMType OSMType
	OSMID   int64
}

// CenterOfficeLink associates a center with an office and records the
// precomputed Haversine distance between them.
type CenterOfficeLink struct {
	CenterID   int64     `json:"centerId" db:"center_id"`
	OSMType    OSMType   `json:"osmType" db:"osm_type"`
	OSMID      int64     `json:"osmId" db:"osm_id"`
	DistanceM  float64   `json:"distanceM" db:"distance_m"`
	LastSeen   time.Time `json:"lastSeen" db:"last_seen"`
}

// OfficeWithDistance is an office row joined with its link distance and
// (at read time) a linked-company label.
type OfficeWithDistance struct {
	Office
	DistanceM         float64 `json:"distanceM" db:"distance_m"`
	LinkedCompanyID   *int64  `json:"linkedCompanyId,omitempty" db:"-"`
	LinkedCompanyName *string `json:"linkedCompanyName,omitempty" db:"-"`
}

// BannedOffice excludes an (osm_type, osm_id) pair from future refresh
// results and from reads, following admin approval of a deletion flag.
type BannedOffice struct {
	OSMType        OSMType   `json:"osmType" db:"osm_type"`
	OSMID          int64     `json:"osmId" db:"osm_id"`
	ApprovedFlagID *int64    `json:"approvedFlagId,omitempty" db:"approved_flag_id"`
	ApprovedAt     time.Time `json:"approvedAt" db:"approved_at"`
}
