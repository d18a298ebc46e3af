package domain

import "time"

// Center is a curated geographic point of interest around which offices are
// searched (e.g. a cancer center).
type Center struct {
	ID                int64     `json:"id" db:"id"`
	CenterCode        string    `json:"centerCode" db:"center_code"`
	Name              string    `json:"name" db:"name"`
	Tier              *string   `json:"tier,omitempty" db:"tier"`
	Lat               float64   `json:"lat" db:"lat"`
	Lon               float64   `json:"lon" db:"lon"`
	Country           *string   `json:"country,omitempty" db:"country"`
	Region            *string   `json:"region,omitempty" db:"region"`
	SourceURL         *string   `json:"sourceUrl,omitempty" db:"source_url"`
	IsActive          bool      `json:"isActive" db:"is_active"`
	LastCSVSyncToken  *string   `json:"-" db:"last_csv_sync_token"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// CenterCSVRow is a validated row parsed from a centers CSV upload.
type CenterCSVRow struct {
	CenterCode string
	Name       string
	Lat        float64
	Lon        float64
	Country    *string
	Region     *string
	Tier       *string
	SourceURL  *string
}

// UpsertOutcome tags whether a CSV-driven upsert inserted, updated, or
// skipped a row.
type UpsertOutcome string

const (
	OutcomeInserted UpsertOutcome = "inserted"
	OutcomeUpdated  UpsertOutcome = "updated"
	OutcomeSkipped  UpsertOutcome = "skipped"
)
