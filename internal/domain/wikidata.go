package domain

import "time"

// WikidataEntity is the subset of a Wikidata entity response the enrichment
// client extracts: employee count (P1128) and market capitalization (P2226)
// claims, each with their point-in-time qualifier when present.
type WikidataEntity struct {
	ID             string
	EmployeeCount  *WikidataQuantityClaim
	MarketCap      *WikidataQuantityClaim
}

// WikidataQuantityClaim is a single best-rank quantity claim with its
// optional point-in-time qualifier and, for market cap, the currency unit
// entity QID.
type WikidataQuantityClaim struct {
	Amount     float64
	UnitQID    *string
	AsOf       *time.Time
}
