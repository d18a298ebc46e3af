package repository

import (
	"context"

	"github.com/location-microservice/internal/domain"
)

// WikidataRepository enriches offices carrying a wikidata tag with employee
// count and market capitalization facts.
type WikidataRepository interface {
	// GetEntities fetches claims for a batch of QIDs, issuing one request per
	// chunk of QIDs.
	GetEntities(ctx context.Context, qids []string) (map[string]domain.WikidataEntity, error)
}
