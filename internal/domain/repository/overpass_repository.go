package repository

import (
	"context"

	"github.com/location-microservice/internal/domain"
)

// OverpassRepository queries the OpenStreetMap tag store around a point for
// office-tagged elements.
type OverpassRepository interface {
	// QueryOfficesAround returns every node/way/relation within radiusM of
	// (lat, lon) carrying an office=* tag or a building=office tag.
	QueryOfficesAround(ctx context.Context, lat, lon, radiusM float64) ([]domain.OverpassElement, error)
}
