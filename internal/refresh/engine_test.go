package refresh

import (
	"testing"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/matching"
)

func TestNormalizeAndMatchPipeline(t *testing.T) {
	companies := []domain.Company{{ID: 1, CompanyName: "Acme Corporation"}}
	idx := matching.BuildIndex(companies)
	matcher := matching.NewMatcher(idx)

	elements := []domain.OverpassElement{
		{Type: "node", ID: 1, Lat: 1, Lon: 1, Tags: map[string]string{"name": "Acme Corp"}},
		{Type: "node", ID: 2, Lat: 2, Lon: 2, Tags: map[string]string{"name": "Unrelated Shop"}},
	}

	offices := NormalizeElements(elements)
	if len(offices) != 2 {
		t.Fatalf("expected 2 normalized offices, got %d", len(offices))
	}

	result := matcher.FilterOfficesWithKnownCompanies(offices)
	if result.MatchedCount != 1 {
		t.Fatalf("expected 1 matched office, got %d", result.MatchedCount)
	}
	if result.FilteredOutCount != 1 {
		t.Fatalf("expected 1 filtered-out office, got %d", result.FilteredOutCount)
	}
}

func TestClampHelpers(t *testing.T) {
	if ClampThrottleMS(-5) != MinThrottleMS {
		t.Fatalf("expected throttle clamp to floor")
	}
	if ClampThrottleMS(999999) != MaxThrottleMS {
		t.Fatalf("expected throttle clamp to ceiling")
	}
	if ClampBatchSize(0) != MinBatchSize {
		t.Fatalf("expected batch size clamp to floor")
	}
	if ClampBatchSize(10000) != MaxBatchSize {
		t.Fatalf("expected batch size clamp to ceiling")
	}
}
