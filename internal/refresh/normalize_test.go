package refresh

import (
	"testing"

	"github.com/location-microservice/internal/domain"
)

func TestNormalizeElements_DropsUnnamedAndBadCoords(t *testing.T) {
	elements := []domain.OverpassElement{
		{Type: "node", ID: 1, Lat: 1, Lon: 1, Tags: map[string]string{}},
		{Type: "node", ID: 2, Lat: 2, Lon: 2, Tags: map[string]string{"name": "Acme"}},
		{Type: "node", ID: 3, Tags: map[string]string{"name": "No Coords"}},
		{Type: "bogus", ID: 4, Lat: 1, Lon: 1, Tags: map[string]string{"name": "Bad Type"}},
	}

	offices := NormalizeElements(elements)
	if len(offices) != 1 {
		t.Fatalf("expected 1 office, got %d", len(offices))
	}
	if *offices[0].Name != "Acme" {
		t.Fatalf("expected Acme, got %q", *offices[0].Name)
	}
}

func TestNormalizeElements_LowConfidenceWithoutEvidence(t *testing.T) {
	elements := []domain.OverpassElement{
		{Type: "node", ID: 1, Lat: 1, Lon: 1, Tags: map[string]string{"name": "Plain"}},
		{Type: "node", ID: 2, Lat: 2, Lon: 2, Tags: map[string]string{"name": "With Website", "website": "https://example.com"}},
	}

	offices := NormalizeElements(elements)
	var plain, withSite domain.Office
	for _, o := range offices {
		if *o.Name == "Plain" {
			plain = o
		} else {
			withSite = o
		}
	}
	if !plain.LowConfidence {
		t.Fatalf("expected Plain to be low confidence")
	}
	if withSite.LowConfidence {
		t.Fatalf("expected With Website to not be low confidence")
	}
}

func TestNormalizeElements_DedupeKeepsHigherEvidence(t *testing.T) {
	elements := []domain.OverpassElement{
		{Type: "node", ID: 1, Lat: 1, Lon: 1, Tags: map[string]string{"name": "Dup Co"}},
		{Type: "node", ID: 2, Lat: 1, Lon: 1, Tags: map[string]string{"name": "Dup Co", "website": "https://dupco.example"}},
	}

	offices := NormalizeElements(elements)
	if len(offices) != 1 {
		t.Fatalf("expected 1 deduped office, got %d", len(offices))
	}
	if offices[0].Website == nil {
		t.Fatalf("expected the website-bearing variant to survive dedupe")
	}
}

func TestNormalizeElements_WikidataNormalization(t *testing.T) {
	elements := []domain.OverpassElement{
		{Type: "node", ID: 1, Lat: 1, Lon: 1, Tags: map[string]string{"name": "Wiki Co", "wikidata": "q42"}},
	}
	offices := NormalizeElements(elements)
	if len(offices) != 1 {
		t.Fatalf("expected 1 office, got %d", len(offices))
	}
	if offices[0].WikidataEntityID == nil || *offices[0].WikidataEntityID != "Q42" {
		t.Fatalf("expected normalized wikidata id Q42, got %v", offices[0].WikidataEntityID)
	}
}
