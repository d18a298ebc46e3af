package refresh

import (
	"encoding/json"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/pkg/geo"
)

// NormalizeElements turns raw Overpass elements into canonical offices:
// dropping unnamed or coordinate-less elements, sanitizing fields, marking
// low confidence, and deduping by (normalized name, rounded coordinate).
func NormalizeElements(elements []domain.OverpassElement) []domain.Office {
	bestByKey := make(map[string]domain.Office, len(elements))
	order := make([]string, 0, len(elements))

	for _, el := range elements {
		office, ok := normalizeOne(el)
		if !ok {
			continue
		}

		key := dedupeKey(office)
		existing, seen := bestByKey[key]
		if !seen || office.EvidenceScore > existing.EvidenceScore {
			if !seen {
				order = append(order, key)
			}
			bestByKey[key] = office
		}
	}

	out := make([]domain.Office, 0, len(order))
	for _, key := range order {
		out = append(out, bestByKey[key])
	}
	return out
}

func normalizeOne(el domain.OverpassElement) (domain.Office, bool) {
	osmType := domain.OSMType(el.Type)
	switch osmType {
	case domain.OSMTypeNode, domain.OSMTypeWay, domain.OSMTypeRelation:
	default:
		return domain.Office{}, false
	}

	lat, lon, ok := el.ResolvedLatLon()
	if !ok || !geo.ValidCoordinates(lat, lon) {
		return domain.Office{}, false
	}

	name, ok := geo.SanitizeText(el.Tags["name"], 250)
	if !ok {
		return domain.Office{}, false
	}

	office := domain.Office{
		OSMType: osmType,
		OSMID:   el.ID,
		Name:    &name,
		Lat:     lat,
		Lon:     lon,
	}

	evidence := 0
	if brand, ok := geo.SanitizeText(el.Tags["brand"], 250); ok {
		office.Brand = &brand
		evidence += 2
	}
	if operator, ok := geo.SanitizeText(el.Tags["operator"], 250); ok {
		office.Operator = &operator
		evidence += 1
	}
	if website, ok := geo.SanitizeText(el.Tags["website"], 500); ok {
		office.Website = &website
		evidence += 4
	}
	if raw, present := el.Tags["wikidata"]; present {
		if qid, ok := geo.NormalizeWikidataID(raw); ok {
			office.Wikidata = &raw
			office.WikidataEntityID = &qid
			evidence += 3
		}
	}
	office.EvidenceScore = evidence
	office.LowConfidence = evidence == 0

	if len(el.Tags) > 0 {
		if tagsJSON, err := json.Marshal(el.Tags); err == nil {
			s := string(tagsJSON)
			office.TagsJSON = &s
		}
	}

	return office, true
}

func dedupeKey(o domain.Office) string {
	name := ""
	if o.Name != nil {
		name = *o.Name
	}
	return geo.NameCoordDedupeKey(name, o.Lat, o.Lon)
}
