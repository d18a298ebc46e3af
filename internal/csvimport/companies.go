package csvimport

import (
	"io"
	"strings"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/matching"
)

var companyRequiredHeaders = []string{"company_name"}

// ParseCompaniesResult is the outcome of parsing a companies CSV upload.
type ParseCompaniesResult struct {
	Rows   []domain.CompanyCSVRow
	Issues []Issue
}

// ParseCompanies streams a companies CSV upload into validated rows.
// Duplicate rows (by normalized company name) collapse within the file,
// keeping the last occurrence.
func ParseCompanies(r io.Reader) (ParseCompaniesResult, error) {
	header, records, err := readRows(r)
	if err != nil {
		return ParseCompaniesResult{}, err
	}

	idx := headerIndex(header)
	if missing := hasAllHeaders(idx, companyRequiredHeaders...); len(missing) > 0 {
		return ParseCompaniesResult{}, &HeaderError{Missing: missing}
	}

	byNormalized := make(map[string]int)
	var result ParseCompaniesResult

	for i, record := range records {
		rowNum := i + 2

		name := strings.TrimSpace(field(record, idx, "company_name"))
		normalized := matching.Normalize(name)
		if normalized == "" {
			result.Issues = append(result.Issues, Issue{Row: rowNum, Reason: "company_name normalizes to empty"})
			continue
		}

		aliases := cleanAliases(field(record, idx, "known_aliases"), normalized)

		row := domain.CompanyCSVRow{
			CompanyName:     name,
			KnownAliases:    aliases,
			HQCountry:       optionalField(record, idx, "hq_country"),
			Description:     optionalField(record, idx, "desc"),
			Type:            optionalField(record, idx, "type"),
			Geography:       optionalField(record, idx, "geography"),
			Industry:        optionalField(record, idx, "industry"),
			SuitabilityTier: optionalField(record, idx, "suitability_tier"),
		}

		if existing, ok := byNormalized[normalized]; ok {
			result.Rows[existing] = row
		} else {
			byNormalized[normalized] = len(result.Rows)
			result.Rows = append(result.Rows, row)
		}
	}

	return result, nil
}

// cleanAliases splits raw on '|', sanitizes each alias, drops any alias that
// normalizes to the same form as the company name, and rejoins survivors
// with '|'. Returns nil if nothing survives.
func cleanAliases(raw string, companyNormalized string) *string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, "|")
	var kept []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if matching.Normalize(trimmed) == companyNormalized {
			continue
		}
		kept = append(kept, trimmed)
	}

	if len(kept) == 0 {
		return nil
	}
	joined := strings.Join(kept, "|")
	return &joined
}
