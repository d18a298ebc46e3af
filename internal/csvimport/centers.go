package csvimport

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/pkg/geo"
)

var centerCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var centerRequiredHeaders = []string{"center_code", "name", "lat", "lon", "country", "region", "tier", "source_url"}

// ParseCentersResult is the outcome of parsing a centers CSV upload.
type ParseCentersResult struct {
	Rows   []domain.CenterCSVRow
	Issues []Issue
}

// ParseCenters streams a centers CSV upload into validated rows, collecting
// a per-row issue list rather than aborting the whole file. Later rows with
// the same center_code overwrite earlier ones within the file.
func ParseCenters(r io.Reader) (ParseCentersResult, error) {
	header, records, err := readRows(r)
	if err != nil {
		return ParseCentersResult{}, err
	}

	idx := headerIndex(header)
	if missing := hasAllHeaders(idx, centerRequiredHeaders...); len(missing) > 0 {
		return ParseCentersResult{}, &HeaderError{Missing: missing}
	}

	byCode := make(map[string]int)
	var result ParseCentersResult

	for i, record := range records {
		rowNum := i + 2 // header is row 1

		code := strings.TrimSpace(field(record, idx, "center_code"))
		if !centerCodePattern.MatchString(code) {
			result.Issues = append(result.Issues, Issue{Row: rowNum, Reason: "center_code must match ^[A-Za-z0-9_-]+$"})
			continue
		}

		name, ok := geo.SanitizeText(field(record, idx, "name"), 250)
		if !ok {
			result.Issues = append(result.Issues, Issue{Row: rowNum, Reason: "name is required"})
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(field(record, idx, "lat")), 64)
		if err != nil || lat < -90 || lat > 90 {
			result.Issues = append(result.Issues, Issue{Row: rowNum, Reason: "lat must be a finite number in [-90, 90]"})
			continue
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(field(record, idx, "lon")), 64)
		if err != nil || lon < -180 || lon > 180 {
			result.Issues = append(result.Issues, Issue{Row: rowNum, Reason: "lon must be a finite number in [-180, 180]"})
			continue
		}

		sourceURLRaw := strings.TrimSpace(field(record, idx, "source_url"))
		var sourceURL *string
		if sourceURLRaw != "" {
			if !strings.HasPrefix(sourceURLRaw, "http://") && !strings.HasPrefix(sourceURLRaw, "https://") {
				result.Issues = append(result.Issues, Issue{Row: rowNum, Reason: "source_url must start with http:// or https://"})
				continue
			}
			sourceURL = &sourceURLRaw
		}

		row := domain.CenterCSVRow{
			CenterCode: code,
			Name:       name,
			Lat:        lat,
			Lon:        lon,
			Country:    optionalField(record, idx, "country"),
			Region:     optionalField(record, idx, "region"),
			Tier:       optionalField(record, idx, "tier"),
			SourceURL:  sourceURL,
		}

		if existing, ok := byCode[code]; ok {
			result.Rows[existing] = row
		} else {
			byCode[code] = len(result.Rows)
			result.Rows = append(result.Rows, row)
		}
	}

	return result, nil
}

func optionalField(record []string, idx map[string]int, name string) *string {
	v := strings.TrimSpace(field(record, idx, name))
	if v == "" {
		return nil
	}
	return &v
}

// HeaderError reports missing required CSV headers.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return "csv: missing required headers: " + strings.Join(e.Missing, ", ")
}
