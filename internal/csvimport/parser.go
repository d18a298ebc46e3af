package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Issue is a per-row validation failure collected instead of aborting the
// whole upload.
type Issue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// readRows reads the header record of r, lowercasing and trimming its names,
// and returns it with every following data record as a raw field slice.
// Rows are not numbered here; callers derive the row number from the slice
// index.
func readRows(r io.Reader) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = false

	headerRecord, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("csv: empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("csv: reading header: %w", err)
	}

	header = make([]string, len(headerRecord))
	for i, h := range headerRecord {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv: %w", err)
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}

// headerIndex maps lowercased header names to their column position.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func field(record []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(record) {
		return ""
	}
	return record[pos]
}

func hasAllHeaders(idx map[string]int, required ...string) []string {
	var missing []string
	for _, r := range required {
		if _, ok := idx[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}
