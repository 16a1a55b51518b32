package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spektr-org/surveyviz/engine"
)

// ============================================================================
// CSV HELPER — Parses delimited data into []engine.Record
// ============================================================================
// Values are kept verbatim: an empty cell is a present "" field, a short row
// leaves its trailing fields absent. Headers are trimmed (and a UTF-8 BOM is
// dropped) so field names match chart definitions.
// ============================================================================

// ErrEmptySource indicates a source produced no records.
var ErrEmptySource = errors.New("source contains no records")

// ErrNoHeader indicates a source has no header row.
var ErrNoHeader = errors.New("source has no header row")

// ParseCSV reads a header row and then one Record per data row.
// Malformed rows are skipped and logged. A source with no data rows returns
// ErrEmptySource.
func ParseCSV(r io.Reader) ([]engine.Record, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headers = cleanHeaders(headers)

	var records []engine.Record
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		records = append(records, recordFromRow(headers, row))
	}

	if skipped > 0 {
		log.Printf("⚠️ surveyviz: skipped %d malformed CSV rows", skipped)
	}
	if len(records) == 0 {
		return nil, headers, ErrEmptySource
	}
	return records, headers, nil
}

// ParseCSVView parses CSV into a RecordView (convenience wrapper).
func ParseCSVView(r io.Reader) (engine.RecordView, error) {
	records, headers, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return engine.NewSliceView(records, headers...), nil
}

// recordFromRow zips headers with cells. Cells past the header are dropped;
// headers past the row are absent.
func recordFromRow(headers, row []string) engine.Record {
	rec := make(engine.Record, len(headers))
	for i, val := range row {
		if i >= len(headers) {
			break
		}
		if headers[i] == "" {
			continue
		}
		rec[headers[i]] = val
	}
	return rec
}

func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
