package helpers

import (
	"fmt"

	"github.com/spektr-org/surveyviz/engine"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads one worksheet of an Excel workbook into Records.
// The first row holds field names. An empty sheet name selects the first sheet.
// Blank cells inside a row are present ""; excelize trims trailing blanks, so
// those fields are absent.
func ParseXLSX(path, sheet string) ([]engine.Record, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, ErrNoHeader
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return recordsFromRows(rows)
}

// recordsFromRows treats rows[0] as the header.
func recordsFromRows(rows [][]string) ([]engine.Record, []string, error) {
	if len(rows) == 0 {
		return nil, nil, ErrNoHeader
	}
	headers := cleanHeaders(rows[0])

	records := make([]engine.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, recordFromRow(headers, row))
	}
	if len(records) == 0 {
		return nil, headers, ErrEmptySource
	}
	return records, headers, nil
}
