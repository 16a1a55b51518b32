package helpers

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/surveyviz/engine"
)

// SheetsScheme prefixes Google Sheets sources: sheets://<id>/<range>.
const SheetsScheme = "sheets://"

// LoadOptions configures Load.
type LoadOptions struct {
	Sheet  string       // worksheet for .xlsx sources (default: first)
	Sheets SheetsConfig // credentials for sheets:// sources
	Stdin  io.Reader    // source for "-" (default: os.Stdin)
}

// Load resolves src to a RecordView. Any failure here is fatal for the run:
// nothing downstream is built from a partial source.
//
//	survey.csv            CSV file
//	survey.xlsx           Excel workbook
//	-                     CSV on stdin
//	sheets://<id>/<range> Google Sheets range
func Load(ctx context.Context, src string, opts LoadOptions) (engine.RecordView, error) {
	records, headers, err := load(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	log.Printf("📊 Parsed %d records (%d fields) from %s", len(records), len(headers), src)
	return engine.NewSliceView(records, headers...), nil
}

func load(ctx context.Context, src string, opts LoadOptions) ([]engine.Record, []string, error) {
	switch {
	case strings.HasPrefix(src, SheetsScheme):
		id, rng, _ := strings.Cut(strings.TrimPrefix(src, SheetsScheme), "/")
		cfg := opts.Sheets
		cfg.SpreadsheetID = id
		if rng != "" {
			cfg.Range = rng
		}
		return FetchSheet(ctx, cfg)

	case src == "-":
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return ParseCSV(in)

	case isWorkbook(src):
		return ParseXLSX(src, opts.Sheet)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
