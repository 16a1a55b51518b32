package helpers

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/spektr-org/surveyviz/engine"
)

// SheetsConfig locates a Google Sheets range holding survey rows.
type SheetsConfig struct {
	SpreadsheetID   string
	Range           string // A1 notation, e.g. "Responses!A:ZZ"; the first row is the header
	CredentialsFile string // service-account JSON (read-only scope)
	APIKey          string // alternative to CredentialsFile for public sheets

	// Extra client options, e.g. option.WithEndpoint for a test server.
	ClientOptions []option.ClientOption
}

func (c SheetsConfig) clientOptions(ctx context.Context) ([]option.ClientOption, error) {
	opts := append([]option.ClientOption(nil), c.ClientOptions...)
	switch {
	case c.CredentialsFile != "":
		data, err := os.ReadFile(c.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("invalid credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case c.APIKey != "":
		opts = append(opts, option.WithAPIKey(c.APIKey))
	}
	return opts, nil
}

// FetchSheet downloads a range and converts it to Records.
// Cells are read unformatted, so a salary shown as "$125,000" arrives as the
// number 125000 rather than a display string the numeric parser rejects.
func FetchSheet(ctx context.Context, cfg SheetsConfig) ([]engine.Record, []string, error) {
	if cfg.SpreadsheetID == "" {
		return nil, nil, fmt.Errorf("spreadsheet id is required")
	}
	rng := cfg.Range
	if rng == "" {
		rng = "A:ZZ"
	}

	opts, err := cfg.clientOptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(cfg.SpreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch %s!%s: %w", cfg.SpreadsheetID, rng, err)
	}

	return recordsFromRows(stringRows(resp.Values))
}

func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			if f, ok := v.(float64); ok {
				cells[j] = strconv.FormatFloat(f, 'f', -1, 64)
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows
}
