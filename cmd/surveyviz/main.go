package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/surveyviz/engine"
	"github.com/spektr-org/surveyviz/helpers"
	"github.com/spektr-org/surveyviz/render"
	"github.com/spektr-org/surveyviz/schema"
)

// ============================================================================
// SURVEYVIZ CLI — Survey export in, chart-ready datasets out
// ============================================================================

const version = "0.3.0"

var formats = []string{"json", "pretty", "csv", "text", "svg", "png", "xlsx"}

type options struct {
	file        string
	config      string
	format      string
	out         string
	targets     []string
	sheet       string
	printConfig bool
	credentials string
	apiKey      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "surveyviz --file survey.csv",
		Short: "Turn developer survey exports into chart datasets",
		Long: `surveyviz reads a survey export (CSV, Excel workbook or Google Sheets range),
aggregates the configured fields and writes one chart per definition.

Sources:
  survey.csv               CSV file ("-" reads stdin)
  survey.xlsx              Excel workbook (--sheet picks the worksheet)
  sheets://<id>/<range>    Google Sheets (--credentials or --api-key)

Formats:
  json, pretty   Chart.js configuration per chart id
  csv            chart,label,value rows (ready for Sheets/Excel)
  text           human-readable tallies and salary summary
  svg, png       one image per chart in --out (default: charts/)
  xlsx           workbook with a sheet and native chart per chart id`,
		Example: `  surveyviz --file survey_results_public.csv --format pretty
  surveyviz --file survey.csv --format svg --out charts --targets language-chart,salary-chart
  surveyviz --file survey.xlsx --sheet Responses --format xlsx --out dashboard.xlsx
  surveyviz --print-config > charts.json`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "Survey source: CSV/XLSX path, - for stdin, or sheets://<id>/<range>")
	f.StringVarP(&opts.config, "config", "c", "", "Chart definitions JSON (default: built-in survey dashboard)")
	f.StringVar(&opts.format, "format", "json", "Output format: "+strings.Join(formats, ", "))
	f.StringVarP(&opts.out, "out", "o", "", "Output file (json/pretty/csv/text/xlsx) or directory (svg/png)")
	f.StringSliceVar(&opts.targets, "targets", nil, "Only render these chart ids (default: all)")
	f.StringVar(&opts.sheet, "sheet", "", "Worksheet name for .xlsx sources (default: first)")
	f.BoolVar(&opts.printConfig, "print-config", false, "Print the chart definitions and exit")
	f.StringVar(&opts.credentials, "credentials", "", "Service-account JSON for sheets:// sources")
	f.StringVar(&opts.apiKey, "api-key", "", "API key for public sheets:// sources")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	// ── Chart definitions ────────────────────────────────────────────────
	cfg := schema.Default()
	if opts.config != "" {
		loaded, err := schema.Load(opts.config)
		if err != nil {
			return err
		}
		cfg = loaded
		log.Printf("📋 Loaded chart config: %s (%d charts)", cfg.Name, len(cfg.Charts))
	}

	if opts.printConfig {
		return writeJSON(cmd.OutOrStdout(), cfg)
	}

	if opts.file == "" {
		return fmt.Errorf("--file is required")
	}
	if !validFormat(opts.format) {
		return fmt.Errorf("invalid format: %s (must be one of %s)", opts.format, strings.Join(formats, ", "))
	}

	// ── Source ───────────────────────────────────────────────────────────
	view, err := helpers.Load(cmd.Context(), opts.file, helpers.LoadOptions{
		Sheet: opts.sheet,
		Sheets: helpers.SheetsConfig{
			CredentialsFile: opts.credentials,
			APIKey:          opts.apiKey,
		},
		Stdin: cmd.InOrStdin(),
	})
	if err != nil {
		return err
	}
	if missing := cfg.MissingFields(view.Keys()); len(missing) > 0 {
		log.Printf("⚠️ Source has no column for: %s", strings.Join(missing, ", "))
	}

	// ── Build + render ───────────────────────────────────────────────────
	result := engine.Execute(view, cfg.Charts)
	layout := render.NewLayout(opts.targets...)

	errs, err := renderResult(cmd, opts, result, layout)
	if err != nil {
		return err
	}

	failed := len(result.Errors) + len(errs)
	log.Printf("📄 %d charts rendered, %d failed", len(result.Charts)-len(errs), failed)
	return nil
}

// renderResult draws result onto the surface for opts.format. Per-chart
// failures are returned in errs; err is reserved for output that could not be
// opened or finalized at all.
func renderResult(cmd *cobra.Command, opts *options, result *engine.Result, layout render.Layout) (errs []error, err error) {
	switch opts.format {
	case "svg", "png":
		dir := opts.out
		if dir == "" {
			dir = "charts"
		}
		var s engine.Surface
		if opts.format == "svg" {
			s, err = render.NewSVGSurface(dir, layout)
		} else {
			s, err = render.NewPNGSurface(dir, layout)
		}
		if err != nil {
			return nil, err
		}
		errs = engine.Render(result, s)
		log.Printf("📄 Images written to %s", dir)
		return errs, nil

	case "xlsx":
		path := opts.out
		if path == "" {
			path = "charts.xlsx"
		}
		s := render.NewXLSXSurface(path, layout)
		errs = engine.Render(result, s)
		if err := s.Close(); err != nil {
			return errs, err
		}
		log.Printf("📄 Workbook written to %s", path)
		return errs, nil
	}

	w := cmd.OutOrStdout()
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.format {
	case "csv":
		s := newCSVSurface(w, layout)
		errs = engine.Render(result, s)
		err = s.Close()
	case "text":
		errs = engine.Render(result, newTextSurface(w, layout))
	default:
		var jsonOpts []render.JSONOption
		if opts.format == "pretty" {
			jsonOpts = append(jsonOpts, render.WithIndent())
		}
		s := render.NewJSONSurface(w, layout, jsonOpts...)
		errs = engine.Render(result, s)
		err = s.Close()
	}
	if err != nil {
		return errs, err
	}
	if opts.out != "" {
		log.Printf("📄 %s written to %s", strings.ToUpper(opts.format), filepath.Clean(opts.out))
	}
	return errs, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func validFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
