package engine

import (
	"fmt"
	"log"
)

// ============================================================================
// EXECUTOR — chart definitions → Charts → surface
// ============================================================================
// Entry points: Execute(view, defs, opts...) and Render(result, surface, opts...)
//
// Per chart:
//   1. Apply the chart's filters → SubView
//   2. Tally / extract by strategy
//   3. Rank + top-N, or bin
//   4. Package into a Dataset
//
// A chart that fails is logged and skipped; the others continue.
// The engine never owns chart instances — the caller owns the Surface.
// ============================================================================

// Surface is a rendering destination owned and scoped by the caller.
type Surface interface {
	// Target returns the drawing target for a chart id, or an error wrapping
	// ErrTargetNotFound when the surface has none.
	Target(id string) (Target, error)
}

// Target draws one finished chart.
type Target interface {
	Draw(c Chart) error
}

// Execute builds every chart definition against view.
// Build failures are collected in Result.Errors as *ChartError.
func Execute(view RecordView, defs []ChartDef, opts ...Option) *Result {
	cfg := applyOptions(opts)

	cfg.Logger.Printf("📊 surveyviz: building %d charts over %d records", len(defs), view.Len())

	result := &Result{Charts: make([]Chart, 0, len(defs))}
	for _, def := range defs {
		chart, err := buildChart(view, def, cfg)
		if err != nil {
			cerr := NewChartError(def.ID, "build", err)
			cfg.Logger.Printf("⚠️ surveyviz: %v", cerr)
			result.Errors = append(result.Errors, cerr)
			continue
		}
		cfg.Logger.Printf("📊 surveyviz: %s — %d labels from %d records", def.ID, len(chart.Dataset.Labels), chart.Records)
		result.Charts = append(result.Charts, chart)
	}
	return result
}

// BuildChart runs a single chart definition.
func BuildChart(view RecordView, def ChartDef, opts ...Option) (Chart, error) {
	return buildChart(view, def, applyOptions(opts))
}

func buildChart(view RecordView, def ChartDef, cfg *config) (Chart, error) {
	filtered := ApplyFilters(view, def.Filters)
	style := cfg.Style.WithPalette(def.Palette)

	chart := Chart{Def: def, Records: filtered.Len()}

	switch def.Strategy {
	case StrategyCategorical:
		chart.Dataset = BuildCategoryDataset(rankWithLimit(TallyField(filtered, def.Field), def.Limit), def.Kind, style)

	case StrategyMultiValue:
		counts := TallyMultiValue(filtered, def.Field, def.Separator)
		chart.Dataset = BuildCategoryDataset(rankWithLimit(counts, def.Limit), def.Kind, style)

	case StrategyHistogram:
		bounds := DefaultBounds
		if def.Bounds != nil {
			bounds = *def.Bounds
		}
		bins := def.Bins
		if bins == 0 {
			bins = DefaultBins
		}
		labeler := cfg.BinLabeler
		if labeler == nil {
			labeler = BinLabelerFor(def.BinLabel)
		}

		obs := ExtractNumeric(filtered, def.Field, bounds)
		summary := Summarize(obs)
		chart.Summary = &summary
		chart.Dataset = BuildHistogramDataset(BinObservations(obs, bins), def.Kind, style, labeler)

	default:
		return Chart{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, def.Strategy)
	}

	return chart, nil
}

// rankWithLimit ranks counts and truncates to limit; limit 0 keeps everything.
func rankWithLimit(counts FrequencyMap, limit int) []Entry {
	if limit > 0 {
		return TopN(counts, limit)
	}
	return Rank(counts)
}

// Render draws every chart in result onto s. A missing target or a draw
// failure is logged and returned as a *ChartError; it never stops the loop.
func Render(result *Result, s Surface, opts ...Option) []error {
	cfg := applyOptions(opts)
	if result == nil {
		return nil
	}

	var errs []error
	for _, chart := range result.Charts {
		if err := renderOne(chart, s, cfg.Logger); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func renderOne(chart Chart, s Surface, logger *log.Logger) error {
	id := chart.Def.ID

	target, err := s.Target(id)
	if err != nil {
		cerr := NewChartError(id, "target", err)
		logger.Printf("⚠️ surveyviz: %v", cerr)
		return cerr
	}

	if err := target.Draw(chart); err != nil {
		cerr := NewChartError(id, "draw", err)
		logger.Printf("⚠️ surveyviz: %v", cerr)
		return cerr
	}
	return nil
}
