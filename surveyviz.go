// Package surveyviz turns a batch of survey records into chart-ready datasets.
//
// Usage:
//
//	import (
//		"github.com/spektr-org/surveyviz/engine"
//		"github.com/spektr-org/surveyviz/helpers"
//		"github.com/spektr-org/surveyviz/render"
//		"github.com/spektr-org/surveyviz/schema"
//	)
//
//	view, err := helpers.Load(ctx, "survey_results_public.csv", helpers.LoadOptions{})
//	result := engine.Execute(view, schema.Default().Charts)
//	errs := engine.Render(result, render.NewJSONSurface(os.Stdout, nil))
//
// The engine tallies categorical and multi-valued fields, bins numeric fields
// into fixed-width histograms, ranks categories with a deterministic tie-break,
// and packages everything as labeled, styled datasets. Loading records
// (helpers) and drawing charts (render) live outside the engine; the engine
// itself performs no I/O.
package surveyviz
