package engine

import (
	"fmt"
	"math"
	"strconv"
)

// ============================================================================
// CHART BUILDER — Packages aggregates into Datasets
// ============================================================================
// Pure formatting: labels and values keep the aggregate's order, colors come
// from Style. No counting happens here.
// ============================================================================

// Style is the color configuration for datasets.
type Style struct {
	Fill        Color   // bar fill, repeated for every value
	Border      Color   // bar border
	BorderWidth int     // bar border width
	Palette     []Color // pie/doughnut slices, cycled
}

// Default colors for the survey dashboard.
var (
	defaultFill   = RGBA(75, 192, 192, 0.6)
	defaultBorder = RGBA(75, 192, 192, 1)

	defaultPalette = []Color{
		RGBA(255, 99, 132, 0.6),
		RGBA(54, 162, 235, 0.6),
		RGBA(255, 206, 86, 0.6),
		RGBA(75, 192, 192, 0.6),
		RGBA(153, 102, 255, 0.6),
	}
)

// DefaultStyle returns the dashboard's bar colors and pie palette.
func DefaultStyle() Style {
	palette := make([]Color, len(defaultPalette))
	copy(palette, defaultPalette)
	return Style{
		Fill:        defaultFill,
		Border:      defaultBorder,
		BorderWidth: 1,
		Palette:     palette,
	}
}

// WithPalette returns s using palette when it is non-empty.
func (s Style) WithPalette(palette []Color) Style {
	if len(palette) > 0 {
		s.Palette = palette
	}
	return s
}

// ============================================================================
// DATASET BUILDERS
// ============================================================================

// BuildCategoryDataset packages ranked entries as one series.
func BuildCategoryDataset(entries []Entry, kind ChartKind, style Style) Dataset {
	labels := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
		values[i] = float64(e.Count)
	}
	return Dataset{
		Labels: labels,
		Series: []Series{styledSeries(values, kind, style)},
	}
}

// BuildHistogramDataset packages bins as one series, labeling each bin with label.
// A nil label uses LabelRange.
func BuildHistogramDataset(bins []Bin, kind ChartKind, style Style, label BinLabeler) Dataset {
	if label == nil {
		label = LabelRange
	}
	labels := make([]string, len(bins))
	values := make([]float64, len(bins))
	for i, b := range bins {
		labels[i] = label(b)
		values[i] = float64(b.Count)
	}
	return Dataset{
		Labels: labels,
		Series: []Series{styledSeries(values, kind, style)},
	}
}

func styledSeries(values []float64, kind ChartKind, style Style) Series {
	if kind.IsCircular() {
		return Series{
			Data:            values,
			BackgroundColor: assignColors(style.Palette, len(values)),
		}
	}
	return Series{
		Data:            values,
		BackgroundColor: []Color{style.Fill},
		BorderColor:     []Color{style.Border},
		BorderWidth:     style.BorderWidth,
	}
}

func assignColors(palette []Color, count int) []Color {
	if len(palette) == 0 {
		palette = defaultPalette
	}
	colors := make([]Color, count)
	for i := 0; i < count; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

// ============================================================================
// BIN LABELS
// ============================================================================

// BinLabeler turns a bin into its axis label.
type BinLabeler func(Bin) string

// LabelThousands writes "50k-65k", rounding each edge half up to the nearest
// thousand.
func LabelThousands(b Bin) string {
	return fmt.Sprintf("%dk-%dk", roundHalfUp(b.X0/1000), roundHalfUp(b.X1/1000))
}

// LabelRange writes both edges in their shortest exact form: "100-200".
func LabelRange(b Bin) string {
	return strconv.FormatFloat(b.X0, 'f', -1, 64) + "-" + strconv.FormatFloat(b.X1, 'f', -1, 64)
}

// BinLabelerFor maps a ChartDef.BinLabel name to a labeler.
func BinLabelerFor(name string) BinLabeler {
	switch name {
	case "thousands":
		return LabelThousands
	default:
		return LabelRange
	}
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
