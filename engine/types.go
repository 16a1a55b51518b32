package engine

import (
	"bytes"
	"encoding/json"
	"math"
)

// ============================================================================
// SURVEYVIZ ENGINE TYPES
// ============================================================================
// Record (optional string fields) → FrequencyMap / observations → Entry / Bin
// → Dataset. Chart definitions describe which field feeds which aggregation.
//
// Dependency: engine only reaches outside the standard library for
// go-moremath (numeric bounds and summaries).
// ============================================================================

// ============================================================================
// RECORD — raw survey row
// ============================================================================

// Record is a single raw row keyed by field name.
// A missing key means the field is absent; a present "" means it is empty.
type Record map[string]string

// ============================================================================
// AGGREGATES
// ============================================================================

// FrequencyMap counts occurrences per category label.
type FrequencyMap map[string]int

// Total returns the sum of all counts.
func (m FrequencyMap) Total() int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}

// Entry is one ranked row of a FrequencyMap.
type Entry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Bin is a histogram interval [X0, X1) and its member count.
// The last bin of a histogram is closed on both ends.
type Bin struct {
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	Count int     `json:"count"`
}

// Bounds is an exclusive (Low, High) validity range for numeric fields.
type Bounds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether Low < v < High. NaN is never contained.
func (b Bounds) Contains(v float64) bool {
	return v > b.Low && v < b.High
}

// Unbounded accepts every finite value.
var Unbounded = Bounds{Low: math.Inf(-1), High: math.Inf(1)}

// ============================================================================
// CHART DEFINITIONS — configuration surface
// ============================================================================

// ChartKind is the rendering surface chart type.
type ChartKind string

const (
	KindBar      ChartKind = "bar"
	KindPie      ChartKind = "pie"
	KindDoughnut ChartKind = "doughnut"
)

// IsCircular reports whether the kind colors one slice per category.
func (k ChartKind) IsCircular() bool {
	return k == KindPie || k == KindDoughnut
}

// Strategy names the aggregation a chart runs over its field.
type Strategy string

const (
	StrategyCategorical Strategy = "categorical-tally"
	StrategyMultiValue  Strategy = "multi-value-tally"
	StrategyHistogram   Strategy = "numeric-histogram"
)

// Domain defaults.
const (
	DefaultSeparator = ";"
	DefaultBins      = 20
)

// DefaultBounds is the compensation validity range used by the survey charts.
var DefaultBounds = Bounds{Low: 0, High: 300000}

// ChartDef describes one chart: where its data comes from and how it is shown.
type ChartDef struct {
	ID       string    `json:"id"`
	Kind     ChartKind `json:"kind"`
	Title    string    `json:"title"`
	Field    string    `json:"field"`
	Strategy Strategy  `json:"strategy"`

	Separator string  `json:"separator,omitempty"` // multi-value-tally
	Limit     int     `json:"limit,omitempty"`     // top-N cutoff, 0 = all
	Bins      int     `json:"bins,omitempty"`      // numeric-histogram
	Bounds    *Bounds `json:"bounds,omitempty"`    // numeric-histogram
	BinLabel  string  `json:"binLabel,omitempty"`  // "thousands" or "range"

	Filters Filters `json:"filters,omitempty"`
	Palette []Color `json:"palette,omitempty"`
	Display Display `json:"display"`
}

// Display carries presentation options passed alongside a dataset.
// The engine never computes these; surfaces read them.
type Display struct {
	Legend     string `json:"legend,omitempty"` // "hidden", "top", "right", "bottom", "left"
	Horizontal bool   `json:"horizontal,omitempty"`
	XAxisTitle string `json:"xAxisTitle,omitempty"`
	YAxisTitle string `json:"yAxisTitle,omitempty"`
	TitleSize  int    `json:"titleSize,omitempty"`
}

// LegendHidden reports whether the legend should not be drawn.
func (d Display) LegendHidden() bool {
	return d.Legend == "hidden"
}

// Filters restrict which records a chart aggregates.
// Keys are field names, values are allowed values.
// OR within a field, AND across fields. Empty = all.
type Filters struct {
	Fields map[string][]string `json:"fields,omitempty"`
}

// HasFilter returns true if a specific field filter is set.
func (f Filters) HasFilter(field string) bool {
	if f.Fields == nil {
		return false
	}
	vals, ok := f.Fields[field]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Fields {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// DATASET — render-ready output
// ============================================================================

// Dataset is an ordered label sequence plus one or more parallel value series.
type Dataset struct {
	Labels []string `json:"labels"`
	Series []Series `json:"datasets"`
}

// Valid reports whether every series has exactly one value per label.
func (d Dataset) Valid() bool {
	for _, s := range d.Series {
		if len(s.Data) != len(d.Labels) {
			return false
		}
	}
	return true
}

// Series is one value series with its style.
// A single background or border color applies to every value.
type Series struct {
	Label           string
	Data            []float64
	BackgroundColor []Color
	BorderColor     []Color
	BorderWidth     int
}

// FillAt returns the fill color for the value at index i.
func (s Series) FillAt(i int) Color {
	return colorAt(s.BackgroundColor, i)
}

// BorderAt returns the border color for the value at index i.
func (s Series) BorderAt(i int) Color {
	return colorAt(s.BorderColor, i)
}

func colorAt(colors []Color, i int) Color {
	switch len(colors) {
	case 0:
		return Color{}
	case 1:
		return colors[0]
	}
	return colors[i%len(colors)]
}

// MarshalJSON writes the charting-widget shape: a single color collapses to a
// plain string, several colors stay an array.
func (s Series) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"data": s.Data,
	}
	if s.Data == nil {
		out["data"] = []float64{}
	}
	if s.Label != "" {
		out["label"] = s.Label
	}
	if c := colorsValue(s.BackgroundColor); c != nil {
		out["backgroundColor"] = c
	}
	if c := colorsValue(s.BorderColor); c != nil {
		out["borderColor"] = c
	}
	if s.BorderWidth > 0 {
		out["borderWidth"] = s.BorderWidth
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both color shapes written by MarshalJSON.
func (s *Series) UnmarshalJSON(b []byte) error {
	var raw struct {
		Label           string          `json:"label"`
		Data            []float64       `json:"data"`
		BackgroundColor json.RawMessage `json:"backgroundColor"`
		BorderColor     json.RawMessage `json:"borderColor"`
		BorderWidth     int             `json:"borderWidth"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fill, err := decodeColors(raw.BackgroundColor)
	if err != nil {
		return err
	}
	border, err := decodeColors(raw.BorderColor)
	if err != nil {
		return err
	}
	*s = Series{
		Label:           raw.Label,
		Data:            raw.Data,
		BackgroundColor: fill,
		BorderColor:     border,
		BorderWidth:     raw.BorderWidth,
	}
	return nil
}

func decodeColors(b json.RawMessage) ([]Color, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	if b[0] == '[' {
		var colors []Color
		err := json.Unmarshal(b, &colors)
		return colors, err
	}
	var c Color
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return []Color{c}, nil
}

func colorsValue(colors []Color) interface{} {
	switch len(colors) {
	case 0:
		return nil
	case 1:
		return colors[0]
	}
	return colors
}

// ============================================================================
// CHART — one built chart unit
// ============================================================================

// Chart pairs a definition with the dataset built for it.
type Chart struct {
	Def     ChartDef        `json:"def"`
	Dataset Dataset         `json:"dataset"`
	Records int             `json:"records"`           // records considered after filters
	Summary *NumericSummary `json:"summary,omitempty"` // numeric-histogram only
}

// Result is the outcome of one Execute run.
type Result struct {
	Charts []Chart `json:"charts"`
	Errors []error `json:"-"`
}
