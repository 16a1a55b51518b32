package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spektr-org/surveyviz/engine"
)

// ============================================================================
// JSON SURFACE — Chart.js configuration documents
// ============================================================================
// Each drawn chart becomes {type, data, options}: the object a browser page
// hands to `new Chart(canvas, config)`. Documents are collected in draw order
// and written as one object keyed by chart id on Close.
// ============================================================================

// ChartConfig is one Chart.js configuration document.
type ChartConfig struct {
	Type    engine.ChartKind `json:"type"`
	Data    engine.Dataset   `json:"data"`
	Options ChartOptions     `json:"options"`
}

// ChartOptions mirrors the Chart.js options the dashboard uses.
type ChartOptions struct {
	IndexAxis           string           `json:"indexAxis,omitempty"`
	Responsive          bool             `json:"responsive"`
	MaintainAspectRatio bool             `json:"maintainAspectRatio"`
	Plugins             Plugins          `json:"plugins"`
	Scales              map[string]Scale `json:"scales,omitempty"`
}

// Plugins holds legend and title options.
type Plugins struct {
	Legend Legend `json:"legend"`
	Title  Title  `json:"title"`
}

// Legend positions or hides the legend.
type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

// Title is a chart or axis title.
type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Font    *Font  `json:"font,omitempty"`
}

// Font sets a title size in pixels.
type Font struct {
	Size int `json:"size"`
}

// Scale is one axis.
type Scale struct {
	Title Title `json:"title"`
}

// NewChartConfig converts a built chart into its Chart.js document.
func NewChartConfig(c engine.Chart) ChartConfig {
	d := c.Def.Display

	opts := ChartOptions{
		Responsive: true,
		Plugins: Plugins{
			Title: Title{Display: c.Def.Title != "", Text: c.Def.Title},
		},
	}
	if d.TitleSize > 0 {
		opts.Plugins.Title.Font = &Font{Size: d.TitleSize}
	}
	if d.Horizontal && !c.Def.Kind.IsCircular() {
		opts.IndexAxis = "y"
	}
	if !d.LegendHidden() {
		opts.Plugins.Legend = Legend{Display: true, Position: d.Legend}
	}
	if d.XAxisTitle != "" || d.YAxisTitle != "" {
		opts.Scales = make(map[string]Scale)
		if d.XAxisTitle != "" {
			opts.Scales["x"] = Scale{Title: Title{Display: true, Text: d.XAxisTitle}}
		}
		if d.YAxisTitle != "" {
			opts.Scales["y"] = Scale{Title: Title{Display: true, Text: d.YAxisTitle}}
		}
	}

	return ChartConfig{Type: c.Def.Kind, Data: c.Dataset, Options: opts}
}

// JSONSurface collects Chart.js documents and writes them to w on Close.
type JSONSurface struct {
	w      io.Writer
	layout Layout
	indent bool

	order   []string
	configs map[string]ChartConfig
}

// JSONOption configures a JSONSurface.
type JSONOption func(*JSONSurface)

// WithIndent pretty-prints the written document.
func WithIndent() JSONOption {
	return func(s *JSONSurface) {
		s.indent = true
	}
}

// NewJSONSurface creates a surface offering the ids in layout (nil = any).
func NewJSONSurface(w io.Writer, layout Layout, opts ...JSONOption) *JSONSurface {
	s := &JSONSurface{
		w:       w,
		layout:  layout,
		configs: make(map[string]ChartConfig),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target implements engine.Surface.
func (s *JSONSurface) Target(id string) (engine.Target, error) {
	if err := s.layout.check(id); err != nil {
		return nil, err
	}
	return targetFunc(func(c engine.Chart) error {
		if !c.Dataset.Valid() {
			return fmt.Errorf("dataset for %q has mismatched series lengths", id)
		}
		if _, ok := s.configs[id]; !ok {
			s.order = append(s.order, id)
		}
		s.configs[id] = NewChartConfig(c)
		return nil
	}), nil
}

// Configs returns the collected documents in draw order.
func (s *JSONSurface) Configs() []ChartConfig {
	out := make([]ChartConfig, len(s.order))
	for i, id := range s.order {
		out[i] = s.configs[id]
	}
	return out
}

// Close writes every collected document as {"<id>": config, ...} in draw order.
func (s *JSONSurface) Close() error {
	var buf []byte
	buf = append(buf, '{')
	for i, id := range s.order {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return fmt.Errorf("failed to encode chart id: %w", err)
		}
		val, err := json.Marshal(s.configs[id])
		if err != nil {
			return fmt.Errorf("failed to encode chart %q: %w", id, err)
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')

	if s.indent {
		var out bytes.Buffer
		if err := json.Indent(&out, buf, "", "  "); err != nil {
			return fmt.Errorf("failed to indent chart configs: %w", err)
		}
		buf = out.Bytes()
	}
	buf = append(buf, '\n')

	if _, err := s.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write chart configs: %w", err)
	}
	return nil
}
