package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/surveyviz/engine"
)

// ============================================================================
// PNG SURFACE — Bar charts rasterized with gonum/plot
// ============================================================================
// gonum/plot has no pie plotter; pie and doughnut charts fail with
// engine.ErrUnsupportedKind and the render loop moves on.
// ============================================================================

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 5 * vg.Inch
)

// PNGSurface writes <dir>/<id>.png for every drawn bar chart.
type PNGSurface struct {
	dir    string
	layout Layout
}

// NewPNGSurface creates a surface writing into dir (created if missing).
func NewPNGSurface(dir string, layout Layout) (*PNGSurface, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create PNG output dir: %w", err)
	}
	return &PNGSurface{dir: dir, layout: layout}, nil
}

// Target implements engine.Surface.
func (s *PNGSurface) Target(id string) (engine.Target, error) {
	if err := s.layout.check(id); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, fileName(id, ".png"))
	return targetFunc(func(c engine.Chart) error {
		p, err := NewBarPlot(c)
		if err != nil {
			return err
		}
		if err := p.Save(pngWidth, pngHeight, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		return nil
	}), nil
}

// WritePNG draws one bar chart as a PNG image.
func WritePNG(w io.Writer, c engine.Chart) error {
	p, err := NewBarPlot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render %q: %w", c.Def.ID, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %q: %w", c.Def.ID, err)
	}
	return nil
}

// NewBarPlot builds a gonum plot for a bar chart.
func NewBarPlot(c engine.Chart) (*plot.Plot, error) {
	if c.Def.Kind.IsCircular() {
		return nil, fmt.Errorf("%w: %s", engine.ErrUnsupportedKind, c.Def.Kind)
	}
	if !c.Dataset.Valid() {
		return nil, fmt.Errorf("dataset for %q has mismatched series lengths", c.Def.ID)
	}

	d := c.Def.Display
	p := plot.New()
	p.Title.Text = c.Def.Title
	if d.TitleSize > 0 {
		p.Title.TextStyle.Font.Size = vg.Points(float64(d.TitleSize))
	}
	p.X.Label.Text = d.XAxisTitle
	p.Y.Label.Text = d.YAxisTitle

	labels := append([]string(nil), c.Dataset.Labels...)
	if len(labels) == 0 || len(c.Dataset.Series) == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
		return p, nil
	}

	series := c.Dataset.Series[0]
	values := make(plotter.Values, len(series.Data))
	copy(values, series.Data)

	// horizontal bars stack bottom-up; reverse so the first entry is on top
	if d.Horizontal {
		for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
			labels[i], labels[j] = labels[j], labels[i]
		}
	}

	width := vg.Points(math.Max(2, 360/float64(len(values))))
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return nil, fmt.Errorf("failed to build bars for %q: %w", c.Def.ID, err)
	}
	bars.Color = series.FillAt(0).NRGBA()
	if series.BorderWidth > 0 && len(series.BorderColor) > 0 {
		bars.LineStyle.Color = series.BorderAt(0).NRGBA()
		bars.LineStyle.Width = vg.Points(float64(series.BorderWidth))
	} else {
		bars.LineStyle.Width = 0
	}
	bars.Horizontal = d.Horizontal
	p.Add(bars)

	if d.Horizontal {
		p.NominalY(labels...)
	} else {
		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}
