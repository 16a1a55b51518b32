package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/spektr-org/surveyviz/engine"
)

// ============================================================================
// SVG SURFACE — One standalone .svg file per chart
// ============================================================================
// Bars (vertical or horizontal) and pie/doughnut slices drawn with svgo.
// Colors come from the dataset series, so the files match the dashboard.
// ============================================================================

const (
	svgWidth  = 800
	svgHeight = 480
	svgMargin = 40
)

// SVGSurface writes <dir>/<id>.svg for every drawn chart.
type SVGSurface struct {
	dir    string
	layout Layout
}

// NewSVGSurface creates a surface writing into dir (created if missing).
func NewSVGSurface(dir string, layout Layout) (*SVGSurface, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create SVG output dir: %w", err)
	}
	return &SVGSurface{dir: dir, layout: layout}, nil
}

// Target implements engine.Surface.
func (s *SVGSurface) Target(id string) (engine.Target, error) {
	if err := s.layout.check(id); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, fileName(id, ".svg"))
	return targetFunc(func(c engine.Chart) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := WriteSVG(f, c); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}), nil
}

// WriteSVG draws one chart as an SVG document.
func WriteSVG(w io.Writer, c engine.Chart) error {
	if !c.Dataset.Valid() {
		return fmt.Errorf("dataset for %q has mismatched series lengths", c.Def.ID)
	}

	canvas := svg.New(w)
	canvas.Start(svgWidth, svgHeight, `font-family="Helvetica,Arial,sans-serif"`)
	defer canvas.End()

	canvas.Title(c.Def.Title)
	canvas.Rect(0, 0, svgWidth, svgHeight, "fill:#fff")

	titleSize := c.Def.Display.TitleSize
	if titleSize == 0 {
		titleSize = 16
	}
	canvas.Text(svgWidth/2, svgMargin/2+titleSize/2, c.Def.Title,
		fmt.Sprintf("text-anchor:middle;font-size:%dpx;font-weight:bold;fill:#333", titleSize))

	if len(c.Dataset.Series) == 0 || len(c.Dataset.Labels) == 0 {
		canvas.Text(svgWidth/2, svgHeight/2, "No data", "text-anchor:middle;font-size:14px;fill:#888")
		return nil
	}

	series := c.Dataset.Series[0]
	switch {
	case c.Def.Kind.IsCircular():
		drawSlices(canvas, c, series)
	case c.Def.Display.Horizontal:
		drawHorizontalBars(canvas, c, series)
	default:
		drawVerticalBars(canvas, c, series)
	}
	return nil
}

// ============================================================================
// BARS
// ============================================================================

func drawVerticalBars(canvas *svg.SVG, c engine.Chart, s engine.Series) {
	left, top := svgMargin+30, svgMargin+10
	right, bottom := svgWidth-svgMargin, svgHeight-svgMargin-50
	plotW, plotH := right-left, bottom-top

	peak := maxValue(s.Data)
	n := len(s.Data)
	slot := float64(plotW) / float64(n)
	barW := int(math.Max(1, slot*0.8))

	canvas.Line(left, bottom, right, bottom, "stroke:#888;stroke-width:1")
	canvas.Line(left, top, left, bottom, "stroke:#888;stroke-width:1")
	canvas.Text(left-6, top+4, formatValue(peak), "text-anchor:end;font-size:10px;fill:#666")
	canvas.Text(left-6, bottom, "0", "text-anchor:end;font-size:10px;fill:#666")

	for i, v := range s.Data {
		h := scaled(v, peak, plotH)
		x := left + int(float64(i)*slot+(slot-float64(barW))/2)
		canvas.Rect(x, bottom-h, barW, h, barStyle(s, i))

		lx, ly := x+barW/2, bottom+12
		canvas.Text(lx, ly, c.Dataset.Labels[i],
			fmt.Sprintf(`text-anchor="end" transform="rotate(-45 %d %d)" font-size="10" fill="#666"`, lx, ly))
	}

	axisTitles(canvas, c.Def.Display, left, right, top, bottom)
}

func drawHorizontalBars(canvas *svg.SVG, c engine.Chart, s engine.Series) {
	left, top := svgMargin+140, svgMargin+10
	right, bottom := svgWidth-svgMargin, svgHeight-svgMargin
	plotW, plotH := right-left, bottom-top

	peak := maxValue(s.Data)
	n := len(s.Data)
	slot := float64(plotH) / float64(n)
	barH := int(math.Max(1, slot*0.8))

	canvas.Line(left, top, left, bottom, "stroke:#888;stroke-width:1")

	for i, v := range s.Data {
		w := scaled(v, peak, plotW)
		y := top + int(float64(i)*slot+(slot-float64(barH))/2)
		canvas.Rect(left, y, w, barH, barStyle(s, i))
		canvas.Text(left-6, y+barH/2+4, c.Dataset.Labels[i], "text-anchor:end;font-size:11px;fill:#666")
		canvas.Text(left+w+4, y+barH/2+4, formatValue(v), "font-size:10px;fill:#666")
	}

	axisTitles(canvas, c.Def.Display, left, right, top, bottom)
}

func axisTitles(canvas *svg.SVG, d engine.Display, left, right, top, bottom int) {
	if d.XAxisTitle != "" {
		canvas.Text((left+right)/2, svgHeight-8, d.XAxisTitle, "text-anchor:middle;font-size:12px;fill:#333")
	}
	if d.YAxisTitle != "" {
		x, y := 14, (top+bottom)/2
		canvas.Text(x, y, d.YAxisTitle,
			fmt.Sprintf(`text-anchor="middle" transform="rotate(-90 %d %d)" font-size="12" fill="#333"`, x, y))
	}
}

func barStyle(s engine.Series, i int) string {
	style := fillStyle(s.FillAt(i))
	if s.BorderWidth > 0 && len(s.BorderColor) > 0 {
		b := s.BorderAt(i)
		style += fmt.Sprintf(";stroke:#%s;stroke-opacity:%g;stroke-width:%d", b.Hex(), b.A, s.BorderWidth)
	}
	return style
}

// ============================================================================
// SLICES
// ============================================================================

func drawSlices(canvas *svg.SVG, c engine.Chart, s engine.Series) {
	total := 0.0
	for _, v := range s.Data {
		if v > 0 {
			total += v
		}
	}

	d := c.Def.Display
	legend := !d.LegendHidden()

	cx, cy := svgWidth/2, svgHeight/2+svgMargin/2
	if legend {
		cx = svgWidth / 3
	}
	r := svgHeight/2 - svgMargin

	if total > 0 {
		angle := -math.Pi / 2
		for i, v := range s.Data {
			if v <= 0 {
				continue
			}
			sweep := v / total * 2 * math.Pi
			if sweep >= 2*math.Pi-1e-9 {
				canvas.Circle(cx, cy, r, fillStyle(s.FillAt(i))+";stroke:#fff;stroke-width:2")
				angle += sweep
				continue
			}
			canvas.Path(slicePath(cx, cy, r, angle, angle+sweep), fillStyle(s.FillAt(i))+";stroke:#fff;stroke-width:2")
			angle += sweep
		}
		if c.Def.Kind == engine.KindDoughnut {
			canvas.Circle(cx, cy, r/2, "fill:#fff")
		}
	}

	if legend {
		x := cx + r + 40
		y := cy - len(c.Dataset.Labels)*10
		for i, label := range c.Dataset.Labels {
			canvas.Rect(x, y+i*20, 14, 14, fillStyle(s.FillAt(i)))
			canvas.Text(x+20, y+i*20+11, fmt.Sprintf("%s (%s)", label, formatValue(s.Data[i])), "font-size:12px;fill:#333")
		}
	}
}

func slicePath(cx, cy, r int, from, to float64) string {
	x1 := float64(cx) + float64(r)*math.Cos(from)
	y1 := float64(cy) + float64(r)*math.Sin(from)
	x2 := float64(cx) + float64(r)*math.Cos(to)
	y2 := float64(cy) + float64(r)*math.Sin(to)
	large := 0
	if to-from > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%d %d L%.2f %.2f A%d %d 0 %d 1 %.2f %.2f Z", cx, cy, x1, y1, r, r, large, x2, y2)
}

// ============================================================================
// HELPERS
// ============================================================================

func fillStyle(c engine.Color) string {
	return fmt.Sprintf("fill:#%s;fill-opacity:%g", c.Hex(), c.A)
}

func maxValue(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	return peak
}

func scaled(v, max float64, span int) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	return int(math.Round(v / max * float64(span)))
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// fileName turns a chart id into a safe file name.
func fileName(id, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, id)
	if name == "" || name == "." || name == ".." {
		name = "chart"
	}
	return name + ext
}
