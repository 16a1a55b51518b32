package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/surveyviz/engine"
)

// ============================================================================
// XLSX SURFACE — One worksheet plus a native Excel chart per chart id
// ============================================================================
// Each sheet holds the label/value table (column A/B) with the chart anchored
// beside it, so the workbook stays editable in Excel or Sheets.
// ============================================================================

const (
	defaultSheet = "Sheet1"
	maxSheetName = 31
)

// XLSXSurface collects charts into a workbook saved to path on Close.
type XLSXSurface struct {
	path   string
	layout Layout
	file   *excelize.File
	sheets []string
	used   map[string]bool // lowercased sheet names, excelize ignores case
}

// NewXLSXSurface creates a surface writing a workbook to path.
func NewXLSXSurface(path string, layout Layout) *XLSXSurface {
	return &XLSXSurface{
		path:   path,
		layout: layout,
		file:   excelize.NewFile(),
		used:   make(map[string]bool),
	}
}

// Target implements engine.Surface.
func (s *XLSXSurface) Target(id string) (engine.Target, error) {
	if err := s.layout.check(id); err != nil {
		return nil, err
	}
	return targetFunc(func(c engine.Chart) error {
		return s.draw(s.uniqueSheet(id), c)
	}), nil
}

// Sheets returns the worksheet names written so far, in draw order.
func (s *XLSXSurface) Sheets() []string {
	return append([]string(nil), s.sheets...)
}

// uniqueSheet reserves a worksheet name for id. Ids that collide once case is
// folded or the name is cut to 31 chars get a "~2", "~3", ... suffix.
func (s *XLSXSurface) uniqueSheet(id string) string {
	base := sheetName(id)
	name := base
	for n := 2; s.used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		r := []rune(base)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		name = string(r) + suffix
	}
	s.used[strings.ToLower(name)] = true
	return name
}

func (s *XLSXSurface) draw(sheet string, c engine.Chart) error {
	if !c.Dataset.Valid() {
		return fmt.Errorf("dataset for %q has mismatched series lengths", c.Def.ID)
	}

	idx, err := s.file.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	if len(s.sheets) == 0 {
		s.file.SetActiveSheet(idx)
	}
	s.sheets = append(s.sheets, sheet)

	valueHeader := c.Def.Display.YAxisTitle
	if valueHeader == "" {
		valueHeader = "Count"
	}
	labelHeader := c.Def.Display.XAxisTitle
	if labelHeader == "" {
		labelHeader = "Label"
	}
	if err := s.file.SetSheetRow(sheet, "A1", &[]interface{}{labelHeader, valueHeader}); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", sheet, err)
	}

	var data []float64
	if len(c.Dataset.Series) > 0 {
		data = c.Dataset.Series[0].Data
	}
	for i, label := range c.Dataset.Labels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := s.file.SetSheetRow(sheet, cell, &[]interface{}{label, data[i]}); err != nil {
			return fmt.Errorf("failed to write row %d on %q: %w", i+2, sheet, err)
		}
	}

	if len(c.Dataset.Labels) == 0 {
		return nil
	}
	return s.file.AddChart(sheet, "D2", excelChart(sheet, c))
}

func excelChart(sheet string, c engine.Chart) *excelize.Chart {
	last := len(c.Dataset.Labels) + 1
	series := excelize.ChartSeries{
		Name:       fmt.Sprintf("'%s'!$B$1", sheet),
		Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
		Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last),
	}

	chart := &excelize.Chart{
		Title:     []excelize.RichTextRun{{Text: c.Def.Title}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 400},
		Legend:    excelize.ChartLegend{Position: legendPosition(c.Def.Display)},
	}

	switch c.Def.Kind {
	case engine.KindPie:
		chart.Type = excelize.Pie
	case engine.KindDoughnut:
		chart.Type = excelize.Doughnut
	default:
		chart.Type = excelize.Col
		if c.Def.Display.Horizontal {
			chart.Type = excelize.Bar
		}
		if len(c.Dataset.Series) > 0 {
			fill := c.Dataset.Series[0].FillAt(0)
			series.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill.Hex()}}
		}
		if t := c.Def.Display.XAxisTitle; t != "" {
			chart.XAxis.Title = []excelize.RichTextRun{{Text: t}}
		}
		if t := c.Def.Display.YAxisTitle; t != "" {
			chart.YAxis.Title = []excelize.RichTextRun{{Text: t}}
		}
	}

	chart.Series = []excelize.ChartSeries{series}
	return chart
}

func legendPosition(d engine.Display) string {
	if d.LegendHidden() || d.Legend == "" {
		return "none"
	}
	return d.Legend
}

// Close saves the workbook and releases it.
func (s *XLSXSurface) Close() error {
	defer s.file.Close()

	if len(s.sheets) > 0 && !s.hasSheet(defaultSheet) {
		if err := s.file.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
		s.file.SetActiveSheet(0)
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (s *XLSXSurface) hasSheet(name string) bool {
	for _, sh := range s.sheets {
		if strings.EqualFold(sh, name) {
			return true
		}
	}
	return false
}

// sheetName turns a chart id into a valid worksheet name (31 chars max).
func sheetName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\', '\'':
			return '_'
		}
		return r
	}, id)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		name = "chart"
	}
	return name
}
