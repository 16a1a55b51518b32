package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spektr-org/surveyviz/engine"
	"github.com/spektr-org/surveyviz/render"
)

// ============================================================================
// CSV OUTPUT — chart,label,value rows ready for Sheets/Excel
// ============================================================================

type csvSurface struct {
	cw     *csv.Writer
	layout render.Layout
	header bool
}

func newCSVSurface(w io.Writer, layout render.Layout) *csvSurface {
	return &csvSurface{cw: csv.NewWriter(w), layout: layout}
}

func (s *csvSurface) Target(id string) (engine.Target, error) {
	if !s.layout.Has(id) {
		return nil, fmt.Errorf("%w: %q", engine.ErrTargetNotFound, id)
	}
	return s, nil
}

func (s *csvSurface) Draw(c engine.Chart) error {
	if !s.header {
		if err := s.cw.Write([]string{"Chart", "Label", "Value"}); err != nil {
			return err
		}
		s.header = true
	}
	var data []float64
	if len(c.Dataset.Series) > 0 {
		data = c.Dataset.Series[0].Data
	}
	for i, label := range c.Dataset.Labels {
		value := ""
		if i < len(data) {
			value = fmtNum(data[i])
		}
		if err := s.cw.Write([]string{c.Def.ID, label, value}); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", c.Def.ID, i, err)
		}
	}
	s.cw.Flush()
	return s.cw.Error()
}

func (s *csvSurface) Close() error {
	s.cw.Flush()
	return s.cw.Error()
}

// ============================================================================
// TEXT OUTPUT — Human-readable tallies
// ============================================================================

type textSurface struct {
	w      io.Writer
	layout render.Layout
	p      *message.Printer
}

func newTextSurface(w io.Writer, layout render.Layout) *textSurface {
	return &textSurface{w: w, layout: layout, p: message.NewPrinter(language.English)}
}

func (s *textSurface) Target(id string) (engine.Target, error) {
	if !s.layout.Has(id) {
		return nil, fmt.Errorf("%w: %q", engine.ErrTargetNotFound, id)
	}
	return s, nil
}

func (s *textSurface) Draw(c engine.Chart) error {
	var b strings.Builder

	title := c.Def.Title
	if title == "" {
		title = c.Def.ID
	}
	b.WriteString(s.p.Sprintf("%s (%s, %d records)\n", title, c.Def.Kind, c.Records))

	labels := make([]string, len(c.Dataset.Labels))
	width := 0
	for i, label := range c.Dataset.Labels {
		if label == "" {
			label = `""`
		}
		labels[i] = label
		// padding counts runes, so must the column width
		if n := utf8.RuneCountInString(label); n > width {
			width = n
		}
	}

	var data []float64
	if len(c.Dataset.Series) > 0 {
		data = c.Dataset.Series[0].Data
	}
	if len(c.Dataset.Labels) == 0 {
		b.WriteString("  (no data)\n")
	}
	for i, label := range labels {
		b.WriteString(s.p.Sprintf("  %-*s  %d\n", width, label, int64(data[i])))
	}

	if sum := c.Summary; sum != nil && sum.Count > 0 {
		b.WriteString(s.p.Sprintf("  n=%d  min=%.0f  median=%.0f  mean=%.0f  max=%.0f\n",
			sum.Count, sum.Min, sum.Median, sum.Mean, sum.Max))
	}
	b.WriteString("\n")

	_, err := io.WriteString(s.w, b.String())
	return err
}

// fmtNum writes whole numbers without decimals and fractions with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
