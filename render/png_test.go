package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/surveyviz/engine"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestWritePNG(t *testing.T) {
	result := surveyResult(t)

	for _, id := range []string{"language-chart", "salary-chart"} {
		t.Run(id, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WritePNG(&buf, chartByID(t, result, id)))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestNewBarPlot(t *testing.T) {
	result := surveyResult(t)

	p, err := NewBarPlot(chartByID(t, result, "salary-chart"))
	require.NoError(t, err)
	assert.Equal(t, "Salary Distribution", p.Title.Text)
	assert.Equal(t, "Salary (USD)", p.X.Label.Text)
	assert.Equal(t, "Frequency", p.Y.Label.Text)

	_, err = NewBarPlot(chartByID(t, result, "employment-chart"))
	assert.ErrorIs(t, err, engine.ErrUnsupportedKind)
}

func TestNewBarPlotEmpty(t *testing.T) {
	c := engine.Chart{
		Def:     engine.ChartDef{ID: "empty", Kind: engine.KindBar, Title: "Nothing"},
		Dataset: engine.Dataset{Labels: []string{}, Series: []engine.Series{{Data: []float64{}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, c))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPNGSurfaceSkipsCircularCharts(t *testing.T) {
	result := surveyResult(t)
	dir := t.TempDir()

	s, err := NewPNGSurface(dir, nil)
	require.NoError(t, err)

	errs := engine.Render(result, s, engine.WithLogger(quietLogger))
	require.Len(t, errs, 3)
	for _, err := range errs {
		var cerr *engine.ChartError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, "draw", cerr.Stage)
		assert.ErrorIs(t, err, engine.ErrUnsupportedKind)
	}

	for _, id := range []string{"language-chart", "salary-chart"} {
		_, err := os.Stat(filepath.Join(dir, id+".png"))
		assert.NoError(t, err, id)
	}
	_, err = os.Stat(filepath.Join(dir, "employment-chart.png"))
	assert.True(t, os.IsNotExist(err))
}
