package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/surveyviz/engine"
)

func countChart(id string, labels []string, counts []float64) engine.Chart {
	return engine.Chart{
		Def:     engine.ChartDef{ID: id, Kind: engine.KindBar, Title: "Roles"},
		Dataset: engine.Dataset{Labels: labels, Series: []engine.Series{{Data: counts}}},
		Records: 8,
	}
}

func TestTextSurfaceAlignsMultibyteLabels(t *testing.T) {
	var out bytes.Buffer
	s := newTextSurface(&out, nil)

	require.NoError(t, s.Draw(countChart("role", []string{"Ingeniería", "Go", ""}, []float64{5, 3, 0})))
	assert.Equal(t, "Roles (bar, 8 records)\n"+
		"  Ingeniería  5\n"+
		"  Go          3\n"+
		"  \"\"          0\n\n", out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCSVSurfaceReportsWriteErrors(t *testing.T) {
	s := newCSVSurface(failingWriter{}, nil)

	err := s.Draw(countChart("role", []string{"Go"}, []float64{3}))
	assert.ErrorContains(t, err, "disk full")
}

func TestCSVSurfaceFlushesEachChart(t *testing.T) {
	var out bytes.Buffer
	s := newCSVSurface(&out, nil)

	require.NoError(t, s.Draw(countChart("role", []string{"Ingeniería"}, []float64{1.5})))
	assert.Equal(t, "Chart,Label,Value\nrole,Ingeniería,1.50\n", out.String())
	require.NoError(t, s.Close())
}
