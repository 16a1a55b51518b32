package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/surveyviz/helpers"
	"github.com/spektr-org/surveyviz/render"
	"github.com/spektr-org/surveyviz/schema"
)

const surveyCSV = "ResponseId,Employment,EdLevel,RemoteWork,LanguageHaveWorkedWith,ConvertedCompYearly\n" +
	"1,Employed,Bachelor's degree,Remote,Python;Go,85000\n" +
	"2,Employed,Master's degree,Hybrid,Go;Rust,120000\n" +
	"3,Student,,Remote,Go,NA\n" +
	"4,Employed,Bachelor's degree,In-person,JavaScript,1042000\n"

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func writeSurvey(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(surveyCSV), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "--file", writeSurvey(t))
	require.NoError(t, err)

	var docs map[string]render.ChartConfig
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 5)
	assert.Equal(t, []string{"Go", "JavaScript", "Python", "Rust"}, docs["language-chart"].Data.Labels)
	assert.Equal(t, []string{"Employed", "Student"}, docs["employment-chart"].Data.Labels)
	assert.Len(t, docs["salary-chart"].Data.Labels, 20)
}

func TestRunTargets(t *testing.T) {
	out, err := execute(t, "--file", writeSurvey(t), "--format", "pretty", "--targets", "remote-chart")
	require.NoError(t, err)

	var docs map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	assert.Len(t, docs, 1)
	assert.Contains(t, docs, "remote-chart")
	assert.Contains(t, out, "\n  ")
}

func TestRunCSV(t *testing.T) {
	out, err := execute(t, "--file", writeSurvey(t), "--format", "csv", "--targets", "employment-chart,education-chart")
	require.NoError(t, err)

	assert.Equal(t, "Chart,Label,Value\n"+
		"employment-chart,Employed,3\n"+
		"employment-chart,Student,1\n"+
		"education-chart,Bachelor's degree,2\n"+
		"education-chart,Master's degree,1\n", out)
}

func TestRunText(t *testing.T) {
	out, err := execute(t, "--file", writeSurvey(t), "--format", "text", "--targets", "language-chart,salary-chart")
	require.NoError(t, err)

	assert.Contains(t, out, "Programming Language Popularity (bar, 4 records)")
	assert.Contains(t, out, "Go          3")
	assert.Contains(t, out, "n=2  min=85,000  median=102,500  mean=102,500  max=120,000")
}

func TestRunFileOutputs(t *testing.T) {
	src := writeSurvey(t)
	dir := t.TempDir()

	t.Run("svg", func(t *testing.T) {
		out := filepath.Join(dir, "svg")
		_, err := execute(t, "--file", src, "--format", "svg", "--out", out)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "remote-chart.svg"))
	})

	t.Run("png", func(t *testing.T) {
		out := filepath.Join(dir, "png")
		_, err := execute(t, "--file", src, "--format", "png", "--out", out)
		require.NoError(t, err, "pie charts are skipped, not fatal")
		assert.FileExists(t, filepath.Join(out, "salary-chart.png"))
		assert.NoFileExists(t, filepath.Join(out, "employment-chart.png"))
	})

	t.Run("xlsx", func(t *testing.T) {
		out := filepath.Join(dir, "charts.xlsx")
		_, err := execute(t, "--file", src, "--format", "xlsx", "--out", out)
		require.NoError(t, err)

		f, err := excelize.OpenFile(out)
		require.NoError(t, err)
		defer f.Close()
		assert.Len(t, f.GetSheetList(), 5)
	})

	t.Run("csv file", func(t *testing.T) {
		out := filepath.Join(dir, "charts.csv")
		stdout, err := execute(t, "--file", src, "--format", "csv", "--out", out)
		require.NoError(t, err)
		assert.Empty(t, stdout)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "Chart,Label,Value\n"))
	})
}

func TestRunStdin(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(surveyCSV))
	cmd.SetArgs([]string{"--file", "-", "--format", "csv", "--targets", "remote-chart"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "remote-chart,Remote,2")
}

func TestRunCustomConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "charts.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		"name": "remote only",
		"charts": [{"id": "remote", "kind": "pie", "field": "RemoteWork", "strategy": "categorical-tally",
			"filters": {"fields": {"Employment": ["employed"]}}}]
	}`), 0644))

	out, err := execute(t, "--file", writeSurvey(t), "--config", cfgPath, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Chart,Label,Value\nremote,Hybrid,1\nremote,In-person,1\nremote,Remote,1\n", out)
}

func TestPrintConfig(t *testing.T) {
	out, err := execute(t, "--print-config")
	require.NoError(t, err)

	cfg, err := schema.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, schema.Default(), cfg)
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t)
	assert.EqualError(t, err, "--file is required")

	_, err = execute(t, "--file", writeSurvey(t), "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")

	_, err = execute(t, "--file", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("Employment\n"), 0644))
	_, err = execute(t, "--file", empty)
	assert.ErrorIs(t, err, helpers.ErrEmptySource)

	_, err = execute(t, "--file", writeSurvey(t), "--config", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
