package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// NUMERIC EXTRACTION TESTS
// ============================================================================

func TestExtractNumericBounds(t *testing.T) {
	view := NewSliceView([]Record{
		{"ConvertedCompYearly": "50000"},
		{"ConvertedCompYearly": "-5"},
		{"ConvertedCompYearly": "abc"},
		{"ConvertedCompYearly": "300000"},
	})

	got := ExtractNumeric(view, "ConvertedCompYearly", DefaultBounds)
	assert.Equal(t, []float64{50000}, got)
}

func TestExtractNumericEdgeValues(t *testing.T) {
	view := NewSliceView([]Record{
		{"Comp": "0"},
		{"Comp": "299999.5"},
		{"Comp": " 1200 "},
		{"Comp": ""},
		{"Comp": "NaN"},
		{"Comp": "Inf"},
		{"Comp": "1e3"},
		{},
		{"Comp": "NA"},
	})

	got := ExtractNumeric(view, "Comp", DefaultBounds)
	assert.Equal(t, []float64{299999.5, 1200, 1000}, got)
}

func TestExtractNumericPreservesOrder(t *testing.T) {
	view := NewSliceView([]Record{
		{"Comp": "30"}, {"Comp": "10"}, {"Comp": "20"},
	})
	assert.Equal(t, []float64{30, 10, 20}, ExtractNumeric(view, "Comp", Unbounded))
}

// ============================================================================
// BINNING TESTS
// ============================================================================

func TestBinObservationsClosedTopBin(t *testing.T) {
	bins := BinObservations([]float64{100, 200, 300}, 2)

	require.Len(t, bins, 2)
	assert.Equal(t, Bin{X0: 100, X1: 200, Count: 1}, bins[0])
	assert.Equal(t, Bin{X0: 200, X1: 300, Count: 2}, bins[1])
	assert.Equal(t, 3, binTotal(bins))
}

func TestBinObservationsEmpty(t *testing.T) {
	assert.Empty(t, BinObservations(nil, 20))
	assert.Empty(t, BinObservations([]float64{}, 5))
}

func TestBinObservationsInvariants(t *testing.T) {
	obs := []float64{12000, 45000, 45000, 98000, 150000, 151000, 210000, 299000, 64000, 77777.7}

	for _, k := range []int{1, 3, 7, 20} {
		bins := BinObservations(obs, k)
		require.Len(t, bins, k)
		assert.Equal(t, len(obs), binTotal(bins))
		assert.Equal(t, 12000.0, bins[0].X0)
		assert.Equal(t, 299000.0, bins[k-1].X1)
		for i := range bins {
			assert.Less(t, bins[i].X0, bins[i].X1)
			if i > 0 {
				assert.Equal(t, bins[i-1].X1, bins[i].X0, "bins must be contiguous")
			}
		}
	}
}

func TestBinObservationsCountsMatchEdges(t *testing.T) {
	tenth := 0.1
	bins := BinObservations([]float64{tenth, 2 * tenth, 3 * tenth}, 2)
	require.Len(t, bins, 2)
	assert.Equal(t, 0.2, bins[1].X0)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[1].Count)

	for n := 2; n <= 30; n++ {
		obs := make([]float64, n)
		for i := range obs {
			obs[i] = 0.1 * float64(i+1)
		}
		for k := 2; k <= 24; k++ {
			bins := BinObservations(obs, k)
			for i, b := range bins {
				assert.Equal(t, membersOf(obs, bins, i), b.Count, "n=%d k=%d bin %d [%v, %v)", n, k, i, b.X0, b.X1)
			}
		}
	}
}

func TestBinObservationsExtremeRange(t *testing.T) {
	bins := BinObservations([]float64{-1.7e308, 0, 1.7e308}, 4)
	require.Len(t, bins, 4)

	assert.Equal(t, -1.7e308, bins[0].X0)
	assert.Equal(t, 1.7e308, bins[3].X1)
	assert.Equal(t, 0.0, bins[2].X0)
	for i, b := range bins {
		assert.False(t, math.IsNaN(b.X0) || math.IsInf(b.X0, 0), "bin %d X0 = %v", i, b.X0)
		assert.False(t, math.IsNaN(b.X1) || math.IsInf(b.X1, 0), "bin %d X1 = %v", i, b.X1)
	}
	assert.Equal(t, []int{1, 0, 1, 1}, []int{bins[0].Count, bins[1].Count, bins[2].Count, bins[3].Count})
}

func TestBinObservationsSingleValue(t *testing.T) {
	bins := BinObservations([]float64{42, 42, 42}, 20)
	require.Len(t, bins, 1)
	assert.Equal(t, Bin{X0: 42, X1: 42, Count: 3}, bins[0])
}

func TestBinObservationsNonPositiveK(t *testing.T) {
	bins := BinObservations([]float64{1, 2, 3}, 0)
	require.Len(t, bins, 1)
	assert.Equal(t, 3, bins[0].Count)
}

func TestBinObservationsDefaultBins(t *testing.T) {
	obs := make([]float64, 0, 1000)
	for i := 1; i <= 1000; i++ {
		obs = append(obs, float64(i*250))
	}
	bins := BinObservations(obs, DefaultBins)
	require.Len(t, bins, DefaultBins)
	assert.Equal(t, 1000, binTotal(bins))
	for _, b := range bins {
		assert.InDelta(t, 50, b.Count, 1)
	}
}

// ============================================================================
// SUMMARY TESTS
// ============================================================================

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{40000, 10000, 30000, 20000})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 10000.0, s.Min)
	assert.Equal(t, 40000.0, s.Max)
	assert.InDelta(t, 25000, s.Mean, 1e-9)
	assert.InDelta(t, 25000, s.Median, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, NumericSummary{}, Summarize(nil))
}

// membersOf counts obs inside bin i's reported interval; the last bin is closed.
func membersOf(obs []float64, bins []Bin, i int) int {
	last := i == len(bins)-1
	n := 0
	for _, v := range obs {
		if v >= bins[i].X0 && (v < bins[i].X1 || last && v <= bins[i].X1) {
			n++
		}
	}
	return n
}

func binTotal(bins []Bin) int {
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	return total
}
