package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// ============================================================================
// NUMERIC — extraction, binning, and descriptive summary
// ============================================================================

// ExtractNumeric parses field on every record and keeps values strictly inside
// b, in record order. Absent, unparsable and out-of-range values are dropped.
func ExtractNumeric(view RecordView, field string, b Bounds) []float64 {
	var obs []float64
	for i := 0; i < view.Len(); i++ {
		val, ok := view.Field(i, field)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || !b.Contains(v) {
			continue
		}
		obs = append(obs, v)
	}
	return obs
}

// BinObservations partitions obs into k equal-width bins over [min, max].
// Each value goes to floor((v-min)/w), nudged so it always lies inside the
// reported [X0, X1) of its bin; the maximum is clamped into the last bin,
// which is therefore closed on both ends.
//
// Empty input yields nil. k < 1 is treated as 1. When every observation has
// the same value a single [v, v] bin holds them all.
func BinObservations(obs []float64, k int) []Bin {
	if len(obs) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}

	lo, hi := stats.Bounds(obs)
	if lo == hi {
		return []Bin{{X0: lo, X1: hi, Count: len(obs)}}
	}

	// A range wider than MaxFloat64 is binned at half scale; halving is exact.
	scale := 1.0
	if math.IsInf(hi-lo, 0) {
		scale = 0.5
	}
	slo := lo * scale
	w := (hi*scale - slo) / float64(k)

	bins := make([]Bin, k)
	for i := range bins {
		bins[i].X0 = (slo + float64(i)*w) / scale
		bins[i].X1 = (slo + float64(i+1)*w) / scale
	}
	bins[0].X0 = lo
	bins[k-1].X1 = hi

	for _, v := range obs {
		idx := int(math.Floor((v*scale - slo) / w))
		if idx >= k {
			idx = k - 1
		}
		if idx < 0 {
			idx = 0
		}
		// the reported edges decide membership, not the rounded quotient
		for idx > 0 && v < bins[idx].X0 {
			idx--
		}
		for idx < k-1 && v >= bins[idx].X1 {
			idx++
		}
		bins[idx].Count++
	}
	return bins
}

// NumericSummary describes the observations behind a histogram.
type NumericSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes count, bounds, mean and median of obs.
// An empty slice gives a zero summary.
func Summarize(obs []float64) NumericSummary {
	if len(obs) == 0 {
		return NumericSummary{}
	}
	lo, hi := stats.Bounds(obs)
	sample := stats.Sample{Xs: obs}
	return NumericSummary{
		Count:  len(obs),
		Min:    lo,
		Max:    hi,
		Mean:   sample.Mean(),
		Median: sample.Quantile(0.5),
	}
}
