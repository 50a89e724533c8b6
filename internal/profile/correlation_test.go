package profile

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairwiseCorrelator(t *testing.T) {
	nan := math.NaN()
	names := []string{"x", "linear", "monotonic", "constant"}
	series := [][]float64{
		{1, 2, 3, 4, 5},
		{2, 4, 6, 8, nan},
		{1, 8, 27, 64, 125},
		{3, 3, 3, 3, 3},
	}

	ms, err := PairwiseCorrelator{}.Correlate(context.Background(), names, series)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	pearson, spearman := ms[0], ms[1]

	assert.InDelta(t, 1.0, pearson.Values[0][1], 1e-9, "pairwise-complete rows are perfectly linear")
	assert.Less(t, pearson.Values[0][2], 1.0)
	assert.InDelta(t, 1.0, spearman.Values[0][2], 1e-9, "monotonic relation has rank correlation 1")
	assert.Zero(t, pearson.Values[0][3], "constant column yields 0")

	for i := range names {
		assert.Equal(t, 1.0, pearson.Values[i][i])
		for j := range names {
			assert.Equal(t, pearson.Values[i][j], pearson.Values[j][i])
		}
	}
}

func TestRanks_AveragesTies(t *testing.T) {
	got := ranks([]float64{10, 20, 10, 30})
	assert.Equal(t, []float64{1.5, 3, 1.5, 4}, got)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(sorted, tt.q); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestHistogram_IncludesMaximum(t *testing.T) {
	bins := histogram([]float64{0, 1, 2, 3, 10}, 5)
	require.Len(t, bins, 5)
	assert.Equal(t, 1, bins[4].Count)
	assert.Equal(t, 10.0, bins[4].Upper)
}

func TestHistogram_SpanBeyondFloatRange(t *testing.T) {
	bins := histogram([]float64{-1e308, 0, 1e308}, 4)
	require.Len(t, bins, 4)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[2].Count)
	assert.Equal(t, 1, bins[3].Count)
	assert.Equal(t, -1e308, bins[0].Lower)
	assert.Equal(t, 1e308, bins[3].Upper)
}

func TestBinIndex_Clamps(t *testing.T) {
	tests := []struct {
		pos  float64
		want int
	}{
		{-0.5, 0},
		{0, 0},
		{0.49, 1},
		{1, 3},
		{7, 3},
		{math.NaN(), 3},
	}
	for _, tt := range tests {
		if got := binIndex(tt.pos, 4); got != tt.want {
			t.Errorf("binIndex(%v, 4) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}
