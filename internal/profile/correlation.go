package profile

import (
	"context"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Correlator computes correlation matrices over numeric columns. Each
// series is aligned to frame rows and uses NaN for missing values.
type Correlator interface {
	Correlate(ctx context.Context, names []string, series [][]float64) ([]CorrelationMatrix, error)
}

const (
	MethodPearson  = "pearson"
	MethodSpearman = "spearman"
)

// PairwiseCorrelator computes Pearson and Spearman matrices using, for
// each pair, only the rows where both columns are present. Undefined
// coefficients (fewer than two rows, or a constant column) are reported
// as 0.
type PairwiseCorrelator struct{}

// Correlate implements Correlator.
func (PairwiseCorrelator) Correlate(ctx context.Context, names []string, series [][]float64) ([]CorrelationMatrix, error) {
	pearson := newMatrix(MethodPearson, names)
	spearman := newMatrix(MethodSpearman, names)

	for i := range series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pearson.Values[i][i] = 1
		spearman.Values[i][i] = 1
		for j := i + 1; j < len(series); j++ {
			x, y := complete(series[i], series[j])
			p := coefficient(x, y)
			s := coefficient(ranks(x), ranks(y))
			pearson.Values[i][j], pearson.Values[j][i] = p, p
			spearman.Values[i][j], spearman.Values[j][i] = s, s
		}
	}
	return []CorrelationMatrix{pearson, spearman}, nil
}

func newMatrix(method string, names []string) CorrelationMatrix {
	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(names))
	}
	return CorrelationMatrix{Method: method, Columns: slices.Clone(names), Values: values}
}

// complete drops rows where either value is missing.
func complete(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

func coefficient(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ranks assigns 1-based ranks, averaging ties.
func ranks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case xs[a] < xs[b]:
			return -1
		case xs[a] > xs[b]:
			return 1
		}
		return 0
	})

	out := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
