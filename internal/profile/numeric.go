package profile

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	fullQuantiles    = []float64{0.05, 0.25, 0.5, 0.75, 0.95}
	minimalQuantiles = []float64{0.25, 0.5, 0.75}
)

// describeNumeric summarizes xs, which holds only present values.
func describeNumeric(xs []float64, opts Options) *NumericStats {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)

	ns := &NumericStats{
		Min: sorted[0],
		Max: sorted[n-1],
		Sum: finite(floats.Sum(sorted)),
	}
	ns.Range = finite(ns.Max - ns.Min)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 {
		std = 0
	}
	ns.Mean = finite(mean)
	ns.Std = finite(std)
	ns.Variance = finite(std * std)

	for _, x := range sorted {
		switch {
		case x == 0:
			ns.Zeros++
		case x < 0:
			ns.Negatives++
		}
	}
	ns.ZerosPct = pct(ns.Zeros, n)

	ps := fullQuantiles
	if opts.Minimal {
		ps = minimalQuantiles
	}
	for _, p := range ps {
		ns.Quantiles = append(ns.Quantiles, Quantile{P: p, Value: quantile(sorted, p)})
	}
	ns.IQR = finite(quantile(sorted, 0.75) - quantile(sorted, 0.25))
	ns.MAD = finite(medianAbsDeviation(sorted))

	if !opts.Minimal {
		ns.Skewness = finite(stat.Skew(sorted, nil))
		ns.Kurtosis = finite(stat.ExKurtosis(sorted, nil))
		if ns.Mean != nil && ns.Std != nil && *ns.Mean != 0 {
			ns.CV = finite(*ns.Std / *ns.Mean)
		}
	}

	ns.Histogram = histogram(sorted, opts.HistogramBins)
	return ns
}

// quantile interpolates linearly between closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func medianAbsDeviation(sorted []float64) float64 {
	median := quantile(sorted, 0.5)
	dev := make([]float64, len(sorted))
	for i, v := range sorted {
		dev[i] = math.Abs(v - median)
	}
	slices.Sort(dev)
	return quantile(dev, 0.5)
}

// histogram buckets sorted into equal-width bins over [min, max]. A
// constant column yields a single bin. Positions are computed on halved
// values so that spans wider than the float64 range stay finite.
func histogram(sorted []float64, bins int) []Bin {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	span := hi/2 - lo/2
	if lo == hi || !(span > 0) || math.IsInf(span, 0) {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = edge(lo, hi, i, bins)
		out[i].Upper = edge(lo, hi, i+1, bins)
	}

	for _, x := range sorted {
		out[binIndex((x/2-lo/2)/span, bins)].Count++
	}
	return out
}

// edge is the i-th of bins+1 evenly spaced points from lo to hi.
func edge(lo, hi float64, i, bins int) float64 {
	if i == bins {
		return hi
	}
	t := float64(i) / float64(bins)
	return lo*(1-t) + hi*t
}

// binIndex maps a position in [0, 1] to a bin, clamping out-of-range and
// NaN positions.
func binIndex(pos float64, bins int) int {
	if math.IsNaN(pos) || pos >= 1 {
		return bins - 1
	}
	if pos <= 0 {
		return 0
	}
	return min(int(pos*float64(bins)), bins-1)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
