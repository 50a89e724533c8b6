package profile

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// numericSeries keeps a numeric column aligned to frame rows, with NaN for
// missing cells, so correlations can use pairwise-complete observations.
type numericSeries struct {
	name   string
	values []float64
}

func profileColumn(name string, raw []string, opts Options) (ColumnSummary, *numericSeries) {
	present := make([]string, 0, len(raw))
	for _, v := range raw {
		if !isMissing(v) {
			present = append(present, strings.TrimSpace(v))
		}
	}

	col := ColumnSummary{
		Name:       name,
		Kind:       inferKind(present),
		Count:      len(present),
		Missing:    len(raw) - len(present),
		MissingPct: pct(len(raw)-len(present), len(raw)),
	}
	if col.Kind == KindUnsupported {
		return col, nil
	}

	freq := frequencies(present, col.Kind)
	col.Distinct = len(freq)
	col.DistinctPct = pct(col.Distinct, col.Count)
	col.TopValues, col.OtherCount = topValues(freq, col.Count, opts.TopValues)

	var series *numericSeries
	switch col.Kind {
	case KindNumeric:
		aligned := make([]float64, len(raw))
		xs := make([]float64, 0, len(present))
		for i, v := range raw {
			if isMissing(v) {
				aligned[i] = math.NaN()
				continue
			}
			f, _ := parseNumber(strings.TrimSpace(v))
			aligned[i] = f
			xs = append(xs, f)
		}
		col.Numeric = describeNumeric(xs, opts)
		series = &numericSeries{name: name, values: aligned}
	case KindDateTime:
		col.DateTime = describeTimes(present)
	case KindCategorical, KindText:
		col.Text = describeLengths(present)
	}
	return col, series
}

// frequencies counts values by their canonical form: numbers by value,
// booleans case-insensitively, everything else verbatim.
func frequencies(present []string, kind Kind) map[string]int {
	freq := make(map[string]int)
	for _, v := range present {
		key := v
		switch kind {
		case KindNumeric:
			f, _ := parseNumber(v)
			key = strconv.FormatFloat(f, 'g', -1, 64)
		case KindBoolean:
			key = strings.ToLower(v)
		}
		freq[key]++
	}
	return freq
}

// topValues returns the n most frequent values, ties broken by value, and
// the combined count of everything else.
func topValues(freq map[string]int, total, n int) ([]ValueCount, int) {
	out := make([]ValueCount, 0, len(freq))
	for v, c := range freq {
		out = append(out, ValueCount{Value: v, Count: c, Pct: pct(c, total)})
	}
	slices.SortFunc(out, func(a, b ValueCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	if len(out) <= n {
		return out, 0
	}
	other := 0
	for _, vc := range out[n:] {
		other += vc.Count
	}
	return out[:n], other
}

func describeTimes(present []string) *DateTimeStats {
	var ds DateTimeStats
	for i, v := range present {
		t, _ := parseTime(v)
		if i == 0 || t.Before(ds.Min) {
			ds.Min = t
		}
		if i == 0 || t.After(ds.Max) {
			ds.Max = t
		}
	}
	return &ds
}

func describeLengths(present []string) *TextStats {
	ts := TextStats{MinLength: math.MaxInt}
	total := 0
	for _, v := range present {
		n := utf8.RuneCountInString(v)
		ts.MinLength = min(ts.MinLength, n)
		ts.MaxLength = max(ts.MaxLength, n)
		total += n
	}
	ts.MeanLength = float64(total) / float64(len(present))
	return &ts
}
