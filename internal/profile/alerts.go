package profile

import (
	"fmt"
	"math"
)

// AlertKind names a data-quality warning.
type AlertKind string

const (
	AlertHighMissing     AlertKind = "high_missing"
	AlertConstant        AlertKind = "constant"
	AlertUnique          AlertKind = "unique"
	AlertHighCardinality AlertKind = "high_cardinality"
	AlertHighCorrelation AlertKind = "high_correlation"
	AlertZeros           AlertKind = "zeros"
	AlertAllMissing      AlertKind = "all_missing"
	AlertDuplicates      AlertKind = "duplicates"
)

// Alert is a warning attached to a column, or to the dataset when Column
// is empty.
type Alert struct {
	Kind    AlertKind `json:"kind" yaml:"kind"`
	Column  string    `json:"column,omitempty" yaml:"column,omitempty"`
	Message string    `json:"message" yaml:"message"`
}

const (
	highMissingPct        = 50.0
	zerosPct              = 50.0
	highCorrelation       = 0.9
	highCardinalityMinDst = 50
)

func buildAlerts(s *Summary) []Alert {
	var alerts []Alert
	add := func(kind AlertKind, column, format string, args ...any) {
		alerts = append(alerts, Alert{Kind: kind, Column: column, Message: fmt.Sprintf(format, args...)})
	}

	if s.Dataset.DuplicateRows > 0 {
		add(AlertDuplicates, "", "Dataset has %d (%.1f%%) duplicate rows", s.Dataset.DuplicateRows, s.Dataset.DuplicatePct)
	}

	for _, c := range s.Columns {
		switch {
		case c.Kind == KindUnsupported:
			add(AlertAllMissing, c.Name, "%s has only missing values", c.Name)
			continue
		case c.MissingPct > highMissingPct:
			add(AlertHighMissing, c.Name, "%s has %d (%.1f%%) missing values", c.Name, c.Missing, c.MissingPct)
		}

		switch {
		case c.Distinct == 1:
			add(AlertConstant, c.Name, "%s has constant value %q", c.Name, c.TopValues[0].Value)
		case c.Distinct == c.Count && c.Count > 1 && c.Kind != KindNumeric:
			add(AlertUnique, c.Name, "%s has unique values", c.Name)
		case c.Kind == KindCategorical && c.Distinct > highCardinalityMinDst:
			add(AlertHighCardinality, c.Name, "%s has a high cardinality: %d distinct values", c.Name, c.Distinct)
		}

		if c.Numeric != nil && c.Numeric.ZerosPct > zerosPct {
			add(AlertZeros, c.Name, "%s has %d (%.1f%%) zeros", c.Name, c.Numeric.Zeros, c.Numeric.ZerosPct)
		}
	}

	for _, m := range s.Correlations {
		if m.Method != MethodPearson {
			continue
		}
		for i := range m.Columns {
			for j := i + 1; j < len(m.Columns); j++ {
				if r := m.Values[i][j]; math.Abs(r) > highCorrelation {
					add(AlertHighCorrelation, m.Columns[i], "%s is highly correlated with %s (r = %.2f)", m.Columns[i], m.Columns[j], r)
				}
			}
		}
	}
	return alerts
}
