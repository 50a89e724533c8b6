package profile

import "time"

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindBoolean     Kind = "boolean"
	KindDateTime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindUnsupported Kind = "unsupported" // every value missing
)

// Kinds lists the kinds in display order.
var Kinds = []Kind{KindNumeric, KindBoolean, KindDateTime, KindCategorical, KindText, KindUnsupported}

// Summary is the structured result of a profiling run.
type Summary struct {
	Dataset      DatasetStats        `json:"dataset" yaml:"dataset"`
	Columns      []ColumnSummary     `json:"columns" yaml:"columns"`
	Correlations []CorrelationMatrix `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	Alerts       []Alert             `json:"alerts" yaml:"alerts"`
	Sample       Sample              `json:"sample" yaml:"sample"`
	Minimal      bool                `json:"minimal" yaml:"minimal"`
	GeneratedAt  time.Time           `json:"generated_at" yaml:"generated_at"`
	Duration     time.Duration       `json:"duration_ns" yaml:"duration_ns"`
}

// DatasetStats holds table-wide counts.
type DatasetStats struct {
	Name              string       `json:"name" yaml:"name"`
	Sheet             string       `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Rows              int          `json:"rows" yaml:"rows"`
	Columns           int          `json:"columns" yaml:"columns"`
	MissingCells      int          `json:"missing_cells" yaml:"missing_cells"`
	MissingPct        float64      `json:"missing_pct" yaml:"missing_pct"`
	DuplicateRows     int          `json:"duplicate_rows" yaml:"duplicate_rows"`
	DuplicatePct      float64      `json:"duplicate_pct" yaml:"duplicate_pct"`
	DuplicatesChecked bool         `json:"duplicates_checked" yaml:"duplicates_checked"`
	KindCounts        map[Kind]int `json:"kind_counts" yaml:"kind_counts"`
}

// ColumnSummary describes one column. Exactly one of the kind-specific
// blocks is set, depending on Kind.
type ColumnSummary struct {
	Name        string       `json:"name" yaml:"name"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Count       int          `json:"count" yaml:"count"`
	Missing     int          `json:"missing" yaml:"missing"`
	MissingPct  float64      `json:"missing_pct" yaml:"missing_pct"`
	Distinct    int          `json:"distinct" yaml:"distinct"`
	DistinctPct float64      `json:"distinct_pct" yaml:"distinct_pct"`
	TopValues   []ValueCount `json:"top_values,omitempty" yaml:"top_values,omitempty"`
	OtherCount  int          `json:"other_count,omitempty" yaml:"other_count,omitempty"`

	Numeric  *NumericStats  `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	DateTime *DateTimeStats `json:"datetime,omitempty" yaml:"datetime,omitempty"`
	Text     *TextStats     `json:"text,omitempty" yaml:"text,omitempty"`
}

// ValueCount is one row of a frequency table.
type ValueCount struct {
	Value string  `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
	Pct   float64 `json:"pct" yaml:"pct"`
}

// NumericStats are the descriptive statistics of a numeric column.
type NumericStats struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
	// Moments and spreads are nil when they overflow float64.
	Mean      *float64 `json:"mean" yaml:"mean"`
	Std       *float64 `json:"std" yaml:"std"`
	Variance  *float64 `json:"variance" yaml:"variance"`
	Sum       *float64 `json:"sum" yaml:"sum"`
	Zeros     int      `json:"zeros" yaml:"zeros"`
	ZerosPct  float64  `json:"zeros_pct" yaml:"zeros_pct"`
	Negatives int      `json:"negatives" yaml:"negatives"`

	Quantiles []Quantile `json:"quantiles" yaml:"quantiles"`
	IQR       *float64   `json:"iqr" yaml:"iqr"`
	MAD       *float64   `json:"mad" yaml:"mad"`
	Range     *float64   `json:"range" yaml:"range"`

	// Higher moments are nil in minimal runs.
	Skewness *float64 `json:"skewness,omitempty" yaml:"skewness,omitempty"`
	Kurtosis *float64 `json:"kurtosis,omitempty" yaml:"kurtosis,omitempty"`
	CV       *float64 `json:"cv,omitempty" yaml:"cv,omitempty"`

	Histogram []Bin `json:"histogram" yaml:"histogram"`
}

// Quantile is the value at probability P.
type Quantile struct {
	P     float64 `json:"p" yaml:"p"`
	Value float64 `json:"value" yaml:"value"`
}

// Bin is a histogram bucket covering [Lower, Upper).
// The last bin also includes Upper.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// DateTimeStats holds the range of a datetime column.
type DateTimeStats struct {
	Min time.Time `json:"min" yaml:"min"`
	Max time.Time `json:"max" yaml:"max"`
}

// TextStats describes string lengths in runes.
type TextStats struct {
	MinLength  int     `json:"min_length" yaml:"min_length"`
	MaxLength  int     `json:"max_length" yaml:"max_length"`
	MeanLength float64 `json:"mean_length" yaml:"mean_length"`
}

// CorrelationMatrix is a square matrix over the numeric columns.
type CorrelationMatrix struct {
	Method  string      `json:"method" yaml:"method"`
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

// Sample is the first rows of the frame, shown verbatim in the report.
type Sample struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Column returns the summary for name.
func (s *Summary) Column(name string) (ColumnSummary, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}
