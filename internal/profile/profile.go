// Package profile computes the statistical summary behind a profiling
// report: per-column kinds and statistics, dataset-wide counts, alerts and,
// unless the run is minimal, correlations between numeric columns.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/profiler/internal/frame"
)

var (
	// ErrEmptyFrame is returned for frames without rows or columns.
	ErrEmptyFrame = errors.New("frame has no rows or no columns")
)

const (
	DefaultTopValues     = 10
	DefaultHistogramBins = 10
	DefaultSampleRows    = 10
)

// Options controls a single profiling run.
type Options struct {
	// Minimal skips correlations, duplicate-row detection and the
	// higher-moment statistics.
	Minimal bool

	TopValues     int // frequency table length per column
	HistogramBins int
	SampleRows    int
}

func (o Options) withDefaults() Options {
	if o.TopValues <= 0 {
		o.TopValues = DefaultTopValues
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = DefaultHistogramBins
	}
	if o.SampleRows <= 0 {
		o.SampleRows = DefaultSampleRows
	}
	return o
}

// Profiler turns frames into summaries. It is safe for concurrent use.
type Profiler struct {
	correlator Correlator
	defaults   Options
	now        func() time.Time
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithCorrelator replaces the correlation engine.
func WithCorrelator(c Correlator) Option {
	return func(p *Profiler) { p.correlator = c }
}

// WithDefaults sets the option values used when a run leaves them zero.
func WithDefaults(o Options) Option {
	return func(p *Profiler) { p.defaults = o }
}

// New creates a Profiler using pairwise Pearson and Spearman correlations.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		correlator: PairwiseCorrelator{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile summarizes f. It checks ctx between columns and returns its error
// if the run is cancelled.
func (p *Profiler) Profile(ctx context.Context, f *frame.Frame, opts Options) (*Summary, error) {
	if f.Empty() {
		return nil, ErrEmptyFrame
	}
	opts = p.merge(opts)
	start := p.now()

	s := &Summary{
		Dataset: DatasetStats{
			Name:       f.Name,
			Sheet:      f.Sheet,
			Rows:       f.NumRows(),
			Columns:    f.NumCols(),
			KindCounts: make(map[Kind]int),
		},
		Columns: make([]ColumnSummary, 0, f.NumCols()),
		Minimal: opts.Minimal,
	}

	var numeric []numericSeries
	for i, name := range f.Columns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col, series := profileColumn(name, f.Column(i), opts)
		s.Columns = append(s.Columns, col)
		s.Dataset.KindCounts[col.Kind]++
		s.Dataset.MissingCells += col.Missing
		if series != nil {
			numeric = append(numeric, *series)
		}
	}

	cells := f.NumRows() * f.NumCols()
	s.Dataset.MissingPct = pct(s.Dataset.MissingCells, cells)

	if !opts.Minimal {
		s.Dataset.DuplicateRows = countDuplicateRows(f.Rows)
		s.Dataset.DuplicatePct = pct(s.Dataset.DuplicateRows, f.NumRows())
		s.Dataset.DuplicatesChecked = true

		if len(numeric) >= 2 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			names := make([]string, len(numeric))
			values := make([][]float64, len(numeric))
			for i, ns := range numeric {
				names[i], values[i] = ns.name, ns.values
			}
			matrices, err := p.correlator.Correlate(ctx, names, values)
			if err != nil {
				return nil, fmt.Errorf("correlate: %w", err)
			}
			s.Correlations = matrices
		}
	}

	s.Alerts = buildAlerts(s)
	s.Sample = Sample{Columns: f.Columns, Rows: f.Head(opts.SampleRows)}
	s.GeneratedAt = p.now()
	s.Duration = s.GeneratedAt.Sub(start)
	return s, nil
}

func (p *Profiler) merge(o Options) Options {
	if o.TopValues <= 0 {
		o.TopValues = p.defaults.TopValues
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = p.defaults.HistogramBins
	}
	if o.SampleRows <= 0 {
		o.SampleRows = p.defaults.SampleRows
	}
	return o.withDefaults()
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
