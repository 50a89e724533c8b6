package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/profiler/internal/profile"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *htmlWriter) rawf(format string, args ...any) { h.raw(fmt.Sprintf(format, args...)) }

func (h *htmlWriter) child(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Document is the full standalone report page.
func Document(s *profile.Summary, theme Theme) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Profiling Report: `)
		h.text(s.Dataset.Name)
		h.raw(`</title><style>`)
		h.raw(stylesheet(theme))
		h.rawf(`</style></head><body class="theme-%s">`, templ.EscapeString(string(theme)))

		h.raw(`<header><h1>Profiling Report</h1><div class="subtitle">`)
		h.text(s.Dataset.Name)
		if s.Dataset.Sheet != "" {
			h.raw(` &middot; sheet `)
			h.text(s.Dataset.Sheet)
		}
		if s.Minimal {
			h.raw(`<span class="badge">minimal</span>`)
		}
		h.raw(`</div></header>`)

		h.raw(`<nav><a href="#overview">Overview</a><a href="#alerts">Alerts</a><a href="#variables">Variables</a>`)
		if len(s.Correlations) > 0 {
			h.raw(`<a href="#correlations">Correlations</a>`)
		}
		h.raw(`<a href="#sample">Sample</a></nav><main>`)

		h.child(ctx, Overview(s))
		h.child(ctx, Alerts(s.Alerts))
		h.child(ctx, Variables(s.Columns))
		if len(s.Correlations) > 0 {
			h.child(ctx, Correlations(s.Correlations))
		}
		h.child(ctx, SampleTable(s.Sample))

		h.raw(`</main><footer>Generated `)
		h.text(s.GeneratedAt.UTC().Format(time.RFC1123))
		h.rawf(` in %s`, s.Duration.Round(time.Millisecond))
		h.raw(`</footer></body></html>`)
	})
}

// Overview shows dataset statistics and the kind breakdown.
func Overview(s *profile.Summary) templ.Component {
	d := s.Dataset
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section id="overview"><h2>Overview</h2><div class="grid"><div class="card"><h3>Dataset statistics</h3><table>`)
		row := func(label, value string) {
			h.raw(`<tr><th>`)
			h.text(label)
			h.raw(`</th><td class="num">`)
			h.text(value)
			h.raw(`</td></tr>`)
		}
		row("Number of variables", strconv.Itoa(d.Columns))
		row("Number of observations", strconv.Itoa(d.Rows))
		row("Missing cells", strconv.Itoa(d.MissingCells))
		row("Missing cells (%)", formatPct(d.MissingPct))
		if d.DuplicatesChecked {
			row("Duplicate rows", strconv.Itoa(d.DuplicateRows))
			row("Duplicate rows (%)", formatPct(d.DuplicatePct))
		}
		h.raw(`</table></div><div class="card"><h3>Variable types</h3><table>`)
		for _, k := range profile.Kinds {
			if n := d.KindCounts[k]; n > 0 {
				row(kindLabel(k), strconv.Itoa(n))
			}
		}
		h.raw(`</table></div></div></section>`)
	})
}

// Alerts lists data-quality warnings.
func Alerts(alerts []profile.Alert) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<section id="alerts"><h2>Alerts <span class="badge">%d</span></h2>`, len(alerts))
		if len(alerts) == 0 {
			h.raw(`<p class="muted">No alerts.</p></section>`)
			return
		}
		h.raw(`<ul class="alerts">`)
		for _, a := range alerts {
			h.raw(`<li>`)
			h.text(a.Message)
			h.raw(`</li>`)
		}
		h.raw(`</ul></section>`)
	})
}

// Variables renders one card per column.
func Variables(cols []profile.ColumnSummary) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section id="variables"><h2>Variables</h2>`)
		for _, c := range cols {
			h.child(ctx, variableCard(c))
		}
		h.raw(`</section>`)
	})
}

func variableCard(c profile.ColumnSummary) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="card"><h3>`)
		h.text(c.Name)
		h.raw(`<span class="badge">`)
		h.text(kindLabel(c.Kind))
		h.raw(`</span></h3><div class="grid"><table>`)

		stat := func(label, value string) {
			h.raw(`<tr><th>`)
			h.text(label)
			h.raw(`</th><td class="num">`)
			h.text(value)
			h.raw(`</td></tr>`)
		}
		stat("Distinct", strconv.Itoa(c.Distinct))
		stat("Distinct (%)", formatPct(c.DistinctPct))
		stat("Missing", strconv.Itoa(c.Missing))
		stat("Missing (%)", formatPct(c.MissingPct))

		if n := c.Numeric; n != nil {
			stat("Mean", formatOptFloat(n.Mean))
			stat("Std. deviation", formatOptFloat(n.Std))
			stat("Variance", formatOptFloat(n.Variance))
			stat("Minimum", formatFloat(n.Min))
			stat("Maximum", formatFloat(n.Max))
			stat("Sum", formatOptFloat(n.Sum))
			stat("Zeros", strconv.Itoa(n.Zeros))
			stat("Negative", strconv.Itoa(n.Negatives))
			h.raw(`</table><table>`)
			for _, q := range n.Quantiles {
				stat(quantileLabel(q.P), formatFloat(q.Value))
			}
			stat("IQR", formatOptFloat(n.IQR))
			stat("Range", formatOptFloat(n.Range))
			stat("MAD", formatOptFloat(n.MAD))
			if n.Skewness != nil {
				stat("Skewness", formatFloat(*n.Skewness))
			}
			if n.Kurtosis != nil {
				stat("Kurtosis", formatFloat(*n.Kurtosis))
			}
			if n.CV != nil {
				stat("Coefficient of variation", formatFloat(*n.CV))
			}
		}
		if d := c.DateTime; d != nil {
			stat("Minimum", d.Min.Format(time.DateTime))
			stat("Maximum", d.Max.Format(time.DateTime))
		}
		if t := c.Text; t != nil {
			stat("Min length", strconv.Itoa(t.MinLength))
			stat("Max length", strconv.Itoa(t.MaxLength))
			stat("Mean length", formatFloat(t.MeanLength))
		}
		h.raw(`</table>`)

		if c.Numeric != nil {
			h.child(ctx, histogramBars(c.Numeric.Histogram))
		}
		if len(c.TopValues) > 0 {
			h.child(ctx, frequencyTable(c.TopValues, c.OtherCount, c.Count))
		}
		h.raw(`</div></div>`)
	})
}

func histogramBars(bins []profile.Bin) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		peak := 0
		for _, b := range bins {
			peak = max(peak, b.Count)
		}
		h.raw(`<div><div class="hist">`)
		for _, b := range bins {
			height := 0.0
			if peak > 0 {
				height = 100 * float64(b.Count) / float64(peak)
			}
			h.rawf(`<div style="height:%.1f%%" title="`, height)
			h.text(fmt.Sprintf("[%s, %s]: %d", formatFloat(b.Lower), formatFloat(b.Upper), b.Count))
			h.raw(`"></div>`)
		}
		h.raw(`</div><div class="muted">Histogram</div></div>`)
	})
}

func frequencyTable(values []profile.ValueCount, other, total int) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<table><tr><th>Value</th><th>Count</th><th>Frequency (%)</th></tr>`)
		bar := func(label string, count int, pct float64) {
			h.raw(`<tr><td>`)
			h.text(label)
			h.rawf(`</td><td class="num">%d</td><td><span class="bar" style="width:%.0fpx"></span> `, count, pct)
			h.text(formatPct(pct))
			h.raw(`</td></tr>`)
		}
		for _, v := range values {
			bar(v.Value, v.Count, v.Pct)
		}
		if other > 0 {
			pct := 0.0
			if total > 0 {
				pct = 100 * float64(other) / float64(total)
			}
			bar("Other values", other, pct)
		}
		h.raw(`</table>`)
	})
}

// Correlations renders each matrix as a shaded table.
func Correlations(ms []profile.CorrelationMatrix) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section id="correlations"><h2>Correlations</h2>`)
		for _, m := range ms {
			h.raw(`<div class="card scroll"><h3>`)
			h.text(methodLabel(m.Method))
			h.raw(`</h3><table class="corr"><tr><th></th>`)
			for _, c := range m.Columns {
				h.raw(`<th>`)
				h.text(c)
				h.raw(`</th>`)
			}
			h.raw(`</tr>`)
			for i, c := range m.Columns {
				h.raw(`<tr><th>`)
				h.text(c)
				h.raw(`</th>`)
				for j := range m.Columns {
					v := m.Values[i][j]
					h.rawf(`<td style="background:%s">%s</td>`, shade(v), formatCorr(v))
				}
				h.raw(`</tr>`)
			}
			h.raw(`</table></div>`)
		}
		h.raw(`</section>`)
	})
}

// SampleTable shows the first rows of the dataset.
func SampleTable(s profile.Sample) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section id="sample"><h2>Sample</h2><div class="scroll"><table><tr>`)
		for _, c := range s.Columns {
			h.raw(`<th>`)
			h.text(c)
			h.raw(`</th>`)
		}
		h.raw(`</tr>`)
		for _, r := range s.Rows {
			h.raw(`<tr>`)
			for _, v := range r {
				h.raw(`<td>`)
				h.text(v)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</table></div></section>`)
	})
}

// shade maps a coefficient to a translucent fill: accent for positive
// values, the theme's contrast color for negative ones.
func shade(v float64) string {
	alpha := math.Min(math.Abs(v), 1) * 0.6
	if v < 0 {
		return fmt.Sprintf("rgba(var(--neg-rgb), %.2f)", alpha)
	}
	return fmt.Sprintf("rgba(var(--accent-rgb), %.2f)", alpha)
}

func kindLabel(k profile.Kind) string {
	switch k {
	case profile.KindNumeric:
		return "Numeric"
	case profile.KindBoolean:
		return "Boolean"
	case profile.KindDateTime:
		return "DateTime"
	case profile.KindCategorical:
		return "Categorical"
	case profile.KindText:
		return "Text"
	}
	return "Unsupported"
}

func methodLabel(m string) string {
	switch m {
	case profile.MethodPearson:
		return "Pearson's r"
	case profile.MethodSpearman:
		return "Spearman's ρ"
	}
	return m
}

func quantileLabel(p float64) string {
	switch p {
	case 0.5:
		return "Median"
	case 0.25:
		return "Q1"
	case 0.75:
		return "Q3"
	}
	return strconv.FormatFloat(p*100, 'f', -1, 64) + "th percentile"
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// formatOptFloat renders nil as "n/a".
func formatOptFloat(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return formatFloat(*f)
}

func formatPct(p float64) string { return strconv.FormatFloat(p, 'f', 1, 64) + "%" }

func formatCorr(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
