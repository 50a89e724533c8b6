package core

import (
	"time"

	"github.com/JonMunkholm/profiler/internal/profile"
	"github.com/JonMunkholm/profiler/internal/report"
)

// RunOptions are the user-controlled parameters of a profiling run.
type RunOptions struct {
	Minimal bool
	Sheet   string // workbook only; empty selects the first sheet
	Theme   report.Theme
}

// ProfileReport is an immutable, rendered profiling result. The inline view
// and the download both serve HTML unchanged.
type ProfileReport struct {
	ID          string
	FileName    string
	Checksum    string
	Sheet       string
	Sheets      []string // every sheet of the source workbook, in file order
	Options     RunOptions
	Summary     *profile.Summary
	HTML        []byte
	GeneratedAt time.Time
}

// reportKey identifies reports that would render identically.
type reportKey struct {
	checksum string
	minimal  bool
	sheet    string
	theme    report.Theme
}

func keyFor(checksum string, opts RunOptions) reportKey {
	return reportKey{checksum: checksum, minimal: opts.Minimal, sheet: opts.Sheet, theme: opts.Theme}
}
