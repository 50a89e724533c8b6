// Package frame holds the in-memory tabular structure produced by the loader
// and consumed by the profiler.
package frame

import "fmt"

// Frame is a rows × named columns table of raw cell text.
//
// Every row has exactly len(Columns) cells and column names are unique.
// Typing happens later, during profiling.
type Frame struct {
	Name    string // source file name
	Sheet   string // worksheet name; empty for CSV input
	Columns []string
	Rows    [][]string
}

// New builds a frame, padding short rows to the header width.
// Rows wider than the header are rejected.
func New(name, sheet string, columns []string, rows [][]string) (*Frame, error) {
	width := len(columns)
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) > width {
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", width, i+2, len(row))
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		out = append(out, row)
	}
	return &Frame{Name: name, Sheet: sheet, Columns: columns, Rows: out}, nil
}

// NumRows returns the number of data rows (header excluded).
func (f *Frame) NumRows() int { return len(f.Rows) }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.Columns) }

// Empty reports whether the frame has no rows or no columns.
func (f *Frame) Empty() bool { return f == nil || len(f.Rows) == 0 || len(f.Columns) == 0 }

// Column returns a copy of the values in column i.
func (f *Frame) Column(i int) []string {
	col := make([]string, len(f.Rows))
	for r, row := range f.Rows {
		col[r] = row[i]
	}
	return col
}

// Head returns up to n leading rows.
func (f *Frame) Head(n int) [][]string {
	if n > len(f.Rows) {
		n = len(f.Rows)
	}
	return f.Rows[:n]
}
