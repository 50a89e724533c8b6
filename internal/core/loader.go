package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/profiler/internal/frame"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadFrame parses an accepted upload into a frame. For workbooks, sheet
// selects the worksheet by name; an empty sheet means the first one. CSV
// input ignores sheet.
//
// Every failure wraps ErrLoad.
func LoadFrame(file UploadedFile, ext Extension, sheet string) (*frame.Frame, error) {
	var (
		f   *frame.Frame
		err error
	)
	switch ext {
	case ExtCSV:
		f, err = loadCSV(file)
	case ExtXLSX:
		f, err = loadXLSX(file, sheet)
	default:
		return nil, fmt.Errorf("%w: %w", ErrLoad, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, file.Name, err)
	}
	return f, nil
}

// SheetNames lists the worksheets of an XLSX workbook in file order.
func SheetNames(content []byte) ([]string, error) {
	wb, err := openWorkbook(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer wb.Close()
	return wb.GetSheetList(), nil
}

func loadCSV(file UploadedFile) (*frame.Frame, error) {
	data := bytes.TrimPrefix(file.Content, utf8BOM)
	records, err := parseCSV(sanitizeUTF8(data))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	for _, rec := range records {
		for j, cell := range rec {
			rec[j] = unwrapTextFormula(cell)
		}
	}
	return frame.New(file.Name, "", normalizeHeaders(records[0]), records[1:])
}

func loadXLSX(file UploadedFile, sheet string) (*frame.Frame, error) {
	wb, err := openWorkbook(file.Content)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	switch {
	case len(sheets) == 0:
		return nil, ErrEmptyInput
	case sheet == "":
		sheet = sheets[0]
	case !slices.Contains(sheets, sheet):
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || (len(rows) == 1 && isEmptyRow(rows[0])) {
		return nil, ErrEmptyInput
	}

	// GetRows drops trailing blank cells, so the header may be narrower
	// than the data. Widen it to the widest row.
	header := rows[0]
	width := len(header)
	for _, r := range rows[1:] {
		width = max(width, len(r))
	}
	if width > len(header) {
		header = append(slices.Clone(header), make([]string, width-len(header))...)
	}

	return frame.New(file.Name, sheet, normalizeHeaders(header), rows[1:])
}

func openWorkbook(content []byte) (*excelize.File, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return wb, nil
}

// normalizeHeaders gives blank headers a positional name and suffixes
// repeated names with .1, .2, ... so every column name is unique.
func normalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	suffix := make(map[string]int)
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for used[name] {
			suffix[h]++
			name = h + "." + strconv.Itoa(suffix[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// unwrapTextFormula turns the ="00123" form that spreadsheet exports use to
// keep leading zeros back into 00123.
func unwrapTextFormula(s string) string {
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		return s[2 : len(s)-1]
	}
	return s
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte("�"))
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
