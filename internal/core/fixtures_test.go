package core

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sheetFixture struct {
	name string
	rows [][]any
}

// buildWorkbook writes the given sheets, in order, to an in-memory XLSX file.
func buildWorkbook(t *testing.T, sheets ...sheetFixture) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, wb.SetSheetName("Sheet1", s.name))
		} else {
			_, err := wb.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, wb.SetSheetRow(s.name, cell, &row))
		}
	}

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func twoSheetWorkbook(t *testing.T) []byte {
	return buildWorkbook(t,
		sheetFixture{name: "Sheet1", rows: [][]any{
			{"id", "amount"},
			{1, 10.5},
			{2, 20.25},
		}},
		sheetFixture{name: "Sheet2", rows: [][]any{
			{"city", "population", "country"},
			{"Oslo", 709000, "NO"},
			{"Bergen", 291000, "NO"},
			{"Aarhus", 285000, "DK"},
		}},
	)
}
