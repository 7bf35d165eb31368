package xlsxparser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_FirstSheet(t *testing.T) {
	path := writeWorkbook(t, "orders_export", [][]any{
		{"Name", "Lineitem quantity", "Lineitem sku"},
		{"#1001", 2, "SKU-TS"},
		{nil, nil, nil},
		{"#1002", 1, "SKU-MUG"},
	})

	table, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Lineitem quantity", "Lineitem sku"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2", table.Rows[0].Values["Lineitem quantity"])
	assert.Equal(t, "#1002", table.Rows[1].Values["Name"])
	assert.Equal(t, 4, table.Rows[1].Number)
}

func TestParse_NamedSheetMissing(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{{"Name"}, {"#1"}})
	_, err := Parse(path, "Orders")
	assert.Error(t, err)
}

func TestParse_NoHeader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", nil)
	_, err := Parse(path, "")
	assert.Error(t, err)
}

func TestParse_DateCellsBecomeTimestamps(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"Name", "Fulfilled at", "Lineitem quantity"},
		{"#1001", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), 2},
		{"#1002", "2024-01-16 09:00:00 +0100", 1},
		{"#1003", "", 1},
	})

	table, err := Parse(path, "", "Fulfilled at")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, "2024-01-15 10:00:00", table.Rows[0].Values["Fulfilled at"])
	assert.Equal(t, "2024-01-16 09:00:00 +0100", table.Rows[1].Values["Fulfilled at"])
	assert.Equal(t, "", table.Rows[2].Values["Fulfilled at"])
	// Only the named columns are converted.
	assert.Equal(t, "2", table.Rows[0].Values["Lineitem quantity"])
}

func TestSerialToTimestamp(t *testing.T) {
	got, ok := serialToTimestamp("45306.416666666664")
	require.True(t, ok)
	assert.Equal(t, "2024-01-15 10:00:00", got)

	_, ok = serialToTimestamp("2024-01-15")
	assert.False(t, ok)
}
