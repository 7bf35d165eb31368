// =============================================================================
// Order Billing Report - XLSX Export Parser
// =============================================================================
//
// Some stores hand over the order export after it was opened and saved in a
// spreadsheet program. This module reads such a workbook into the same raw
// table the CSV parser produces, so the rest of the pipeline does not care
// which format arrived.
//
// EXPECTED LAYOUT:
//   Row 1 holds the export headers ("Name", "Fulfilled at", ...), data starts
//   on row 2. Only one sheet is read: the configured one, or the first.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-billing-report/internal/csvparser"
	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// Parse reads one sheet of an XLSX export.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - sheetName: The sheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - The raw table.
//   - An error if the file cannot be opened, the sheet does not exist or
//     the sheet has no header row.
//
// Date cells are stored as serial numbers. Values of dateColumns that hold
// a serial are rewritten as "YYYY-MM-DD HH:MM:SS"; text dates are kept.
func Parse(filePath, sheetName string, dateColumns ...string) (*types.RawTable, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	// Raw values keep numbers unformatted. Dates come back as serials and
	// are converted below.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	headers := csvparser.CleanHeaders(rows[0])
	data := csvparser.ExtractRows(rows[1:], headers, 2)

	for _, row := range data {
		for _, col := range dateColumns {
			value, ok := row.Values[col]
			if !ok || value == "" {
				continue
			}
			if converted, ok := serialToTimestamp(value); ok {
				row.Values[col] = converted
			}
		}
	}

	return &types.RawTable{
		Headers:    headers,
		Rows:       data,
		SourceFile: filePath,
	}, nil
}

// TimestampLayout is the text form of converted date serials.
const TimestampLayout = "2006-01-02 15:04:05"

// serialToTimestamp converts an Excel date serial (1900 date system) to
// text. ok is false when value is not a number.
func serialToTimestamp(value string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || serial <= 0 {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Round(time.Second).Format(TimestampLayout), true
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
