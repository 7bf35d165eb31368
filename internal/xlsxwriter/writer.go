// =============================================================================
// Order Billing Report - XLSX Writer Module
// =============================================================================
//
// This module renders the report workbook to an .xlsx file. The report
// package decides what the tables contain and in which order; this module
// only decides how they look.
//
// PRESENTATION:
//   - Bold header row, frozen below the header, auto-filter over the data
//   - Column widths fitted to content (date columns fixed at 20)
//   - Dates formatted DD.MM.YYYY HH:MM
//   - Order blocks closed with a thin bottom border
//   - TOTAL rows bold with a thick top border
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-billing-report/internal/report"
)

// DateFormat is the number format applied to timestamp cells.
const DateFormat = "DD.MM.YYYY HH:MM"

// dateColumnWidth is used for any column holding timestamps.
const dateColumnWidth = 20

// =============================================================================
// STYLES
// =============================================================================

// Border styles in excelize numbering.
const (
	borderThin  = 1
	borderThick = 5
)

// styleKey identifies one combination of cell presentation.
type styleKey struct {
	bold     bool
	date     bool
	topThick bool
	bottom   bool
}

// styles creates excelize styles lazily and caches their ids.
type styles struct {
	f   *excelize.File
	ids map[styleKey]int
}

func newStyles(f *excelize.File) *styles {
	return &styles{f: f, ids: make(map[styleKey]int)}
}

func (s *styles) get(key styleKey) (int, error) {
	if id, ok := s.ids[key]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if key.bold {
		style.Font = &excelize.Font{Bold: true}
	}
	if key.date {
		format := DateFormat
		style.CustomNumFmt = &format
	}
	if key.topThick {
		style.Border = append(style.Border, excelize.Border{Type: "top", Color: "000000", Style: borderThick})
	}
	if key.bottom {
		style.Border = append(style.Border, excelize.Border{Type: "bottom", Color: "000000", Style: borderThin})
	}

	id, err := s.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	s.ids[key] = id
	return id, nil
}

// =============================================================================
// WRITE
// =============================================================================

// Write renders wb to path, one sheet per table, in table order.
func Write(path string, wb report.Workbook) error {
	if len(wb.Tables) == 0 {
		return fmt.Errorf("workbook has no tables")
	}

	f := excelize.NewFile()
	defer f.Close()

	st := newStyles(f)

	for i, table := range wb.Tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", table.Name, err)
		}

		if err := writeTable(f, st, table); err != nil {
			return fmt.Errorf("sheet %q: %w", table.Name, err)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, st *styles, table report.Table) error {
	sheet := table.Name

	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(table.Columns))
	if err != nil {
		return err
	}

	headerStyle, err := st.get(styleKey{bold: true})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	dateCols := make(map[int]bool)
	for i, row := range table.Rows {
		rowNum := i + 2
		cells := make([]any, len(row.Cells))
		copy(cells, row.Cells)
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(rowNum), &cells); err != nil {
			return err
		}

		for col, v := range row.Cells {
			if _, ok := v.(time.Time); ok {
				dateCols[col] = true
			}
		}
		if err := styleRow(f, st, sheet, rowNum, row, len(table.Columns)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	lastRow := len(table.Rows) + 1
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil); err != nil {
		return err
	}

	return setColumnWidths(f, table, dateCols)
}

// styleRow applies the per-cell style of one data row.
func styleRow(f *excelize.File, st *styles, sheet string, rowNum int, row report.Row, columns int) error {
	base := styleKey{
		bold:     row.Kind == report.RowTotal,
		topThick: row.Kind == report.RowTotal,
		bottom:   row.GroupEnd,
	}
	if base == (styleKey{}) && !hasTime(row.Cells) {
		return nil
	}

	for col := 0; col < columns; col++ {
		key := base
		if col < len(row.Cells) {
			_, key.date = row.Cells[col].(time.Time)
		}
		id, err := st.get(key)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
			return err
		}
	}
	return nil
}

func hasTime(cells []any) bool {
	for _, c := range cells {
		if _, ok := c.(time.Time); ok {
			return true
		}
	}
	return false
}

// setColumnWidths fits every column to its longest rendered value plus two.
func setColumnWidths(f *excelize.File, table report.Table, dateCols map[int]bool) error {
	for col, name := range table.Columns {
		width := float64(dateColumnWidth)
		if !dateCols[col] {
			longest := utf8.RuneCountInString(name)
			for _, row := range table.Rows {
				if col < len(row.Cells) {
					if n := utf8.RuneCountInString(cellText(row.Cells[col])); n > longest {
						longest = n
					}
				}
			}
			width = float64(longest + 2)
		}

		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(table.Name, letter, letter, width); err != nil {
			return err
		}
	}
	return nil
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
