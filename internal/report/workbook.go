// Package report turns billed line items into the tables of the output
// workbook. It owns table shape and row order; styling belongs to the
// writer.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-billing-report/internal/billing"
	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// Sheet names, in workbook order.
const (
	SheetAllOrders       = "All Orders"
	SheetBillable        = "Without Package Protection"
	SheetCostCalculation = "Cost Calculation"
	SheetFinalInvoice    = "Final Invoice"
)

// Column headers shared by the order sheets.
const (
	ColOrderID                   = "Name"
	ColFulfilledAt               = "Fulfilled at"
	ColFulfillmentStatus         = "Fulfillment Status"
	ColFinancialStatus           = "Financial Status"
	ColCreatedAt                 = "Created at"
	ColQuantity                  = "Lineitem quantity"
	ColName                      = "Lineitem name"
	ColSKU                       = "Lineitem sku"
	ColLineItemFulfillmentStatus = "Lineitem fulfillment status"
	ColPieceCost                 = "Piece Cost"
	ColSKUCost                   = "SKU Cost"
	ColLineTotal                 = "Line Total Cost"
)

var orderColumns = []string{
	ColOrderID, ColFulfilledAt, ColFulfillmentStatus, ColFinancialStatus, ColCreatedAt,
	ColQuantity, ColName, ColSKU, ColLineItemFulfillmentStatus,
}

var costColumns = []string{
	ColOrderID, ColFulfilledAt, ColName, ColSKU, ColQuantity,
	ColPieceCost, ColSKUCost, ColLineTotal,
}

var invoiceColumns = []string{"Description", "Rate", "Count", "Total Amount"}

// RowKind tells the writer how to present a row.
type RowKind int

const (
	RowItem RowKind = iota
	RowTotal
	RowSeparator
)

// Row is one table row. Cells hold string, int, float64, time.Time or nil.
type Row struct {
	Cells []any
	Kind  RowKind

	// GroupEnd marks the last row of an order block.
	GroupEnd bool
}

// Table is one sheet of the workbook.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Workbook is the complete report.
type Workbook struct {
	Tables []Table
}

// Table returns the table with the given name.
func (w Workbook) Table(name string) (Table, bool) {
	for _, t := range w.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Build assembles the four report tables from the filtered line items and
// their billing.
func Build(filtered []types.LineItem, billed []types.BilledItem, tariffs types.Tariffs) Workbook {
	billable := billing.BillableOnly(billed)

	return Workbook{Tables: []Table{
		orderTable(SheetAllOrders, filtered),
		orderTable(SheetBillable, billing.LineItems(billable)),
		costTable(AddOrderTotals(billed)),
		invoiceTable(Summarize(billed, tariffs)),
	}}
}

func orderTable(name string, items []types.LineItem) Table {
	t := Table{Name: name, Columns: orderColumns, Rows: make([]Row, 0, len(items))}
	for i, item := range items {
		t.Rows = append(t.Rows, Row{
			Cells: []any{
				item.OrderID,
				timeCell(item.FulfilledAt),
				item.FulfillmentStatus,
				item.FinancialStatus,
				item.CreatedAt,
				item.Quantity,
				item.Name,
				item.SKU,
				item.LineItemFulfillmentStatus,
			},
			GroupEnd: i == len(items)-1 || items[i+1].OrderID != item.OrderID,
		})
	}
	return t
}

func costTable(rows []CostRow) Table {
	t := Table{Name: SheetCostCalculation, Columns: costColumns, Rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		var fulfilled any
		if r.FulfilledAt != nil {
			fulfilled = *r.FulfilledAt
		}
		kind := RowItem
		if r.IsTotal {
			kind = RowTotal
		}
		t.Rows = append(t.Rows, Row{
			Cells: []any{
				r.OrderID,
				fulfilled,
				r.Name,
				r.SKU,
				r.Quantity,
				number(r.PieceCost),
				number(r.SKUCost),
				number(r.LineTotal),
			},
			Kind:     kind,
			GroupEnd: r.IsTotal,
		})
	}
	return t
}

func invoiceTable(s InvoiceSummary) Table {
	t := Table{Name: SheetFinalInvoice, Columns: invoiceColumns}
	for _, r := range s.Rows() {
		kind := RowItem
		if r.IsSeparator {
			kind = RowSeparator
		}
		t.Rows = append(t.Rows, Row{
			Cells: []any{r.Description, r.Rate, r.Count, r.Amount},
			Kind:  kind,
		})
	}
	return t
}

func timeCell(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// number converts a cost for a numeric spreadsheet cell.
func number(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
