package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-billing-report/internal/billing"
	"github.com/ginjaninja78/order-billing-report/internal/types"
)

func TestBuild(t *testing.T) {
	filtered := []types.LineItem{
		line("#1001", 1, "T-Shirt", "SKU-TS"),
		line("#1001", 2, "Mug", "SKU-MUG"),
		line("#1002", 1, "Hoodie", "SKU-HOOD"),
		line("#1002", 1, "Package protection", "INS-01"),
		line("#1004", 1, "Single-Item", "SKU-SINGLE"),
	}
	billed := bill(filtered...)

	wb := Build(filtered, billed, testTariffs)

	require.Len(t, wb.Tables, 4)
	assert.Equal(t, []string{SheetAllOrders, SheetBillable, SheetCostCalculation, SheetFinalInvoice},
		[]string{wb.Tables[0].Name, wb.Tables[1].Name, wb.Tables[2].Name, wb.Tables[3].Name})

	all, ok := wb.Table(SheetAllOrders)
	require.True(t, ok)
	assert.Len(t, all.Rows, 5)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), all.Rows[0].Cells[1])
	assert.Equal(t, []bool{false, true, false, true, true},
		[]bool{all.Rows[0].GroupEnd, all.Rows[1].GroupEnd, all.Rows[2].GroupEnd, all.Rows[3].GroupEnd, all.Rows[4].GroupEnd})

	billable, _ := wb.Table(SheetBillable)
	assert.Len(t, billable.Rows, 4)
	for _, r := range billable.Rows {
		assert.NotEqual(t, "Package protection", r.Cells[6])
	}

	cost, _ := wb.Table(SheetCostCalculation)
	require.Len(t, cost.Rows, 8)
	last := cost.Rows[7]
	assert.Equal(t, RowTotal, last.Kind)
	assert.True(t, last.GroupEnd)
	assert.Equal(t, []any{"#1004", nil, TotalMarker, "", 1, 0.25, 1.5, 1.75}, last.Cells)
	assert.Equal(t, "Single-Item", cost.Rows[6].Cells[2])
	assert.Equal(t, 3.0, cost.Rows[2].Cells[7])
	assert.Equal(t, 0.0, cost.Rows[4].Cells[7])

	invoice, _ := wb.Table(SheetFinalInvoice)
	require.Len(t, invoice.Rows, 9)
	assert.Equal(t, RowSeparator, invoice.Rows[1].Kind)
	assert.Equal(t, []any{"Grand Total", "", "", "6.50"}, invoice.Rows[8].Cells)
	assert.Equal(t, []any{"Orders Processed", "", "3", ""}, invoice.Rows[0].Cells)
}

func TestBuild_UnfilledDateIsBlank(t *testing.T) {
	items := []types.LineItem{{OrderID: "#1", Quantity: 1, Name: "x", SKU: "X"}}
	wb := Build(items, bill(items...), testTariffs)

	all, _ := wb.Table(SheetAllOrders)
	assert.Nil(t, all.Rows[0].Cells[1])

	_, ok := wb.Table("missing")
	assert.False(t, ok)
	assert.Len(t, billing.BillableOnly(bill(items...)), 1)
}
