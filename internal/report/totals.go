package report

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// TotalMarker is the line name of the synthetic per-order summary row.
const TotalMarker = "TOTAL"

// CostRow is one row of the "Cost Calculation" sheet.
type CostRow struct {
	OrderID string

	// FulfilledAt is nil on TOTAL rows.
	FulfilledAt *time.Time

	Name     string
	SKU      string
	Quantity int

	PieceCost decimal.Decimal
	SKUCost   decimal.Decimal
	LineTotal decimal.Decimal

	IsTotal bool
}

// AddOrderTotals appends one TOTAL row per order and groups each order's
// rows into a contiguous block ending with its TOTAL.
//
// Placement is a stable sort on (first-seen rank of the order id, 0 for
// item rows / 1 for the TOTAL row). Item rows keep their relative order and
// every order gets exactly one more row than it had, single-item orders
// included.
func AddOrderTotals(items []types.BilledItem) []CostRow {
	type keyed struct {
		rank int
		flag int
		row  CostRow
	}

	rank := make(map[string]int)
	var totals []*CostRow
	rows := make([]keyed, 0, len(items)*2)

	for _, item := range items {
		r, ok := rank[item.OrderID]
		if !ok {
			r = len(totals)
			rank[item.OrderID] = r
			totals = append(totals, &CostRow{
				OrderID:   item.OrderID,
				Name:      TotalMarker,
				PieceCost: decimal.Zero,
				SKUCost:   decimal.Zero,
				LineTotal: decimal.Zero,
				IsTotal:   true,
			})
		}

		t := totals[r]
		t.Quantity += item.Quantity
		t.PieceCost = t.PieceCost.Add(item.PieceCost)
		t.SKUCost = t.SKUCost.Add(item.SKUCost)
		t.LineTotal = t.LineTotal.Add(item.LineTotal)

		rows = append(rows, keyed{rank: r, flag: 0, row: costRow(item)})
	}

	for r, t := range totals {
		rows = append(rows, keyed{rank: r, flag: 1, row: *t})
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return a.flag - b.flag
	})

	out := make([]CostRow, len(rows))
	for i, k := range rows {
		out[i] = k.row
	}
	return out
}

func costRow(item types.BilledItem) CostRow {
	row := CostRow{
		OrderID:   item.OrderID,
		Name:      item.Name,
		SKU:       item.SKU,
		Quantity:  item.Quantity,
		PieceCost: item.PieceCost,
		SKUCost:   item.SKUCost,
		LineTotal: item.LineTotal,
	}
	if item.HasFulfillment() {
		ts := item.FulfilledAt
		row.FulfilledAt = &ts
	}
	return row
}
