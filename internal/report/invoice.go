package report

import (
	"strconv"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// Separator fills every value column of a summary separator row.
const Separator = "---"

// InvoiceSummary aggregates a whole billing run into one rate card.
type InvoiceSummary struct {
	Tariffs types.Tariffs

	Orders        int
	FirstSKUCount int
	NextSKUCount  int
	Pieces        int

	TotalSKUCost   decimal.Decimal
	TotalPieceCost decimal.Decimal
	GrandTotal     decimal.Decimal
}

// Summarize aggregates billed items. Only billable items are counted.
//
// Every order with a billable line pays exactly one first-SKU charge; every
// other distinct (order, SKU) pair pays a next-SKU charge.
func Summarize(items []types.BilledItem, tariffs types.Tariffs) InvoiceSummary {
	type orderSKU struct{ order, sku string }

	billable := lo.Filter(items, func(b types.BilledItem, _ int) bool { return b.Billable })

	orders := lo.Uniq(lo.Map(billable, func(b types.BilledItem, _ int) string { return b.OrderID }))
	pairs := lo.Uniq(lo.Map(billable, func(b types.BilledItem, _ int) orderSKU {
		return orderSKU{order: b.OrderID, sku: b.SKU}
	}))

	s := InvoiceSummary{
		Tariffs:        tariffs,
		Orders:         len(orders),
		FirstSKUCount:  len(orders),
		NextSKUCount:   len(pairs) - len(orders),
		TotalSKUCost:   decimal.Zero,
		TotalPieceCost: decimal.Zero,
		GrandTotal:     decimal.Zero,
	}

	for _, b := range billable {
		s.Pieces += b.Quantity
	}
	// Non-billable lines carry zero cost, so summing everything is the same.
	for _, b := range items {
		s.TotalSKUCost = s.TotalSKUCost.Add(b.SKUCost)
		s.TotalPieceCost = s.TotalPieceCost.Add(b.PieceCost)
		s.GrandTotal = s.GrandTotal.Add(b.LineTotal)
	}

	return s
}

// SummaryRow is one rendered row of the "Final Invoice" sheet.
// Empty strings are blank cells.
type SummaryRow struct {
	Description string
	Rate        string
	Count       string
	Amount      string

	IsSeparator bool
}

// Rows renders the nine summary rows with money at two decimals.
func (s InvoiceSummary) Rows() []SummaryRow {
	money := func(d decimal.Decimal) string { return d.StringFixed(2) }
	charge := func(desc string, rate decimal.Decimal, count int) SummaryRow {
		return SummaryRow{
			Description: desc,
			Rate:        money(rate),
			Count:       strconv.Itoa(count),
			Amount:      money(rate.Mul(decimal.NewFromInt(int64(count)))),
		}
	}
	separator := SummaryRow{Rate: Separator, Count: Separator, Amount: Separator, IsSeparator: true}

	return []SummaryRow{
		{Description: "Orders Processed", Count: strconv.Itoa(s.Orders)},
		separator,
		charge("First SKU Charge", s.Tariffs.FirstSKU, s.FirstSKUCount),
		charge("Next SKU Charge", s.Tariffs.NextSKU, s.NextSKUCount),
		charge("Per Piece Charge", s.Tariffs.PerPiece, s.Pieces),
		separator,
		{Description: "Total SKU Cost", Amount: money(s.TotalSKUCost)},
		{Description: "Total Piece Cost", Amount: money(s.TotalPieceCost)},
		{Description: "Grand Total", Amount: money(s.GrandTotal)},
	}
}
