// =============================================================================
// Order Billing Report - Row Transformation
// =============================================================================
//
// This module turns validated raw rows into typed line items.
//
// FIELD HANDLING:
//   - Strings are taken as read (already trimmed by the parsers)
//   - "Lineitem quantity" becomes an int; rows the validator rejected are
//     skipped before they get here
//   - "Total" becomes a nullable decimal; blank or malformed totals are
//     absent, never zero
//   - "Fulfilled at" stays raw; the fulfillment filter owns date handling
//   - Order-level columns are forward-filled across every row, rejected
//     ones included, before rejected rows are dropped
//
// =============================================================================

package converter

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-billing-report/internal/fulfillment"
	"github.com/ginjaninja78/order-billing-report/internal/types"
	"github.com/ginjaninja78/order-billing-report/internal/validation"
)

// TransformRows maps the rows the validator accepted to line items, in row
// order. A rejected row still lends its order-level values to later lines
// of the same order.
func TransformRows(table *types.RawTable, checked *validation.Result) []types.LineItem {
	all := make([]types.LineItem, 0, len(table.Rows))
	rejected := make([]bool, 0, len(table.Rows))

	for _, row := range table.Rows {
		item, err := TransformRow(row)
		if err != nil {
			item = orderFields(row)
		}
		all = append(all, item)
		rejected = append(rejected, err != nil || (checked != nil && checked.IsRejected(row.Number)))
	}

	filled := fulfillment.ForwardFill(all)

	items := make([]types.LineItem, 0, len(filled))
	for i, item := range filled {
		if !rejected[i] {
			items = append(items, item)
		}
	}
	return items
}

// orderFields keeps only what a rejected row contributes to the fill.
func orderFields(row types.RawRow) types.LineItem {
	v := row.Values
	return types.LineItem{
		OrderID:           v[validation.ColOrderID],
		RawFulfilledAt:    v[validation.ColFulfilledAt],
		FulfillmentStatus: v[validation.ColFulfillmentStatus],
		FinancialStatus:   v[validation.ColFinancialStatus],
		RowNumber:         row.Number,
	}
}

// TransformRow maps one raw row to a line item.
func TransformRow(row types.RawRow) (types.LineItem, error) {
	v := row.Values

	qty, err := validation.ParseQuantity(v[validation.ColQuantity])
	if err != nil {
		return types.LineItem{}, err
	}

	return types.LineItem{
		OrderID:                   v[validation.ColOrderID],
		RawFulfilledAt:            v[validation.ColFulfilledAt],
		FulfillmentStatus:         v[validation.ColFulfillmentStatus],
		FinancialStatus:           v[validation.ColFinancialStatus],
		CreatedAt:                 v[validation.ColCreatedAt],
		Quantity:                  qty,
		Name:                      v[validation.ColName],
		SKU:                       v[validation.ColSKU],
		LineItemFulfillmentStatus: v[validation.ColLineItemFulfillmentStatus],
		Total:                     parseTotal(v[validation.ColTotal]),
		RowNumber:                 row.Number,
	}, nil
}

// parseTotal returns an absent value for blank or malformed totals.
func parseTotal(value string) decimal.NullDecimal {
	if value == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
