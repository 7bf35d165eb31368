package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-billing-report/internal/types"
)

func TestCheckColumns(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		headers := append([]string{"Financial Status"}, RequiredColumns...)
		assert.NoError(t, CheckColumns(headers))
	})

	t.Run("missing columns listed", func(t *testing.T) {
		err := CheckColumns([]string{"Name", "Lineitem name", "Lineitem sku"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingColumns))
		assert.Contains(t, err.Error(), "Fulfilled at, Lineitem quantity, Total")
	})
}

func row(number int, values map[string]string) types.RawRow {
	return types.RawRow{Number: number, Values: values}
}

func TestValidateRows(t *testing.T) {
	table := &types.RawTable{Rows: []types.RawRow{
		row(2, map[string]string{ColOrderID: "#1", ColQuantity: "1", ColTotal: "10.00"}),
		row(3, map[string]string{ColOrderID: "#1", ColQuantity: "zero", ColTotal: ""}),
		row(4, map[string]string{ColOrderID: "", ColQuantity: "1"}),
		row(5, map[string]string{ColOrderID: "#2", ColQuantity: "2", ColTotal: "n/a"}),
		row(6, map[string]string{ColOrderID: "#2", ColQuantity: "-1"}),
	}}

	result := ValidateRows(table)

	assert.Equal(t, 5, result.RowsValidated)
	assert.Equal(t, 3, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)

	assert.False(t, result.IsRejected(2))
	assert.True(t, result.IsRejected(3))
	assert.True(t, result.IsRejected(4))
	assert.False(t, result.IsRejected(5))
	assert.True(t, result.IsRejected(6))

	assert.True(t, result.HasWarning(5, ColTotal))
	assert.False(t, result.HasWarning(2, ColTotal))
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "3", want: 3},
		{in: " 2 ", want: 2},
		{in: "2.0", want: 2},
		{in: "2.5", wantErr: true},
		{in: "0", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowError_Error(t *testing.T) {
	e := &RowError{Severity: SeverityError, Field: ColQuantity, Value: "x", Message: "bad", RowNumber: 7}
	assert.Equal(t, "[ERROR] row 7, field 'Lineitem quantity': bad (value: 'x')", e.Error())
}
