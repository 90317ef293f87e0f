package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docextract/internal/entity"
)

func ptr(f float64) *float64 { return &f }

func TestApplyDefaultTax(t *testing.T) {
	items := []entity.LineItem{
		{Description: "plain", Quantity: 1, UnitPrice: 1234, Amount: 1234},
		{Description: "rate only", Quantity: 1, UnitPrice: 1000, Amount: 1000, TaxRate: ptr(8)},
		{Description: "taxed", Quantity: 1, UnitPrice: 500, Amount: 500, TaxRate: ptr(8), TaxAmount: ptr(40)},
	}

	out := ApplyDefaultTax(items, 10)
	require.Len(t, out, 3)

	assert.Equal(t, 10.0, *out[0].TaxRate)
	assert.Equal(t, 123.0, *out[0].TaxAmount)
	assert.Equal(t, 80.0, *out[1].TaxAmount)
	assert.Equal(t, 40.0, *out[2].TaxAmount)

	assert.Nil(t, items[0].TaxRate, "input slice is not modified")
}

func TestApplyDefaultTaxZeroRate(t *testing.T) {
	items := []entity.LineItem{entity.NewLineItem("x")}
	out := ApplyDefaultTax(items, 0)
	assert.False(t, out[0].HasTax())
}
