package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"¥12,345円", 12345},
		{"￥12,345", 12345},
		{"１２，３４５円", 12345},
		{"$1,200.50", 1200.5},
		{"1 000 yen", 1000},
		{"@¥100", 100},
		{"合計 5,000円", 5000},
		{"", 0},
		{"なし", 0},
		{"   ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func TestParseAmountIdempotent(t *testing.T) {
	inputs := []string{"¥12,345円", "$1,200.50", "￥０", "3,333.33円", "¥1,000,000", "0.5"}
	for _, in := range inputs {
		first := ParseAmount(in)
		assert.Equal(t, first, ParseAmount(FormatAmount(first)), in)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10個", 10},
		{"1,000枚", 1000},
		{"３本", 3},
		{"2 セット", 2},
		{"12 pcs", 12},
		{"1式", 1},
		{"2.5", 2.5},
		{"", 0},
		{"many", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestIsNumericContent(t *testing.T) {
	assert.True(t, IsNumericContent("¥1,000"))
	assert.True(t, IsNumericContent("50"))
	assert.True(t, IsNumericContent(" 1,200円 "))
	assert.True(t, IsNumericContent("１０"))
	assert.False(t, IsNumericContent("ペン"))
	assert.False(t, IsNumericContent("A4用紙"))
	assert.False(t, IsNumericContent(""))
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name                 string
		qty, price, amount   float64
		wantPrice, wantTotal float64
	}{
		{"amount from unit price", 5, 10, 0, 10, 50},
		{"unit price from amount", 10, 0, 1000, 100, 1000},
		{"unit price rounds", 3, 0, 1000, 333, 1000},
		{"half rounds up", 2, 0, 3, 2, 3},
		{"decimal multiplication", 3, 11.2, 0, 11.2, 33.6},
		{"both present untouched", 2, 10, 25, 10, 25},
		{"zero quantity untouched", 0, 0, 500, 0, 500},
		{"nothing to derive", 1, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, total := Derive(tt.qty, tt.price, tt.amount)
			assert.Equal(t, tt.wantPrice, price)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestTaxAmount(t *testing.T) {
	assert.Equal(t, 100.0, TaxAmount(1000, 10))
	assert.Equal(t, 8.0, TaxAmount(75, 10))
	assert.Equal(t, 0.0, TaxAmount(0, 10))
}
