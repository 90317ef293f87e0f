package numeric

import "github.com/shopspring/decimal"

// Derive fills in whichever of unitPrice and amount is missing from the other two
// values. A missing unit price is amount/quantity rounded to an integer; a missing
// amount is unitPrice*quantity. Values already present are returned untouched.
func Derive(quantity, unitPrice, amount float64) (float64, float64) {
	if quantity <= 0 {
		return unitPrice, amount
	}
	q := decimal.NewFromFloat(quantity)
	if unitPrice == 0 && amount > 0 {
		unitPrice = decimal.NewFromFloat(amount).Div(q).Round(0).InexactFloat64()
	}
	if amount == 0 && unitPrice > 0 {
		amount = decimal.NewFromFloat(unitPrice).Mul(q).InexactFloat64()
	}
	return unitPrice, amount
}

// TaxAmount returns amount*rate/100 rounded to an integer.
func TaxAmount(amount, ratePercent float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(ratePercent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		InexactFloat64()
}
