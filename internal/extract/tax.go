package extract

import (
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/numeric"
)

// ApplyDefaultTax returns a copy of items where every item without tax information
// gets ratePercent and the matching rounded tax amount. An item carrying only a
// rate gets its amount computed from that rate. A non-positive rate is a no-op.
func ApplyDefaultTax(items []entity.LineItem, ratePercent float64) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	copy(out, items)
	if ratePercent <= 0 {
		return out
	}
	for i := range out {
		it := &out[i]
		switch {
		case it.TaxRate == nil && it.TaxAmount == nil:
			rate := ratePercent
			tax := numeric.TaxAmount(it.Amount, rate)
			it.TaxRate, it.TaxAmount = &rate, &tax
		case it.TaxRate != nil && it.TaxAmount == nil:
			tax := numeric.TaxAmount(it.Amount, *it.TaxRate)
			it.TaxAmount = &tax
		}
	}
	return out
}
