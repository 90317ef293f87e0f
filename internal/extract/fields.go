package extract

import (
	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/numeric"
)

// Field names tried, in order, when reading an item out of a provider field map.
var (
	descriptionKeys = []string{"Description", "Name", "ItemName", "ProductName", "description", "name", "itemName", "productName"}
	quantityKeys    = []string{"Quantity", "quantity"}
	unitPriceKeys   = []string{"UnitPrice", "Price", "unitPrice", "price"}
	amountKeys      = []string{"Amount", "TotalPrice", "amount", "totalPrice"}
	taxRateKeys     = []string{"TaxRate", "taxRate"}
	taxAmountKeys   = []string{"Tax", "TaxAmount", "tax", "taxAmount"}
	productCodeKeys = []string{"ProductCode", "productCode"}
	unitKeys        = []string{"Unit", "unit"}
)

func firstText(fields analysis.Value, keys []string) string {
	for _, k := range keys {
		if s := analysis.FieldText(fields.Get(k)); s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(fields analysis.Value, keys []string, parse func(string) float64) (float64, bool) {
	for _, k := range keys {
		if n, ok := analysis.FieldNumber(fields.Get(k), parse); ok {
			return n, true
		}
	}
	return 0, false
}

// itemFromFields reads one line item from a provider field map and derives the
// missing price value. Entries without a description are rejected.
func itemFromFields(fields analysis.Value) (entity.LineItem, bool) {
	if !fields.IsObject() {
		return entity.LineItem{}, false
	}
	item := entity.NewLineItem(firstText(fields, descriptionKeys))
	if item.Description == "" {
		return entity.LineItem{}, false
	}

	if q, _ := firstNumber(fields, quantityKeys, numeric.ParseNumber); q > 0 {
		item.Quantity = q
	}
	item.UnitPrice, _ = firstNumber(fields, unitPriceKeys, numeric.ParseAmount)
	item.Amount, _ = firstNumber(fields, amountKeys, numeric.ParseAmount)
	if r, ok := firstNumber(fields, taxRateKeys, numeric.ParseAmount); ok {
		item.TaxRate = &r
	}
	if t, ok := firstNumber(fields, taxAmountKeys, numeric.ParseAmount); ok {
		item.TaxAmount = &t
	}
	item.ProductCode = firstText(fields, productCodeKeys)
	item.Unit = firstText(fields, unitKeys)

	item.Complete()
	return item, true
}

// decodeStructuredItem maps an already-normalized item object onto a LineItem
// without deriving anything. Only the default quantity is filled in.
func decodeStructuredItem(v analysis.Value) (entity.LineItem, bool) {
	if !v.IsObject() {
		return entity.LineItem{}, false
	}
	item := entity.NewLineItem(firstText(v, []string{"description", "name", "itemName", "Description"}))
	if q, ok := analysis.FieldNumber(v.Get("quantity"), numeric.ParseNumber); ok && q > 0 {
		item.Quantity = q
	}
	item.UnitPrice, _ = analysis.FieldNumber(v.Get("unitPrice"), numeric.ParseAmount)
	item.Amount, _ = analysis.FieldNumber(v.Get("amount"), numeric.ParseAmount)
	if r, ok := analysis.FieldNumber(v.Get("taxRate"), numeric.ParseAmount); ok {
		item.TaxRate = &r
	}
	if t, ok := analysis.FieldNumber(v.Get("taxAmount"), numeric.ParseAmount); ok {
		item.TaxAmount = &t
	}
	item.ProductCode = analysis.FieldText(v.Get("productCode"))
	item.Unit = analysis.FieldText(v.Get("unit"))
	return item, true
}
