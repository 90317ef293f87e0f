package entity

import "github.com/joseph-ayodele/docextract/internal/numeric"

// LineItem is one normalized invoice line.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	Amount      float64  `json:"amount"`
	TaxRate     *float64 `json:"taxRate,omitempty"`
	TaxAmount   *float64 `json:"taxAmount,omitempty"`
	ProductCode string   `json:"productCode,omitempty"`
	Unit        string   `json:"unit,omitempty"`
}

// NewLineItem returns an item with the default quantity of 1.
func NewLineItem(description string) LineItem {
	return LineItem{Description: description, Quantity: 1}
}

// HasTax reports whether any tax information is attached.
func (li LineItem) HasTax() bool {
	return li.TaxRate != nil || li.TaxAmount != nil
}

// Complete derives a missing unit price or amount from the other two values.
func (li *LineItem) Complete() {
	li.UnitPrice, li.Amount = numeric.Derive(li.Quantity, li.UnitPrice, li.Amount)
}
