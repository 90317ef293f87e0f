package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderFieldSetSetIfEmpty(t *testing.T) {
	var h HeaderFieldSet

	assert.True(t, h.SetIfEmpty(FieldSubject, " A "))
	assert.False(t, h.SetIfEmpty(FieldSubject, "B"))
	assert.Equal(t, "A", h.Subject)

	assert.False(t, h.SetIfEmpty(FieldVendorEmail, "   "))
	assert.Empty(t, h.VendorEmail)
	assert.False(t, h.SetIfEmpty(HeaderField("unknown"), "x"))
}

func TestHeaderFieldSetMergeMissing(t *testing.T) {
	structured := HeaderFieldSet{Subject: "A"}
	text := HeaderFieldSet{Subject: "B", PaymentTerms: "月末締め翌月末払い"}

	structured.MergeMissing(text)

	assert.Equal(t, "A", structured.Subject)
	assert.Equal(t, "月末締め翌月末払い", structured.PaymentTerms)
	assert.Equal(t, 2, structured.Count())
	assert.False(t, structured.IsEmpty())
	assert.True(t, HeaderFieldSet{}.IsEmpty())
}

func TestExtractionJSONShape(t *testing.T) {
	out, err := json.Marshal(Extraction{Items: []LineItem{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"headerFields":{}}`, string(out))
}

func TestExtractionTotal(t *testing.T) {
	e := Extraction{Items: []LineItem{{Amount: 1000}, {Amount: 50.5}}}
	assert.InDelta(t, 1050.5, e.Total(), 1e-9)
}

func TestLineItemComplete(t *testing.T) {
	paper := LineItem{Description: "Paper", Quantity: 5, UnitPrice: 10}
	paper.Complete()
	assert.Equal(t, 50.0, paper.Amount)

	pen := LineItem{Description: "Pen", Quantity: 10, Amount: 1000}
	pen.Complete()
	assert.Equal(t, 100.0, pen.UnitPrice)

	assert.Equal(t, 1.0, NewLineItem("x").Quantity)
}
