package entity

// Extraction is the outcome of one extractor run over an analysis result.
type Extraction struct {
	Items        []LineItem     `json:"items"`
	HeaderFields HeaderFieldSet `json:"headerFields"`
	// Strategy names the extraction strategy that produced Items; empty when none did.
	Strategy string `json:"strategy,omitempty"`
}

// Total sums the amounts of all items.
func (e Extraction) Total() float64 {
	var total float64
	for _, it := range e.Items {
		total += it.Amount
	}
	return total
}
