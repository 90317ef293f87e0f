package entity

import "strings"

// HeaderField names one of the auxiliary header values pulled from a document.
type HeaderField string

const (
	FieldSubject           HeaderField = "subject"
	FieldDeliveryLocation  HeaderField = "deliveryLocation"
	FieldPaymentTerms      HeaderField = "paymentTerms"
	FieldQuotationValidity HeaderField = "quotationValidity"
	FieldVendorAddress     HeaderField = "vendorAddress"
	FieldVendorPhoneNumber HeaderField = "vendorPhoneNumber"
	FieldVendorEmail       HeaderField = "vendorEmail"
)

// HeaderFields lists every header field in presentation order.
var HeaderFields = []HeaderField{
	FieldSubject,
	FieldDeliveryLocation,
	FieldPaymentTerms,
	FieldQuotationValidity,
	FieldVendorAddress,
	FieldVendorPhoneNumber,
	FieldVendorEmail,
}

// HeaderFieldSet holds the optional header values. An empty string means unset.
type HeaderFieldSet struct {
	Subject           string `json:"subject,omitempty"`
	DeliveryLocation  string `json:"deliveryLocation,omitempty"`
	PaymentTerms      string `json:"paymentTerms,omitempty"`
	QuotationValidity string `json:"quotationValidity,omitempty"`
	VendorAddress     string `json:"vendorAddress,omitempty"`
	VendorPhoneNumber string `json:"vendorPhoneNumber,omitempty"`
	VendorEmail       string `json:"vendorEmail,omitempty"`
}

func (h *HeaderFieldSet) slot(f HeaderField) *string {
	switch f {
	case FieldSubject:
		return &h.Subject
	case FieldDeliveryLocation:
		return &h.DeliveryLocation
	case FieldPaymentTerms:
		return &h.PaymentTerms
	case FieldQuotationValidity:
		return &h.QuotationValidity
	case FieldVendorAddress:
		return &h.VendorAddress
	case FieldVendorPhoneNumber:
		return &h.VendorPhoneNumber
	case FieldVendorEmail:
		return &h.VendorEmail
	}
	return nil
}

// Get returns the value of f, or "" when unset or unknown.
func (h HeaderFieldSet) Get(f HeaderField) string {
	if p := h.slot(f); p != nil {
		return *p
	}
	return ""
}

// SetIfEmpty assigns value to f only when f is unset. A value that is blank after
// trimming never counts. Returns true when the field was written.
func (h *HeaderFieldSet) SetIfEmpty(f HeaderField, value string) bool {
	p := h.slot(f)
	if p == nil || *p != "" {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	*p = value
	return true
}

// MergeMissing copies every field of other that is still unset in h.
func (h *HeaderFieldSet) MergeMissing(other HeaderFieldSet) {
	for _, f := range HeaderFields {
		h.SetIfEmpty(f, other.Get(f))
	}
}

func (h HeaderFieldSet) IsEmpty() bool {
	return h == HeaderFieldSet{}
}

// Count returns the number of populated fields.
func (h HeaderFieldSet) Count() int {
	n := 0
	for _, f := range HeaderFields {
		if h.Get(f) != "" {
			n++
		}
	}
	return n
}
