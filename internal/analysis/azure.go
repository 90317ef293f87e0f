package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/numeric"
)

// azureEnvelope accepts both the polled operation body ({status, analyzeResult}) and
// a bare analyzeResult.
type azureEnvelope struct {
	Status        string              `json:"status"`
	AnalyzeResult *azureAnalyzeResult `json:"analyzeResult"`
}

type azureAnalyzeResult struct {
	APIVersion string          `json:"apiVersion"`
	ModelID    string          `json:"modelId"`
	Content    string          `json:"content"`
	Pages      []Page          `json:"pages"`
	Tables     []Table         `json:"tables"`
	Documents  []azureDocument `json:"documents"`
}

type azureDocument struct {
	DocType    string           `json:"docType"`
	Confidence float64          `json:"confidence"`
	Fields     map[string]Value `json:"fields"`
}

type fieldMapping struct {
	key     string
	sources []string
	numeric bool
}

// standardFieldMap lists the provider fields lifted into camelCase keys, first
// non-empty source wins.
var standardFieldMap = []fieldMapping{
	{key: "invoiceId", sources: []string{"InvoiceId"}},
	{key: "invoiceDate", sources: []string{"InvoiceDate"}},
	{key: "dueDate", sources: []string{"DueDate"}},
	{key: "vendorName", sources: []string{"VendorName", "MerchantName"}},
	{key: "vendorAddress", sources: []string{"VendorAddress", "MerchantAddress"}},
	{key: "vendorAddressRecipient", sources: []string{"VendorAddressRecipient"}},
	{key: "vendorTaxId", sources: []string{"VendorTaxId"}},
	{key: "vendorPhoneNumber", sources: []string{"VendorPhoneNumber", "MerchantPhoneNumber"}},
	{key: "customerName", sources: []string{"CustomerName"}},
	{key: "customerAddress", sources: []string{"CustomerAddress"}},
	{key: "customerTaxId", sources: []string{"CustomerTaxId"}},
	{key: "purchaseOrder", sources: []string{"PurchaseOrder"}},
	{key: "billingAddress", sources: []string{"BillingAddress"}},
	{key: "shippingAddress", sources: []string{"ShippingAddress"}},
	{key: "transactionDate", sources: []string{"TransactionDate"}},
	{key: "paymentTerm", sources: []string{"PaymentTerm"}},
	{key: "subject", sources: []string{"Subject", "件名"}},
	{key: "deliveryLocation", sources: []string{"DeliveryLocation", "納入場所"}},
	{key: "paymentTerms", sources: []string{"PaymentTerms", "お支払条件", "PaymentTerm"}},
	{key: "quotationValidity", sources: []string{"QuotationValidity", "見積有効期限"}},
	{key: "totalAmount", sources: []string{"TotalAmount", "InvoiceTotal", "Total"}, numeric: true},
	{key: "subTotal", sources: []string{"SubTotal", "Subtotal"}, numeric: true},
	{key: "totalTax", sources: []string{"TotalTax", "Tax"}, numeric: true},
	{key: "amountDue", sources: []string{"AmountDue"}, numeric: true},
	{key: "previousUnpaidBalance", sources: []string{"PreviousUnpaidBalance"}, numeric: true},
}

// standardFields never show up under customFields.
var standardFields = map[string]struct{}{
	"InvoiceId": {}, "InvoiceDate": {}, "DueDate": {}, "VendorName": {}, "VendorAddress": {},
	"CustomerName": {}, "CustomerAddress": {}, "TotalAmount": {}, "SubTotal": {}, "TotalTax": {},
	"Items": {}, "MerchantName": {}, "MerchantAddress": {}, "TransactionDate": {}, "Total": {},
	"Subtotal": {}, "Tax": {}, "Tip": {},
}

// FromAzure converts a raw Azure Document Intelligence analyze response into an
// AnalysisResult. The analyzeResult object is kept verbatim as RawResult.
func FromAzure(raw []byte) (*AnalysisResult, error) {
	var env azureEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}
	var rawValue Value
	if err := json.Unmarshal(raw, &rawValue); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}

	ar := env.AnalyzeResult
	if ar == nil {
		ar = &azureAnalyzeResult{}
		if err := json.Unmarshal(raw, ar); err != nil {
			return nil, fmt.Errorf("decode analyze result: %w", err)
		}
	} else {
		rawValue = rawValue.Get("analyzeResult")
	}

	res := &AnalysisResult{
		DocumentType: constants.DocumentUnknown,
		Fields:       map[string]Value{},
		Tables:       ar.Tables,
		Pages:        ar.Pages,
		RawResult:    rawValue,
	}
	if dt, ok := constants.CanonicalizeDocumentType(ar.ModelID); ok {
		res.DocumentType = dt
	}

	if len(ar.Documents) == 0 {
		return res, nil
	}
	doc := ar.Documents[0]
	if dt, ok := constants.CanonicalizeDocumentType(doc.DocType); ok {
		res.DocumentType = dt
	}
	res.Confidence = doc.Confidence

	for _, m := range standardFieldMap {
		for _, src := range m.sources {
			f, ok := doc.Fields[src]
			if !ok {
				continue
			}
			if m.numeric {
				if n, ok := FieldNumber(f, numeric.ParseAmount); ok && n != 0 {
					res.Fields[m.key] = Number(n)
					break
				}
				continue
			}
			if s := FieldText(f); s != "" {
				res.Fields[m.key] = String(s)
				break
			}
		}
	}

	custom := map[string]Value{}
	for name, f := range doc.Fields {
		if _, std := standardFields[name]; std || f.IsNull() {
			continue
		}
		if v := customFieldValue(f); !v.IsNull() {
			custom[name] = v
		}
	}
	if f, ok := doc.Fields["InvoiceTotal"]; ok {
		if v := customFieldValue(f); !v.IsNull() {
			custom["InvoiceTotal"] = v
		}
	}
	if len(custom) > 0 {
		res.Fields["customFields"] = Object(custom)
	}
	return res, nil
}

// customFieldValue flattens a provider field: arrays become arrays of their element
// objects, objects become their member map, scalars become content or value.
func customFieldValue(f Value) Value {
	if !f.IsObject() {
		return f
	}
	for _, k := range []string{"values", "valueArray"} {
		if arr := f.Get(k); arr.IsArray() {
			out := make([]Value, 0, arr.Len())
			for _, e := range arr.Elems() {
				if obj := ObjectMembers(e); !obj.IsNull() {
					out = append(out, obj)
				}
			}
			return Array(out...)
		}
	}
	for _, k := range []string{"fields", "properties", "valueObject"} {
		if m := f.Get(k); m.IsObject() {
			return m
		}
	}
	if s := FieldText(f); s != "" {
		return String(s)
	}
	return Value{}
}

// ObjectMembers returns the member map of an object-typed provider field, looking
// under fields, properties and valueObject. A value with none of those is returned
// unchanged when it is itself an object.
func ObjectMembers(v Value) Value {
	for _, k := range []string{"fields", "properties", "valueObject"} {
		if m := v.Get(k); m.IsObject() {
			return m
		}
	}
	if v.IsObject() {
		return v
	}
	return Value{}
}
