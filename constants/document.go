package constants

import (
	"strings"
)

// DocumentType is the provider's classification of an analysed document.
type DocumentType string

const (
	DocumentInvoice       DocumentType = "invoice"
	DocumentReceipt       DocumentType = "receipt"
	DocumentPurchaseOrder DocumentType = "purchaseOrder"
	DocumentUnknown       DocumentType = "unknown"
)

var allDocumentTypes = []DocumentType{
	DocumentInvoice,
	DocumentReceipt,
	DocumentPurchaseOrder,
	DocumentUnknown,
}

func DocumentTypesAsStrings() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}

// CanonicalizeDocumentType maps provider model ids and free-form labels onto a DocumentType.
func CanonicalizeDocumentType(input string) (DocumentType, bool) {
	if input == "" {
		return DocumentUnknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// provider model ids and common labels
	synonyms := map[string]DocumentType{
		"prebuilt-invoice": DocumentInvoice,
		"invoice":          DocumentInvoice,
		"請求書":              DocumentInvoice,
		"見積書":              DocumentInvoice,
		"quote":            DocumentInvoice,
		"quotation":        DocumentInvoice,
		"prebuilt-receipt": DocumentReceipt,
		"receipt":          DocumentReceipt,
		"領収書":              DocumentReceipt,
		"purchase order":   DocumentPurchaseOrder,
		"purchase_order":   DocumentPurchaseOrder,
		"po":               DocumentPurchaseOrder,
		"発注書":              DocumentPurchaseOrder,
		"注文書":              DocumentPurchaseOrder,
	}

	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}

	// prebuilt-invoice.v4 etc.
	if i := strings.IndexByte(normalized, '.'); i > 0 {
		if dt, ok := synonyms[normalized[:i]]; ok {
			return dt, true
		}
	}

	for _, dt := range allDocumentTypes {
		if normalized == strings.ToLower(string(dt)) {
			return dt, true
		}
	}

	return DocumentUnknown, false
}
