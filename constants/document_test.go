package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeDocumentType(t *testing.T) {
	tests := []struct {
		in    string
		want  DocumentType
		known bool
	}{
		{"invoice", DocumentInvoice, true},
		{"prebuilt-invoice", DocumentInvoice, true},
		{"prebuilt-receipt.v2", DocumentReceipt, true},
		{"  PurchaseOrder ", DocumentPurchaseOrder, true},
		{"見積書", DocumentInvoice, true},
		{"", DocumentUnknown, false},
		{"letter", DocumentUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalizeDocumentType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusQueued.Terminal())
	assert.False(t, JobStatusRunning.Terminal())
	assert.True(t, JobStatusExtracted.Terminal())
	assert.True(t, JobStatusEmpty.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
}
