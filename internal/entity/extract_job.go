package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docextract/constants"
)

// ExtractJob represents an extract job for data transfer between layers.
type ExtractJob struct {
	ID           uuid.UUID              `json:"id"`
	DocumentID   string                 `json:"document_id"`
	SourceFormat string                 `json:"source_format"`
	SourceSHA256 *string                `json:"source_sha256,omitempty"`
	DocumentType constants.DocumentType `json:"document_type"`
	Confidence   float64                `json:"confidence"`
	Status       constants.JobStatus    `json:"status"`
	Strategy     *string                `json:"strategy,omitempty"`
	ItemCount    int                    `json:"item_count"`
	HeaderFields HeaderFieldSet         `json:"header_fields"`
	NeedsReview  bool                   `json:"needs_review"`
	ErrorMessage *string                `json:"error_message,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	FinishedAt   *time.Time             `json:"finished_at,omitempty"`
}
