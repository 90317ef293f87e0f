package ingest

import (
	"context"

	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string `json:"source_path"`
	DocumentID   string `json:"document_id"`
	JobID        string `json:"job_id,omitempty"`
	Status       string `json:"status,omitempty"`
	Strategy     string `json:"strategy,omitempty"`
	ItemCount    int    `json:"item_count"`
	NeedsReview  bool   `json:"needs_review"`
	Deduplicated bool   `json:"deduplicated,omitempty"`
	HashHex      string `json:"sha256"`
	Err          string `json:"error,omitempty"`
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32 `json:"scanned"`
	Matched      uint32 `json:"matched"`
	Succeeded    uint32 `json:"succeeded"`
	Deduplicated uint32 `json:"deduplicated"`
	Failed       uint32 `json:"failed"`
}

// Processor is the part of the pipeline the ingestor drives.
type Processor interface {
	Process(ctx context.Context, doc pipeline.Document) (*entity.ExtractJob, error)
}

// Ingestor is the behavior the service depends on.
type Ingestor interface {
	// IngestPath a single path.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestDirectory ingests all matching files under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}
