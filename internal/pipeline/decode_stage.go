package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/repository"
)

type DecodeStage struct {
	JobsRepo repository.ExtractJobRepository
	Logger   *slog.Logger
}

func NewDecodeStage(jobs repository.ExtractJobRepository, logger *slog.Logger) *DecodeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecodeStage{JobsRepo: jobs, Logger: logger}
}

// Run decodes the document and opens an extract_job for it in the given status.
// A document that cannot be decoded never gets a job.
func (s *DecodeStage) Run(ctx context.Context, doc Document, status constants.JobStatus) (*entity.ExtractJob, *analysis.AnalysisResult, error) {
	if doc.ID == "" {
		return nil, nil, common.NewAppError("INVALID_DOCUMENT", "document id is required", common.ErrInvalidInput)
	}

	res, format := doc.Result, doc.Format
	if res == nil {
		var err error
		res, format, err = analysis.Decode(doc.Data)
		if err != nil {
			s.Logger.Warn("processor.decode.failed", "document_id", doc.ID, "err", err)
			return nil, nil, err
		}
	}
	if format == "" {
		format = analysis.FormatAnalysis
	}

	req := repository.StartJobRequest{
		DocumentID:   doc.ID,
		SourceFormat: format,
		DocumentType: res.DocumentType,
		Confidence:   res.Confidence,
		Status:       status,
	}
	if sha := doc.SHA256(); sha != "" {
		req.SourceSHA256 = &sha
	}
	job, err := s.JobsRepo.Start(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return job, res, nil
}
