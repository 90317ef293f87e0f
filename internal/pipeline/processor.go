package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/metrics"
)

// Processor coordinates decoding (job creation) then extraction (persisted result).
type Processor struct {
	Logger  *slog.Logger
	Decode  *DecodeStage
	Extract *ExtractStage
	Metrics *metrics.Metrics
	// Timeout bounds one Process or Resume call; zero means none.
	Timeout time.Duration
}

func NewProcessor(logger *slog.Logger, decode *DecodeStage, extract *ExtractStage, m *metrics.Metrics) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.Default()
	}
	return &Processor{Logger: logger, Decode: decode, Extract: extract, Metrics: m}
}

// Process decodes doc, opens a RUNNING job, extracts and persists the result.
// Returns the finished job.
func (p *Processor) Process(ctx context.Context, doc Document) (*entity.ExtractJob, error) {
	ctx, cancel := common.WithTimeout(common.WithDocumentID(ctx, doc.ID), p.Timeout)
	defer cancel()

	job, res, err := p.Decode.Run(ctx, doc, constants.JobStatusRunning)
	if err != nil {
		p.Logger.Error("processor.decode.failed", "document_id", doc.ID, "err", err)
		return nil, err
	}
	p.Logger.Info("processor.decode.ok",
		"document_id", doc.ID,
		"job_id", job.ID,
		"format", job.SourceFormat,
		"document_type", res.DocumentType,
		"confidence", res.Confidence,
	)
	return p.run(ctx, job, res)
}

// Prepare decodes doc and opens a QUEUED job for later processing by Resume.
func (p *Processor) Prepare(ctx context.Context, doc Document) (*entity.ExtractJob, *analysis.AnalysisResult, error) {
	return p.Decode.Run(ctx, doc, constants.JobStatusQueued)
}

// Resume moves a queued job to RUNNING and finishes it.
func (p *Processor) Resume(ctx context.Context, job *entity.ExtractJob, res *analysis.AnalysisResult) (*entity.ExtractJob, error) {
	ctx, cancel := common.WithTimeout(common.WithDocumentID(ctx, job.DocumentID), p.Timeout)
	defer cancel()

	if err := p.Extract.JobsRepo.MarkRunning(ctx, job.ID); err != nil {
		p.Logger.Error("processor.resume.failed", "job_id", job.ID, "err", err)
		return nil, err
	}
	return p.run(ctx, job, res)
}

func (p *Processor) run(ctx context.Context, job *entity.ExtractJob, res *analysis.AnalysisResult) (*entity.ExtractJob, error) {
	start := time.Now()
	ext, needsReview, err := p.Extract.Run(ctx, job, res)
	p.Metrics.JobDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.Metrics.JobsProcessed.WithLabelValues(string(constants.JobStatusFailed)).Inc()
		p.Logger.Error("processor.extract.failed", "job_id", job.ID, "err", err)
		return nil, err
	}

	finished, err := p.Extract.JobsRepo.Get(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	p.Metrics.JobsProcessed.WithLabelValues(string(finished.Status)).Inc()
	p.Logger.Info("processor.extract.ok",
		"job_id", job.ID,
		"status", finished.Status,
		"strategy", ext.Strategy,
		"items", len(ext.Items),
		"header_fields", ext.HeaderFields.Count(),
		"needs_review", needsReview,
	)
	return finished, nil
}
