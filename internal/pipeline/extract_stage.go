package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/repository"
)

// Config holds thresholds for the extract stage.
type Config struct {
	MinConfidence  float64 // default 0.80
	DefaultTaxRate float64 // percent; 0 disables
}

type ExtractStage struct {
	Logger    *slog.Logger
	Cfg       Config
	JobsRepo  repository.ExtractJobRepository
	Extractor *extract.Extractor
}

func NewExtractStage(logger *slog.Logger, cfg Config, jobs repository.ExtractJobRepository, ex *extract.Extractor) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.80
	}
	if ex == nil {
		ex = extract.New(logger)
	}
	return &ExtractStage{Logger: logger, Cfg: cfg, JobsRepo: jobs, Extractor: ex}
}

// Run extracts items and header fields for an open job and persists the outcome.
// Extraction itself cannot fail; only persistence errors are returned, after the
// job has been marked FAILED where possible.
func (s *ExtractStage) Run(ctx context.Context, job *entity.ExtractJob, res *analysis.AnalysisResult) (entity.Extraction, bool, error) {
	ext := s.Extractor.Extract(res)
	ext.Items = extract.ApplyDefaultTax(ext.Items, s.Cfg.DefaultTaxRate)

	needsReview := NeedsReview(res, ext, s.Cfg.MinConfidence)
	if !res.MeetsConfidence(s.Cfg.MinConfidence) {
		s.Logger.Warn("analysis confidence low; needs review", "job_id", job.ID, "conf", res.Confidence)
	}

	if err := s.JobsRepo.FinishSuccess(ctx, job.ID, ext, needsReview); err != nil {
		s.Logger.Error("extract.persist.failed", "job_id", job.ID, "err", err)
		if ferr := s.JobsRepo.FinishFailure(context.WithoutCancel(ctx), job.ID, err.Error()); ferr != nil {
			s.Logger.Error("extract.mark_failed.failed", "job_id", job.ID, "err", ferr)
		}
		return ext, needsReview, fmt.Errorf("persist extraction: %w", err)
	}
	return ext, needsReview, nil
}

// NeedsReview flags results a person should look at: low provider confidence,
// no items, or no header fields at all.
func NeedsReview(res *analysis.AnalysisResult, ext entity.Extraction, minConfidence float64) bool {
	return !res.MeetsConfidence(minConfidence) || len(ext.Items) == 0 || ext.HeaderFields.IsEmpty()
}
