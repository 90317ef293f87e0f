package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/metrics"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
	"github.com/joseph-ayodele/docextract/internal/repository"
)

type Usecase struct {
	Proc Processor
	// Jobs, when set, skips files whose content hash already has a job.
	Jobs          repository.ExtractJobRepository
	AllowedExts   map[string]struct{}
	MaxConcurrent int
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

func NewUsecase(proc Processor, jobs repository.ExtractJobRepository, maxConcurrent int, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrent < 1 {
		maxConcurrent = 5
	}
	return &Usecase{Proc: proc, Jobs: jobs, MaxConcurrent: maxConcurrent, Metrics: metrics.Default(), Logger: logger}
}

// source is a file read into memory and hashed, ready to be processed.
type source struct {
	path string
	id   string
	data []byte
	hash string
}

func readSource(root, path string) (source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return source{}, fmt.Errorf("abs path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return source{}, fmt.Errorf("read: %w", err)
	}
	sum := sha256.Sum256(data)
	return source{path: abs, id: DocumentID(root, path), data: data, hash: hex.EncodeToString(sum[:])}, nil
}

func (u *Usecase) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	if !AllowedExt(filepath.Ext(path), u.AllowedExts) {
		return IngestionResult{SourcePath: path}, common.NewAppError("UNSUPPORTED_FILE",
			fmt.Sprintf("unsupported or missing extension: %q", filepath.Ext(path)), common.ErrInvalidInput)
	}
	src, err := readSource(filepath.Dir(path), path)
	if err != nil {
		return IngestionResult{SourcePath: path}, err
	}
	res := u.process(ctx, src)
	if res.Err != "" {
		return res, errors.New(res.Err)
	}
	return res, nil
}

// process runs one source through the pipeline. Failures end up in Err.
func (u *Usecase) process(ctx context.Context, src source) IngestionResult {
	out := IngestionResult{SourcePath: src.path, DocumentID: src.id, HashHex: src.hash}

	if u.Jobs != nil {
		if prev, err := u.Jobs.FindBySHA256(ctx, src.hash); err == nil {
			fill(&out, prev)
			out.Deduplicated = true
			u.Logger.Info("ingest.dedup", "path", src.path, "job_id", prev.ID)
			return out
		} else if !errors.Is(err, common.ErrNotFound) {
			out.Err = err.Error()
			return out
		}
	}

	job, err := u.Proc.Process(ctx, pipeline.Document{ID: src.id, Data: src.data})
	if err != nil {
		u.Logger.Error("ingest.process.failed", "path", src.path, "err", err)
		out.Err = err.Error()
		return out
	}
	if u.Metrics != nil {
		u.Metrics.BatchDocuments.Inc()
	}
	fill(&out, job)
	return out
}

func fill(out *IngestionResult, job *entity.ExtractJob) {
	out.JobID = job.ID.String()
	out.Status = string(job.Status)
	out.ItemCount = job.ItemCount
	out.NeedsReview = job.NeedsReview
	if job.Strategy != nil {
		out.Strategy = *job.Strategy
	}
}
