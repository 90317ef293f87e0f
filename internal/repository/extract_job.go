package repository

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
)

// StartJobRequest wraps parameters for creating an extract job.
type StartJobRequest struct {
	DocumentID   string
	SourceFormat string
	SourceSHA256 *string
	DocumentType constants.DocumentType
	Confidence   float64
	Status       constants.JobStatus
}

type ExtractJobRepository interface {
	Start(ctx context.Context, req StartJobRequest) (*entity.ExtractJob, error)
	MarkRunning(ctx context.Context, jobID uuid.UUID) error
	FinishSuccess(ctx context.Context, jobID uuid.UUID, result entity.Extraction, needsReview bool) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error)
	ListByDocument(ctx context.Context, documentID string) ([]*entity.ExtractJob, error)
	FindBySHA256(ctx context.Context, sha string) (*entity.ExtractJob, error)
}

type extractJobRepo struct {
	drv *entsql.Driver
	log *slog.Logger
}

func NewExtractJobRepository(drv *entsql.Driver, log *slog.Logger) ExtractJobRepository {
	return &extractJobRepo{drv: drv, log: log}
}

var jobColumns = []string{
	"id", "document_id", "source_format", "source_sha256", "document_type", "confidence",
	"status", "strategy", "item_count", "header_fields", "needs_review", "error_message",
	"started_at", "finished_at",
}

func (r *extractJobRepo) Start(ctx context.Context, req StartJobRequest) (*entity.ExtractJob, error) {
	if req.DocumentID == "" {
		return nil, common.NewAppError("INVALID_JOB", "document id is required", common.ErrInvalidInput)
	}
	if req.Status == "" {
		req.Status = constants.JobStatusRunning
	}
	job := &entity.ExtractJob{
		ID:           uuid.New(),
		DocumentID:   req.DocumentID,
		SourceFormat: req.SourceFormat,
		SourceSHA256: req.SourceSHA256,
		DocumentType: req.DocumentType,
		Confidence:   req.Confidence,
		Status:       req.Status,
		StartedAt:    time.Now().UTC(),
	}

	q, args := entsql.Dialect(r.drv.Dialect()).
		Insert(tableExtractJob).
		Columns("id", "document_id", "source_format", "source_sha256", "document_type", "confidence", "status", "started_at").
		Values(job.ID, job.DocumentID, job.SourceFormat, job.SourceSHA256, string(job.DocumentType), job.Confidence, string(job.Status), job.StartedAt).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		r.log.Error("extract_job start failed", "document_id", req.DocumentID, "err", err)
		return nil, common.WrapError(err, "start extract job")
	}
	r.log.Info("extract_job started", "job_id", job.ID, "document_id", job.DocumentID, "format", job.SourceFormat, "status", job.Status)
	return job, nil
}

func (r *extractJobRepo) MarkRunning(ctx context.Context, jobID uuid.UUID) error {
	q, args := entsql.Dialect(r.drv.Dialect()).
		Update(tableExtractJob).
		Set("status", string(constants.JobStatusRunning)).
		Where(entsql.EQ("id", jobID)).
		Query()
	return r.update(ctx, r.drv, jobID, q, args)
}

// FinishSuccess stores the extraction outcome and its items in one transaction.
// A result without items finishes as EMPTY rather than EXTRACTED.
func (r *extractJobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID, result entity.Extraction, needsReview bool) error {
	status := constants.JobStatusExtracted
	if len(result.Items) == 0 {
		status = constants.JobStatusEmpty
	}
	headers, err := json.Marshal(result.HeaderFields)
	if err != nil {
		return fmt.Errorf("marshal header fields: %w", err)
	}
	var strategy *string
	if result.Strategy != "" {
		strategy = &result.Strategy
	}

	err = withTx(ctx, r.drv, func(tx dialect.Tx) error {
		q, args := entsql.Dialect(r.drv.Dialect()).
			Update(tableExtractJob).
			Set("status", string(status)).
			Set("strategy", strategy).
			Set("item_count", len(result.Items)).
			Set("header_fields", string(headers)).
			Set("needs_review", needsReview).
			Set("finished_at", time.Now().UTC()).
			Where(entsql.EQ("id", jobID)).
			Query()
		if err := r.update(ctx, tx, jobID, q, args); err != nil {
			return err
		}
		return replaceItems(ctx, tx, r.drv.Dialect(), jobID, result.Items)
	})
	if err != nil {
		r.log.Error("extract_job finish(OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("extract_job finished", "job_id", jobID, "status", status, "items", len(result.Items), "needs_review", needsReview)
	return nil
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	q, args := entsql.Dialect(r.drv.Dialect()).
		Update(tableExtractJob).
		Set("status", string(constants.JobStatusFailed)).
		Set("error_message", message).
		Set("finished_at", time.Now().UTC()).
		Where(entsql.EQ("id", jobID)).
		Query()
	if err := r.update(ctx, r.drv, jobID, q, args); err != nil {
		r.log.Error("extract_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("extract_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}

func (r *extractJobRepo) Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error) {
	jobs, err := r.query(ctx, entsql.EQ("id", jobID), 1)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("extract job %s not found", jobID), common.ErrNotFound)
	}
	return jobs[0], nil
}

func (r *extractJobRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.ExtractJob, error) {
	return r.query(ctx, entsql.EQ("document_id", documentID), 0)
}

// FindBySHA256 returns the most recent job for the given content hash.
func (r *extractJobRepo) FindBySHA256(ctx context.Context, sha string) (*entity.ExtractJob, error) {
	jobs, err := r.query(ctx, entsql.EQ("source_sha256", sha), 1)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, common.NewAppError("NOT_FOUND", "no job for content hash", common.ErrNotFound)
	}
	return jobs[0], nil
}

func (r *extractJobRepo) update(ctx context.Context, ex dialect.ExecQuerier, jobID uuid.UUID, q string, args []any) error {
	var res stdsql.Result
	if err := ex.Exec(ctx, q, args, &res); err != nil {
		return common.WrapError(err, "update extract job")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.WrapError(err, "update extract job")
	}
	if n == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("extract job %s not found", jobID), common.ErrNotFound)
	}
	return nil
}

func (r *extractJobRepo) query(ctx context.Context, where *entsql.Predicate, limit int) ([]*entity.ExtractJob, error) {
	sel := entsql.Dialect(r.drv.Dialect()).
		Select(jobColumns...).
		From(entsql.Table(tableExtractJob)).
		Where(where).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		r.log.Error("extract_job query failed", "err", err)
		return nil, common.WrapError(err, "query extract jobs")
	}
	defer rows.Close()

	var jobs []*entity.ExtractJob
	for rows.Next() {
		job, err := scanJob(&rows)
		if err != nil {
			return nil, common.WrapError(err, "scan extract job")
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate extract jobs")
	}
	return jobs, nil
}

func scanJob(rows *entsql.Rows) (*entity.ExtractJob, error) {
	var (
		job     entity.ExtractJob
		headers []byte
	)
	err := rows.Scan(
		&job.ID, &job.DocumentID, &job.SourceFormat, &job.SourceSHA256, &job.DocumentType, &job.Confidence,
		&job.Status, &job.Strategy, &job.ItemCount, &headers, &job.NeedsReview, &job.ErrorMessage,
		&job.StartedAt, &job.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &job.HeaderFields); err != nil {
			return nil, fmt.Errorf("decode header fields: %w", err)
		}
	}
	return &job, nil
}
