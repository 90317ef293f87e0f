package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/metrics"
	"github.com/joseph-ayodele/docextract/internal/repository"
)

const quoteDoc = `{
	"documentType": "invoice",
	"confidence": 0.95,
	"pages": [{"lines": [
		{"content": "件名：社内報印刷"},
		{"content": "ボールペン 10本 @100 1,000円"},
		{"content": "小計 1,000円"}
	]}]
}`

type fixture struct {
	proc  *Processor
	jobs  repository.ExtractJobRepository
	items repository.LineItemRepository
	m     *metrics.Metrics
}

func newFixture(t *testing.T, wrap func(repository.ExtractJobRepository) repository.ExtractJobRepository) fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	drv, err := repository.OpenSQLite(ctx, "", logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(drv, nil, logger) })
	require.NoError(t, repository.Migrate(ctx, drv))

	jobs := repository.NewExtractJobRepository(drv, logger)
	if wrap != nil {
		jobs = wrap(jobs)
	}
	m := metrics.New(prometheus.NewRegistry())
	ex := extract.New(logger, extract.WithMetrics(m))
	proc := NewProcessor(logger,
		NewDecodeStage(jobs, logger),
		NewExtractStage(logger, Config{MinConfidence: 0.8, DefaultTaxRate: 10}, jobs, ex),
		m,
	)
	return fixture{proc: proc, jobs: jobs, items: repository.NewLineItemRepository(drv, logger), m: m}
}

func TestProcessExtracted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	job, err := f.proc.Process(ctx, Document{ID: "quote-1", Data: []byte(quoteDoc)})
	require.NoError(t, err)

	assert.Equal(t, constants.JobStatusExtracted, job.Status)
	assert.Equal(t, constants.DocumentInvoice, job.DocumentType)
	assert.Equal(t, "ANALYSIS", job.SourceFormat)
	assert.Equal(t, 1, job.ItemCount)
	assert.Equal(t, "社内報印刷", job.HeaderFields.Subject)
	assert.False(t, job.NeedsReview)
	require.NotNil(t, job.SourceSHA256)
	assert.Len(t, *job.SourceSHA256, 64)

	items, err := f.items.ListByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ボールペン", items[0].Description)
	require.NotNil(t, items[0].TaxAmount)
	assert.Equal(t, 100.0, *items[0].TaxAmount)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.JobsProcessed.WithLabelValues("EXTRACTED")))
}

func TestProcessEmptyNeedsReview(t *testing.T) {
	f := newFixture(t, nil)

	job, err := f.proc.Process(context.Background(), Document{ID: "blank", Data: []byte(`{"confidence": 0.5}`)})
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusEmpty, job.Status)
	assert.True(t, job.NeedsReview)
	assert.Equal(t, 0, job.ItemCount)
}

func TestProcessRejectsUndecodableInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.proc.Process(ctx, Document{ID: "bad", Data: []byte("not json")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	_, err = f.proc.Process(ctx, Document{Data: []byte(quoteDoc)})
	assert.True(t, errors.Is(err, common.ErrInvalidInput), "document id is required")

	jobs, err := f.jobs.ListByDocument(ctx, "bad")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestPrepareAndResume(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	job, res, err := f.proc.Prepare(ctx, Document{ID: "queued", Data: []byte(quoteDoc)})
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusQueued, job.Status)

	stored, err := f.jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusQueued, stored.Status)

	done, err := f.proc.Resume(ctx, job, res)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusExtracted, done.Status)
}

type failingFinish struct {
	repository.ExtractJobRepository
	failed []uuid.UUID
}

func (f *failingFinish) FinishSuccess(context.Context, uuid.UUID, entity.Extraction, bool) error {
	return errors.New("disk full")
}

func (f *failingFinish) FinishFailure(ctx context.Context, id uuid.UUID, msg string) error {
	f.failed = append(f.failed, id)
	return f.ExtractJobRepository.FinishFailure(ctx, id, msg)
}

func TestPersistenceErrorMarksJobFailed(t *testing.T) {
	var wrapped *failingFinish
	f := newFixture(t, func(r repository.ExtractJobRepository) repository.ExtractJobRepository {
		wrapped = &failingFinish{ExtractJobRepository: r}
		return wrapped
	})
	ctx := context.Background()

	_, err := f.proc.Process(ctx, Document{ID: "quote-2", Data: []byte(quoteDoc)})
	require.Error(t, err)
	require.Len(t, wrapped.failed, 1)

	job, err := f.jobs.Get(ctx, wrapped.failed[0])
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "disk full")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.JobsProcessed.WithLabelValues("FAILED")))
}

type brokenStore struct {
	repository.ExtractJobRepository
}

func (brokenStore) FinishSuccess(context.Context, uuid.UUID, entity.Extraction, bool) error {
	return errors.New("disk full")
}

func (brokenStore) FinishFailure(context.Context, uuid.UUID, string) error {
	return errors.New("connection reset")
}

func TestMarkFailedErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ex := extract.New(logger, extract.WithMetrics(metrics.New(prometheus.NewRegistry())))
	stage := NewExtractStage(logger, Config{MinConfidence: 0.8}, brokenStore{}, ex)

	res, _, err := analysis.Decode([]byte(quoteDoc))
	require.NoError(t, err)
	_, _, err = stage.Run(context.Background(), &entity.ExtractJob{ID: uuid.New(), DocumentID: "quote-3"}, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	logs := buf.String()
	assert.Contains(t, logs, "level=ERROR msg=extract.mark_failed.failed")
	assert.Contains(t, logs, "connection reset")
}

func TestNeedsReview(t *testing.T) {
	ext := entity.Extraction{
		Items:        []entity.LineItem{entity.NewLineItem("x")},
		HeaderFields: entity.HeaderFieldSet{Subject: "s"},
	}
	res, _, err := analysis.Decode([]byte(quoteDoc))
	require.NoError(t, err)
	assert.False(t, NeedsReview(res, ext, 0.8))
	assert.True(t, NeedsReview(res, ext, 0.99))
	assert.True(t, NeedsReview(res, entity.Extraction{HeaderFields: ext.HeaderFields}, 0.8))
	assert.True(t, NeedsReview(res, entity.Extraction{Items: ext.Items}, 0.8))
	assert.True(t, NeedsReview(nil, ext, 0.8))
}
