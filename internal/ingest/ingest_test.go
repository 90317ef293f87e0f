package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/metrics"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
	"github.com/joseph-ayodele/docextract/internal/repository"
)

type fakeProcessor struct {
	mu   sync.Mutex
	docs []string
}

func (f *fakeProcessor) Process(_ context.Context, doc pipeline.Document) (*entity.ExtractJob, error) {
	f.mu.Lock()
	f.docs = append(f.docs, doc.ID)
	f.mu.Unlock()
	if string(doc.Data) == "bad" {
		return nil, errors.New("not an analysis result")
	}
	return &entity.ExtractJob{ID: uuid.New(), DocumentID: doc.ID, Status: constants.JobStatusExtracted, ItemCount: 2}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.json"), `{"x":1}`)
	writeFile(t, filepath.Join(root, "sub", "b.json"), `{"x":1}`)
	writeFile(t, filepath.Join(root, "c.JSON"), `{"x":2}`)
	writeFile(t, filepath.Join(root, "bad.json"), "bad")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, ".cache", "d.json"), `{"x":3}`)

	proc := &fakeProcessor{}
	u := NewUsecase(proc, nil, 2, testLogger())
	u.Metrics = metrics.New(prometheus.NewRegistry())

	results, stats, err := u.IngestDirectory(context.Background(), root, true)
	require.NoError(t, err)

	sort.Strings(proc.docs)
	assert.Equal(t, []string{"a", "bad", "c"}, proc.docs, "duplicate and hidden files are not processed")

	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Equal(t, uint32(1), stats.Deduplicated)

	byID := map[string]IngestionResult{}
	for _, r := range results {
		byID[r.DocumentID] = r
	}
	require.Contains(t, byID, "sub/b")
	assert.True(t, byID["sub/b"].Deduplicated)
	assert.Equal(t, byID["a"].JobID, byID["sub/b"].JobID)
	assert.Equal(t, byID["a"].HashHex, byID["sub/b"].HashHex)
	assert.NotEmpty(t, byID["bad"].Err)
	assert.Equal(t, "EXTRACTED", byID["c"].Status)
	assert.Equal(t, 2, byID["c"].ItemCount)
}

func TestIngestDirectoryIncludesHiddenWhenAsked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".cache", "d.json"), `{"x":3}`)

	proc := &fakeProcessor{}
	u := NewUsecase(proc, nil, 1, testLogger())
	_, stats, err := u.IngestDirectory(context.Background(), root, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Succeeded)
	assert.Equal(t, []string{".cache/d"}, proc.docs)
}

func TestIngestDirectoryRequiresRoot(t *testing.T) {
	u := NewUsecase(&fakeProcessor{}, nil, 1, testLogger())
	_, _, err := u.IngestDirectory(context.Background(), " ", true)
	assert.Error(t, err)
}

func TestIngestPathRejectsExtension(t *testing.T) {
	u := NewUsecase(&fakeProcessor{}, nil, 1, testLogger())
	_, err := u.IngestPath(context.Background(), "invoice.pdf")
	assert.Error(t, err)
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "sub/b", DocumentID("/data", "/data/sub/b.json"))
	assert.Equal(t, "x", DocumentID("", "/elsewhere/x.json"))
	assert.Equal(t, "y", DocumentID("/data", "/other/y.json"))
}

func TestIngestPathDeduplicatesAcrossRuns(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()
	drv, err := repository.OpenSQLite(ctx, "", logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(drv, nil, logger) })
	require.NoError(t, repository.Migrate(ctx, drv))

	jobs := repository.NewExtractJobRepository(drv, logger)
	m := metrics.New(prometheus.NewRegistry())
	proc := pipeline.NewProcessor(logger,
		pipeline.NewDecodeStage(jobs, logger),
		pipeline.NewExtractStage(logger, pipeline.Config{DefaultTaxRate: 10}, jobs, extract.New(logger, extract.WithMetrics(m))),
		m,
	)
	u := NewUsecase(proc, jobs, 2, logger)
	u.Metrics = m

	path := filepath.Join(t.TempDir(), "quote.json")
	writeFile(t, path, `{"confidence": 0.9, "pages": [{"lines": [{"content": "デザイン料 ¥30,000"}]}]}`)

	first, err := u.IngestPath(ctx, path)
	require.NoError(t, err)
	assert.False(t, first.Deduplicated)
	assert.Equal(t, "EXTRACTED", first.Status)
	assert.Equal(t, "text-pattern", first.Strategy)
	assert.Equal(t, "quote", first.DocumentID)

	second, err := u.IngestPath(ctx, path)
	require.NoError(t, err)
	assert.True(t, second.Deduplicated)
	assert.Equal(t, first.JobID, second.JobID)
}
