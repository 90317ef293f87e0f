package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/metrics"
)

func TestRunChunkedBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	var mu sync.Mutex
	var order []int

	itemErrs, err := RunChunked(context.Background(), 7, 3, func(_ context.Context, i int) error {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		order = append(order, i)
		mu.Unlock()
		atomic.AddInt32(&inFlight, -1)
		if i == 4 {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak, int32(3))
	require.Len(t, order, 7)
	// chunk barrier: all of 0..2 finish before any of 3..5, and those before 6
	for pos, i := range order {
		assert.Equal(t, pos/3, i/3, "item %d finished out of its chunk", i)
	}
	require.Len(t, itemErrs, 1)
	assert.Equal(t, 4, itemErrs[0].Index)
	assert.EqualError(t, itemErrs[0], "item 4: boom")
}

func TestRunChunkedStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	_, err := RunChunked(ctx, 10, 2, func(context.Context, int) error {
		if atomic.AddInt32(&calls, 1) == 2 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRunChunkedZeroItems(t *testing.T) {
	itemErrs, err := RunChunked(context.Background(), 0, 0, func(context.Context, int) error {
		t.Fatal("must not be called")
		return nil
	})
	assert.NoError(t, err)
	assert.Empty(t, itemErrs)
}

type fakeResumer struct {
	mu   sync.Mutex
	seen []uuid.UUID
	gate chan struct{}
}

func (f *fakeResumer) Resume(_ context.Context, job *entity.ExtractJob, _ *analysis.AnalysisResult) (*entity.ExtractJob, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.seen = append(f.seen, job.ID)
	f.mu.Unlock()
	done := *job
	done.Status = constants.JobStatusExtracted
	return &done, nil
}

func newJob() Job {
	return Job{Job: &entity.ExtractJob{ID: uuid.New(), DocumentID: "d"}, Result: &analysis.AnalysisResult{}}
}

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	r := &fakeResumer{}
	q := NewProcessorQueue(r, logger, WithWorkers(2), WithQueueSize(8), WithMetrics(m))

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), newJob()))
	}
	q.Shutdown(context.Background())

	assert.Len(t, r.seen, 5)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.QueueDepth))

	err := q.Enqueue(context.Background(), newJob())
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedSubmissions))
	q.Shutdown(context.Background())
}

func TestProcessorQueueBackpressure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	r := &fakeResumer{gate: make(chan struct{})}
	q := NewProcessorQueue(r, logger, WithWorkers(1), WithQueueSize(1), WithMetrics(m))

	// one job held by the worker, one in the buffer
	require.NoError(t, q.Enqueue(context.Background(), newJob()))
	require.Eventually(t, func() bool { return testutil.ToFloat64(m.QueueDepth) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), newJob()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, newJob())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedSubmissions))

	close(r.gate)
	q.Shutdown(context.Background())
	assert.Len(t, r.seen, 2)
}
