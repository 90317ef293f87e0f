package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/metrics"
)

// Resumer finishes a prepared job. *pipeline.Processor satisfies it.
type Resumer interface {
	Resume(ctx context.Context, job *entity.ExtractJob, res *analysis.AnalysisResult) (*entity.ExtractJob, error)
}

type ProcessorQueue struct {
	proc    Resumer
	logger  *slog.Logger
	metrics *metrics.Metrics
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}
func WithMetrics(m *metrics.Metrics) Option {
	return func(q *ProcessorQueue) {
		q.metrics = m
	}
}

func NewProcessorQueue(proc Resumer, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 30 * time.Second,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	if q.metrics == nil {
		q.metrics = metrics.Default()
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.metrics.QueueDepth.Dec()
					q.handle(workerID, job)
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) handle(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	if job.RequestID != "" {
		ctx = common.WithRequestID(ctx, job.RequestID)
	}

	done, err := q.proc.Resume(ctx, job.Job, job.Result)
	if err != nil {
		q.logger.Error("processing failed", "worker_id", workerID, "job_id", job.Job.ID, "error", err)
		return
	}
	q.logger.Info("processed job successfully",
		"worker_id", workerID,
		"job_id", done.ID,
		"status", done.Status,
		"waited", time.Since(job.SubmittedAt),
	)
}

// Enqueue hands a job to the workers. A full queue applies backpressure until ctx
// is done; a closed queue rejects the job.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.metrics.DroppedSubmissions.Inc()
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", job.Job.ID)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	q.metrics.QueueDepth.Inc()
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("queue full, applying backpressure", "job_id", job.Job.ID)
		select {
		case q.ch <- job:
		case <-ctx.Done():
			q.metrics.QueueDepth.Dec()
			q.metrics.DroppedSubmissions.Inc()
			return ctx.Err()
		}
	}
	q.logger.Info("queued job for processing", "job_id", job.Job.ID, "document_id", job.Job.DocumentID)
	return nil
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
