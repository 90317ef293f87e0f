package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
)

var (
	ErrQueueClosed = errors.New("queue is shutting down")
)

// Job is a prepared extract job waiting for a worker.
type Job struct {
	Job         *entity.ExtractJob
	Result      *analysis.AnalysisResult
	SubmittedAt time.Time
	RequestID   string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
