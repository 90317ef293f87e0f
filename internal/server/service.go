package server

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/async"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/export"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/ingest"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
	"github.com/joseph-ayodele/docextract/internal/repository"
)

const maxDocumentIDLen = 512

// Deps are the collaborators of ExtractionService. Queue and Ingestor are
// optional: without a queue Submit processes synchronously, without an
// ingestor IngestDirectory is unavailable.
type Deps struct {
	Extractor *extract.Extractor
	Processor *pipeline.Processor
	Queue     async.Queue
	Jobs      repository.ExtractJobRepository
	Items     repository.LineItemRepository
	Exporter  *export.Service
	Ingestor  ingest.Ingestor
}

// ExtractionService implements ExtractionServer.
//
//	Extract          {analysis}             -> {items, headerFields, strategy, total, format}
//	Submit           {documentId, analysis} -> {job}
//	GetJob           {jobId}                -> {job, items}
//	ExportJob        {jobId}                -> {jobId, filename, xlsx (base64)}
//	IngestDirectory  {root, skipHidden}     -> {results, stats}
type ExtractionService struct {
	deps   Deps
	logger *slog.Logger
}

var _ ExtractionServer = (*ExtractionService)(nil)

func NewExtractionService(deps Deps, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionService{deps: deps, logger: logger}
}

// Extract runs the extractor over an analysis result without persisting anything.
func (s *ExtractionService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	data, err := documentBytes(req, "analysis")
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	res, format, err := analysis.Decode(data)
	if err != nil {
		s.logger.Warn("extract request rejected", "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.ToStatus(err)
	}

	ext := s.deps.Extractor.Extract(res)
	s.logger.Info("extract request served",
		"request_id", common.RequestIDFromContext(ctx),
		"format", format,
		"strategy", ext.Strategy,
		"items", len(ext.Items),
	)
	return toStruct(map[string]any{
		"items":        ext.Items,
		"headerFields": ext.HeaderFields,
		"strategy":     ext.Strategy,
		"total":        ext.Total(),
		"format":       format,
	})
}

// Submit records an extract job for the document. With a queue the job is
// returned QUEUED and processed by a worker; otherwise it is processed inline.
func (s *ExtractionService) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	docID := strings.TrimSpace(stringField(req, "documentId"))
	v := common.NewValidator().Field("documentId", docID, common.Required, common.MaxLength(maxDocumentIDLen))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	data, err := documentBytes(req, "analysis")
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	doc := pipeline.Document{ID: docID, Data: data}

	if s.deps.Queue == nil {
		job, err := s.deps.Processor.Process(ctx, doc)
		if err != nil {
			s.logger.Error("submit failed", "document_id", docID, "error", err)
			return nil, common.ToStatus(err)
		}
		return toStruct(map[string]any{"job": job})
	}

	job, res, err := s.deps.Processor.Prepare(ctx, doc)
	if err != nil {
		s.logger.Error("submit prepare failed", "document_id", docID, "error", err)
		return nil, common.ToStatus(err)
	}
	err = s.deps.Queue.Enqueue(ctx, async.Job{
		Job:         job,
		Result:      res,
		SubmittedAt: time.Now(),
		RequestID:   common.RequestIDFromContext(ctx),
	})
	if err != nil {
		s.logger.Warn("submit enqueue failed", "document_id", docID, "job_id", job.ID, "error", err)
		if ferr := s.deps.Jobs.FinishFailure(context.WithoutCancel(ctx), job.ID, err.Error()); ferr != nil {
			s.logger.Error("submit mark failed", "job_id", job.ID, "error", ferr)
		}
		if errors.Is(err, async.ErrQueueClosed) {
			return nil, status.Error(codes.Unavailable, err.Error())
		}
		return nil, status.Error(codes.ResourceExhausted, err.Error())
	}
	s.logger.Info("submit queued", "document_id", docID, "job_id", job.ID)
	return toStruct(map[string]any{"job": job})
}

func (s *ExtractionService) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	jobID, err := parseJobID(req)
	if err != nil {
		return nil, err
	}
	job, err := s.deps.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	items, err := s.deps.Items.ListByJob(ctx, jobID)
	if err != nil {
		s.logger.Error("list items failed", "job_id", jobID, "error", err)
		return nil, common.ToStatus(err)
	}
	return toStruct(map[string]any{"job": job, "items": items})
}

// ExportJob renders a finished job as an xlsx workbook, base64 encoded.
func (s *ExtractionService) ExportJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	jobID, err := parseJobID(req)
	if err != nil {
		return nil, err
	}
	b, err := s.deps.Exporter.ExportJobXLSX(ctx, jobID)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return toStruct(map[string]any{
		"jobId":    jobID.String(),
		"filename": jobID.String() + ".xlsx",
		"xlsx":     base64.StdEncoding.EncodeToString(b),
	})
}

// IngestDirectory processes every analysis document found under root on the server's filesystem.
func (s *ExtractionService) IngestDirectory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.deps.Ingestor == nil {
		return nil, status.Error(codes.Unimplemented, "directory ingest is not enabled")
	}
	root := strings.TrimSpace(stringField(req, "root"))
	if err := common.ValidateAndReturnError(common.NewValidator().Field("root", root, common.Required)); err != nil {
		return nil, err
	}
	skipHidden := boolField(req, "skipHidden", true)

	s.logger.Info("starting directory ingest", "root", root, "skip_hidden", skipHidden)
	results, stats, err := s.deps.Ingestor.IngestDirectory(ctx, root, skipHidden)
	if err != nil {
		s.logger.Error("directory ingest failed", "root", root, "error", err)
		return nil, status.Errorf(codes.InvalidArgument, "ingest: %v", err)
	}
	s.logger.Info("directory ingest done",
		"root", root,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	return toStruct(map[string]any{"results": results, "stats": stats})
}

func parseJobID(req *structpb.Struct) (uuid.UUID, error) {
	raw := strings.TrimSpace(stringField(req, "jobId"))
	v := common.NewValidator().Field("jobId", raw, common.Required)
	if !v.HasErrors() {
		v.Field("jobId", raw, common.UUID)
	}
	if err := common.ValidateAndReturnError(v); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(raw), nil
}
