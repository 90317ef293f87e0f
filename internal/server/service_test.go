package server

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/docextract/internal/async"
	"github.com/joseph-ayodele/docextract/internal/export"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/ingest"
	"github.com/joseph-ayodele/docextract/internal/metrics"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
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

type testEnv struct {
	client *ExtractionClient
	conn   *grpc.ClientConn
}

func startServer(t *testing.T, withQueue bool) testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	drv, err := repository.OpenSQLite(ctx, "", logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(drv, nil, logger) })
	require.NoError(t, repository.Migrate(ctx, drv))

	m := metrics.New(prometheus.NewRegistry())
	jobs := repository.NewExtractJobRepository(drv, logger)
	items := repository.NewLineItemRepository(drv, logger)
	ex := extract.New(logger, extract.WithMetrics(m))
	proc := pipeline.NewProcessor(logger,
		pipeline.NewDecodeStage(jobs, logger),
		pipeline.NewExtractStage(logger, pipeline.Config{MinConfidence: 0.8}, jobs, ex),
		m,
	)

	deps := Deps{
		Extractor: ex,
		Processor: proc,
		Jobs:      jobs,
		Items:     items,
		Exporter:  export.NewService(jobs, items, logger),
		Ingestor:  ingest.NewUsecase(proc, jobs, 2, logger),
	}
	if withQueue {
		q := async.NewProcessorQueue(proc, logger, async.WithWorkers(1), async.WithMetrics(m))
		t.Cleanup(func() { q.Shutdown(context.Background()) })
		deps.Queue = q
	}

	lis := bufconn.Listen(1 << 20)
	gs, _ := NewGRPCServer(NewExtractionService(deps, logger), logger)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return testEnv{client: NewExtractionClient(conn), conn: conn}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestExtractStateless(t *testing.T) {
	env := startServer(t, false)

	resp, err := env.client.Extract(context.Background(), mustStruct(t, map[string]any{"analysis": quoteDoc}))
	require.NoError(t, err)

	out := resp.AsMap()
	assert.Equal(t, extract.StrategyTextPattern, out["strategy"])
	assert.Equal(t, "ANALYSIS", out["format"])
	assert.InDelta(t, 1000.0, out["total"], 1e-9)

	items := out["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "ボールペン", item["description"])
	assert.InDelta(t, 10.0, item["quantity"], 1e-9)
}

func TestExtractAcceptsNestedObject(t *testing.T) {
	env := startServer(t, false)

	req := mustStruct(t, map[string]any{"analysis": map[string]any{
		"documentType": "quote",
		"confidence":   0.9,
		"fields": map[string]any{
			"items": []any{map[string]any{"description": "Paper", "quantity": 2, "unitPrice": 5, "amount": 10}},
		},
	}})
	resp, err := env.client.Extract(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, extract.StrategyStructuredFields, resp.AsMap()["strategy"])
}

func TestExtractInvalidArgument(t *testing.T) {
	env := startServer(t, false)
	ctx := context.Background()

	_, err := env.client.Extract(ctx, mustStruct(t, map[string]any{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.Extract(ctx, mustStruct(t, map[string]any{"analysis": "not json"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.Extract(ctx, mustStruct(t, map[string]any{"analysis": 12.0}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSubmitSyncThenGetAndExport(t *testing.T) {
	env := startServer(t, false)
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-1")

	resp, err := env.client.Submit(ctx, mustStruct(t, map[string]any{"documentId": "quote-1", "analysis": quoteDoc}))
	require.NoError(t, err)
	job := resp.AsMap()["job"].(map[string]any)
	assert.Equal(t, "EXTRACTED", job["status"])
	jobID := job["id"].(string)

	got, err := env.client.GetJob(ctx, mustStruct(t, map[string]any{"jobId": jobID}))
	require.NoError(t, err)
	items := got.AsMap()["items"].([]any)
	require.Len(t, items, 1)

	exp, err := env.client.ExportJob(ctx, mustStruct(t, map[string]any{"jobId": jobID}))
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(exp.AsMap()["xlsx"].(string))
	require.NoError(t, err)
	assert.Equal(t, "PK", string(raw[:2]))
	assert.Equal(t, jobID+".xlsx", exp.AsMap()["filename"])
}

func TestSubmitQueued(t *testing.T) {
	env := startServer(t, true)
	ctx := context.Background()

	resp, err := env.client.Submit(ctx, mustStruct(t, map[string]any{"documentId": "quote-2", "analysis": quoteDoc}))
	require.NoError(t, err)
	jobID := resp.AsMap()["job"].(map[string]any)["id"].(string)

	assert.Eventually(t, func() bool {
		got, err := env.client.GetJob(ctx, mustStruct(t, map[string]any{"jobId": jobID}))
		if err != nil {
			return false
		}
		return got.AsMap()["job"].(map[string]any)["status"] == "EXTRACTED"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSubmitRequiresDocumentID(t *testing.T) {
	env := startServer(t, false)
	_, err := env.client.Submit(context.Background(), mustStruct(t, map[string]any{"analysis": quoteDoc}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetJobErrors(t *testing.T) {
	env := startServer(t, false)
	ctx := context.Background()

	_, err := env.client.GetJob(ctx, mustStruct(t, map[string]any{"jobId": "nope"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.GetJob(ctx, mustStruct(t, map[string]any{"jobId": "9f1c2a8e-6a43-4b5e-9d0e-3b0f3c6a1d22"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestIngestDirectoryRPC(t *testing.T) {
	env := startServer(t, false)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.json"), []byte(quoteDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip"), 0o644))

	resp, err := env.client.IngestDirectory(context.Background(), mustStruct(t, map[string]any{"root": root}))
	require.NoError(t, err)
	out := resp.AsMap()
	stats := out["stats"].(map[string]any)
	assert.InDelta(t, 1.0, stats["matched"], 1e-9)
	assert.InDelta(t, 1.0, stats["succeeded"], 1e-9)
	require.Len(t, out["results"].([]any), 1)
}

func TestHealthServing(t *testing.T) {
	env := startServer(t, false)
	resp, err := healthpb.NewHealthClient(env.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
