package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/docextract/internal/async"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/export"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/ingest"
	"github.com/joseph-ayodele/docextract/internal/metrics"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
	repo "github.com/joseph-ayodele/docextract/internal/repository"
	svc "github.com/joseph-ayodele/docextract/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := svc.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.Default()
	jobsRepo := repo.NewExtractJobRepository(db.Driver, logger)
	itemsRepo := repo.NewLineItemRepository(db.Driver, logger)

	extractor := extract.New(logger, extract.WithMetrics(m))
	processor := pipeline.NewProcessor(logger,
		pipeline.NewDecodeStage(jobsRepo, logger),
		pipeline.NewExtractStage(logger, pipeline.Config{
			MinConfidence:  cfg.Extraction.MinConfidence,
			DefaultTaxRate: cfg.Extraction.DefaultTaxRate,
		}, jobsRepo, extractor),
		m,
	)
	processor.Timeout = cfg.Extraction.ProcessTimeout

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Extraction.Workers),
		async.WithQueueSize(cfg.Extraction.QueueSize),
		async.WithProcessTimeout(cfg.Extraction.ProcessTimeout),
		async.WithMetrics(m),
	)
	ingestor := ingest.NewUsecase(processor, jobsRepo, cfg.Extraction.MaxConcurrent, logger)

	service := svc.NewExtractionService(svc.Deps{
		Extractor: extractor,
		Processor: processor,
		Queue:     queue,
		Jobs:      jobsRepo,
		Items:     itemsRepo,
		Exporter:  export.NewService(jobsRepo, itemsRepo, logger),
		Ingestor:  ingestor,
	}, logger)
	grpcServer, healthServer := svc.NewGRPCServer(service, logger)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	if len(cfg.Ingest.WatchDirs) > 0 {
		go func() {
			err := ingestor.Watch(ctx, ingest.WatchConfig{
				Roots:       cfg.Ingest.WatchDirs,
				InitialScan: cfg.Ingest.InitialScan,
				Debounce:    cfg.Ingest.Debounce,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("directory watcher stopped", "error", err)
			}
		}()
		logger.Info("watching directories", "dirs", cfg.Ingest.WatchDirs)
	}

	logger.Info("docextractd listening",
		"grpc_addr", cfg.Server.GRPCAddr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"workers", cfg.Extraction.Workers,
	)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	grpcServer.GracefulStop()
	queue.Shutdown(shutdownCtx)
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", "error", err)
	}
}
