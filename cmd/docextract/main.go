package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/export"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/ingest"
	"github.com/joseph-ayodele/docextract/internal/metrics"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
	repo "github.com/joseph-ayodele/docextract/internal/repository"
	svc "github.com/joseph-ayodele/docextract/internal/server"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type summary struct {
	Root    string                   `json:"root"`
	Stats   ingest.DirStats          `json:"stats"`
	Results []ingest.IngestionResult `json:"results"`
	Exports []string                 `json:"exports,omitempty"`
}

func main() {
	var (
		inmem       = flag.Bool("inmem", false, "use in-memory SQLite database instead of DB_URL")
		dir         = flag.String("dir", "", "directory of analysis result .json files (required)")
		skipHidden  = flag.Bool("skip-hidden", true, "skip hidden files and directories")
		xlsxDir     = flag.String("xlsx", "", "write one workbook per extracted job into this directory")
		concurrency = flag.Int("concurrency", 0, "documents processed at once (default EXTRACT_MAX_CONCURRENT)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	// logs go to stderr, the summary owns stdout
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *inmem {
		cfg.Database.InMemory = true
	}
	if *concurrency > 0 {
		cfg.Extraction.MaxConcurrent = *concurrency
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
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
	processor := pipeline.NewProcessor(logger,
		pipeline.NewDecodeStage(jobsRepo, logger),
		pipeline.NewExtractStage(logger, pipeline.Config{
			MinConfidence:  cfg.Extraction.MinConfidence,
			DefaultTaxRate: cfg.Extraction.DefaultTaxRate,
		}, jobsRepo, extract.New(logger, extract.WithMetrics(m))),
		m,
	)
	processor.Timeout = cfg.Extraction.ProcessTimeout
	ingestor := ingest.NewUsecase(processor, jobsRepo, cfg.Extraction.MaxConcurrent, logger)

	logger.Info("starting ingestion", "dir", *dir, "concurrency", cfg.Extraction.MaxConcurrent)
	results, stats, err := ingestor.IngestDirectory(ctx, *dir, *skipHidden)
	if err != nil {
		logger.Error("failed to ingest directory", "error", err)
		os.Exit(1)
	}

	out := summary{Root: *dir, Stats: stats, Results: results}
	if *xlsxDir != "" {
		exporter := export.NewService(jobsRepo, itemsRepo, logger)
		out.Exports, err = exportAll(ctx, exporter, results, *xlsxDir)
		if err != nil {
			logger.Error("failed to export workbooks", "error", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		printError("Error: writing summary: %v\n", err)
		os.Exit(1)
	}
	if stats.Failed > 0 {
		os.Exit(3)
	}
}

// exportAll writes a workbook for every extracted result, named after its
// document id, and returns the written paths.
func exportAll(ctx context.Context, exporter *export.Service, results []ingest.IngestionResult, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var paths []string
	for _, r := range results {
		if r.Err != "" || r.ItemCount == 0 || r.JobID == "" {
			continue
		}
		if _, dup := seen[r.JobID]; dup {
			continue
		}
		seen[r.JobID] = struct{}{}
		jobID, err := uuid.Parse(r.JobID)
		if err != nil {
			return paths, fmt.Errorf("job id %q: %w", r.JobID, err)
		}
		b, err := exporter.ExportJobXLSX(ctx, jobID)
		if err != nil {
			return paths, err
		}
		name := strings.ReplaceAll(r.DocumentID, "/", "_") + ".xlsx"
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
