package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/textpattern"
)

// runextract runs the extractor over one analysis file and prints the result,
// optionally with what every strategy would have produced on its own.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	taxRate := flag.Float64("tax", 0, "default tax rate (%) applied to items without tax")
	all := flag.Bool("all", false, "also report each strategy's output")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runextract [-tax 10] [-all] <analysis.json>")
		os.Exit(2)
	}
	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	res, format, err := analysis.Decode(data)
	if err != nil {
		logger.Error("decode failed", "path", path, "error", err)
		os.Exit(1)
	}

	start := time.Now()
	ext := extract.New(logger).Extract(res)
	ext.Items = extract.ApplyDefaultTax(ext.Items, *taxRate)
	logger.Info("extraction OK",
		"path", path,
		"format", format,
		"strategy", ext.Strategy,
		"items", len(ext.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out := map[string]any{
		"format":       format,
		"documentType": res.DocumentType,
		"confidence":   res.Confidence,
		"extraction":   ext,
		"total":        ext.Total(),
	}
	if *all {
		per := map[string]int{}
		for _, s := range extract.DefaultStrategies(func(textpattern.Stats) {}) {
			per[s.Name()] = len(s.TryExtract(res))
		}
		out["strategies"] = per
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("write output", "error", err)
		os.Exit(1)
	}
}
