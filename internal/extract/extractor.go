// Package extract runs the line-item strategy cascade and the header-field pass
// over a normalized analysis result.
package extract

import (
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/headerfields"
	"github.com/joseph-ayodele/docextract/internal/metrics"
	"github.com/joseph-ayodele/docextract/internal/textpattern"
)

// Extractor turns analysis results into line items and header fields.
type Extractor struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	strategies []Strategy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrategies replaces the default cascade.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// WithMetrics records to m instead of the default registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Extractor) {
		e.metrics = m
	}
}

// New builds an Extractor with the default cascade unless overridden.
func New(logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.Default()
	}
	if e.strategies == nil {
		e.strategies = DefaultStrategies(e.observeText)
	}
	return e
}

// Strategies returns the names of the configured strategies in cascade order.
func (e *Extractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract runs both the item cascade and the header-field pass.
func (e *Extractor) Extract(result *analysis.AnalysisResult) entity.Extraction {
	start := time.Now()
	result = orEmpty(result)

	items, strategy := e.extractItems(result)
	out := entity.Extraction{
		Items:        items,
		HeaderFields: e.ExtractHeaderFields(result),
		Strategy:     strategy,
	}

	e.metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	e.logger.Info("extract.done",
		"document_type", result.DocumentType,
		"strategy", strategy,
		"items", len(items),
		"header_fields", out.HeaderFields.Count(),
		"duration", time.Since(start))
	return out
}

// ExtractItems returns the items of the first strategy that finds any. It never
// merges strategies and returns an empty, non-nil slice when all of them come up empty.
func (e *Extractor) ExtractItems(result *analysis.AnalysisResult) []entity.LineItem {
	items, _ := e.extractItems(orEmpty(result))
	return items
}

func (e *Extractor) extractItems(result *analysis.AnalysisResult) ([]entity.LineItem, string) {
	for _, s := range e.strategies {
		items := e.try(s, result)
		if len(items) == 0 {
			e.logger.Debug("extract.strategy.empty", "strategy", s.Name())
			continue
		}
		e.metrics.StrategyHits.WithLabelValues(s.Name()).Inc()
		e.logger.Debug("extract.strategy.matched", "strategy", s.Name(), "items", len(items))
		return items, s.Name()
	}
	e.metrics.EmptyExtractions.Inc()
	e.logger.Warn("extract.items.none", "strategies", len(e.strategies))
	return []entity.LineItem{}, ""
}

// try runs one strategy; a panic counts as "nothing found".
func (e *Extractor) try(s Strategy, result *analysis.AnalysisResult) (items []entity.LineItem) {
	defer func() {
		if rec := recover(); rec != nil {
			e.metrics.StrategyPanics.WithLabelValues(s.Name()).Inc()
			e.logger.Error("extract.strategy.panic", "strategy", s.Name(), "panic", rec)
			items = nil
		}
	}()
	return s.TryExtract(result)
}

// ExtractHeaderFields reads structured header fields first and then fills the gaps
// from one pass over the document text. It runs regardless of the item cascade.
func (e *Extractor) ExtractHeaderFields(result *analysis.AnalysisResult) entity.HeaderFieldSet {
	result = orEmpty(result)

	set := headerfields.FromFields(result.Fields)
	for _, f := range entity.HeaderFields {
		if set.Get(f) != "" {
			e.metrics.HeaderFieldsFound.WithLabelValues(string(f), "fields").Inc()
		}
	}
	for _, f := range headerfields.Fill(&set, result.Text()) {
		e.metrics.HeaderFieldsFound.WithLabelValues(string(f), "text").Inc()
	}
	return set
}

func (e *Extractor) observeText(stats textpattern.Stats) {
	for reason, n := range stats.Rejected {
		e.metrics.RejectedCandidates.WithLabelValues(string(reason)).Add(float64(n))
	}
	if stats.Matched > 0 {
		e.logger.Debug("extract.text.stats",
			"matched", stats.Matched,
			"rejected", stats.TotalRejected(),
			"duplicates", stats.Duplicates,
			"no_price", stats.NoPrice)
	}
}

func orEmpty(r *analysis.AnalysisResult) *analysis.AnalysisResult {
	if r == nil {
		return &analysis.AnalysisResult{}
	}
	return r
}
