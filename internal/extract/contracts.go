package extract

import (
	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
)

// Strategy is one way of reading line items out of an analysis result. An empty
// result means "nothing found here"; the orchestrator then moves on.
type Strategy interface {
	Name() string
	TryExtract(result *analysis.AnalysisResult) []entity.LineItem
}

// Strategy names, also used as metric labels and stored on jobs.
const (
	StrategyStructuredFields = "structured-fields"
	StrategyRawResult        = "raw-result"
	StrategyCustomFields     = "custom-fields"
	StrategyTextPattern      = "text-pattern"
	StrategyTable            = "table"
)
