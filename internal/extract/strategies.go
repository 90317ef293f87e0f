package extract

import (
	"strings"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/tables"
	"github.com/joseph-ayodele/docextract/internal/textpattern"
)

// structuredFields returns fields.items when the provider (or an upstream step)
// already produced normalized items.
type structuredFields struct{}

func (structuredFields) Name() string { return StrategyStructuredFields }

func (structuredFields) TryExtract(r *analysis.AnalysisResult) []entity.LineItem {
	arr := r.Field("items")
	if !arr.IsArray() {
		return nil
	}
	items := make([]entity.LineItem, 0, arr.Len())
	for _, v := range arr.Elems() {
		if item, ok := decodeStructuredItem(v); ok {
			items = append(items, item)
		}
	}
	return items
}

// rawResult scans rawResult.documents[0].fields.Items and, independently, the raw
// full-text content through the text templates.
type rawResult struct {
	text *textPattern
}

func (rawResult) Name() string { return StrategyRawResult }

func (s rawResult) TryExtract(r *analysis.AnalysisResult) []entity.LineItem {
	var items []entity.LineItem

	entries := r.RawResult.Get("documents").Index(0).Path("fields", "Items")
	list := entries.Get("values")
	if !list.IsArray() {
		list = entries.Get("valueArray")
	}
	for _, e := range list.Elems() {
		if item, ok := itemFromFields(analysis.ObjectMembers(e)); ok {
			items = append(items, item)
		}
	}

	if content := r.RawContent(); content != "" {
		items = append(items, s.text.extract(content)...)
	}
	return items
}

// customFields looks for item-like keys in fields.customFields.
type customFields struct{}

func (customFields) Name() string { return StrategyCustomFields }

func isItemKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "item") ||
		strings.Contains(lower, "product") ||
		strings.Contains(key, "商品") ||
		strings.Contains(key, "品名")
}

func (customFields) TryExtract(r *analysis.AnalysisResult) []entity.LineItem {
	custom := r.Field("customFields")
	var items []entity.LineItem
	for _, key := range custom.Keys() {
		if !isItemKey(key) {
			continue
		}
		v := custom.Get(key)
		switch v.Kind() {
		case analysis.KindArray:
			for _, e := range v.Elems() {
				if !e.IsObject() {
					continue
				}
				if item, ok := itemFromFields(analysis.ObjectMembers(e)); ok {
					items = append(items, item)
				}
			}
		case analysis.KindObject:
			if item, ok := itemFromFields(analysis.ObjectMembers(v)); ok {
				items = append(items, item)
			}
		}
	}
	return items
}

// textPattern runs the text templates over the flattened page text.
type textPattern struct {
	observe func(textpattern.Stats)
}

func (*textPattern) Name() string { return StrategyTextPattern }

func (s *textPattern) TryExtract(r *analysis.AnalysisResult) []entity.LineItem {
	return s.extract(r.FlattenText())
}

func (s *textPattern) extract(text string) []entity.LineItem {
	items, stats := textpattern.ExtractWithStats(text)
	if s != nil && s.observe != nil {
		s.observe(stats)
	}
	return items
}

// table reads every detected table through the header-row analyzer.
type table struct{}

func (table) Name() string { return StrategyTable }

func (table) TryExtract(r *analysis.AnalysisResult) []entity.LineItem {
	return tables.ExtractAll(r.Tables)
}

// DefaultStrategies returns the cascade in priority order. observe, when set,
// receives the statistics of every text-template pass.
func DefaultStrategies(observe func(textpattern.Stats)) []Strategy {
	text := &textPattern{observe: observe}
	return []Strategy{
		structuredFields{},
		rawResult{text: text},
		customFields{},
		text,
		table{},
	}
}
