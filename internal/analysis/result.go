// Package analysis models the output of a document-understanding provider: typed
// fields, detected tables, page text and the provider's untouched raw response.
package analysis

import (
	"strings"

	"github.com/joseph-ayodele/docextract/constants"
)

// AnalysisResult is the provider output for one analysed document. Any part may be
// missing; consumers must treat absent and empty the same way.
type AnalysisResult struct {
	DocumentType constants.DocumentType `json:"documentType"`
	Confidence   float64                `json:"confidence"`
	Fields       map[string]Value       `json:"fields,omitempty"`
	Tables       []Table                `json:"tables,omitempty"`
	Pages        []Page                 `json:"pages,omitempty"`
	RawResult    Value                  `json:"rawResult"`
}

// Table is a detected table as a flat list of cells.
type Table struct {
	RowCount    int    `json:"rowCount,omitempty"`
	ColumnCount int    `json:"columnCount,omitempty"`
	Cells       []Cell `json:"cells"`
}

type Cell struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	Content     string `json:"content"`
	Kind        string `json:"kind,omitempty"`
}

type Page struct {
	PageNumber int    `json:"pageNumber,omitempty"`
	Lines      []Line `json:"lines"`
}

type Line struct {
	Content string `json:"content"`
}

// Field returns fields[name], or null.
func (r *AnalysisResult) Field(name string) Value {
	if r == nil || r.Fields == nil {
		return Value{}
	}
	return r.Fields[name]
}

// FlattenText joins the lines of every page, in order, with newlines.
func (r *AnalysisResult) FlattenText() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Pages {
		for _, l := range p.Lines {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(l.Content)
		}
	}
	return Normalize(b.String())
}

// RawContent returns the provider's full-text content from rawResult.content or
// rawResult.analyzeResult.content.
func (r *AnalysisResult) RawContent() string {
	if r == nil {
		return ""
	}
	if s := r.RawResult.Get("content").Str(); s != "" {
		return Normalize(s)
	}
	return Normalize(r.RawResult.Path("analyzeResult", "content").Str())
}

// Text is the best available full text: page lines when present, the raw content otherwise.
func (r *AnalysisResult) Text() string {
	if s := r.FlattenText(); s != "" {
		return s
	}
	return r.RawContent()
}

// MeetsConfidence reports whether the provider confidence reaches min.
func (r *AnalysisResult) MeetsConfidence(min float64) bool {
	return r != nil && r.Confidence >= min
}

// IsEmpty is true when the result carries nothing any extractor could read.
func (r *AnalysisResult) IsEmpty() bool {
	return r == nil || (len(r.Fields) == 0 && len(r.Tables) == 0 && len(r.Pages) == 0 && r.RawResult.IsNull())
}
