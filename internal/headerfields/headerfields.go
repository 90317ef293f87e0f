// Package headerfields pulls auxiliary header values (subject, delivery location,
// payment terms, validity, vendor contact) out of a document.
package headerfields

import (
	"strings"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/numeric"
)

// Extract runs every field's candidate list over text.
func Extract(text string) entity.HeaderFieldSet {
	var set entity.HeaderFieldSet
	Fill(&set, text)
	return set
}

// Fill sets, from text, every field of set that is still empty. Fields already set
// are left alone. It returns the fields it wrote.
func Fill(set *entity.HeaderFieldSet, text string) []entity.HeaderField {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var folded string
	var written []entity.HeaderField
	for _, fp := range patterns {
		if set.Get(fp.field) != "" {
			continue
		}
		src := text
		if fp.folded {
			if folded == "" {
				folded = numeric.Fold(text)
			}
			src = folded
		}
		if v := firstMatch(fp.candidates, src); v != "" && set.SetIfEmpty(fp.field, v) {
			written = append(written, fp.field)
		}
	}
	return written
}

func firstMatch(cands []candidate, text string) string {
	for _, cand := range cands {
		m := cand.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var v string
		if cand.value != nil {
			v = cand.value(m)
		} else if len(m) > 1 {
			v = m[1]
		} else {
			v = m[0]
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// FromFields reads header values the provider already returned as structured fields.
func FromFields(fields map[string]analysis.Value) entity.HeaderFieldSet {
	var set entity.HeaderFieldSet
	if len(fields) == 0 {
		return set
	}
	for _, f := range entity.HeaderFields {
		for _, key := range structuredKeys[f] {
			if set.SetIfEmpty(f, analysis.FieldText(fields[key])) {
				break
			}
		}
	}
	return set
}

// FromResult combines both sources: structured fields first, then one text pass
// that only fills what is still missing.
func FromResult(r *analysis.AnalysisResult) entity.HeaderFieldSet {
	if r == nil {
		return entity.HeaderFieldSet{}
	}
	set := FromFields(r.Fields)
	Fill(&set, r.Text())
	return set
}
