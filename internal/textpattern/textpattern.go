// Package textpattern finds line items in free text with a family of line-oriented
// regular-expression templates.
package textpattern

import (
	"sort"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/numeric"
)

// Stats describes what one extraction pass saw.
type Stats struct {
	Matched    int
	Rejected   map[Rejection]int
	Duplicates int
	// NoPrice counts generic matches dropped for carrying neither unit price nor amount.
	NoPrice int
}

// TotalRejected sums rejections over all reasons.
func (s Stats) TotalRejected() int {
	n := 0
	for _, v := range s.Rejected {
		n += v
	}
	return n
}

// Extract returns the line items found in text.
func Extract(text string) []entity.LineItem {
	items, _ := ExtractWithStats(text)
	return items
}

// ExtractWithStats runs every template over text and accumulates their matches.
// Within one template every match counts, repeated descriptions included. A later
// template's match is skipped when its description came from an earlier template
// or when its line was already consumed. Multi-column templates consume every line
// they match, whether or not the candidate survives the exclusion list.
func ExtractWithStats(text string) ([]entity.LineItem, Stats) {
	stats := Stats{Rejected: map[Rejection]int{}}
	if strings.TrimSpace(text) == "" {
		return nil, stats
	}
	text = numeric.Fold(text)
	lineStarts := indexLines(text)

	var items []entity.LineItem
	priorDesc := map[string]bool{}
	usedLines := map[int]bool{}

	for _, tpl := range templates {
		consumed := map[int]bool{}
		var produced []string
		for _, loc := range tpl.re.FindAllStringSubmatchIndex(text, -1) {
			stats.Matched++
			line := lineOf(lineStarts, loc[0])
			if usedLines[line] {
				stats.Duplicates++
				continue
			}
			if tpl.multiColumn {
				consumed[line] = true
			}

			item := tpl.build(submatches(text, loc))
			item.Description = cleanDescription(item.Description)
			if reason := Exclude(item.Description); reason != RejectNone {
				stats.Rejected[reason]++
				continue
			}
			if priorDesc[item.Description] {
				stats.Duplicates++
				continue
			}

			item.Complete()
			if tpl.generic && item.Amount <= 0 && item.UnitPrice <= 0 {
				stats.NoPrice++
				continue
			}
			items = append(items, item)
			produced = append(produced, item.Description)
			consumed[line] = true
		}
		for l := range consumed {
			usedLines[l] = true
		}
		for _, d := range produced {
			priorDesc[d] = true
		}
	}
	return items, stats
}

func submatches(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if s, e := loc[2*i], loc[2*i+1]; s >= 0 && e >= 0 {
			m[i] = text[s:e]
		}
	}
	return m
}

func indexLines(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the zero-based line holding byte offset pos.
func lineOf(starts []int, pos int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
}
