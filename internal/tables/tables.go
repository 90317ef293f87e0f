// Package tables recognizes invoice line-item tables by their header row and turns
// the rows below it into line items.
package tables

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/numeric"
	"github.com/joseph-ayodele/docextract/internal/textpattern"
)

// Structure is the recognized layout of one table.
type Structure struct {
	Valid     bool
	HeaderRow int
	// Columns maps each matched role to the first column carrying it in the header row.
	Columns map[Role]int
}

type row struct {
	index int
	cells []analysis.Cell
}

// groupRows buckets cells by row index, rows ascending and cells by column.
func groupRows(t analysis.Table) []row {
	byIndex := map[int][]analysis.Cell{}
	for _, c := range t.Cells {
		byIndex[c.RowIndex] = append(byIndex[c.RowIndex], c)
	}
	rows := make([]row, 0, len(byIndex))
	for idx, cells := range byIndex {
		sort.SliceStable(cells, func(i, j int) bool { return cells[i].ColumnIndex < cells[j].ColumnIndex })
		rows = append(rows, row{index: idx, cells: cells})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })
	return rows
}

// cellRole returns the role whose keyword occurs in content, preferring the longest
// keyword so that "unit price" beats "price" and "商品コード" beats "商品".
func cellRole(content string) (Role, bool) {
	text := strings.ToLower(strings.TrimSpace(numeric.Fold(content)))
	if text == "" {
		return 0, false
	}
	best, bestLen := Role(0), 0
	for _, r := range allRoles {
		for _, kw := range roleKeywords[r] {
			if n := utf8.RuneCountInString(kw); n > bestLen && strings.Contains(text, kw) {
				best, bestLen = r, n
			}
		}
	}
	return best, bestLen > 0
}

// rowRoles assigns roles to the cells of a row, keeping the first column per role.
func rowRoles(r row) map[Role]int {
	cols := map[Role]int{}
	for _, c := range r.cells {
		role, ok := cellRole(c.Content)
		if !ok {
			continue
		}
		if _, seen := cols[role]; !seen {
			cols[role] = c.ColumnIndex
		}
	}
	return cols
}

func coreRoleCount(cols map[Role]int) int {
	n := 0
	for _, r := range coreRoles {
		if _, ok := cols[r]; ok {
			n++
		}
	}
	return n
}

// Analyze finds the header row: the first row in which at least two distinct core
// roles are recognized.
func Analyze(t analysis.Table) Structure {
	for _, r := range groupRows(t) {
		cols := rowRoles(r)
		if coreRoleCount(cols) >= 2 {
			return Structure{Valid: true, HeaderRow: r.index, Columns: cols}
		}
	}
	return Structure{}
}

// ExtractItems reads the data rows below the header of t.
func ExtractItems(t analysis.Table) []entity.LineItem {
	st := Analyze(t)
	if !st.Valid {
		return nil
	}

	roleColumns := map[int]bool{}
	for _, col := range st.Columns {
		roleColumns[col] = true
	}

	var items []entity.LineItem
	for _, r := range groupRows(t) {
		if r.index <= st.HeaderRow {
			continue
		}
		// header repeated on a continuation page
		if coreRoleCount(rowRoles(r)) >= 2 && !hasNumericCell(r) {
			continue
		}
		item, ok := readRow(r, st, roleColumns)
		if ok {
			items = append(items, item)
		}
	}
	return items
}

// ExtractAll accumulates the items of every table in order.
func ExtractAll(ts []analysis.Table) []entity.LineItem {
	var items []entity.LineItem
	for _, t := range ts {
		items = append(items, ExtractItems(t)...)
	}
	return items
}

func readRow(r row, st Structure, roleColumns map[int]bool) (entity.LineItem, bool) {
	cell := func(role Role) (string, bool) {
		col, ok := st.Columns[role]
		if !ok {
			return "", false
		}
		for _, c := range r.cells {
			if c.ColumnIndex == col {
				return strings.TrimSpace(c.Content), true
			}
		}
		return "", false
	}

	item := entity.NewLineItem("")
	if desc, ok := cell(RoleDescription); ok {
		item.Description = desc
	} else if _, hasCol := st.Columns[RoleDescription]; !hasCol {
		item.Description = fallbackDescription(r, roleColumns)
	}
	if item.Description == "" || textpattern.IsSummaryLabel(item.Description) {
		return entity.LineItem{}, false
	}

	if q, ok := cell(RoleQuantity); ok {
		if n := numeric.ParseNumber(q); n > 0 {
			item.Quantity = n
		}
	}
	if p, ok := cell(RoleUnitPrice); ok {
		item.UnitPrice = numeric.ParseAmount(p)
	}
	if a, ok := cell(RoleAmount); ok {
		item.Amount = numeric.ParseAmount(a)
	}
	if u, ok := cell(RoleUnit); ok {
		item.Unit = u
	}
	if pc, ok := cell(RoleProductCode); ok {
		item.ProductCode = pc
	}
	item.Complete()
	return item, true
}

// fallbackDescription picks the first non-empty, non-numeric cell that does not sit
// in a recognized role column.
func fallbackDescription(r row, roleColumns map[int]bool) string {
	for _, c := range r.cells {
		content := strings.TrimSpace(c.Content)
		if content == "" || roleColumns[c.ColumnIndex] || numeric.IsNumericContent(content) {
			continue
		}
		return content
	}
	return ""
}

func hasNumericCell(r row) bool {
	for _, c := range r.cells {
		if numeric.IsNumericContent(c.Content) {
			return true
		}
	}
	return false
}
