package textpattern

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/numeric"
)

// Building blocks. Only horizontal whitespace is allowed inside a template so a
// match never spans two lines.
const (
	amountToken = `\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`
	countUnit   = `(?:[ \t]*(?:個|枚|本|箱|セット|式|台|部|冊|件|点|pcs|pc|sets?|box(?:es)?))?`
	// gap between two numbers: whitespace, a price marker, or both
	gap = `(?:[ \t]+[@¥$]?|[ \t]*[@¥$])[ \t]*`
)

// template is one line-item layout. generic templates are the layout-agnostic
// ones; their matches must carry a price to count. multiColumn templates read
// quantity, unit price and amount columns and own every line they match.
type template struct {
	name        string
	re          *regexp.Regexp
	generic     bool
	multiColumn bool
	build       func(m []string) entity.LineItem
}

var templates = []template{
	{
		name: "desc-qty-price-amount",
		re: regexp.MustCompile(`(?m)^[ \t]*(.+?)[ \t]+(?:[x×*][ \t]*)?(\d+(?:\.\d+)?)` + countUnit + gap +
			`(` + amountToken + `)[ \t]*円?` + gap + `(` + amountToken + `)[ \t]*円?[ \t]*$`),
		generic:     true,
		multiColumn: true,
		build: func(m []string) entity.LineItem {
			it := entity.NewLineItem(m[1])
			if q, err := strconv.ParseFloat(m[2], 64); err == nil && q > 0 {
				it.Quantity = q
			}
			it.UnitPrice = numeric.ParseAmount(m[3])
			it.Amount = numeric.ParseAmount(m[4])
			return it
		},
	},
	{
		name:    "desc-amount",
		re:      regexp.MustCompile(`(?m)^[ \t]*(.+?)[ \t]+[¥$]?[ \t]*(` + amountToken + `)[ \t]*円?[ \t]*$`),
		generic: true,
		build: func(m []string) entity.LineItem {
			it := entity.NewLineItem(m[1])
			it.Amount = numeric.ParseAmount(m[2])
			it.UnitPrice = it.Amount
			return it
		},
	},
	{
		name: "pipe-table",
		re: regexp.MustCompile(`(?m)^[ \t]*\|?[ \t]*([^|\n]+?)[ \t]*\|[ \t]*(\d+(?:\.\d+)?)` + countUnit +
			`[ \t]*\|[ \t]*[¥$]?[ \t]*(` + amountToken + `)[ \t]*円?[ \t]*\|[ \t]*[¥$]?[ \t]*(` + amountToken + `)[ \t]*円?[ \t]*\|?[ \t]*$`),
		generic:     true,
		multiColumn: true,
		build: func(m []string) entity.LineItem {
			it := entity.NewLineItem(m[1])
			if q, err := strconv.ParseFloat(m[2], 64); err == nil && q > 0 {
				it.Quantity = q
			}
			it.UnitPrice = numeric.ParseAmount(m[3])
			it.Amount = numeric.ParseAmount(m[4])
			return it
		},
	},
	{
		// 【印刷】チラシ A4 両面 50,000円
		name: "bracketed",
		re:   regexp.MustCompile(`(?m)(【[^】\n]+】[ \t]*[^\n]*?)(?:[ \t]+[¥]?(` + amountToken + `)[ \t]*円)?[ \t]*$`),
		build: func(m []string) entity.LineItem {
			it := entity.NewLineItem(m[1])
			it.Amount = numeric.ParseAmount(m[2])
			it.UnitPrice = it.Amount
			return it
		},
	},
	{
		// 品名：名刺 100枚 / 用紙：コート紙 A4 3,000円
		name: "labeled",
		re:   regexp.MustCompile(`(?m)(?:(?:商品名|品名)[ \t]*[：:][ \t]*|(用紙[ \t]*[：:][ \t]*))([^\n]*?)(?:[ \t]+[¥]?(` + amountToken + `)[ \t]*円)?[ \t]*$`),
		build: func(m []string) entity.LineItem {
			desc := m[2]
			if m[1] != "" {
				desc = "用紙：" + desc
			}
			it := entity.NewLineItem(desc)
			it.Amount = numeric.ParseAmount(m[3])
			it.UnitPrice = it.Amount
			return it
		},
	},
}

// TemplateNames lists the templates in evaluation order.
func TemplateNames() []string {
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.name
	}
	return names
}

func cleanDescription(s string) string {
	return strings.Trim(strings.TrimSpace(s), "|:：・-")
}
