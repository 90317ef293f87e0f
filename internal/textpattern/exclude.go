package textpattern

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/docextract/internal/numeric"
)

// Description length bounds in runes: [minDescription, maxDescription).
const (
	minDescription = 2
	maxDescription = 100
)

var (
	summaryJA       = regexp.MustCompile(`^(?:小計|合計|総計|総額|消費税|税込|税抜|内税|外税|振込手数料|送料|値引き?|割引|御?請求金額|お?見積金額|御?見積合計)`)
	summaryEN       = regexp.MustCompile(`(?i)^(?:sub[ \t-]?total|total|tax|vat|discount|shipping|freight|grand[ \t]+total|amount[ \t]+due|balance)\b`)
	numericOnly     = regexp.MustCompile(`^[\d\s\-.,/:]+$`)
	shortIdentifier = regexp.MustCompile(`^[A-Z]{1,3}$`)
)

// Rejection says why a description was excluded.
type Rejection string

const (
	RejectNone       Rejection = ""
	RejectSummary    Rejection = "summary"
	RejectNumeric    Rejection = "numeric"
	RejectIdentifier Rejection = "identifier"
	RejectLength     Rejection = "length"
)

// IsSummaryLabel reports whether desc names a totals, tax, discount or shipping line
// rather than a product.
func IsSummaryLabel(desc string) bool {
	d := strings.TrimSpace(numeric.Fold(desc))
	return summaryJA.MatchString(d) || summaryEN.MatchString(d)
}

// Exclude applies the exclusion list to a candidate description.
func Exclude(desc string) Rejection {
	d := strings.TrimSpace(desc)
	if n := utf8.RuneCountInString(d); n < minDescription || n >= maxDescription {
		return RejectLength
	}
	if IsSummaryLabel(d) {
		return RejectSummary
	}
	folded := numeric.Fold(d)
	if numericOnly.MatchString(folded) {
		return RejectNumeric
	}
	if shortIdentifier.MatchString(folded) {
		return RejectIdentifier
	}
	return RejectNone
}
