// Package numeric turns the loosely formatted money and count strings found on
// invoices into numbers. Every parser is total: unparseable input yields 0.
package numeric

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

var (
	currencySymbols  = regexp.MustCompile(`[¥$€£,\s\p{Zs}]`)
	currencySuffix   = regexp.MustCompile(`(?i)(円|yen|jpy|usd|eur|dollars?|ドル)$`)
	countSeparators  = regexp.MustCompile(`[,\s\p{Zs}]`)
	countUnitSuffix  = regexp.MustCompile(`(?i)(個|枚|本|箱|セット|式|台|部|冊|件|点|pcs?|pieces?|sheets?|items?|sets?|box(?:es)?|units?)$`)
	numericToken     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	numericDecorated = regexp.MustCompile(`[¥$€£,\s\p{Zs}円]`)
	plainNumber      = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Fold maps full-width digits, latin letters, punctuation and the ideographic space
// to their ASCII forms. The full-width yen sign becomes ¥.
func Fold(s string) string {
	return width.Fold.String(s)
}

// ParseAmount reads a money value such as "¥12,345円", "$1,200.50" or "１，０００円".
// It returns the first numeric token after stripping currency decoration, or 0.
func ParseAmount(text string) float64 {
	if text == "" {
		return 0
	}
	cleaned := currencySymbols.ReplaceAllString(Fold(text), "")
	cleaned = currencySuffix.ReplaceAllString(cleaned, "")
	return firstNumber(cleaned)
}

// ParseNumber reads a count such as "10個", "3 pcs" or "1,000枚". It returns the first
// numeric token after stripping separators and a trailing count unit, or 0.
func ParseNumber(text string) float64 {
	if text == "" {
		return 0
	}
	cleaned := countSeparators.ReplaceAllString(Fold(text), "")
	cleaned = countUnitSuffix.ReplaceAllString(cleaned, "")
	return firstNumber(cleaned)
}

// IsNumericContent reports whether text is a bare number once currency symbols,
// separators and the yen suffix are removed. "¥1,000" and "50" qualify, "ペン" does not.
func IsNumericContent(text string) bool {
	cleaned := numericDecorated.ReplaceAllString(Fold(strings.TrimSpace(text)), "")
	return plainNumber.MatchString(cleaned)
}

// FormatAmount renders v in the shortest form that ParseAmount reads back to v.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstNumber(s string) float64 {
	tok := numericToken.FindString(s)
	if tok == "" {
		return 0
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0
	}
	return v
}
