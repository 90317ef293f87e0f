package analysis

import (
	"strconv"
	"strings"
)

// FieldText reads the display text of a provider field. Plain strings are returned
// as-is; field objects yield their content, or a scalar value rendered as text.
func FieldText(v Value) string {
	switch v.Kind() {
	case KindString:
		return strings.TrimSpace(v.Str())
	case KindNumber:
		return v.Text()
	case KindObject:
		if s := strings.TrimSpace(v.Get("content").Str()); s != "" {
			return s
		}
		for _, k := range []string{"value", "valueString"} {
			if s := strings.TrimSpace(v.Get(k).Text()); s != "" {
				return s
			}
		}
	}
	return ""
}

// FieldNumber reads a numeric provider field, preferring the typed value over the
// display content. parse normalizes any text it has to fall back on. ok is false
// when the field carries neither.
func FieldNumber(v Value, parse func(string) float64) (n float64, ok bool) {
	switch v.Kind() {
	case KindNumber:
		n, _ = v.Num()
		return n, true
	case KindString:
		return parse(v.Str()), true
	case KindObject:
		for _, k := range []string{"value", "valueNumber", "valueCurrency"} {
			if val := v.Get(k); !val.IsNull() {
				if n, ok := typedNumber(val, parse); ok {
					return n, true
				}
			}
		}
		if c := v.Get("content"); c.Kind() == KindString {
			return parse(c.Str()), true
		}
		if a, ok := v.Get("amount").Num(); ok {
			return a, true
		}
	}
	return 0, false
}

// typedNumber handles a field's typed value: a number, a numeric string, or a
// currency object {"amount": n, "currencyCode": "..."}.
func typedNumber(v Value, parse func(string) float64) (float64, bool) {
	switch v.Kind() {
	case KindNumber:
		n, _ := v.Num()
		return n, true
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64); err == nil {
			return f, true
		}
		return parse(v.Str()), true
	case KindObject:
		if a, ok := v.Get("amount").Num(); ok {
			return a, true
		}
	}
	return 0, false
}
