package fields

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the longest numeric prefix of s, ignoring leading
// whitespace. It reports false when no number can be read.
func ParseNumber(s string) (float64, bool) {
	match := leadingFloat.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Coerce reinterprets incoming v against a field type. Number fields keep
// only the numeric prefix of a string, so Coerce is meant for user input
// and never for values already stored. Values that cannot be
// reinterpreted are returned unchanged. Coerce is idempotent.
func Coerce(v Value, t Type) Value {
	if v.kind == KindNull {
		return v
	}
	switch t {
	case TypeNumber:
		if s, ok := v.Str(); ok {
			if f, ok := ParseNumber(s); ok {
				return Number(f)
			}
			return Text(s)
		}
	case TypeCurrency:
		if f, ok := v.Num(); ok {
			return Currency(formatNumber(f))
		}
		if s, ok := v.Str(); ok {
			return Currency(s)
		}
	case TypeDate:
		if s, ok := v.Str(); ok {
			return Date(s)
		}
	case TypeBoolean:
		if s, ok := v.Str(); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return Boolean(true)
			case "false":
				return Boolean(false)
			}
		}
	case TypeSelect:
		if s, ok := v.Str(); ok {
			return Select(s)
		}
	case TypeImage:
		if s, ok := v.Str(); ok {
			return Image(s)
		}
	case TypeText:
		if s, ok := v.Str(); ok {
			return Text(s)
		}
	}
	return v
}

// Retag moves a string payload to the string kind of t. Numbers, booleans
// and strings under non-string types are returned unchanged, so the
// encoded value is always identical and Retag is safe on stored data.
func Retag(v Value, t Type) Value {
	s, ok := v.Str()
	if !ok {
		return v
	}
	switch t {
	case TypeText:
		return Text(s)
	case TypeCurrency:
		return Currency(s)
	case TypeDate:
		return Date(s)
	case TypeSelect:
		return Select(s)
	case TypeImage:
		return Image(s)
	}
	return v
}

// SanitizeCurrency keeps only digits and dots, matching the amount keypad.
func SanitizeCurrency(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
