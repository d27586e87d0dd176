package fields

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which payload a Value carries.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindCurrency
	KindDate
	KindBoolean
	KindSelect
	KindImage
)

var kindNames = [...]string{
	KindNull:     "null",
	KindText:     "text",
	KindNumber:   "number",
	KindCurrency: "currency",
	KindDate:     "date",
	KindBoolean:  "boolean",
	KindSelect:   "select",
	KindImage:    "image",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ErrNonFinite is returned when encoding a NaN or infinite number.
var ErrNonFinite = errors.New("fields: number is not finite")

// Value is a single field value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text wraps free-form text.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Number wraps a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Currency wraps a currency amount kept in its textual form.
func Currency(s string) Value { return Value{kind: KindCurrency, str: s} }

// Date wraps an ISO date or timestamp string.
func Date(s string) Value { return Value{kind: KindDate, str: s} }

// Boolean wraps a flag.
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Select wraps a chosen option.
func Select(s string) Value { return Value{kind: KindSelect, str: s} }

// Image wraps an image reference.
func Image(s string) Value { return Value{kind: KindImage, str: s} }

// Kind reports the payload kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsEmpty reports whether v is null or an empty string payload.
func (v Value) IsEmpty() bool {
	if v.kind == KindNull {
		return true
	}
	if v.isString() {
		return v.str == ""
	}
	return false
}

func (v Value) isString() bool {
	switch v.kind {
	case KindText, KindCurrency, KindDate, KindSelect, KindImage:
		return true
	}
	return false
}

// Str returns the string payload for string-backed kinds.
func (v Value) Str() (string, bool) {
	if v.isString() {
		return v.str, true
	}
	return "", false
}

// Num returns the numeric payload.
func (v Value) Num() (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return 0, false
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	if v.kind == KindBoolean {
		return v.b, true
	}
	return false, false
}

// Truthy follows loose truthiness: null, false, 0, NaN and "" are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.b
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	default:
		return v.str != ""
	}
}

// String renders the value as plain text. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.num)
	default:
		return v.str
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	default:
		return v.str == other.str
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		return expForm(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// expForm rewrites Go's "1e-07" exponent as "1e-7".
func expForm(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 {
		return s
	}
	mant, exp := s[:i], s[i+1:]
	sign := exp[0]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + string(sign) + digits
}

// MarshalJSON encodes the value as an untagged JSON primitive.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBoolean:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, ErrNonFinite
		}
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON decodes an untagged JSON primitive into Text, Number,
// Boolean or Null. Use Coerce to retag it against a field type.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("fields: empty value")
	}
	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Boolean(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '[', '{':
		return fmt.Errorf("fields: unsupported value %s", truncate(data))
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Number(f)
		return nil
	}
}

func truncate(data []byte) string {
	if len(data) > 32 {
		return string(data[:32]) + "..."
	}
	return string(data)
}

// Values maps schema field keys to values.
type Values map[string]Value

// Clone returns a shallow copy; Value itself is immutable.
func (vs Values) Clone() Values {
	if vs == nil {
		return Values{}
	}
	out := make(Values, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}
