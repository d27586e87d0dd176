// Package fields holds the typed field values stored against user-defined
// collection schemas, plus the helpers that coerce, format and key them.
package fields

import (
	"errors"
	"fmt"
	"strings"
)

// Type enumerates the field types a schema may declare.
type Type string

const (
	// TypeText is free-form text.
	TypeText Type = "text"
	// TypeNumber is a numeric value.
	TypeNumber Type = "number"
	// TypeCurrency is an amount rendered with the user's currency symbol.
	TypeCurrency Type = "currency"
	// TypeDate is an ISO date or timestamp.
	TypeDate Type = "date"
	// TypeBoolean is a yes/no flag.
	TypeBoolean Type = "boolean"
	// TypeSelect is one of the field's declared options.
	TypeSelect Type = "select"
	// TypeImage is a reference to an image.
	TypeImage Type = "image"
)

// ErrUnknownType is returned when a type name is not supported.
var ErrUnknownType = errors.New("fields: unknown field type")

// Types lists every supported field type in display order.
func Types() []Type {
	return []Type{TypeText, TypeNumber, TypeCurrency, TypeDate, TypeBoolean, TypeSelect, TypeImage}
}

// Valid reports whether t is a supported field type.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeCurrency, TypeDate, TypeBoolean, TypeSelect, TypeImage:
		return true
	}
	return false
}

// ParseType converts a raw type name, case-insensitively.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}
