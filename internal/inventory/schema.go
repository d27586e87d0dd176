package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// NewFieldLabel is the label given to freshly added fields.
const NewFieldLabel = "New Attribute"

// DefaultSchema is the schema used when a collection is created without one.
func DefaultSchema() []SchemaField {
	return []SchemaField{{Key: "name", Label: "Item Name", Type: fields.TypeText, Required: true}}
}

// CloneSchema deep-copies a schema.
func CloneSchema(schema []SchemaField) []SchemaField {
	if schema == nil {
		return nil
	}
	out := make([]SchemaField, len(schema))
	for i, f := range schema {
		out[i] = f.Clone()
	}
	return out
}

func hasKey(schema []SchemaField, key string, skip int) bool {
	for i, f := range schema {
		if i != skip && f.Key == key {
			return true
		}
	}
	return false
}

func checkIndex(schema []SchemaField, index int) error {
	if index < 0 || index >= len(schema) {
		return shared.NewValidationError(fmt.Sprintf("field index %d out of range", index))
	}
	return nil
}

// AddField appends an optional text field keyed by the current time.
func AddField(schema []SchemaField, now time.Time) []SchemaField {
	base := "field_" + strconv.FormatInt(now.UnixMilli(), 10)
	key := base
	for n := 2; hasKey(schema, key, -1); n++ {
		key = base + "_" + strconv.Itoa(n)
	}
	out := CloneSchema(schema)
	return append(out, SchemaField{Key: key, Label: NewFieldLabel, Type: fields.TypeText})
}

// RemoveField drops the field at index. The title field and out-of-range
// indexes are left alone. Item values are never touched.
func RemoveField(schema []SchemaField, index int) []SchemaField {
	out := CloneSchema(schema)
	if index <= 0 || index >= len(out) {
		return out
	}
	return append(out[:index], out[index+1:]...)
}

// RenameField sets the label and regenerates the key from it.
func RenameField(schema []SchemaField, index int, label string) ([]SchemaField, error) {
	if err := checkIndex(schema, index); err != nil {
		return nil, err
	}
	key := fields.KeyFromLabel(label)
	if strings.Trim(key, "_") == "" {
		return nil, shared.NewValidationError("field label must not be blank", schema[index].Key)
	}
	if hasKey(schema, key, index) {
		return nil, shared.NewValidationError("field key already exists", key)
	}
	out := CloneSchema(schema)
	out[index].Label = label
	out[index].Key = key
	return out, nil
}

// SetFieldType changes the declared type. Options are dropped when the
// field stops being a select; a default is re-coerced.
func SetFieldType(schema []SchemaField, index int, t fields.Type) ([]SchemaField, error) {
	if err := checkIndex(schema, index); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, shared.NewValidationError("unknown field type", string(t))
	}
	out := CloneSchema(schema)
	f := &out[index]
	f.Type = t
	if t != fields.TypeSelect {
		f.Options = nil
	}
	if f.DefaultValue != nil {
		dv := fields.Coerce(*f.DefaultValue, t)
		f.DefaultValue = &dv
	}
	return out, nil
}

// SetRequired toggles the required flag.
func SetRequired(schema []SchemaField, index int, required bool) ([]SchemaField, error) {
	if err := checkIndex(schema, index); err != nil {
		return nil, err
	}
	out := CloneSchema(schema)
	out[index].Required = required
	return out, nil
}

// SetDefault sets the default value, coerced to the field type. A null
// value clears the default.
func SetDefault(schema []SchemaField, index int, v fields.Value) ([]SchemaField, error) {
	if err := checkIndex(schema, index); err != nil {
		return nil, err
	}
	out := CloneSchema(schema)
	if v.IsNull() {
		out[index].DefaultValue = nil
		return out, nil
	}
	dv := fields.Coerce(v, out[index].Type)
	out[index].DefaultValue = &dv
	return out, nil
}

// AddOption appends a trimmed option to a select field. Blank options are
// ignored.
func AddOption(schema []SchemaField, index int, option string) ([]SchemaField, error) {
	if err := checkIndex(schema, index); err != nil {
		return nil, err
	}
	if schema[index].Type != fields.TypeSelect {
		return nil, shared.NewValidationError("options are only allowed on select fields", schema[index].Key)
	}
	option = strings.TrimSpace(option)
	out := CloneSchema(schema)
	if option == "" {
		return out, nil
	}
	for _, existing := range out[index].Options {
		if existing == option {
			return nil, shared.NewValidationError("option already exists", option)
		}
	}
	out[index].Options = append(out[index].Options, option)
	return out, nil
}

// RemoveOption removes every occurrence of option.
func RemoveOption(schema []SchemaField, index int, option string) ([]SchemaField, error) {
	if err := checkIndex(schema, index); err != nil {
		return nil, err
	}
	out := CloneSchema(schema)
	kept := out[index].Options[:0]
	for _, existing := range out[index].Options {
		if existing != option {
			kept = append(kept, existing)
		}
	}
	out[index].Options = kept
	return out, nil
}

// ValidateSchema checks that the schema has at least one field, that keys
// are non-empty and unique, that types are known and select options are
// unique.
func ValidateSchema(schema []SchemaField) error {
	if len(schema) == 0 {
		return shared.NewValidationError("schema must have at least one field")
	}
	seen := make(map[string]struct{}, len(schema))
	for i, f := range schema {
		if f.Key == "" {
			return shared.NewValidationError(fmt.Sprintf("field %d has an empty key", i))
		}
		if _, dup := seen[f.Key]; dup {
			return shared.NewValidationError("duplicate field key", f.Key)
		}
		seen[f.Key] = struct{}{}
		if !f.Type.Valid() {
			return shared.NewValidationError("unknown field type", f.Key)
		}
		opts := make(map[string]struct{}, len(f.Options))
		for _, o := range f.Options {
			if _, dup := opts[o]; dup {
				return shared.NewValidationError("duplicate option", f.Key)
			}
			opts[o] = struct{}{}
		}
	}
	return nil
}

// normalizeSchema coerces defaults to their field types.
func normalizeSchema(schema []SchemaField) []SchemaField {
	out := CloneSchema(schema)
	for i := range out {
		if out[i].DefaultValue != nil {
			dv := fields.Coerce(*out[i].DefaultValue, out[i].Type)
			out[i].DefaultValue = &dv
		}
	}
	return out
}
