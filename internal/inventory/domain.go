package inventory

import (
	"fmt"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// SchemaField declares one attribute of a collection. The field at index 0
// is the item's title; index 1 is its subtitle in list views.
type SchemaField struct {
	Key          string        `json:"key"`
	Label        string        `json:"label"`
	Type         fields.Type   `json:"type"`
	Options      []string      `json:"options,omitempty"`
	Required     bool          `json:"required"`
	DefaultValue *fields.Value `json:"defaultValue,omitempty"`
}

// Clone returns a deep copy of the field.
func (f SchemaField) Clone() SchemaField {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	if f.DefaultValue != nil {
		dv := *f.DefaultValue
		out.DefaultValue = &dv
	}
	return out
}

// Item is one record stored in a collection.
type Item struct {
	ID        string        `json:"id"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
	Values    fields.Values `json:"values"`
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := i
	out.Values = i.Values.Clone()
	return out
}

// Collection is a user-defined schema plus the items stored against it.
type Collection struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Schema      []SchemaField `json:"schema"`
	Data        []Item        `json:"data"`
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := c
	out.Schema = CloneSchema(c.Schema)
	out.Data = make([]Item, len(c.Data))
	for i, item := range c.Data {
		out.Data[i] = item.Clone()
	}
	return out
}

// FieldType returns the declared type for key, if the schema has it.
func (c Collection) FieldType(key string) (fields.Type, bool) {
	for _, f := range c.Schema {
		if f.Key == key {
			return f.Type, true
		}
	}
	return "", false
}

// CoerceValues retags each value against the schema type of its key. Keys
// unknown to the schema are kept as they are.
func (c Collection) CoerceValues(values fields.Values) fields.Values {
	out := make(fields.Values, len(values))
	for key, v := range values {
		if t, ok := c.FieldType(key); ok {
			v = fields.Coerce(v, t)
		}
		out[key] = v
	}
	return out
}

// RetagValues is the lossless counterpart of CoerceValues used on stored
// items: string payloads take the kind of their field, nothing else moves.
func (c Collection) RetagValues(values fields.Values) fields.Values {
	out := make(fields.Values, len(values))
	for key, v := range values {
		if t, ok := c.FieldType(key); ok {
			v = fields.Retag(v, t)
		}
		out[key] = v
	}
	return out
}

// CloneCollections deep-copies a collection list.
func CloneCollections(cs []Collection) []Collection {
	out := make([]Collection, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// CollectionInput carries the editable attributes of a collection.
type CollectionInput struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Schema      []SchemaField `json:"schema" validate:"dive"`
}

// DisplayField is one formatted value of an item.
type DisplayField struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Type  fields.Type `json:"type"`
	Value string      `json:"value"`
}

var (
	// ErrCollectionNotFound indicates an unknown collection id.
	ErrCollectionNotFound = fmt.Errorf("inventory: collection %w", shared.ErrNotFound)
	// ErrItemNotFound indicates an unknown item id.
	ErrItemNotFound = fmt.Errorf("inventory: item %w", shared.ErrNotFound)
)
