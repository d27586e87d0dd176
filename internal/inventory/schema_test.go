package inventory

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

func TestAddField(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	schema := AddField(DefaultSchema(), now)
	require.Len(t, schema, 2)
	require.Equal(t, SchemaField{Key: "field_1700000000000", Label: "New Attribute", Type: fields.TypeText}, schema[1])

	schema = AddField(schema, now)
	require.Equal(t, "field_1700000000000_2", schema[2].Key)
	require.NoError(t, ValidateSchema(schema))
}

func TestRemoveField(t *testing.T) {
	schema := AddField(AddField(DefaultSchema(), time.UnixMilli(1)), time.UnixMilli(2))
	require.Equal(t, schema, RemoveField(schema, 0))
	require.Equal(t, schema, RemoveField(schema, 3))
	require.Equal(t, schema, RemoveField(schema, -1))

	out := RemoveField(schema, 1)
	require.Len(t, out, 2)
	require.Equal(t, "field_2", out[1].Key)
	require.Len(t, schema, 3)
}

func TestRemoveTitleFieldIsNoOp(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("removing index 0 never changes the schema", prop.ForAll(
		func(labels []string) bool {
			schema := make([]SchemaField, 0, len(labels)+1)
			schema = append(schema, DefaultSchema()...)
			for i, label := range labels {
				schema = append(schema, SchemaField{Key: fmt.Sprintf("f%d", i), Label: label, Type: fields.TypeText})
			}
			return reflect.DeepEqual(schema, RemoveField(schema, 0))
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestRenameField(t *testing.T) {
	schema := AddField(DefaultSchema(), time.UnixMilli(1))
	out, err := RenameField(schema, 1, "Purchase  Date")
	require.NoError(t, err)
	require.Equal(t, "purchase_date", out[1].Key)
	require.Equal(t, "Purchase  Date", out[1].Label)

	_, err = RenameField(out, 1, "Name")
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = RenameField(out, 1, "   ")
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = RenameField(out, 7, "X")
	require.ErrorIs(t, err, shared.ErrValidation)

	title, err := RenameField(out, 0, "Model")
	require.NoError(t, err)
	require.Equal(t, "model", title[0].Key)
}

func TestSelectOptions(t *testing.T) {
	schema := AddField(DefaultSchema(), time.UnixMilli(1))
	_, err := AddOption(schema, 1, "Red")
	require.ErrorIs(t, err, shared.ErrValidation)

	schema, err = SetFieldType(schema, 1, fields.TypeSelect)
	require.NoError(t, err)
	schema, err = AddOption(schema, 1, "  Red ")
	require.NoError(t, err)
	schema, err = AddOption(schema, 1, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Red"}, schema[1].Options)

	_, err = AddOption(schema, 1, "Red")
	require.ErrorIs(t, err, shared.ErrValidation)

	schema, err = AddOption(schema, 1, "Blue")
	require.NoError(t, err)
	schema, err = RemoveOption(schema, 1, "Red")
	require.NoError(t, err)
	require.Equal(t, []string{"Blue"}, schema[1].Options)

	schema, err = SetFieldType(schema, 1, fields.TypeText)
	require.NoError(t, err)
	require.Nil(t, schema[1].Options)

	_, err = SetFieldType(schema, 1, fields.Type("money"))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSetDefaultAndRequired(t *testing.T) {
	schema := AddField(DefaultSchema(), time.UnixMilli(1))
	schema, err := SetFieldType(schema, 1, fields.TypeNumber)
	require.NoError(t, err)
	schema, err = SetDefault(schema, 1, fields.Text("5"))
	require.NoError(t, err)
	require.Equal(t, fields.Number(5), *schema[1].DefaultValue)

	schema, err = SetFieldType(schema, 1, fields.TypeCurrency)
	require.NoError(t, err)
	require.Equal(t, fields.Currency("5"), *schema[1].DefaultValue)

	schema, err = SetDefault(schema, 1, fields.Null())
	require.NoError(t, err)
	require.Nil(t, schema[1].DefaultValue)

	schema, err = SetRequired(schema, 1, true)
	require.NoError(t, err)
	require.True(t, schema[1].Required)
}

func TestValidateSchema(t *testing.T) {
	require.ErrorIs(t, ValidateSchema(nil), shared.ErrValidation)
	require.ErrorIs(t, ValidateSchema([]SchemaField{{Key: "", Type: fields.TypeText}}), shared.ErrValidation)
	require.ErrorIs(t, ValidateSchema([]SchemaField{{Key: "a", Type: "blob"}}), shared.ErrValidation)
	require.ErrorIs(t, ValidateSchema([]SchemaField{{Key: "a", Type: fields.TypeSelect, Options: []string{"x", "x"}}}), shared.ErrValidation)
	require.NoError(t, ValidateSchema(DefaultSchema()))
}
