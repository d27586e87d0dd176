package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
	"github.com/Basharkhan7776/mudir/internal/persistence"
)

var testNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTemp(t *testing.T) (*Store, *persistence.FileBackend) {
	t.Helper()
	backend := persistence.NewFileBackend(filepath.Join(t.TempDir(), "mudir.json"))
	store, err := Open(context.Background(), backend, OpenOptions{Logger: quietLogger(), Now: testNow})
	require.NoError(t, err)
	return store, backend
}

func TestOpenWritesInitialDocument(t *testing.T) {
	store, backend := openTemp(t)

	data, err := backend.Load(context.Background())
	require.NoError(t, err)
	stored, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, Initial(testNow, ""), stored)
	require.Equal(t, stored, store.Snapshot())
	require.False(t, store.Meta().IsNewUser)
	require.Equal(t, DefaultCurrency, store.Currency(context.Background()))
}

func TestOpenFallsBackWithoutOverwritingCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mudir.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := Open(context.Background(), persistence.NewFileBackend(path), OpenOptions{Logger: quietLogger(), Now: testNow})
	require.NoError(t, err)
	require.Equal(t, Initial(testNow, ""), store.Snapshot())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{not json", string(data))
}

func TestOpenLoadsStoredDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mudir.json")
	doc := `{"meta":{"appVersion":"0.9.0","exportDate":"","userCurrency":"$","organizationName":"Shop","isNewUser":false},
	"collections":[{"id":"c1","name":"Parts","schema":[{"key":"qty","label":"Qty","type":"number","required":false}],
	"data":[{"id":"i1","createdAt":"2024-01-01T00:00:00.000Z","values":{"qty":"12"}}]}],"ledger":null}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store, err := Open(context.Background(), persistence.NewFileBackend(path), OpenOptions{Logger: quietLogger(), Now: testNow})
	require.NoError(t, err)

	snap := store.Snapshot()
	require.Equal(t, "$", snap.Meta.UserCurrency)
	require.NotNil(t, snap.Ledger)
	require.Empty(t, snap.Ledger)
	qty, ok := snap.Collections[0].Data[0].Values["qty"].Str()
	require.True(t, ok)
	require.Equal(t, "12", qty)
}

func TestSchemaTypeChangeKeepsStoredValues(t *testing.T) {
	ctx := context.Background()
	snap := Empty(testNow, "$")
	snap.Collections = []inventory.Collection{{
		ID: "parts", Name: "Parts",
		Schema: []inventory.SchemaField{
			{Key: "code", Label: "Code", Type: fields.TypeText},
			{Key: "flag", Label: "Flag", Type: fields.TypeText},
		},
		Data: []inventory.Item{{ID: "i1", CreatedAt: "2024-01-01T00:00:00.000Z", Values: fields.Values{
			"code": fields.Text("0042-B"),
			"flag": fields.Text("TRUE"),
		}}},
	}}
	store := NewStore(snap, nil, quietLogger())
	svc := inventory.NewService(inventory.NewRepository(store), func() time.Time { return testNow })

	_, err := svc.UpdateSchema(ctx, "parts", []inventory.SchemaField{
		{Key: "code", Label: "Code", Type: fields.TypeNumber},
		{Key: "flag", Label: "Flag", Type: fields.TypeBoolean},
	})
	require.NoError(t, err)

	values := store.Collections()[0].Data[0].Values
	require.Equal(t, fields.Text("0042-B"), values["code"])
	require.Equal(t, fields.Text("TRUE"), values["flag"])

	_, err = svc.EditSchema(ctx, "parts", func(schema []inventory.SchemaField) ([]inventory.SchemaField, error) {
		schema[0].Label = "Part code"
		return schema, nil
	})
	require.NoError(t, err)
	values = store.Collections()[0].Data[0].Values
	require.Equal(t, fields.Text("0042-B"), values["code"])
	require.Equal(t, fields.Text("TRUE"), values["flag"])

	data, err := Encode(store.Snapshot())
	require.NoError(t, err)
	require.Contains(t, string(data), `"code":"0042-B"`)
	require.Contains(t, string(data), `"flag":"TRUE"`)
}

func TestStoreCommitsAndPersists(t *testing.T) {
	store, backend := openTemp(t)
	ctx := context.Background()

	commits := 0
	store.OnCommit(func(context.Context) { commits++ })

	err := store.UpdateMeta(ctx, func(m Meta) (Meta, error) {
		m.OrganizationName = "Corner Shop"
		return m, nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Flush(ctx))
	require.Equal(t, 1, commits)

	data, err := backend.Load(ctx)
	require.NoError(t, err)
	stored, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, "Corner Shop", stored.Meta.OrganizationName)
}

func TestStoreFailedUpdateLeavesDocumentUntouched(t *testing.T) {
	store, _ := openTemp(t)
	ctx := context.Background()
	before := store.Snapshot()

	commits := 0
	store.OnCommit(func(context.Context) { commits++ })

	boom := errors.New("boom")
	err := store.UpdateCollections(ctx, func(cols []inventory.Collection) ([]inventory.Collection, error) {
		cols[0].Name = "mutated"
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	err = store.UpdateLedger(ctx, func(entries []ledger.Entry) ([]ledger.Entry, error) {
		entries[0].Organization.Name = "mutated"
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	require.Equal(t, before, store.Snapshot())
	require.Zero(t, commits)
}

func TestStoreReadsAreCopies(t *testing.T) {
	store, _ := openTemp(t)
	cols := store.Collections()
	cols[0].Name = "changed"
	entries := store.Ledger()
	entries[0].Transactions[0].Amount = -1

	require.Equal(t, "Sneakers", store.Collections()[0].Name)
	require.Equal(t, 5000.0, store.Ledger()[0].Transactions[0].Amount)
}

func TestStoreReplace(t *testing.T) {
	store, _ := openTemp(t)
	ctx := context.Background()
	empty := Empty(testNow, "€")
	require.NoError(t, store.Replace(ctx, empty))
	require.Equal(t, empty, store.Snapshot())
	require.Equal(t, "€", store.Currency(ctx))
}

func TestInMemoryStore(t *testing.T) {
	store := NewStore(Snapshot{}, nil, nil)
	snap := store.Snapshot()
	require.NotNil(t, snap.Collections)
	require.NotNil(t, snap.Ledger)
	require.NoError(t, store.Flush(context.Background()))
}
