package backup

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/snappy"
	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestService(t *testing.T) (*Service, *database.Store, *LocalStorage) {
	t.Helper()
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	start := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	store := database.NewStore(database.Initial(start, ""), nil, nil)
	clock := &steppingClock{now: start}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, storage, clock.Now, logger), store, storage
}

func TestKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 10, 1, 2, 345e6, time.FixedZone("IST", 19800))
	require.Equal(t, "backups/mudir_20240305T043102.345Z.json.sz", Key(at))
}

func TestCreateAndRestore(t *testing.T) {
	svc, store, storage := newTestService(t)
	ctx := context.Background()
	original := store.Snapshot()

	key, err := svc.Create(ctx)
	require.NoError(t, err)

	compressed, err := storage.Get(ctx, key)
	require.NoError(t, err)
	raw, err := snappy.Decode(nil, compressed)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"Sneakers"`)

	require.NoError(t, store.Replace(ctx, database.Empty(time.Now(), "")))
	restored, err := svc.Restore(ctx, key)
	require.NoError(t, err)
	require.Equal(t, original.Collections, restored.Collections)
	require.Equal(t, original.Ledger, store.Snapshot().Ledger)
}

func TestRestoreErrors(t *testing.T) {
	svc, _, storage := newTestService(t)
	ctx := context.Background()

	_, err := svc.Restore(ctx, "elsewhere/file.json")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Restore(ctx, Key(time.Now()))
	require.ErrorIs(t, err, ErrObjectNotFound)

	bad := Key(time.Unix(0, 0))
	require.NoError(t, storage.Put(ctx, bad, []byte("not snappy")))
	_, err = svc.Restore(ctx, bad)
	require.ErrorIs(t, err, shared.ErrImportFormat)

	incomplete := Key(time.Unix(60, 0))
	require.NoError(t, storage.Put(ctx, incomplete, snappy.Encode(nil, []byte(`{"meta":{}}`))))
	_, err = svc.Restore(ctx, incomplete)
	require.ErrorIs(t, err, shared.ErrImportFormat)
}

func TestPruneKeepsNewest(t *testing.T) {
	svc, _, storage := newTestService(t)
	ctx := context.Background()
	var keys []string
	for i := 0; i < 5; i++ {
		key, err := svc.Create(ctx)
		require.NoError(t, err)
		keys = append(keys, key)
	}
	require.NoError(t, storage.Put(ctx, "backups/notes.txt", []byte("x")))

	removed, err := svc.Prune(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	left, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, keys[3:], left)

	removed, err = svc.Prune(ctx, 0)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestLocalStorage(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "a/b/c.bin", []byte("1")))
	require.NoError(t, storage.Put(ctx, "a/a.bin", []byte("2")))
	keys, err := storage.List(ctx, "a/")
	require.NoError(t, err)
	require.Equal(t, []string{"a/a.bin", "a/b/c.bin"}, keys)

	require.NoError(t, storage.Delete(ctx, "a/a.bin"))
	require.NoError(t, storage.Delete(ctx, "a/a.bin"))
	_, err = storage.Get(ctx, "a/a.bin")
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestHandler(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := chi.NewRouter()
	r.Route("/backups", NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/backups", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"keys":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/backups", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/backups/restore", strings.NewReader(`{"key":"backups/mudir_19700101T000000.000Z.json.sz"}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestS3StorageRoundTrip(t *testing.T) {
	bucket := os.Getenv("MUDIR_TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("MUDIR_TEST_S3_BUCKET not set")
	}
	ctx := context.Background()
	storage, err := NewS3Storage(ctx, bucket, S3Config{
		Region:       os.Getenv("MUDIR_TEST_S3_REGION"),
		Endpoint:     os.Getenv("MUDIR_TEST_S3_ENDPOINT"),
		UsePathStyle: os.Getenv("MUDIR_TEST_S3_ENDPOINT") != "",
	})
	require.NoError(t, err)

	key := "test/" + t.Name() + ".bin"
	require.NoError(t, storage.Put(ctx, key, []byte("payload")))
	t.Cleanup(func() { _ = storage.Delete(context.Background(), key) })

	data, err := storage.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	keys, err := storage.List(ctx, "test/")
	require.NoError(t, err)
	require.Contains(t, keys, key)

	_, err = storage.Get(ctx, "test/missing.bin")
	require.ErrorIs(t, err, ErrObjectNotFound)
}
