package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/database"
)

var testNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

type countingSource struct {
	snap  database.Snapshot
	calls atomic.Int32
}

func (s *countingSource) Snapshot() database.Snapshot {
	s.calls.Add(1)
	return s.snap.Clone()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSearchAllGroups(t *testing.T) {
	res := SearchAll(database.Initial(testNow, ""), "sharma")
	require.Len(t, res.Organizations, 1)
	require.Len(t, res.Ledgers, 1)
	require.Empty(t, res.Collections)
	require.Empty(t, res.Items)
	require.Equal(t, 2, res.Total())
}

func TestServiceSuppressesShortQueries(t *testing.T) {
	src := &countingSource{snap: database.Initial(testNow, "")}
	svc := NewService(src, nil, quietLogger())

	res, err := svc.Search(context.Background(), "n")
	require.NoError(t, err)
	require.Zero(t, res.Total())
	require.NotNil(t, res.Items)
	require.Zero(t, src.calls.Load())

	res, err = svc.Search(context.Background(), "nike")
	require.NoError(t, err)
	require.NotZero(t, res.Total())
}

func TestServiceCachesUntilBumped(t *testing.T) {
	_, client := newRedis(t)
	src := &countingSource{snap: database.Initial(testNow, "")}
	svc := NewService(src, NewCache(client, time.Minute), quietLogger())
	ctx := context.Background()

	first, err := svc.Search(ctx, "sneakers")
	require.NoError(t, err)
	second, err := svc.Search(ctx, "sneakers")
	require.NoError(t, err)
	require.Equal(t, int32(1), src.calls.Load())
	require.Equal(t, first.Total(), second.Total())

	svc.Invalidate(ctx)
	_, err = svc.Search(ctx, "sneakers")
	require.NoError(t, err)
	require.Equal(t, int32(2), src.calls.Load())
}

func TestServiceFallsBackWhenRedisIsDown(t *testing.T) {
	mr, client := newRedis(t)
	src := &countingSource{snap: database.Initial(testNow, "")}
	svc := NewService(src, NewCache(client, time.Minute), quietLogger())
	mr.Close()

	res, err := svc.Search(context.Background(), "books")
	require.NoError(t, err)
	require.NotEmpty(t, res.Collections)
}

func TestCacheVersioning(t *testing.T) {
	_, client := newRedis(t)
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), ver)

	k1, err := cache.BuildKey(ctx, "acme")
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	k2, err := cache.BuildKey(ctx, "acme")
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)

	var nilCache *Cache
	require.NoError(t, nilCache.Bump(ctx))
	key, err := nilCache.BuildKey(ctx, "acme")
	require.NoError(t, err)
	require.Contains(t, key, "mudir:search:")
}

func TestCacheBumpReachesOtherInstances(t *testing.T) {
	_, client := newRedis(t)
	first := NewCache(client, time.Minute)
	second := NewCache(client, time.Minute)
	ctx := context.Background()

	before, err := second.BuildKey(ctx, "acme")
	require.NoError(t, err)
	require.NoError(t, first.Bump(ctx))
	after, err := second.BuildKey(ctx, "acme")
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	ver, err := second.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), ver)
}

func TestHandlerSearch(t *testing.T) {
	src := &countingSource{snap: database.Initial(testNow, "")}
	h := NewHandler(quietLogger(), NewService(src, nil, quietLogger()))
	r := chi.NewRouter()
	r.Route("/search", h.MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=air", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res Results
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "air", res.Query)
	require.NotEmpty(t, res.Items)
	require.Equal(t, "seed-sneakers-1", res.Items[0].Item.ID)
}
