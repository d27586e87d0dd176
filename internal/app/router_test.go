package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/observability"
	_ "github.com/Basharkhan7776/mudir/internal/testing/guard"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	t.Cleanup(RefreshTestMode)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := database.NewStore(database.Initial(now, "$"), nil, nil)
	return NewAPI(Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &Config{
			DateLocation:       "UTC",
			CORSAllowedOrigins: []string{"https://app.example"},
		},
		Metrics: observability.NewMetrics(),
		Store:   store,
		Clock:   func() time.Time { return now },
	})
}

func TestRouterServesAPI(t *testing.T) {
	api := newTestAPI(t)
	call := func(method, path, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
		return rec
	}

	rec := call(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	rec = call(http.MethodGet, "/collections", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "seed-sneakers")

	rec = call(http.MethodPost, "/ledger", `{"name":"Zephyr Imports"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(http.MethodGet, "/search?q=zephyr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Zephyr Imports")

	rec = call(http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"userCurrency":"$"`)

	rec = call(http.MethodGet, "/backups", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "mudir_http_requests_total")
}

func TestRouterCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/collections", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	require.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/collections", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	t.Cleanup(RefreshTestMode)

	handler := NewRouter(RouterParams{Config: &Config{RateLimitPerMinute: 2}})
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
