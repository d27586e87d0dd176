package settings

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

var testNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *database.Store) {
	store := database.NewStore(database.Initial(testNow, ""), nil, nil)
	return NewService(store, func() time.Time { return testNow }, "$"), store
}

func TestSetCurrency(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.SetCurrency(ctx, "  ")
	require.ErrorIs(t, err, shared.ErrValidation)

	meta, err := svc.SetCurrency(ctx, " € ")
	require.NoError(t, err)
	require.Equal(t, "€", meta.UserCurrency)
	require.Equal(t, "€", store.Currency(ctx))
}

func TestOnboarding(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.ClearData(ctx)
	require.NoError(t, err)

	meta, err := svc.Get(ctx)
	require.NoError(t, err)
	require.True(t, meta.IsNewUser)

	meta, err = svc.CompleteOnboarding(ctx, OnboardingInput{OrganizationName: " Corner Shop "})
	require.NoError(t, err)
	require.False(t, meta.IsNewUser)
	require.Equal(t, "Corner Shop", meta.OrganizationName)
	require.Equal(t, "$", meta.UserCurrency)
}

func TestClearDataAndSeed(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	_, err := svc.SetOrganizationName(ctx, "Corner Shop")
	require.NoError(t, err)

	meta, err := svc.ClearData(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Meta{
		AppVersion:   database.AppVersion,
		ExportDate:   "2024-03-05T10:00:00.000Z",
		UserCurrency: "$",
		IsNewUser:    true,
	}, meta)
	snap := store.Snapshot()
	require.Empty(t, snap.Collections)
	require.Empty(t, snap.Ledger)

	_, err = svc.SetOrganizationName(ctx, "Kept")
	require.NoError(t, err)
	require.NoError(t, svc.LoadSeed(ctx))
	snap = store.Snapshot()
	require.Len(t, snap.Collections, 2)
	require.Len(t, snap.Ledger, 2)
	require.Equal(t, "Kept", snap.Meta.OrganizationName)
}

func TestSupportedCurrenciesIsACopy(t *testing.T) {
	list := SupportedCurrencies()
	require.Equal(t, "₹", list[0].Symbol)
	list[0].Symbol = "x"
	require.Equal(t, "₹", SupportedCurrencies()[0].Symbol)
}

func TestHandlerPatch(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/settings", h.MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{"userCurrency":"£","organizationName":"Shop"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"userCurrency":"£"`)
	require.Contains(t, rec.Body.String(), `"organizationName":"Shop"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{"userCurrency":""}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/settings/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"isNewUser":true`)
}
