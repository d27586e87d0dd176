package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Basharkhan7776/mudir/internal/backup"
	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
	"github.com/Basharkhan7776/mudir/internal/observability"
	"github.com/Basharkhan7776/mudir/internal/search"
	"github.com/Basharkhan7776/mudir/internal/settings"
	"github.com/Basharkhan7776/mudir/internal/transfer"
	"github.com/Basharkhan7776/mudir/jobs"
)

// RouterParams groups dependencies for building the HTTP router. Nil
// handlers are not mounted.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	InventoryHandler *inventory.Handler
	LedgerHandler    *ledger.Handler
	SearchHandler    *search.Handler
	SettingsHandler  *settings.Handler
	TransferHandler  *transfer.Handler
	BackupHandler    *backup.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with Mudir defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.InventoryHandler != nil {
		r.Route("/collections", params.InventoryHandler.MountRoutes)
	}
	if params.LedgerHandler != nil {
		r.Route("/ledger", params.LedgerHandler.MountRoutes)
	}
	if params.SearchHandler != nil {
		r.Route("/search", params.SearchHandler.MountRoutes)
	}
	if params.SettingsHandler != nil {
		r.Route("/settings", params.SettingsHandler.MountRoutes)
	}
	if params.TransferHandler != nil {
		r.Route("/transfer", params.TransferHandler.MountRoutes)
	}
	if params.BackupHandler != nil {
		r.Route("/backups", params.BackupHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
