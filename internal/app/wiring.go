package app

import (
	"log/slog"
	"net/http"

	"github.com/Basharkhan7776/mudir/internal/backup"
	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
	"github.com/Basharkhan7776/mudir/internal/observability"
	"github.com/Basharkhan7776/mudir/internal/search"
	"github.com/Basharkhan7776/mudir/internal/settings"
	"github.com/Basharkhan7776/mudir/internal/shared"
	"github.com/Basharkhan7776/mudir/internal/transfer"
	"github.com/Basharkhan7776/mudir/jobs"
)

// Deps carries the infrastructure the API is assembled from. SearchCache,
// BackupStorage and Jobs are optional.
type Deps struct {
	Logger        *slog.Logger
	Config        *Config
	Metrics       *observability.Metrics
	Store         *database.Store
	SearchCache   *search.Cache
	BackupStorage backup.ObjectStorage
	Jobs          *jobs.Handler
	Clock         shared.Clock
}

// NewAPI wires the domain services onto the store and returns the router.
// Every committed change bumps the search cache version.
func NewAPI(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defaultCurrency := database.DefaultCurrency
	if d.Config != nil && d.Config.DefaultCurrency != "" {
		defaultCurrency = d.Config.DefaultCurrency
	}
	loc := d.Config.Location()

	inventorySvc := inventory.NewService(inventory.NewRepository(d.Store), d.Clock)
	ledgerSvc := ledger.NewService(ledger.NewRepository(d.Store), d.Clock)
	searchSvc := search.NewService(d.Store, d.SearchCache, logger)
	d.Store.OnCommit(searchSvc.Invalidate)

	params := RouterParams{
		Logger:           logger,
		Config:           d.Config,
		Metrics:          d.Metrics,
		InventoryHandler: inventory.NewHandler(logger, inventorySvc, d.Store, loc),
		LedgerHandler:    ledger.NewHandler(logger, ledgerSvc, d.Store, loc),
		SearchHandler:    search.NewHandler(logger, searchSvc),
		SettingsHandler:  settings.NewHandler(logger, settings.NewService(d.Store, d.Clock, defaultCurrency)),
		TransferHandler:  transfer.NewHandler(logger, transfer.NewService(d.Store, d.Clock, logger)),
		JobHandler:       d.Jobs,
	}
	if d.BackupStorage != nil {
		params.BackupHandler = backup.NewHandler(logger, backup.NewService(d.Store, d.BackupStorage, d.Clock, logger))
	}
	return NewRouter(params)
}
