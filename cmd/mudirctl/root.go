package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Basharkhan7776/mudir/internal/app"
	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// env holds what every subcommand shares once flags and configuration are
// resolved.
type env struct {
	cfg    *app.Config
	logger *slog.Logger
	clock  shared.Clock
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithClock(nil)
}

func newRootCmdWithClock(clock shared.Clock) *cobra.Command {
	e := &env{clock: clock}
	var (
		dataFile string
		driver   string
		verbose  bool
	)

	root := &cobra.Command{
		Use:           "mudirctl",
		Short:         "Maintain the Mudir inventory and ledger document",
		Long:          `Offline operations on the Mudir document: export, import, search, seed and clear. Storage follows the same STORAGE_DRIVER and DATA_FILE settings as the server.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.DataFile = dataFile
			}
			if cmd.Flags().Changed("driver") {
				cfg.StorageDriver = driver
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			e.cfg = cfg
			e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if e.clock == nil {
				e.clock = func() time.Time { return time.Now() }
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dataFile, "data", "", "path of the data file (overrides DATA_FILE)")
	root.PersistentFlags().StringVar(&driver, "driver", "", "storage driver, file or postgres (overrides STORAGE_DRIVER)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newExportCmd(e),
		newImportCmd(e),
		newSearchCmd(e),
		newSeedCmd(e),
		newClearCmd(e),
		newJobsCmd(e),
	)
	return root
}

// openStore loads the document and returns a func that flushes pending
// writes and releases the backend.
func (e *env) openStore(ctx context.Context) (*database.Store, func() error, error) {
	backend, release, err := app.OpenBackend(ctx, e.cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := database.Open(ctx, backend, database.OpenOptions{
		Logger:   e.logger,
		Now:      e.clock.Now(),
		Currency: e.cfg.DefaultCurrency,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	done := func() error {
		defer release()
		return store.Flush(ctx)
	}
	return store, done, nil
}
