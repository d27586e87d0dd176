package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Basharkhan7776/mudir/internal/settings"
	"github.com/Basharkhan7776/mudir/internal/transfer"
)

func newExportCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the document as a JSON backup",
		Long:  `Write the whole document as an indented JSON backup. Without --out the backup goes to stdout; --out with a trailing slash writes mudir_backup_YYYY-MM-DD.json into that directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			store, done, err := e.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, done()) }()

			svc := transfer.NewService(store, e.clock, e.logger)
			if out == "" || out == "-" {
				_, err = svc.Export(ctx, cmd.OutOrStdout())
				return err
			}
			path := out
			if os.IsPathSeparator(out[len(out)-1]) {
				path = out + transfer.FileName(e.clock.Now())
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if _, err := svc.Export(ctx, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination file, or directory ending in /")
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import [backup-file]",
		Short: "Replace the document with a JSON backup",
		Long:  `Replace the whole document with a JSON backup. Use - to read stdin. The document is left untouched when the backup is rejected.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			store, done, err := e.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, done()) }()

			snap, err := transfer.NewService(store, e.clock, e.logger).Import(ctx, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d collections, %d organizations\n", len(snap.Collections), len(snap.Ledger))
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace collections and ledger with sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			store, done, err := e.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, done()) }()

			if err := settings.NewService(store, e.clock, e.cfg.DefaultCurrency).LoadSeed(ctx); err != nil {
				return err
			}
			snap := store.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d collections, %d organizations\n", len(snap.Collections), len(snap.Ledger))
			return nil
		},
	}
}

func newClearCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all collections, organizations and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			ctx := cmd.Context()
			store, done, err := e.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, done()) }()

			if _, err := settings.NewService(store, e.clock, e.cfg.DefaultCurrency).ClearData(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}
