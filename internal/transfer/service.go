package transfer

import (
	"context"
	"io"
	"log/slog"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// Store is the document exported and replaced.
type Store interface {
	Snapshot() database.Snapshot
	Replace(ctx context.Context, snap database.Snapshot) error
}

// Service exports and imports the live document.
type Service struct {
	store  Store
	clock  shared.Clock
	logger *slog.Logger
}

// NewService builds Service.
func NewService(store Store, clock shared.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, clock: clock, logger: logger}
}

// Export writes the current document to w and returns the suggested file
// name.
func (s *Service) Export(ctx context.Context, w io.Writer) (string, error) {
	now := s.clock.Now()
	if err := Export(w, s.store.Snapshot(), now); err != nil {
		return "", err
	}
	return FileName(now), nil
}

// Import replaces the whole document with the backup read from r. Nothing
// changes when the backup is rejected.
func (s *Service) Import(ctx context.Context, r io.Reader) (database.Snapshot, error) {
	snap, err := Import(r)
	if err != nil {
		return database.Snapshot{}, err
	}
	if err := s.store.Replace(ctx, snap); err != nil {
		return database.Snapshot{}, err
	}
	s.logger.Info("document imported",
		slog.Int("collections", len(snap.Collections)),
		slog.Int("organizations", len(snap.Ledger)),
	)
	return snap, nil
}
