package database

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
	"github.com/Basharkhan7776/mudir/internal/persistence"
)

// CommitHook runs after every successful commit.
type CommitHook func(ctx context.Context)

// Store owns the in-memory document. Every mutation runs against a deep
// copy and replaces the document only when it succeeds; the encoded result
// is then handed to the writer.
type Store struct {
	mu     sync.RWMutex
	snap   Snapshot
	writer *persistence.Writer
	logger *slog.Logger

	hookMu sync.RWMutex
	hooks  []CommitHook
}

// NewStore wraps snap. A nil writer keeps the store in memory only.
func NewStore(snap Snapshot, writer *persistence.Writer, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{snap: Normalize(snap.Clone()), writer: writer, logger: logger}
}

// OpenOptions configures Open.
type OpenOptions struct {
	Logger   *slog.Logger
	Recorder persistence.Recorder
	Now      time.Time
	Currency string
}

// Open loads the document from backend. When nothing is stored yet the
// initial document is written and used. When the stored document cannot be
// read or parsed, the initial document is used without overwriting it.
func Open(ctx context.Context, backend persistence.Backend, opts OpenOptions) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	writer := persistence.NewWriter(backend, persistence.WriterOptions{Logger: logger, Recorder: opts.Recorder})

	data, err := backend.Load(ctx)
	switch {
	case errors.Is(err, persistence.ErrNoDocument):
		snap := Initial(now, opts.Currency)
		payload, err := Encode(snap)
		if err != nil {
			return nil, err
		}
		if err := writer.SaveNow(ctx, payload); err != nil {
			logger.Error("write initial document", slog.Any("error", err))
		}
		logger.Info("initial document created")
		return NewStore(snap, writer, logger), nil
	case err != nil:
		logger.Error("load document, using initial data", slog.Any("error", err))
		return NewStore(Initial(now, opts.Currency), writer, logger), nil
	}

	snap, err := Decode(data)
	if err != nil {
		logger.Error("parse document, using initial data", slog.Any("error", err))
		return NewStore(Initial(now, opts.Currency), writer, logger), nil
	}
	return NewStore(snap, writer, logger), nil
}

// OnCommit registers a hook run after each commit.
func (s *Store) OnCommit(hook CommitHook) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Snapshot returns a deep copy of the document.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Meta returns the settings.
func (s *Store) Meta() Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Meta
}

// Currency returns the configured currency symbol.
func (s *Store) Currency(ctx context.Context) string {
	return s.Meta().UserCurrency
}

// Collections returns a deep copy of the collections.
func (s *Store) Collections() []inventory.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return inventory.CloneCollections(s.snap.Collections)
}

// Ledger returns a deep copy of the ledger.
func (s *Store) Ledger() []ledger.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.CloneEntries(s.snap.Ledger)
}

// Update applies fn to a copy of the document and commits the result.
func (s *Store) Update(ctx context.Context, fn func(Snapshot) (Snapshot, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	next, err := fn(s.snap.Clone())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next = Normalize(next)
	payload, err := Encode(next)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = next
	if s.writer != nil {
		if status := s.writer.Submit(payload); status == persistence.StatusCoalesced {
			s.logger.Debug("document write coalesced")
		}
	}
	s.mu.Unlock()

	s.runHooks(ctx)
	return nil
}

func (s *Store) runHooks(ctx context.Context) {
	s.hookMu.RLock()
	hooks := append([]CommitHook(nil), s.hooks...)
	s.hookMu.RUnlock()
	for _, hook := range hooks {
		hook(ctx)
	}
}

// UpdateCollections commits a new collection list.
func (s *Store) UpdateCollections(ctx context.Context, fn func([]inventory.Collection) ([]inventory.Collection, error)) error {
	return s.Update(ctx, func(snap Snapshot) (Snapshot, error) {
		cols, err := fn(snap.Collections)
		if err != nil {
			return snap, err
		}
		snap.Collections = cols
		return snap, nil
	})
}

// UpdateLedger commits a new ledger.
func (s *Store) UpdateLedger(ctx context.Context, fn func([]ledger.Entry) ([]ledger.Entry, error)) error {
	return s.Update(ctx, func(snap Snapshot) (Snapshot, error) {
		entries, err := fn(snap.Ledger)
		if err != nil {
			return snap, err
		}
		snap.Ledger = entries
		return snap, nil
	})
}

// UpdateMeta commits new settings.
func (s *Store) UpdateMeta(ctx context.Context, fn func(Meta) (Meta, error)) error {
	return s.Update(ctx, func(snap Snapshot) (Snapshot, error) {
		meta, err := fn(snap.Meta)
		if err != nil {
			return snap, err
		}
		snap.Meta = meta
		return snap, nil
	})
}

// Replace swaps the whole document.
func (s *Store) Replace(ctx context.Context, snap Snapshot) error {
	replacement := snap.Clone()
	return s.Update(ctx, func(Snapshot) (Snapshot, error) {
		return replacement, nil
	})
}

// Flush waits for pending writes and returns the last write error.
func (s *Store) Flush(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Flush(ctx)
}
