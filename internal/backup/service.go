package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/shared"
	"github.com/Basharkhan7776/mudir/internal/transfer"
)

const (
	// Prefix groups backup objects.
	Prefix    = "backups/"
	keySuffix = ".json.sz"
	keyLayout = "20060102T150405.000Z"
)

// Key returns the object key of a backup taken at t.
func Key(t time.Time) string {
	return Prefix + "mudir_" + t.UTC().Format(keyLayout) + keySuffix
}

// Store is the document backed up and restored.
type Store interface {
	Snapshot() database.Snapshot
	Replace(ctx context.Context, snap database.Snapshot) error
}

// Service creates, restores and prunes backups.
type Service struct {
	store   Store
	storage ObjectStorage
	clock   shared.Clock
	logger  *slog.Logger
}

// NewService builds Service.
func NewService(store Store, storage ObjectStorage, clock shared.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, storage: storage, clock: clock, logger: logger}
}

// Create exports the current document, compresses it and stores it. It
// returns the new object key.
func (s *Service) Create(ctx context.Context) (string, error) {
	now := s.clock.Now()
	var buf bytes.Buffer
	if err := transfer.Export(&buf, s.store.Snapshot(), now); err != nil {
		return "", err
	}
	key := Key(now)
	compressed := snappy.Encode(nil, buf.Bytes())
	if err := s.storage.Put(ctx, key, compressed); err != nil {
		return "", err
	}
	s.logger.Info("backup created", slog.String("key", key),
		slog.Int("bytes", buf.Len()), slog.Int("compressed", len(compressed)))
	return key, nil
}

// Restore replaces the document with the backup stored at key.
func (s *Service) Restore(ctx context.Context, key string) (database.Snapshot, error) {
	if !strings.HasPrefix(key, Prefix) || !strings.HasSuffix(key, keySuffix) {
		return database.Snapshot{}, shared.NewValidationError("not a backup key", "key")
	}
	compressed, err := s.storage.Get(ctx, key)
	if err != nil {
		return database.Snapshot{}, err
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return database.Snapshot{}, fmt.Errorf("%w: decompress: %v", shared.ErrImportFormat, err)
	}
	snap, err := transfer.Import(bytes.NewReader(raw))
	if err != nil {
		return database.Snapshot{}, err
	}
	if err := s.store.Replace(ctx, snap); err != nil {
		return database.Snapshot{}, err
	}
	s.logger.Info("backup restored", slog.String("key", key))
	return snap, nil
}

// List returns backup keys, oldest first.
func (s *Service) List(ctx context.Context) ([]string, error) {
	keys, err := s.storage.List(ctx, Prefix)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, keySuffix) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Prune deletes all but the newest keep backups and reports how many were
// removed. keep <= 0 disables pruning.
func (s *Service) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	keys, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) <= keep {
		return 0, nil
	}
	removed := 0
	for _, key := range keys[:len(keys)-keep] {
		if err := s.storage.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
