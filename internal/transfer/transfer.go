// Package transfer moves the whole document in and out as a JSON backup
// file.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// ContentType of exported files.
const ContentType = "application/json"

// FileName names an export taken at now.
func FileName(now time.Time) string {
	return "mudir_backup_" + now.UTC().Format("2006-01-02") + ".json"
}

// Export writes snap as indented JSON with exportDate set to now.
func Export(w io.Writer, snap database.Snapshot, now time.Time) error {
	snap.Meta.ExportDate = shared.Timestamp(now)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("transfer: export: %w", err)
	}
	return nil
}

// sections is used to check that every top-level section is present.
type sections struct {
	Meta        json.RawMessage `json:"meta"`
	Collections json.RawMessage `json:"collections"`
	Ledger      json.RawMessage `json:"ledger"`
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Import parses a backup. It fails with shared.ErrImportFormat unless meta,
// collections and ledger are all present. The app version is not checked.
func Import(r io.Reader) (database.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return database.Snapshot{}, fmt.Errorf("transfer: read: %w", err)
	}
	var s sections
	if err := json.Unmarshal(data, &s); err != nil {
		return database.Snapshot{}, fmt.Errorf("%w: %v", shared.ErrImportFormat, err)
	}
	var missing []string
	if !present(s.Meta) {
		missing = append(missing, "meta")
	}
	if !present(s.Collections) {
		missing = append(missing, "collections")
	}
	if !present(s.Ledger) {
		missing = append(missing, "ledger")
	}
	if len(missing) > 0 {
		return database.Snapshot{}, fmt.Errorf("%w: missing %v", shared.ErrImportFormat, missing)
	}
	snap, err := database.Decode(data)
	if err != nil {
		return database.Snapshot{}, fmt.Errorf("%w: %v", shared.ErrImportFormat, err)
	}
	return snap, nil
}
