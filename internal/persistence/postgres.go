package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Basharkhan7776/mudir/internal/platform/db"
)

// DefaultDocumentID names the row holding the application document.
const DefaultDocumentID = "default"

const schemaSQL = `CREATE TABLE IF NOT EXISTS mudir_documents (
	id text PRIMARY KEY,
	body jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

const upsertSQL = `INSERT INTO mudir_documents (id, body, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`

// PostgresBackend keeps the document as one jsonb row.
type PostgresBackend struct {
	pool *pgxpool.Pool
	id   string
}

// NewPostgresBackend returns a backend storing the row id in mudir_documents.
func NewPostgresBackend(pool *pgxpool.Pool, id string) *PostgresBackend {
	if id == "" {
		id = DefaultDocumentID
	}
	return &PostgresBackend{pool: pool, id: id}
}

// EnsureSchema creates the documents table when missing.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("persistence: ensure schema: %w", err)
	}
	return nil
}

// Load reads the stored body.
func (b *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := b.pool.QueryRow(ctx, `SELECT body::text FROM mudir_documents WHERE id = $1`, b.id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: select document: %w", err)
	}
	return []byte(body), nil
}

// Save upserts the body in a repeatable-read transaction.
func (b *PostgresBackend) Save(ctx context.Context, payload []byte) error {
	return db.WithTx(ctx, b.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertSQL, b.id, string(payload)); err != nil {
			return fmt.Errorf("persistence: upsert document: %w", err)
		}
		return nil
	})
}
