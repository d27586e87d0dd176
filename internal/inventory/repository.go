package inventory

import (
	"context"
)

// Document is the collections section of the persisted document. Reads
// return deep copies; UpdateCollections hands fn a working copy and commits
// the returned slice only when fn succeeds.
type Document interface {
	Collections() []Collection
	UpdateCollections(ctx context.Context, fn func([]Collection) ([]Collection, error)) error
}

// Repository exposes collections stored in the document.
type Repository struct {
	doc Document
}

// NewRepository constructs Repository.
func NewRepository(doc Document) *Repository {
	return &Repository{doc: doc}
}

// TxRepository exposes the mutations available inside WithTx.
type TxRepository interface {
	GetCollection(ctx context.Context, id string) (Collection, error)
	InsertCollection(ctx context.Context, c Collection) error
	UpdateCollection(ctx context.Context, c Collection) error
	DeleteCollection(ctx context.Context, id string) (bool, error)
}

type txRepo struct {
	cols []Collection
}

// WithTx runs fn against a working copy; the copy replaces the stored
// collections only if fn returns nil.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return r.doc.UpdateCollections(ctx, func(cols []Collection) ([]Collection, error) {
		tx := &txRepo{cols: cols}
		if err := fn(ctx, tx); err != nil {
			return nil, err
		}
		return tx.cols, nil
	})
}

// ListCollections returns every collection in insertion order.
func (r *Repository) ListCollections(ctx context.Context) ([]Collection, error) {
	return r.doc.Collections(), nil
}

// GetCollection returns one collection.
func (r *Repository) GetCollection(ctx context.Context, id string) (Collection, error) {
	for _, c := range r.doc.Collections() {
		if c.ID == id {
			return c, nil
		}
	}
	return Collection{}, ErrCollectionNotFound
}

func (tx *txRepo) index(id string) int {
	for i, c := range tx.cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (tx *txRepo) GetCollection(ctx context.Context, id string) (Collection, error) {
	i := tx.index(id)
	if i < 0 {
		return Collection{}, ErrCollectionNotFound
	}
	return tx.cols[i].Clone(), nil
}

func (tx *txRepo) InsertCollection(ctx context.Context, c Collection) error {
	tx.cols = append(tx.cols, c.Clone())
	return nil
}

func (tx *txRepo) UpdateCollection(ctx context.Context, c Collection) error {
	i := tx.index(c.ID)
	if i < 0 {
		return ErrCollectionNotFound
	}
	tx.cols[i] = c.Clone()
	return nil
}

func (tx *txRepo) DeleteCollection(ctx context.Context, id string) (bool, error) {
	i := tx.index(id)
	if i < 0 {
		return false, nil
	}
	tx.cols = append(tx.cols[:i], tx.cols[i+1:]...)
	return true, nil
}
