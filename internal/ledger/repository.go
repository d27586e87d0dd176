package ledger

import "context"

// Document is the ledger section of the persisted document.
type Document interface {
	Ledger() []Entry
	UpdateLedger(ctx context.Context, fn func([]Entry) ([]Entry, error)) error
}

// Repository exposes ledger entries stored in the document.
type Repository struct {
	doc Document
}

// NewRepository constructs Repository.
func NewRepository(doc Document) *Repository {
	return &Repository{doc: doc}
}

// TxRepository exposes the mutations available inside WithTx.
type TxRepository interface {
	GetEntry(ctx context.Context, orgID string) (Entry, error)
	InsertEntry(ctx context.Context, e Entry) error
	UpdateEntry(ctx context.Context, e Entry) error
	DeleteEntry(ctx context.Context, orgID string) (bool, error)
}

type txRepo struct {
	entries []Entry
}

// WithTx runs fn against a working copy of the ledger.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return r.doc.UpdateLedger(ctx, func(entries []Entry) ([]Entry, error) {
		tx := &txRepo{entries: entries}
		if err := fn(ctx, tx); err != nil {
			return nil, err
		}
		return tx.entries, nil
	})
}

// ListEntries returns every entry in insertion order.
func (r *Repository) ListEntries(ctx context.Context) ([]Entry, error) {
	return r.doc.Ledger(), nil
}

// GetEntry returns the entry for one organization.
func (r *Repository) GetEntry(ctx context.Context, orgID string) (Entry, error) {
	for _, e := range r.doc.Ledger() {
		if e.Organization.ID == orgID {
			return e, nil
		}
	}
	return Entry{}, ErrOrganizationNotFound
}

func (tx *txRepo) index(orgID string) int {
	for i, e := range tx.entries {
		if e.Organization.ID == orgID {
			return i
		}
	}
	return -1
}

func (tx *txRepo) GetEntry(ctx context.Context, orgID string) (Entry, error) {
	i := tx.index(orgID)
	if i < 0 {
		return Entry{}, ErrOrganizationNotFound
	}
	return tx.entries[i].Clone(), nil
}

func (tx *txRepo) InsertEntry(ctx context.Context, e Entry) error {
	tx.entries = append(tx.entries, e.Clone())
	return nil
}

func (tx *txRepo) UpdateEntry(ctx context.Context, e Entry) error {
	i := tx.index(e.Organization.ID)
	if i < 0 {
		return ErrOrganizationNotFound
	}
	tx.entries[i] = e.Clone()
	return nil
}

func (tx *txRepo) DeleteEntry(ctx context.Context, orgID string) (bool, error) {
	i := tx.index(orgID)
	if i < 0 {
		return false, nil
	}
	tx.entries = append(tx.entries[:i], tx.entries[i+1:]...)
	return true, nil
}
