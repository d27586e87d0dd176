package ledger

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListEntries(ctx context.Context) ([]Entry, error)
	GetEntry(ctx context.Context, orgID string) (Entry, error)
}

// Service coordinates organization and transaction operations.
type Service struct {
	repo     RepositoryPort
	clock    shared.Clock
	validate *validator.Validate
}

// NewService builds Service. A nil clock uses time.Now.
func NewService(repo RepositoryPort, clock shared.Clock) *Service {
	return &Service{repo: repo, clock: clock, validate: validator.New()}
}

// ListEntries returns the whole ledger.
func (s *Service) ListEntries(ctx context.Context) ([]Entry, error) {
	return s.repo.ListEntries(ctx)
}

// GetEntry returns one organization with its transactions.
func (s *Service) GetEntry(ctx context.Context, orgID string) (Entry, error) {
	return s.repo.GetEntry(ctx, orgID)
}

func (s *Service) checkContact(phone, email string) error {
	if email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			return shared.NewValidationError("invalid email", "email")
		}
	}
	if len(phone) > 32 {
		return shared.NewValidationError("phone is too long", "phone")
	}
	return nil
}

// AddOrganization creates an organization with no transactions.
func (s *Service) AddOrganization(ctx context.Context, input OrganizationInput) (Organization, error) {
	org := Organization{
		ID:    shared.NewID(),
		Name:  strings.TrimSpace(input.Name),
		Phone: strings.TrimSpace(input.Phone),
		Email: strings.TrimSpace(input.Email),
	}
	if org.Name == "" {
		return Organization{}, shared.NewValidationError("organization name is required", "name")
	}
	if err := s.checkContact(org.Phone, org.Email); err != nil {
		return Organization{}, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertEntry(ctx, Entry{Organization: org, Transactions: []Transaction{}})
	})
	if err != nil {
		return Organization{}, err
	}
	return org, nil
}

// UpdateOrganization merges the provided attributes into the organization.
func (s *Service) UpdateOrganization(ctx context.Context, orgID string, patch OrganizationPatch) (Organization, error) {
	var updated Organization
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entry, err := tx.GetEntry(ctx, orgID)
		if err != nil {
			return err
		}
		org := entry.Organization
		if patch.Name != nil {
			org.Name = strings.TrimSpace(*patch.Name)
			if org.Name == "" {
				return shared.NewValidationError("organization name is required", "name")
			}
		}
		if patch.Phone != nil {
			org.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.Email != nil {
			org.Email = strings.TrimSpace(*patch.Email)
		}
		if err := s.checkContact(org.Phone, org.Email); err != nil {
			return err
		}
		entry.Organization = org
		updated = org
		return tx.UpdateEntry(ctx, entry)
	})
	if err != nil {
		return Organization{}, err
	}
	return updated, nil
}

// DeleteOrganization removes an organization and its transactions. Unknown
// ids are a no-op.
func (s *Service) DeleteOrganization(ctx context.Context, orgID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		_, err := tx.DeleteEntry(ctx, orgID)
		return err
	})
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return shared.NewValidationError("amount must be a non-negative number", "amount")
	}
	return nil
}

func checkDate(date string) error {
	if _, ok := fields.ParseDate(date); !ok {
		return shared.NewValidationError("date must be an ISO-8601 date", "date")
	}
	return nil
}

// AddTransaction appends a transaction to an organization.
func (s *Service) AddTransaction(ctx context.Context, orgID string, input TransactionInput) (Transaction, error) {
	if !input.Type.Valid() {
		return Transaction{}, shared.NewValidationError("type must be CREDIT or DEBIT", "type")
	}
	if err := checkAmount(input.Amount); err != nil {
		return Transaction{}, err
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = shared.Timestamp(s.clock.Now())
	} else if err := checkDate(date); err != nil {
		return Transaction{}, err
	}
	txn := Transaction{
		ID:             shared.NewID(),
		OrganizationID: orgID,
		Type:           input.Type,
		Amount:         input.Amount,
		Date:           date,
		Remark:         strings.TrimSpace(input.Remark),
		Attachment:     input.Attachment,
		Tags:           input.Tags,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entry, err := tx.GetEntry(ctx, orgID)
		if err != nil {
			return err
		}
		entry.Transactions = append(entry.Transactions, txn)
		return tx.UpdateEntry(ctx, entry)
	})
	if err != nil {
		return Transaction{}, err
	}
	return txn.Clone(), nil
}

// UpdateTransaction assigns the provided attributes onto a transaction.
func (s *Service) UpdateTransaction(ctx context.Context, orgID, txnID string, patch TransactionPatch) (Transaction, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return Transaction{}, shared.NewValidationError("type must be CREDIT or DEBIT", "type")
	}
	if patch.Amount != nil {
		if err := checkAmount(*patch.Amount); err != nil {
			return Transaction{}, err
		}
	}
	if patch.Date != nil {
		if err := checkDate(*patch.Date); err != nil {
			return Transaction{}, err
		}
	}
	var updated Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entry, err := tx.GetEntry(ctx, orgID)
		if err != nil {
			return err
		}
		for i := range entry.Transactions {
			t := &entry.Transactions[i]
			if t.ID != txnID {
				continue
			}
			if patch.Type != nil {
				t.Type = *patch.Type
			}
			if patch.Amount != nil {
				t.Amount = *patch.Amount
			}
			if patch.Date != nil {
				t.Date = *patch.Date
			}
			if patch.Remark != nil {
				t.Remark = strings.TrimSpace(*patch.Remark)
			}
			if patch.Attachment != nil {
				a := *patch.Attachment
				t.Attachment = &a
			}
			if patch.Tags != nil {
				t.Tags = append([]string(nil), patch.Tags...)
			}
			updated = t.Clone()
			return tx.UpdateEntry(ctx, entry)
		}
		return ErrTransactionNotFound
	})
	if err != nil {
		return Transaction{}, err
	}
	return updated, nil
}

// DeleteTransaction removes one transaction. Unknown ids are a no-op.
func (s *Service) DeleteTransaction(ctx context.Context, orgID, txnID string) error {
	_, err := s.DeleteTransactions(ctx, orgID, []string{txnID})
	return err
}

// DeleteTransactions removes each listed transaction that exists and
// returns how many were removed.
func (s *Service) DeleteTransactions(ctx context.Context, orgID string, txnIDs []string) (int, error) {
	removed := 0
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entry, err := tx.GetEntry(ctx, orgID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		drop := make(map[string]struct{}, len(txnIDs))
		for _, id := range txnIDs {
			drop[id] = struct{}{}
		}
		kept := entry.Transactions[:0]
		for _, t := range entry.Transactions {
			if _, ok := drop[t.ID]; ok {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		if removed == 0 {
			return nil
		}
		entry.Transactions = kept
		return tx.UpdateEntry(ctx, entry)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
