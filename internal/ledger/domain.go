// Package ledger tracks CREDIT and DEBIT transactions against named
// organizations and derives balances and day-grouped statements from them.
package ledger

import (
	"fmt"

	"github.com/Basharkhan7776/mudir/internal/shared"
)

// TransactionType enumerates money movements.
type TransactionType string

const (
	// TransactionCredit is money received from the organization.
	TransactionCredit TransactionType = "CREDIT"
	// TransactionDebit is money given to the organization.
	TransactionDebit TransactionType = "DEBIT"
)

// Valid reports whether t is CREDIT or DEBIT.
func (t TransactionType) Valid() bool {
	return t == TransactionCredit || t == TransactionDebit
}

// Organization is a counterparty.
type Organization struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Transaction is one money movement with an organization.
type Transaction struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organizationId"`
	Type           TransactionType `json:"type"`
	Amount         float64         `json:"amount"`
	Date           string          `json:"date"`
	Remark         string          `json:"remark,omitempty"`
	Attachment     *string         `json:"attachment,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
}

// Clone returns a deep copy.
func (t Transaction) Clone() Transaction {
	out := t
	if t.Attachment != nil {
		a := *t.Attachment
		out.Attachment = &a
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// Entry groups an organization with its transactions in insertion order.
type Entry struct {
	Organization Organization  `json:"organization"`
	Transactions []Transaction `json:"transactions"`
}

// Clone returns a deep copy.
func (e Entry) Clone() Entry {
	out := Entry{Organization: e.Organization, Transactions: make([]Transaction, len(e.Transactions))}
	for i, t := range e.Transactions {
		out.Transactions[i] = t.Clone()
	}
	return out
}

// CloneEntries deep-copies a ledger.
func CloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// OrganizationInput carries organization attributes.
type OrganizationInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	Email string `json:"email" validate:"omitempty,email"`
}

// OrganizationPatch carries the organization attributes to change.
type OrganizationPatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// TransactionInput carries a new transaction. An empty date means now.
type TransactionInput struct {
	Type       TransactionType `json:"type" validate:"required,oneof=CREDIT DEBIT"`
	Amount     float64         `json:"amount" validate:"gte=0"`
	Date       string          `json:"date"`
	Remark     string          `json:"remark"`
	Attachment *string         `json:"attachment"`
	Tags       []string        `json:"tags"`
}

// TransactionPatch carries the transaction attributes to change.
type TransactionPatch struct {
	Type       *TransactionType `json:"type" validate:"omitempty,oneof=CREDIT DEBIT"`
	Amount     *float64         `json:"amount" validate:"omitempty,gte=0"`
	Date       *string          `json:"date"`
	Remark     *string          `json:"remark"`
	Attachment *string          `json:"attachment"`
	Tags       []string         `json:"tags"`
}

var (
	// ErrOrganizationNotFound indicates an unknown organization id.
	ErrOrganizationNotFound = fmt.Errorf("ledger: organization %w", shared.ErrNotFound)
	// ErrTransactionNotFound indicates an unknown transaction id.
	ErrTransactionNotFound = fmt.Errorf("ledger: transaction %w", shared.ErrNotFound)
)
