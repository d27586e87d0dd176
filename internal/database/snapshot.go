// Package database holds the application document in memory and commits
// every change to it through a persistence.Writer.
package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

const (
	// AppVersion is written into new documents.
	AppVersion = "1.0.0"
	// DefaultCurrency is the currency symbol of a fresh install.
	DefaultCurrency = "₹"
)

// Meta carries application settings stored with the data.
type Meta struct {
	AppVersion       string `json:"appVersion"`
	ExportDate       string `json:"exportDate"`
	UserCurrency     string `json:"userCurrency"`
	OrganizationName string `json:"organizationName"`
	IsNewUser        bool   `json:"isNewUser"`
}

// DefaultMeta returns the settings of an empty database.
func DefaultMeta(now time.Time, currency string) Meta {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Meta{
		AppVersion:   AppVersion,
		ExportDate:   shared.Timestamp(now),
		UserCurrency: currency,
		IsNewUser:    true,
	}
}

// Snapshot is the whole persisted document.
type Snapshot struct {
	Meta        Meta                   `json:"meta"`
	Collections []inventory.Collection `json:"collections"`
	Ledger      []ledger.Entry         `json:"ledger"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Meta:        s.Meta,
		Collections: inventory.CloneCollections(s.Collections),
		Ledger:      ledger.CloneEntries(s.Ledger),
	}
}

// Empty returns a document with default settings and no data.
func Empty(now time.Time, currency string) Snapshot {
	return Snapshot{
		Meta:        DefaultMeta(now, currency),
		Collections: []inventory.Collection{},
		Ledger:      []ledger.Entry{},
	}
}

// Encode serializes the document compactly for storage.
func Encode(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("database: encode: %w", err)
	}
	return data, nil
}

// Decode parses a stored document and normalizes it.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("database: decode: %w", err)
	}
	return Normalize(s), nil
}

// Normalize replaces nil lists with empty ones and retags string item
// values to the kind of their field. Stored values are never coerced: a
// "12" under a number field stays a string.
func Normalize(s Snapshot) Snapshot {
	if s.Collections == nil {
		s.Collections = []inventory.Collection{}
	}
	for i := range s.Collections {
		c := &s.Collections[i]
		if c.Schema == nil {
			c.Schema = []inventory.SchemaField{}
		}
		if c.Data == nil {
			c.Data = []inventory.Item{}
		}
		for j := range c.Data {
			c.Data[j].Values = c.RetagValues(c.Data[j].Values)
		}
	}
	if s.Ledger == nil {
		s.Ledger = []ledger.Entry{}
	}
	for i := range s.Ledger {
		if s.Ledger[i].Transactions == nil {
			s.Ledger[i].Transactions = []ledger.Transaction{}
		}
	}
	return s
}
