package database

import (
	"time"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// Initial returns the document written on first launch: default settings
// with the sample data loaded.
func Initial(now time.Time, currency string) Snapshot {
	s := Empty(now, currency)
	s.Meta.IsNewUser = false
	s.Collections = SeedCollections(now)
	s.Ledger = SeedLedger(now)
	return Normalize(s)
}

// SeedCollections returns the sample collections.
func SeedCollections(now time.Time) []inventory.Collection {
	created := shared.Timestamp(now)
	item := func(id string, values fields.Values) inventory.Item {
		return inventory.Item{ID: id, CreatedAt: created, UpdatedAt: created, Values: values}
	}
	return []inventory.Collection{
		{
			ID:          "seed-sneakers",
			Name:        "Sneakers",
			Description: "Shoe stock on the shelf",
			Schema: []inventory.SchemaField{
				{Key: "name", Label: "Item Name", Type: fields.TypeText, Required: true},
				{Key: "brand", Label: "Brand", Type: fields.TypeText},
				{Key: "size", Label: "Size", Type: fields.TypeNumber},
				{Key: "price", Label: "Price", Type: fields.TypeCurrency},
				{Key: "condition", Label: "Condition", Type: fields.TypeSelect, Options: []string{"New", "Used"}},
				{Key: "in_stock", Label: "In Stock", Type: fields.TypeBoolean},
				{Key: "purchased", Label: "Purchased", Type: fields.TypeDate},
			},
			Data: []inventory.Item{
				item("seed-sneakers-1", fields.Values{
					"name": fields.Text("Air Jordan 1"), "brand": fields.Text("Nike"), "size": fields.Number(10),
					"price": fields.Currency("180"), "condition": fields.Select("New"),
					"in_stock": fields.Boolean(true), "purchased": fields.Date("2024-01-15"),
				}),
				item("seed-sneakers-2", fields.Values{
					"name": fields.Text("Yeezy Boost 350"), "brand": fields.Text("Adidas"), "size": fields.Number(9),
					"price": fields.Currency("220"), "condition": fields.Select("Used"),
					"in_stock": fields.Boolean(false), "purchased": fields.Date("2023-11-02"),
				}),
				item("seed-sneakers-3", fields.Values{
					"name": fields.Text("Chuck Taylor All Star"), "brand": fields.Text("Converse"), "size": fields.Number(8),
					"price": fields.Currency("55"), "condition": fields.Select("New"),
					"in_stock": fields.Boolean(true),
				}),
			},
		},
		{
			ID:          "seed-books",
			Name:        "Books",
			Description: "Reading list and shelf",
			Schema: []inventory.SchemaField{
				{Key: "title", Label: "Title", Type: fields.TypeText, Required: true},
				{Key: "author", Label: "Author", Type: fields.TypeText},
				{Key: "pages", Label: "Pages", Type: fields.TypeNumber},
			},
			Data: []inventory.Item{
				item("seed-books-1", fields.Values{
					"title": fields.Text("The Go Programming Language"), "author": fields.Text("Donovan & Kernighan"),
					"pages": fields.Number(380),
				}),
				item("seed-books-2", fields.Values{
					"title": fields.Text("Designing Data-Intensive Applications"), "author": fields.Text("Martin Kleppmann"),
					"pages": fields.Number(616),
				}),
			},
		},
	}
}

// SeedLedger returns the sample organizations and transactions.
func SeedLedger(now time.Time) []ledger.Entry {
	daysAgo := func(n int) string { return shared.Timestamp(now.AddDate(0, 0, -n)) }
	return []ledger.Entry{
		{
			Organization: ledger.Organization{ID: "seed-org-sharma", Name: "Sharma Traders", Phone: "+91 98765 43210", Email: "accounts@sharmatraders.in"},
			Transactions: []ledger.Transaction{
				{ID: "seed-txn-1", OrganizationID: "seed-org-sharma", Type: ledger.TransactionDebit, Amount: 5000, Date: daysAgo(6), Remark: "Invoice 101"},
				{ID: "seed-txn-2", OrganizationID: "seed-org-sharma", Type: ledger.TransactionCredit, Amount: 2000, Date: daysAgo(1), Remark: "Part payment"},
			},
		},
		{
			Organization: ledger.Organization{ID: "seed-org-bright", Name: "Bright Stationers", Phone: "+91 91234 56780"},
			Transactions: []ledger.Transaction{
				{ID: "seed-txn-3", OrganizationID: "seed-org-bright", Type: ledger.TransactionCredit, Amount: 750, Date: daysAgo(0), Remark: "Advance for paper"},
			},
		},
	}
}
