package search

import (
	"sort"
	"strings"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
)

// MaxResults caps each ranked list.
const MaxResults = 10

// MinQueryLength is the shortest query callers should run. Score itself
// accepts shorter queries.
const MinQueryLength = 2

// ResultType labels a result group.
type ResultType string

const (
	TypeCollection   ResultType = "collection"
	TypeItem         ResultType = "item"
	TypeOrganization ResultType = "organization"
	TypeLedger       ResultType = "ledger"
)

// Result pairs a ranked candidate with its score.
type Result[T any] struct {
	Item  T          `json:"item"`
	Score float64    `json:"score"`
	Type  ResultType `json:"type"`
}

// CollectionHit is the searchable part of a collection.
type CollectionHit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ItemHit identifies a matching item and its collection.
type ItemHit struct {
	ID             string        `json:"id"`
	CollectionID   string        `json:"collectionId"`
	CollectionName string        `json:"collectionName"`
	Values         fields.Values `json:"values"`
}

// LedgerHit identifies a matching ledger entry.
type LedgerHit struct {
	OrganizationID   string `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
}

func rank[T any](query string, typ ResultType, candidates []T, score func(T) float64) []Result[T] {
	results := []Result[T]{}
	if strings.TrimSpace(query) == "" {
		return results
	}
	for _, c := range candidates {
		if s := score(c); s > 0 {
			results = append(results, Result[T]{Item: c, Score: s, Type: typ})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// CollectionScore rates a collection by name, or by description at 0.7.
func CollectionScore(query string, c inventory.Collection) float64 {
	s := Score(query, c.Name)
	if c.Description != "" {
		s = max(s, Score(query, c.Description)*0.7)
	}
	return s
}

// ItemText joins the item's values in schema order, unset values as "".
func ItemText(schema []inventory.SchemaField, values fields.Values) string {
	parts := make([]string, len(schema))
	for i, f := range schema {
		parts[i] = values[f.Key].String()
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// ItemScore rates an item by its values, or by its collection name at 0.5.
func ItemScore(query string, c inventory.Collection, item inventory.Item) float64 {
	return max(Score(query, c.Name)*0.5, Score(query, ItemText(c.Schema, item.Values)))
}

// OrganizationScore rates by name, or by phone or email at 0.5.
func OrganizationScore(query string, org ledger.Organization) float64 {
	s := Score(query, org.Name)
	if org.Phone != "" {
		s = max(s, Score(query, org.Phone)*0.5)
	}
	if org.Email != "" {
		s = max(s, Score(query, org.Email)*0.5)
	}
	return s
}

// LedgerScore rates an entry by organization name, or by its joined
// transaction remarks at 0.6.
func LedgerScore(query string, entry ledger.Entry) float64 {
	remarks := make([]string, len(entry.Transactions))
	for i, t := range entry.Transactions {
		remarks[i] = t.Remark
	}
	return max(Score(query, entry.Organization.Name), Score(query, strings.Join(remarks, " "))*0.6)
}

// SearchCollections ranks collections.
func SearchCollections(cols []inventory.Collection, query string) []Result[CollectionHit] {
	ranked := rank(query, TypeCollection, cols, func(c inventory.Collection) float64 {
		return CollectionScore(query, c)
	})
	out := make([]Result[CollectionHit], len(ranked))
	for i, r := range ranked {
		out[i] = Result[CollectionHit]{
			Item:  CollectionHit{ID: r.Item.ID, Name: r.Item.Name, Description: r.Item.Description},
			Score: r.Score,
			Type:  r.Type,
		}
	}
	return out
}

// SearchItems ranks every item of every collection.
func SearchItems(cols []inventory.Collection, query string) []Result[ItemHit] {
	type candidate struct {
		col  inventory.Collection
		item inventory.Item
	}
	var candidates []candidate
	for _, c := range cols {
		for _, item := range c.Data {
			candidates = append(candidates, candidate{col: c, item: item})
		}
	}
	ranked := rank(query, TypeItem, candidates, func(c candidate) float64 {
		return ItemScore(query, c.col, c.item)
	})
	out := make([]Result[ItemHit], len(ranked))
	for i, r := range ranked {
		out[i] = Result[ItemHit]{
			Item: ItemHit{
				ID:             r.Item.item.ID,
				CollectionID:   r.Item.col.ID,
				CollectionName: r.Item.col.Name,
				Values:         r.Item.item.Values,
			},
			Score: r.Score,
			Type:  r.Type,
		}
	}
	return out
}

// SearchOrganizations ranks organizations.
func SearchOrganizations(orgs []ledger.Organization, query string) []Result[ledger.Organization] {
	return rank(query, TypeOrganization, orgs, func(o ledger.Organization) float64 {
		return OrganizationScore(query, o)
	})
}

// SearchLedgers ranks ledger entries.
func SearchLedgers(entries []ledger.Entry, query string) []Result[LedgerHit] {
	ranked := rank(query, TypeLedger, entries, func(e ledger.Entry) float64 {
		return LedgerScore(query, e)
	})
	out := make([]Result[LedgerHit], len(ranked))
	for i, r := range ranked {
		out[i] = Result[LedgerHit]{
			Item:  LedgerHit{OrganizationID: r.Item.Organization.ID, OrganizationName: r.Item.Organization.Name},
			Score: r.Score,
			Type:  r.Type,
		}
	}
	return out
}
