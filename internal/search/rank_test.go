package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
)

func TestSearchOrganizationsRankingAndCap(t *testing.T) {
	var orgs []ledger.Organization
	names := []string{"Acme", "Acme Corp", "Bacme", "Axcxmxe"}
	for i := 0; i < 12; i++ {
		orgs = append(orgs, ledger.Organization{ID: fmt.Sprintf("m%d", i), Name: names[i%len(names)]})
	}
	for i := 0; i < 3; i++ {
		orgs = append(orgs, ledger.Organization{ID: fmt.Sprintf("x%d", i), Name: "Zeta"})
	}

	results := SearchOrganizations(orgs, "acme")
	require.Len(t, results, MaxResults)
	for i, r := range results {
		require.Positive(t, r.Score)
		require.Equal(t, TypeOrganization, r.Type)
		if i > 0 {
			require.GreaterOrEqual(t, results[i-1].Score, r.Score)
		}
	}
	require.Equal(t, "m0", results[0].Item.ID)
	require.Equal(t, 100.0, results[0].Score)
	require.Equal(t, "m4", results[1].Item.ID)
}

func TestRankKeepsTopTenDistinctScores(t *testing.T) {
	scores := map[string]float64{
		"a": 12, "b": 95, "c": 3, "d": 47, "e": 61, "f": 88,
		"g": 29, "h": 70, "i": 5, "j": 54, "k": 99, "l": 18, "zero": 0,
	}
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "zero"}

	results := rank("q", TypeItem, ids, func(id string) float64 { return scores[id] })
	require.Len(t, results, MaxResults)
	var got []string
	for i, r := range results {
		got = append(got, r.Item)
		if i > 0 {
			require.Greater(t, results[i-1].Score, r.Score)
		}
	}
	require.Equal(t, []string{"k", "b", "f", "h", "e", "j", "d", "g", "l", "a"}, got)
}

func TestSearchOrganizationsDistinctScores(t *testing.T) {
	orgs := []ledger.Organization{
		{ID: "subseq", Name: "Axcxmxe"},
		{ID: "email", Name: "Zeta", Email: "acme@zeta.test"},
		{ID: "exact", Name: "Acme"},
		{ID: "scattered", Name: "Emca"},
		{ID: "contains", Name: "The Acme Co"},
		{ID: "prefix", Name: "Acme Corp"},
		{ID: "miss", Name: "Zeta"},
	}

	results := SearchOrganizations(orgs, "acme")
	var got []string
	for i, r := range results {
		got = append(got, r.Item.ID)
		if i > 0 {
			require.Greater(t, results[i-1].Score, r.Score)
		}
	}
	require.Equal(t, []string{"exact", "prefix", "contains", "email", "subseq", "scattered"}, got)
}

func TestSearchBlankQuery(t *testing.T) {
	orgs := []ledger.Organization{{ID: "1", Name: "Acme"}}
	require.Empty(t, SearchOrganizations(orgs, "   "))
	require.NotNil(t, SearchOrganizations(orgs, ""))
	require.Empty(t, SearchCollections([]inventory.Collection{{ID: "c", Name: "Acme"}}, ""))
}

func TestOrganizationWeights(t *testing.T) {
	org := ledger.Organization{ID: "1", Name: "Zeta", Phone: "555-0100", Email: "billing@acme.test"}
	require.Equal(t, 50.0, OrganizationScore("5550100", org))
	require.Equal(t, 30.0, OrganizationScore("acme", org))
	require.Equal(t, 100.0, OrganizationScore("zeta", org))
}

func TestCollectionWeights(t *testing.T) {
	c := inventory.Collection{ID: "c", Name: "Sneakers", Description: "Shoe stock"}
	require.InDelta(t, 56, CollectionScore("shoe", c), 1e-9)
	require.Equal(t, 80.0, CollectionScore("snea", c))
	require.Zero(t, CollectionScore("zz", inventory.Collection{Name: "Books"}))
}

func TestItemText(t *testing.T) {
	schema := []inventory.SchemaField{
		{Key: "name", Type: fields.TypeText},
		{Key: "size", Type: fields.TypeNumber},
		{Key: "missing", Type: fields.TypeText},
		{Key: "ok", Type: fields.TypeBoolean},
	}
	values := fields.Values{"name": fields.Text("Air MAX"), "size": fields.Number(9.5), "ok": fields.Boolean(true), "orphan": fields.Text("x")}
	require.Equal(t, "air max 9.5  true", ItemText(schema, values))
}

func TestSearchItems(t *testing.T) {
	cols := []inventory.Collection{
		{
			ID: "shoes", Name: "Sneakers",
			Schema: []inventory.SchemaField{{Key: "name", Type: fields.TypeText}},
			Data: []inventory.Item{
				{ID: "a", Values: fields.Values{"name": fields.Text("Air Jordan")}},
				{ID: "b", Values: fields.Values{"name": fields.Text("Chuck Taylor")}},
			},
		},
		{
			ID: "books", Name: "Books",
			Schema: []inventory.SchemaField{{Key: "title", Type: fields.TypeText}},
			Data:   []inventory.Item{{ID: "c", Values: fields.Values{"title": fields.Text("Jordan's Guide")}}},
		},
	}

	results := SearchItems(cols, "jordan")
	require.Len(t, results, 2)
	require.Equal(t, "c", results[0].Item.ID)
	require.Equal(t, 80.0, results[0].Score)
	require.Equal(t, "a", results[1].Item.ID)
	require.Equal(t, "shoes", results[1].Item.CollectionID)
	require.Equal(t, "Sneakers", results[1].Item.CollectionName)

	byCollection := SearchItems(cols, "sneakers")
	require.Len(t, byCollection, 2)
	require.Equal(t, 50.0, byCollection[0].Score)
	require.Equal(t, "a", byCollection[0].Item.ID)
	require.Equal(t, "b", byCollection[1].Item.ID)
}

func TestSearchLedgers(t *testing.T) {
	entries := []ledger.Entry{
		{Organization: ledger.Organization{ID: "1", Name: "Acme"}, Transactions: []ledger.Transaction{{Remark: "paper rolls"}, {Remark: ""}}},
		{Organization: ledger.Organization{ID: "2", Name: "Paper House"}},
	}
	results := SearchLedgers(entries, "paper")
	require.Len(t, results, 2)
	require.Equal(t, "2", results[0].Item.OrganizationID)
	require.Equal(t, 80.0, results[0].Score)
	require.Equal(t, "Acme", results[1].Item.OrganizationName)
	require.InDelta(t, 48, results[1].Score, 1e-9)
}
