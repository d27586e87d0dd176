package database

import (
	"math"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/inventory"
	"github.com/Basharkhan7776/mudir/internal/ledger"
)

func TestSeedRoundTrip(t *testing.T) {
	seed := Initial(testNow, "$")
	data, err := Encode(seed)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, seed, decoded)
}

func TestEncodeRejectsNonFiniteNumbers(t *testing.T) {
	s := Empty(testNow, "")
	s.Collections = []inventory.Collection{{
		ID: "c", Name: "c", Schema: inventory.DefaultSchema(),
		Data: []inventory.Item{{ID: "i", Values: fields.Values{"name": fields.Number(math.Inf(1))}}},
	}}
	_, err := Encode(s)
	require.ErrorIs(t, err, fields.ErrNonFinite)
}

func TestDecodeEncodeKeepsNumericStrings(t *testing.T) {
	doc := `{"meta":{"appVersion":"1.0.0"},"collections":[{"id":"c","name":"n",` +
		`"schema":[{"key":"qty","label":"Qty","type":"number","required":false}],` +
		`"data":[{"id":"i","createdAt":"2024-01-01T00:00:00.000Z","values":{"qty":"12"}}]}],"ledger":[]}`
	s, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, fields.Text("12"), s.Collections[0].Data[0].Values["qty"])

	data, err := Encode(s)
	require.NoError(t, err)
	require.Contains(t, string(data), `"qty":"12"`)
}

func TestDecodeNormalizesMissingLists(t *testing.T) {
	s, err := Decode([]byte(`{"meta":{"appVersion":"1.0.0"},"collections":[{"id":"c","name":"n","schema":null,"data":null}]}`))
	require.NoError(t, err)
	require.NotNil(t, s.Ledger)
	require.NotNil(t, s.Collections[0].Schema)
	require.NotNil(t, s.Collections[0].Data)
}

var fieldTypes = fields.Types()

func randomValue(r *rand.Rand) fields.Value {
	switch r.Intn(6) {
	case 0:
		return fields.Null()
	case 1:
		return fields.Boolean(r.Intn(2) == 0)
	case 2:
		return fields.Number(float64(r.Intn(100000)) / 100)
	case 3:
		return fields.Text(strconv.Itoa(r.Intn(1000)) + "abc")
	case 4:
		return fields.Text(strconv.Itoa(r.Intn(1000)))
	default:
		return fields.Text("value " + strconv.Itoa(r.Int()))
	}
}

// randomSnapshot builds a document whose values ignore the schema types,
// as hand-edited or older documents do.
func randomSnapshot(seed int64) Snapshot {
	r := rand.New(rand.NewSource(seed))
	s := Empty(time.Unix(r.Int63n(1<<31), 0), "$")
	for c := 0; c < r.Intn(4); c++ {
		col := inventory.Collection{ID: "c" + strconv.Itoa(c), Name: "Collection " + strconv.Itoa(c), Data: []inventory.Item{}}
		for f := 0; f <= r.Intn(5); f++ {
			field := inventory.SchemaField{
				Key:      "f" + strconv.Itoa(f),
				Label:    "Field " + strconv.Itoa(f),
				Type:     fieldTypes[r.Intn(len(fieldTypes))],
				Required: r.Intn(2) == 0,
			}
			if field.Type == fields.TypeSelect {
				field.Options = []string{"a", "b"}
			}
			col.Schema = append(col.Schema, field)
		}
		for i := 0; i < r.Intn(6); i++ {
			values := fields.Values{}
			for _, field := range col.Schema {
				values[field.Key] = randomValue(r)
			}
			col.Data = append(col.Data, inventory.Item{ID: col.ID + "-" + strconv.Itoa(i), CreatedAt: "2024-01-01T00:00:00.000Z", Values: values})
		}
		s.Collections = append(s.Collections, col)
	}
	for o := 0; o < r.Intn(4); o++ {
		entry := ledger.Entry{Organization: ledger.Organization{ID: "o" + strconv.Itoa(o), Name: "Org"}, Transactions: []ledger.Transaction{}}
		for i := 0; i < r.Intn(5); i++ {
			typ := ledger.TransactionDebit
			if r.Intn(2) == 0 {
				typ = ledger.TransactionCredit
			}
			entry.Transactions = append(entry.Transactions, ledger.Transaction{
				ID: "t" + strconv.Itoa(i), OrganizationID: entry.Organization.ID, Type: typ,
				Amount: float64(r.Intn(100000)) / 100, Date: "2024-02-02T10:00:00.000Z",
			})
		}
		s.Ledger = append(s.Ledger, entry)
	}
	return s
}

func TestSnapshotJSONRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(s)) == s", prop.ForAll(
		func(seed int64) bool {
			s := randomSnapshot(seed)
			data, err := Encode(s)
			if err != nil {
				return false
			}
			decoded, err := Decode(data)
			if err != nil {
				return false
			}
			again, err := Encode(decoded)
			if err != nil {
				return false
			}
			return string(again) == string(data)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
