package ledger

import (
	"sort"
	"time"

	"github.com/Basharkhan7776/mudir/internal/fields"
)

// Balance labels.
const (
	StatusGet     = "YOU WILL GET"
	StatusGive    = "YOU WILL GIVE"
	StatusSettled = "SETTLED"
)

// Balance adds DEBIT amounts and subtracts CREDIT amounts.
func Balance(entry Entry) float64 {
	return balanceOf(entry.Transactions)
}

func balanceOf(txns []Transaction) float64 {
	var total float64
	for _, t := range txns {
		if t.Type == TransactionCredit {
			total -= t.Amount
		} else {
			total += t.Amount
		}
	}
	return total
}

// BalanceStatus labels a balance by its sign.
func BalanceStatus(balance float64) string {
	switch {
	case balance > 0:
		return StatusGet
	case balance < 0:
		return StatusGive
	default:
		return StatusSettled
	}
}

// Totals summarises a ledger: what is owed to the user and what the user
// owes.
type Totals struct {
	ToGet  float64 `json:"toGet"`
	ToGive float64 `json:"toGive"`
}

// Summary adds positive balances to ToGet and negative ones to ToGive.
func Summary(entries []Entry) Totals {
	var out Totals
	for _, e := range entries {
		b := Balance(e)
		if b > 0 {
			out.ToGet += b
		} else if b < 0 {
			out.ToGive -= b
		}
	}
	return out
}

// EntrySummary is one row of the ledger list.
type EntrySummary struct {
	Organization     Organization `json:"organization"`
	Balance          float64      `json:"balance"`
	Status           string       `json:"status"`
	TransactionCount int          `json:"transactionCount"`
}

// Summaries builds list rows for every entry.
func Summaries(entries []Entry) []EntrySummary {
	out := make([]EntrySummary, 0, len(entries))
	for _, e := range entries {
		b := Balance(e)
		out = append(out, EntrySummary{Organization: e.Organization, Balance: b, Status: BalanceStatus(b), TransactionCount: len(e.Transactions)})
	}
	return out
}

// Day titles.
const (
	TitleToday     = "Today"
	TitleYesterday = "Yesterday"
)

// StatementGroup is one calendar day of a statement.
type StatementGroup struct {
	Title        string        `json:"title"`
	Transactions []Transaction `json:"transactions"`
}

// Statement is an organization's transactions in date order, grouped by day.
type Statement struct {
	Organization Organization     `json:"organization"`
	Balance      float64          `json:"balance"`
	Status       string           `json:"status"`
	Groups       []StatementGroup `json:"groups"`
}

type datedTransaction struct {
	txn    Transaction
	at     time.Time
	parsed bool
}

func sortedByDate(txns []Transaction, loc *time.Location) []datedTransaction {
	dated := make([]datedTransaction, len(txns))
	for i, t := range txns {
		at, ok := fields.ParseDateIn(t.Date, loc)
		dated[i] = datedTransaction{txn: t, at: at.In(loc), parsed: ok}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].at.Before(dated[j].at)
	})
	return dated
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayTitle(d datedTransaction, now time.Time) string {
	if !d.parsed {
		return fields.InvalidDate
	}
	switch {
	case sameDay(d.at, now):
		return TitleToday
	case sameDay(d.at, now.AddDate(0, 0, -1)):
		return TitleYesterday
	default:
		return d.at.Format(fields.ShortDateLayout)
	}
}

// BuildStatement sorts transactions by date ascending (ties keep insertion
// order) and groups consecutive transactions sharing a day title. Days are
// computed in loc.
func BuildStatement(entry Entry, now time.Time, loc *time.Location) Statement {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	balance := Balance(entry)
	st := Statement{Organization: entry.Organization, Balance: balance, Status: BalanceStatus(balance), Groups: []StatementGroup{}}
	for _, d := range sortedByDate(entry.Transactions, loc) {
		title := dayTitle(d, now)
		if n := len(st.Groups); n > 0 && st.Groups[n-1].Title == title {
			st.Groups[n-1].Transactions = append(st.Groups[n-1].Transactions, d.txn.Clone())
			continue
		}
		st.Groups = append(st.Groups, StatementGroup{Title: title, Transactions: []Transaction{d.txn.Clone()}})
	}
	return st
}
