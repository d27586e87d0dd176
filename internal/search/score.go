// Package search ranks collections, items, organizations and ledger entries
// against a free-text query.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Score values returned by Score.
const (
	ScoreExact       = 100
	ScorePrefix      = 80
	ScoreSubstring   = 60
	ScoreSubsequence = 30
	ScoreScattered   = 25
)

// Normalize lowercases s and drops everything outside [a-z0-9].
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lower := cases.Lower(language.Und).String(s)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Score rates how well target matches query, from 0 (no match) to 100
// (exact match after normalization).
func Score(query, target string) float64 {
	q := Normalize(query)
	t := Normalize(target)
	if q == "" || t == "" {
		return 0
	}
	switch {
	case q == t:
		return ScoreExact
	case strings.HasPrefix(t, q):
		return ScorePrefix
	case strings.Contains(t, q):
		return ScoreSubstring
	}

	// Greedy in-order walk; a full walk always matches every query byte.
	qi := 0
	for i := 0; i < len(t) && qi < len(q); i++ {
		if t[i] == q[qi] {
			qi++
		}
	}
	if qi == len(q) {
		return ScoreSubsequence
	}

	// The normalized target has no uppercase letters left, so it is a
	// single word here.
	if len(q) > 1 {
		for i := 0; i < len(q); i++ {
			if strings.IndexByte(t, q[i]) < 0 {
				return 0
			}
		}
		return ScoreScattered
	}
	return 0
}
