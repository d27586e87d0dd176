package search

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/ledger"
)

// Results holds one ranked list per entity type.
type Results struct {
	Query         string                        `json:"query"`
	Collections   []Result[CollectionHit]       `json:"collections"`
	Items         []Result[ItemHit]             `json:"items"`
	Organizations []Result[ledger.Organization] `json:"organizations"`
	Ledgers       []Result[LedgerHit]           `json:"ledgers"`
}

// Total counts results across groups.
func (r Results) Total() int {
	return len(r.Collections) + len(r.Items) + len(r.Organizations) + len(r.Ledgers)
}

func emptyResults(query string) Results {
	return Results{
		Query:         query,
		Collections:   []Result[CollectionHit]{},
		Items:         []Result[ItemHit]{},
		Organizations: []Result[ledger.Organization]{},
		Ledgers:       []Result[LedgerHit]{},
	}
}

// SearchAll ranks every entity type of the document independently.
func SearchAll(snap database.Snapshot, query string) Results {
	orgs := make([]ledger.Organization, len(snap.Ledger))
	for i, e := range snap.Ledger {
		orgs[i] = e.Organization
	}
	return Results{
		Query:         query,
		Collections:   SearchCollections(snap.Collections, query),
		Items:         SearchItems(snap.Collections, query),
		Organizations: SearchOrganizations(orgs, query),
		Ledgers:       SearchLedgers(snap.Ledger, query),
	}
}

// TooShort reports whether callers should skip the query.
func TooShort(query string) bool {
	return strings.TrimSpace(query) == "" || utf8.RuneCountInString(query) < MinQueryLength
}

// Source provides the document to search.
type Source interface {
	Snapshot() database.Snapshot
}

// Service runs searches, through the cache when one is configured.
type Service struct {
	source Source
	cache  *Cache
	logger *slog.Logger
}

// NewService builds Service. cache may be nil.
func NewService(source Source, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: cache, logger: logger}
}

// Search returns grouped results. Queries shorter than MinQueryLength yield
// empty groups. Cache failures fall back to computing directly.
func (s *Service) Search(ctx context.Context, query string) (Results, error) {
	if TooShort(query) {
		return emptyResults(query), nil
	}
	compute := func(context.Context) (any, error) {
		return SearchAll(s.source.Snapshot(), query), nil
	}
	if !s.cache.enabled() {
		return SearchAll(s.source.Snapshot(), query), nil
	}

	key, err := s.cache.BuildKey(ctx, query)
	if err == nil {
		var out Results
		if err = s.cache.FetchJSON(ctx, key, &out, compute); err == nil {
			return out, nil
		}
	}
	s.logger.Warn("search cache unavailable", slog.Any("error", err))
	return SearchAll(s.source.Snapshot(), query), nil
}

// Invalidate bumps the cache version. It is registered as a commit hook.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump search cache", slog.Any("error", err))
	}
}
