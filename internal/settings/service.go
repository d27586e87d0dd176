package settings

import (
	"context"
	"strings"

	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// Currency is a selectable currency symbol.
type Currency struct {
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

var supported = []Currency{
	{Symbol: "₹", Label: "Indian Rupee (INR)"},
	{Symbol: "$", Label: "US Dollar (USD)"},
	{Symbol: "€", Label: "Euro (EUR)"},
	{Symbol: "£", Label: "British Pound (GBP)"},
	{Symbol: "¥", Label: "Japanese Yen (JPY)"},
}

// SupportedCurrencies lists the symbols offered to clients. Other symbols
// are accepted too.
func SupportedCurrencies() []Currency {
	return append([]Currency(nil), supported...)
}

// Store is the document the settings live in.
type Store interface {
	Meta() database.Meta
	UpdateMeta(ctx context.Context, fn func(database.Meta) (database.Meta, error)) error
	Update(ctx context.Context, fn func(database.Snapshot) (database.Snapshot, error)) error
}

// Service manages application settings and whole-database resets.
type Service struct {
	store           Store
	clock           shared.Clock
	defaultCurrency string
}

// NewService builds Service. defaultCurrency is used when data is cleared.
func NewService(store Store, clock shared.Clock, defaultCurrency string) *Service {
	if defaultCurrency == "" {
		defaultCurrency = database.DefaultCurrency
	}
	return &Service{store: store, clock: clock, defaultCurrency: defaultCurrency}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (database.Meta, error) {
	return s.store.Meta(), nil
}

func (s *Service) update(ctx context.Context, fn func(*database.Meta)) (database.Meta, error) {
	var out database.Meta
	err := s.store.UpdateMeta(ctx, func(m database.Meta) (database.Meta, error) {
		fn(&m)
		out = m
		return m, nil
	})
	return out, err
}

// SetCurrency changes the currency symbol.
func (s *Service) SetCurrency(ctx context.Context, symbol string) (database.Meta, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return database.Meta{}, shared.NewValidationError("currency is required", "userCurrency")
	}
	return s.update(ctx, func(m *database.Meta) { m.UserCurrency = symbol })
}

// SetOrganizationName changes the owner's organization name. Blank clears it.
func (s *Service) SetOrganizationName(ctx context.Context, name string) (database.Meta, error) {
	name = strings.TrimSpace(name)
	return s.update(ctx, func(m *database.Meta) { m.OrganizationName = name })
}

// OnboardingInput carries the answers of the first-run flow.
type OnboardingInput struct {
	OrganizationName string `json:"organizationName"`
	Currency         string `json:"userCurrency"`
}

// CompleteOnboarding stores the first-run answers and clears isNewUser.
func (s *Service) CompleteOnboarding(ctx context.Context, input OnboardingInput) (database.Meta, error) {
	name := strings.TrimSpace(input.OrganizationName)
	currency := strings.TrimSpace(input.Currency)
	return s.update(ctx, func(m *database.Meta) {
		if name != "" {
			m.OrganizationName = name
		}
		if currency != "" {
			m.UserCurrency = currency
		}
		m.IsNewUser = false
	})
}

// ClearData empties collections and ledger and resets settings.
func (s *Service) ClearData(ctx context.Context) (database.Meta, error) {
	empty := database.Empty(s.clock.Now(), s.defaultCurrency)
	err := s.store.Update(ctx, func(database.Snapshot) (database.Snapshot, error) {
		return empty, nil
	})
	if err != nil {
		return database.Meta{}, err
	}
	return empty.Meta, nil
}

// LoadSeed replaces collections and ledger with the sample data. Settings
// are kept.
func (s *Service) LoadSeed(ctx context.Context) error {
	now := s.clock.Now()
	return s.store.Update(ctx, func(snap database.Snapshot) (database.Snapshot, error) {
		snap.Collections = database.SeedCollections(now)
		snap.Ledger = database.SeedLedger(now)
		return snap, nil
	})
}
