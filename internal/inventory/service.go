package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListCollections(ctx context.Context) ([]Collection, error)
	GetCollection(ctx context.Context, id string) (Collection, error)
}

// Service coordinates collection and item operations.
type Service struct {
	repo  RepositoryPort
	clock shared.Clock
}

// NewService builds Service. A nil clock uses time.Now.
func NewService(repo RepositoryPort, clock shared.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// ListCollections returns every collection.
func (s *Service) ListCollections(ctx context.Context) ([]Collection, error) {
	return s.repo.ListCollections(ctx)
}

// GetCollection returns one collection or ErrCollectionNotFound.
func (s *Service) GetCollection(ctx context.Context, id string) (Collection, error) {
	return s.repo.GetCollection(ctx, id)
}

// GetItem returns one item of a collection.
func (s *Service) GetItem(ctx context.Context, collectionID, itemID string) (Item, error) {
	col, err := s.repo.GetCollection(ctx, collectionID)
	if err != nil {
		return Item{}, err
	}
	for _, item := range col.Data {
		if item.ID == itemID {
			return item, nil
		}
	}
	return Item{}, ErrItemNotFound
}

func prepareInput(input CollectionInput) (CollectionInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, shared.NewValidationError("collection name is required", "name")
	}
	input.Description = strings.TrimSpace(input.Description)
	if len(input.Schema) == 0 {
		input.Schema = DefaultSchema()
	}
	if err := ValidateSchema(input.Schema); err != nil {
		return input, err
	}
	input.Schema = normalizeSchema(input.Schema)
	return input, nil
}

// CreateCollection creates an empty collection. An empty schema defaults to
// DefaultSchema.
func (s *Service) CreateCollection(ctx context.Context, input CollectionInput) (Collection, error) {
	input, err := prepareInput(input)
	if err != nil {
		return Collection{}, err
	}
	col := Collection{
		ID:          shared.NewID(),
		Name:        input.Name,
		Description: input.Description,
		Schema:      input.Schema,
		Data:        []Item{},
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertCollection(ctx, col)
	})
	if err != nil {
		return Collection{}, err
	}
	return col, nil
}

// UpdateCollection replaces name, description and schema.
func (s *Service) UpdateCollection(ctx context.Context, id string, input CollectionInput) (Collection, error) {
	input, err := prepareInput(input)
	if err != nil {
		return Collection{}, err
	}
	var updated Collection
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		col, err := tx.GetCollection(ctx, id)
		if err != nil {
			return err
		}
		col.Name = input.Name
		col.Description = input.Description
		col.Schema = input.Schema
		updated = col
		return tx.UpdateCollection(ctx, col)
	})
	return updated, err
}

// UpdateSchema replaces the schema wholesale. Stored item values are not
// migrated: values under removed or renamed keys stay in place.
func (s *Service) UpdateSchema(ctx context.Context, id string, schema []SchemaField) (Collection, error) {
	return s.EditSchema(ctx, id, func([]SchemaField) ([]SchemaField, error) {
		return schema, nil
	})
}

// EditSchema applies fn to the current schema and stores the result.
func (s *Service) EditSchema(ctx context.Context, id string, fn func([]SchemaField) ([]SchemaField, error)) (Collection, error) {
	var updated Collection
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		col, err := tx.GetCollection(ctx, id)
		if err != nil {
			return err
		}
		schema, err := fn(col.Schema)
		if err != nil {
			return err
		}
		if err := ValidateSchema(schema); err != nil {
			return err
		}
		col.Schema = normalizeSchema(schema)
		updated = col
		return tx.UpdateCollection(ctx, col)
	})
	return updated, err
}

// DeleteCollection removes a collection and its items. Unknown ids are a
// no-op.
func (s *Service) DeleteCollection(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		_, err := tx.DeleteCollection(ctx, id)
		return err
	})
}

// AddItem validates and stores a new item. Values are coerced against the
// schema, omitted fields take their default, and every required field must
// end up non-empty.
func (s *Service) AddItem(ctx context.Context, collectionID string, values fields.Values) (Item, error) {
	var created Item
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		col, err := tx.GetCollection(ctx, collectionID)
		if err != nil {
			return err
		}
		vals := col.CoerceValues(values)
		for _, f := range col.Schema {
			if _, ok := vals[f.Key]; !ok && f.DefaultValue != nil {
				vals[f.Key] = *f.DefaultValue
			}
		}
		if missing := missingRequired(col.Schema, vals); len(missing) > 0 {
			return shared.NewValidationError("missing required fields", missing...)
		}
		now := shared.Timestamp(s.now())
		created = Item{ID: shared.NewID(), CreatedAt: now, UpdatedAt: now, Values: vals}
		col.Data = append(col.Data, created)
		return tx.UpdateCollection(ctx, col)
	})
	if err != nil {
		return Item{}, err
	}
	return created, nil
}

func missingRequired(schema []SchemaField, vals fields.Values) []string {
	var missing []string
	for _, f := range schema {
		if f.Required && vals[f.Key].IsEmpty() {
			missing = append(missing, f.Key)
		}
	}
	return missing
}

// UpdateItem shallow-merges patch into the item's values and stamps
// updatedAt. Required fields are not re-checked.
// TODO: decide whether edits should pass the same required-field gate as AddItem.
func (s *Service) UpdateItem(ctx context.Context, collectionID, itemID string, patch fields.Values) (Item, error) {
	var updated Item
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		col, err := tx.GetCollection(ctx, collectionID)
		if err != nil {
			return err
		}
		for i := range col.Data {
			if col.Data[i].ID != itemID {
				continue
			}
			item := &col.Data[i]
			if item.Values == nil {
				item.Values = fields.Values{}
			}
			for key, v := range col.CoerceValues(patch) {
				item.Values[key] = v
			}
			item.UpdatedAt = shared.Timestamp(s.now())
			updated = *item
			return tx.UpdateCollection(ctx, col)
		}
		return ErrItemNotFound
	})
	if err != nil {
		return Item{}, err
	}
	return updated, nil
}

// DeleteItem removes one item. Unknown ids are a no-op; an unknown
// collection is also a no-op.
func (s *Service) DeleteItem(ctx context.Context, collectionID, itemID string) error {
	_, err := s.DeleteItems(ctx, collectionID, []string{itemID})
	return err
}

// DeleteItems removes each listed item that exists and returns how many
// were removed.
func (s *Service) DeleteItems(ctx context.Context, collectionID string, itemIDs []string) (int, error) {
	removed := 0
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		col, err := tx.GetCollection(ctx, collectionID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		drop := make(map[string]struct{}, len(itemIDs))
		for _, id := range itemIDs {
			drop[id] = struct{}{}
		}
		kept := col.Data[:0]
		for _, item := range col.Data {
			if _, ok := drop[item.ID]; ok {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		if removed == 0 {
			return nil
		}
		col.Data = kept
		return tx.UpdateCollection(ctx, col)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// DisplayItem renders every schema field of an item for display.
func (s *Service) DisplayItem(ctx context.Context, collectionID, itemID, currencySymbol string, loc *time.Location) ([]DisplayField, error) {
	col, err := s.repo.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	for _, item := range col.Data {
		if item.ID != itemID {
			continue
		}
		out := make([]DisplayField, 0, len(col.Schema))
		for _, f := range col.Schema {
			out = append(out, DisplayField{
				Key:   f.Key,
				Label: f.Label,
				Type:  f.Type,
				Value: fields.Format(item.Values[f.Key], f.Type, currencySymbol, loc),
			})
		}
		return out, nil
	}
	return nil, ErrItemNotFound
}

func (s *Service) now() time.Time {
	return s.clock.Now()
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func isValidation(err error) bool {
	return errors.Is(err, shared.ErrValidation)
}
