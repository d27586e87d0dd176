package inventory

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Basharkhan7776/mudir/internal/fields"
	"github.com/Basharkhan7776/mudir/internal/platform/httpx"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// CurrencySource supplies the currency symbol used when formatting items.
type CurrencySource interface {
	Currency(ctx context.Context) string
}

// Handler serves collection and item endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	currency  CurrencySource
	validator *httpx.Validator
	location  *time.Location
	clock     shared.Clock
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, currency CurrencySource, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{logger: logger, service: service, currency: currency, validator: httpx.NewValidator(), location: loc, clock: service.clock}
}

// MountRoutes registers collection routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCollections)
	r.Post("/", h.createCollection)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.getCollection)
		r.Put("/", h.updateCollection)
		r.Delete("/", h.deleteCollection)

		r.Put("/schema", h.replaceSchema)
		r.Post("/schema/fields", h.addField)
		r.Patch("/schema/fields/{index}", h.editField)
		r.Delete("/schema/fields/{index}", h.removeField)
		r.Post("/schema/fields/{index}/options", h.addOption)
		r.Delete("/schema/fields/{index}/options/{option}", h.removeOption)

		r.Get("/items", h.listItems)
		r.Post("/items", h.addItem)
		r.Post("/items/delete", h.deleteItems)
		r.Get("/items/{itemID}", h.getItem)
		r.Patch("/items/{itemID}", h.updateItem)
		r.Delete("/items/{itemID}", h.deleteItem)
		r.Get("/items/{itemID}/display", h.displayItem)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !isNotFound(err) && !isValidation(err) {
		h.logger.Error("inventory request", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := h.service.ListCollections(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cols)
}

func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	var input CollectionInput
	if err := httpx.DecodeAndValidate(r, h.validator, &input); err != nil {
		h.fail(w, r, err)
		return
	}
	col, err := h.service.CreateCollection(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, col)
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	col, err := h.service.GetCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, col)
}

func (h *Handler) updateCollection(w http.ResponseWriter, r *http.Request) {
	var input CollectionInput
	if err := httpx.DecodeAndValidate(r, h.validator, &input); err != nil {
		h.fail(w, r, err)
		return
	}
	col, err := h.service.UpdateCollection(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, col)
}

func (h *Handler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}

type schemaRequest struct {
	Schema []SchemaField `json:"schema" validate:"required,min=1"`
}

func (h *Handler) replaceSchema(w http.ResponseWriter, r *http.Request) {
	var req schemaRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	col, err := h.service.UpdateSchema(r.Context(), chi.URLParam(r, "id"), req.Schema)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, col)
}

func (h *Handler) editSchema(w http.ResponseWriter, r *http.Request, fn func([]SchemaField) ([]SchemaField, error)) {
	col, err := h.service.EditSchema(r.Context(), chi.URLParam(r, "id"), fn)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, col.Schema)
}

func (h *Handler) addField(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	h.editSchema(w, r, func(schema []SchemaField) ([]SchemaField, error) {
		return AddField(schema, now), nil
	})
}

func fieldIndex(r *http.Request) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, shared.NewValidationError("field index must be a number", "index")
	}
	return idx, nil
}

type fieldPatch struct {
	Label        *string       `json:"label"`
	Type         *fields.Type  `json:"type"`
	Required     *bool         `json:"required"`
	DefaultValue *fields.Value `json:"defaultValue"`
	ClearDefault bool          `json:"clearDefault"`
}

func (h *Handler) editField(w http.ResponseWriter, r *http.Request) {
	idx, err := fieldIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var patch fieldPatch
	if err := httpx.DecodeAndValidate(r, h.validator, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	h.editSchema(w, r, func(schema []SchemaField) ([]SchemaField, error) {
		var err error
		if patch.Label != nil {
			if schema, err = RenameField(schema, idx, *patch.Label); err != nil {
				return nil, err
			}
		}
		if patch.Type != nil {
			if schema, err = SetFieldType(schema, idx, *patch.Type); err != nil {
				return nil, err
			}
		}
		if patch.Required != nil {
			if schema, err = SetRequired(schema, idx, *patch.Required); err != nil {
				return nil, err
			}
		}
		switch {
		case patch.ClearDefault:
			schema, err = SetDefault(schema, idx, fields.Null())
		case patch.DefaultValue != nil:
			schema, err = SetDefault(schema, idx, *patch.DefaultValue)
		}
		return schema, err
	})
}

func (h *Handler) removeField(w http.ResponseWriter, r *http.Request) {
	idx, err := fieldIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.editSchema(w, r, func(schema []SchemaField) ([]SchemaField, error) {
		return RemoveField(schema, idx), nil
	})
}

type optionRequest struct {
	Option string `json:"option" validate:"required"`
}

func (h *Handler) addOption(w http.ResponseWriter, r *http.Request) {
	idx, err := fieldIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req optionRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.editSchema(w, r, func(schema []SchemaField) ([]SchemaField, error) {
		return AddOption(schema, idx, req.Option)
	})
}

func (h *Handler) removeOption(w http.ResponseWriter, r *http.Request) {
	idx, err := fieldIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	option, err := url.PathUnescape(chi.URLParam(r, "option"))
	if err != nil {
		h.fail(w, r, shared.NewValidationError("invalid option", "option"))
		return
	}
	h.editSchema(w, r, func(schema []SchemaField) ([]SchemaField, error) {
		return RemoveOption(schema, idx, option)
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	col, err := h.service.GetCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, col.Data)
}

type itemRequest struct {
	Values fields.Values `json:"values"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), req.Values)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Values)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID")); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}

type batchDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (h *Handler) deleteItems(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	removed, err := h.service.DeleteItems(r.Context(), chi.URLParam(r, "id"), req.IDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (h *Handler) displayItem(w http.ResponseWriter, r *http.Request) {
	symbol := ""
	if h.currency != nil {
		symbol = h.currency.Currency(r.Context())
	}
	out, err := h.service.DisplayItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), symbol, h.location)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

