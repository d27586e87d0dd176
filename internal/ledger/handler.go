package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Basharkhan7776/mudir/internal/platform/httpx"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// CurrencySource supplies the currency symbol for statements.
type CurrencySource interface {
	Currency(ctx context.Context) string
}

// Handler serves ledger endpoints.
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

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.addOrganization)
	r.Get("/summary", h.summary)
	r.Route("/{orgID}", func(r chi.Router) {
		r.Get("/", h.getEntry)
		r.Patch("/", h.updateOrganization)
		r.Delete("/", h.deleteOrganization)
		r.Get("/statement", h.statement)
		r.Post("/transactions", h.addTransaction)
		r.Post("/transactions/delete", h.deleteTransactions)
		r.Patch("/transactions/{txnID}", h.updateTransaction)
		r.Delete("/transactions/{txnID}", h.deleteTransaction)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrValidation) {
		h.logger.Error("ledger request", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, Summaries(entries))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, Summary(entries))
}

func (h *Handler) addOrganization(w http.ResponseWriter, r *http.Request) {
	var input OrganizationInput
	if err := httpx.DecodeAndValidate(r, h.validator, &input); err != nil {
		h.fail(w, r, err)
		return
	}
	org, err := h.service.AddOrganization(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, org)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetEntry(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) updateOrganization(w http.ResponseWriter, r *http.Request) {
	var patch OrganizationPatch
	if err := httpx.DecodeAndValidate(r, h.validator, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	org, err := h.service.UpdateOrganization(r.Context(), chi.URLParam(r, "orgID"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) deleteOrganization(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrganization(r.Context(), chi.URLParam(r, "orgID")); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var input TransactionInput
	if err := httpx.DecodeAndValidate(r, h.validator, &input); err != nil {
		h.fail(w, r, err)
		return
	}
	txn, err := h.service.AddTransaction(r.Context(), chi.URLParam(r, "orgID"), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, txn)
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch TransactionPatch
	if err := httpx.DecodeAndValidate(r, h.validator, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	txn, err := h.service.UpdateTransaction(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "txnID"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, txn)
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTransaction(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "txnID")); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}

type batchDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (h *Handler) deleteTransactions(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	removed, err := h.service.DeleteTransactions(r.Context(), chi.URLParam(r, "orgID"), req.IDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetEntry(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	now := h.clock.Now()
	if r.URL.Query().Get("format") != "xlsx" {
		httpx.JSON(w, http.StatusOK, BuildStatement(entry, now, h.location))
		return
	}

	symbol := ""
	if h.currency != nil {
		symbol = h.currency.Currency(r.Context())
	}
	var buf bytes.Buffer
	if err := WriteStatementXLSX(&buf, entry, symbol, h.location); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", StatementFileName(entry.Organization, now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
