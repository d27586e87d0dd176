package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Basharkhan7776/mudir/internal/platform/httpx"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// Handler serves settings endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *httpx.Validator
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.patch)
	r.Get("/currencies", h.currencies)
	r.Post("/onboarding", h.onboarding)
	r.Post("/clear", h.clear)
	r.Post("/seed", h.seed)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, shared.ErrValidation) {
		h.logger.Error("settings request", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.Get(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, meta)
}

type patchRequest struct {
	Currency         *string `json:"userCurrency"`
	OrganizationName *string `json:"organizationName"`
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx := r.Context()
	if req.Currency != nil {
		if _, err := h.service.SetCurrency(ctx, *req.Currency); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if req.OrganizationName != nil {
		if _, err := h.service.SetOrganizationName(ctx, *req.OrganizationName); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.get(w, r)
}

func (h *Handler) currencies(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, SupportedCurrencies())
}

func (h *Handler) onboarding(w http.ResponseWriter, r *http.Request) {
	var input OnboardingInput
	if err := httpx.DecodeAndValidate(r, h.validator, &input); err != nil {
		h.fail(w, r, err)
		return
	}
	meta, err := h.service.CompleteOnboarding(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, meta)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.ClearData(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("database cleared")
	httpx.JSON(w, http.StatusOK, meta)
}

func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LoadSeed(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}
