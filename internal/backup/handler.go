package backup

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Basharkhan7776/mudir/internal/platform/httpx"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

// Handler serves backup endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *httpx.Validator
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers backup routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/restore", h.restore)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrObjectNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrImportFormat) {
		h.logger.Error("backup request", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	keys, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.Create(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"key": key})
}

type restoreRequest struct {
	Key string `json:"key" validate:"required"`
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	snap, err := h.service.Restore(r.Context(), req.Key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap.Meta)
}
