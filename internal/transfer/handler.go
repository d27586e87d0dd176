package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Basharkhan7776/mudir/internal/platform/httpx"
	"github.com/Basharkhan7776/mudir/internal/shared"
)

const maxImportBytes = 32 << 20

// Handler serves export and import endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers transfer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/import", h.importDocument)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := h.service.Export(r.Context(), &buf)
	if err != nil {
		h.logger.Error("export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) importDocument(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Import(r.Context(), io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		if !errors.Is(err, shared.ErrImportFormat) {
			h.logger.Error("import", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap.Meta)
}
