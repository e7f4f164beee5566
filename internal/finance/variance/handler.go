package variance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hq/meridian/internal/platform/httpx"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Handler exposes period comparisons over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the variance handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers variance routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Compare)
	r.Get("/snapshots", h.ListSnapshots)
	r.Post("/snapshots", h.RequestSnapshot)
	r.Get("/snapshots/{id}", h.GetSnapshot)
}

func parsePeriods(r *http.Request) (Periods, bool) {
	q := r.URL.Query()
	var p Periods
	for _, f := range []struct {
		name string
		dst  *time.Time
	}{
		{"current_start", &p.CurrentStart},
		{"current_end", &p.CurrentEnd},
		{"previous_start", &p.PreviousStart},
		{"previous_end", &p.PreviousEnd},
	} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Periods{}, false
		}
		*f.dst = d
	}
	return p, true
}

// Compare runs the comparison synchronously.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	p, ok := parsePeriods(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid period dates")
		return
	}
	res, err := h.service.Compare(r.Context(), p)
	if err != nil {
		h.respondServiceError(w, err, "compare periods")
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// RequestSnapshot queues a comparison for the background worker.
func (h *Handler) RequestSnapshot(w http.ResponseWriter, r *http.Request) {
	caps := shared.CapabilitiesFromContext(r.Context())
	if !caps.Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	p, ok := parsePeriods(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid period dates")
		return
	}
	snap, err := h.service.RequestSnapshot(r.Context(), p, caps.UserID())
	if err != nil {
		h.respondServiceError(w, err, "request snapshot")
		return
	}
	httpx.JSON(w, http.StatusAccepted, snap)
}

// ListSnapshots returns recent snapshot runs.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	snaps, err := h.service.ListSnapshots(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, err, "list snapshots")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

// GetSnapshot returns one snapshot with its payload when ready.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid snapshot id")
		return
	}
	snap, err := h.service.GetSnapshot(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get snapshot")
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrInvalidPeriods):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
