package ledger

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hq/meridian/internal/platform/httpx"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Handler exposes the ledger over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers ledger routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.View)
	r.Get("/export", h.Export)
}

func parseQuery(r *http.Request) (Query, bool) {
	q := r.URL.Query()
	var out Query
	if raw := q.Get("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			return Query{}, false
		}
		out.AccountID = id
	}
	if raw := q.Get("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Query{}, false
		}
		out.From = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Query{}, false
		}
		out.To = d
	}
	return out, true
}

// View returns ledger rows and the period summary.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	q, ok := parseQuery(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid ledger query")
		return
	}
	rows, sum, err := h.service.View(r.Context(), q)
	if err != nil {
		h.logger.Error("ledger view", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rows": rows, "summary": sum})
}

// Export streams the ledger as a CSV download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	q, ok := parseQuery(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid ledger query")
		return
	}
	doc, err := h.service.ExportView(r.Context(), q)
	if err != nil {
		h.logger.Error("ledger export", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="general-ledger.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
