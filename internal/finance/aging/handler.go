package aging

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hq/meridian/internal/platform/httpx"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Handler exposes aged payables and receivables over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the aging handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers aging routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/payables", h.report(Payables, "Vendor", "aged-payables.csv"))
	r.Get("/receivables", h.report(Receivables, "Customer", "aged-receivables.csv"))
}

func (h *Handler) report(side Side, label, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
			httpx.RespondError(w, httpx.ErrForbidden)
			return
		}
		q := r.URL.Query()
		var asOf time.Time
		if raw := q.Get("as_of"); raw != "" {
			d, err := time.Parse("2006-01-02", raw)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid as_of date")
				return
			}
			asOf = d
		}
		grouped := q.Get("grouped") == "true"
		rep, err := h.service.Build(r.Context(), side, asOf, grouped)
		if err != nil {
			h.logger.Error("aging report", slog.String("side", string(side)), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		if q.Get("export") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(ExportCSV(rep.ExportRows(), rep.Totals, label)))
			return
		}
		httpx.JSON(w, http.StatusOK, rep)
	}
}
