package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hq/meridian/internal/platform/httpx"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Handler exposes the financial statements over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers report routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.TrialBalance)
	r.Get("/balance-sheet", h.BalanceSheet)
	r.Get("/profit-loss", h.ProfitLoss)
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	d, err := time.Parse("2006-01-02", raw)
	return d, err == nil
}

// TrialBalance serves the trial balance, as JSON or CSV.
func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	q := r.URL.Query()
	asOf, ok := parseDate(q.Get("as_of"))
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid as_of date")
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), asOf, q.Get("hide_zero") == "true")
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if q.Get("export") == "csv" {
		writeCSV(w, "trial-balance.csv", TrialBalanceCSV(tb))
		return
	}
	httpx.JSON(w, http.StatusOK, tb)
}

// BalanceSheet serves the balance sheet, as JSON or CSV.
func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	q := r.URL.Query()
	asOf, ok := parseDate(q.Get("as_of"))
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid as_of date")
		return
	}
	bs, err := h.service.BalanceSheet(r.Context(), asOf)
	if err != nil {
		h.logger.Error("balance sheet", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if q.Get("export") == "csv" {
		writeCSV(w, "balance-sheet.csv", BalanceSheetCSV(bs))
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

// ProfitLoss serves the P&L for a period, as JSON or CSV.
func (h *Handler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	q := r.URL.Query()
	start, okStart := parseDate(q.Get("start"))
	end, okEnd := parseDate(q.Get("end"))
	if !okStart || !okEnd {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid period dates")
		return
	}
	pl, err := h.service.ProfitLoss(r.Context(), Period{Start: start, End: end})
	if err != nil {
		h.logger.Error("profit loss", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if q.Get("export") == "csv" {
		writeCSV(w, "profit-loss.csv", ProfitLossCSV(pl))
		return
	}
	httpx.JSON(w, http.StatusOK, pl)
}

func writeCSV(w http.ResponseWriter, filename, doc string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
