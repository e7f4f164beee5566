package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-hq/meridian/internal/finance/accounts"
	"github.com/meridian-hq/meridian/internal/finance/aging"
	"github.com/meridian-hq/meridian/internal/finance/journal"
	"github.com/meridian-hq/meridian/internal/finance/ledger"
	"github.com/meridian-hq/meridian/internal/finance/reports"
	"github.com/meridian-hq/meridian/internal/finance/variance"
	"github.com/meridian-hq/meridian/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AccountsHandler *accounts.Handler
	JournalHandler  *journal.Handler
	LedgerHandler   *ledger.Handler
	ReportsHandler  *reports.Handler
	AgingHandler    *aging.Handler
	VarianceHandler *variance.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/finance", func(r chi.Router) {
		if params.AccountsHandler != nil {
			r.Route("/accounts", params.AccountsHandler.MountRoutes)
		}
		if params.JournalHandler != nil {
			r.Route("/journal-entries", params.JournalHandler.MountRoutes)
		}
		if params.LedgerHandler != nil {
			r.Route("/ledger", params.LedgerHandler.MountRoutes)
		}
		if params.ReportsHandler != nil {
			r.Route("/reports", params.ReportsHandler.MountRoutes)
		}
		if params.AgingHandler != nil {
			r.Route("/aging", params.AgingHandler.MountRoutes)
		}
		if params.VarianceHandler != nil {
			r.Route("/variance", params.VarianceHandler.MountRoutes)
		}
	})

	return r
}
