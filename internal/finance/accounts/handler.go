package accounts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hq/meridian/internal/platform/httpx"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Handler exposes the chart of accounts over HTTP.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler constructs the accounts handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger, validate: validator.New()}
}

// MountRoutes registers account routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/toggle-active", h.ToggleActive)
	r.Get("/{id}/possible-parents", h.PossibleParents)
	r.Post("/initialize", h.Initialize)
}

type accountPayload struct {
	Code           string  `json:"code" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	TypeID         int64   `json:"account_type_id" validate:"required,gt=0"`
	ParentID       *int64  `json:"parent_id"`
	Currency       string  `json:"currency" validate:"omitempty,len=3"`
	OpeningBalance float64 `json:"opening_balance"`
	IsActive       *bool   `json:"is_active"`
}

func (p accountPayload) toInput() CreateInput {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return CreateInput{
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		TypeID:         p.TypeID,
		ParentID:       p.ParentID,
		Currency:       p.Currency,
		OpeningBalance: p.OpeningBalance,
		IsActive:       active,
	}
}

type accountView struct {
	Account
	IndentLevel    int    `json:"indent_level"`
	TypeName       string `json:"type_name"`
	BalanceDisplay string `json:"balance_display"`
}

type groupView struct {
	Type     AccountType   `json:"type"`
	Accounts []accountView `json:"accounts"`
}

// List returns accounts grouped by type with the listing filters applied.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	q := r.URL.Query()
	typeID, _ := strconv.ParseInt(q.Get("type_id"), 10, 64)
	f := Filter{
		Query:  q.Get("q"),
		TypeID: typeID,
		Status: StatusFilter(q.Get("status")),
		SortBy: SortBy(q.Get("sort")),
	}
	chart, err := h.service.LoadChart(r.Context())
	if err != nil {
		h.logger.Error("load chart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	tree := NewTree(chart.Accounts)
	idx := NewTypeIndex(chart.Types)
	groups := GroupByType(chart.Accounts, chart.Types, f)
	out := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views := make([]accountView, 0, len(g.Accounts))
		for _, a := range g.Accounts {
			views = append(views, accountView{
				Account:        a,
				IndentLevel:    tree.IndentLevel(a),
				TypeName:       idx.Name(a.TypeID),
				BalanceDisplay: shared.FormatMoney(a.CurrentBalance, a.Currency),
			})
		}
		out = append(out, groupView{Type: g.Type, Accounts: views})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"groups": out})
}

// Create adds an account.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceCreate) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	var payload accountPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Code, name, and account type are required")
		return
	}
	created, err := h.service.Create(r.Context(), payload.toInput())
	if err != nil {
		h.respondServiceError(w, err, "create account")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Update rewrites an account.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceEdit) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}
	var payload accountPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Code, name, and account type are required")
		return
	}
	updated, err := h.service.Update(r.Context(), id, payload.toInput())
	if err != nil {
		h.respondServiceError(w, err, "update account")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// ToggleActive activates or deactivates an account.
func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceEdit) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}
	a, err := h.service.ToggleActive(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "toggle account")
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// PossibleParents lists valid parent candidates for the account form.
func (h *Handler) PossibleParents(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	excludeID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	typeID, err := strconv.ParseInt(r.URL.Query().Get("type_id"), 10, 64)
	if err != nil || typeID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "type_id is required")
		return
	}
	chart, err := h.service.LoadChart(r.Context())
	if err != nil {
		h.logger.Error("load chart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, PossibleParents(chart.Accounts, typeID, excludeID))
}

// Initialize seeds the stock chart of accounts.
func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceCreate) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	if err := h.service.InitializeDefaultChart(r.Context()); err != nil {
		h.respondServiceError(w, err, "initialize chart")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"status": "initialized"})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrDuplicateCode):
		httpx.Problem(w, http.StatusConflict, "Duplicate", "An account with this code already exists")
	case errors.Is(err, ErrSystemAccount):
		httpx.Problem(w, http.StatusConflict, "Protected", "Cannot deactivate a system account")
	case errors.Is(err, ErrChartNotEmpty):
		httpx.Problem(w, http.StatusConflict, "Conflict", "Chart of accounts already initialised")
	case errors.Is(err, ErrAccountNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case err != nil && strings.HasPrefix(err.Error(), "accounts:"):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", strings.TrimSpace(strings.TrimPrefix(err.Error(), "accounts:")))
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
