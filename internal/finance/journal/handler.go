package journal

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-hq/meridian/internal/platform/httpx"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Handler exposes journal entries over HTTP.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler constructs the journal handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger, validate: validator.New()}
}

// MountRoutes registers journal routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/post", h.CreateAndPost)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/post", h.Post)
	r.Post("/{id}/void", h.Void)
}

type linePayload struct {
	AccountID   int64   `json:"account_id"`
	Description string  `json:"description"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type entryPayload struct {
	EntryDate   string        `json:"entry_date" validate:"required"`
	Reference   string        `json:"reference"`
	Description string        `json:"description" validate:"required"`
	SourceType  string        `json:"source_type"`
	Lines       []linePayload `json:"lines" validate:"required,min=2"`
}

func (p entryPayload) toInput(userID int64) (DraftInput, error) {
	date, err := time.Parse("2006-01-02", p.EntryDate)
	if err != nil {
		return DraftInput{}, ErrMissingHeader
	}
	lines := make([]LineInput, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, LineInput{AccountID: l.AccountID, Description: l.Description, Debit: l.Debit, Credit: l.Credit})
	}
	return DraftInput{
		EntryDate:   date,
		Reference:   p.Reference,
		Description: p.Description,
		SourceType:  SourceType(p.SourceType),
		CreatedBy:   userID,
		Lines:       lines,
	}, nil
}

type entryView struct {
	Entry
	Status Status `json:"status"`
}

func toView(e Entry) entryView {
	return entryView{Entry: e, Status: e.Status()}
}

// List returns entries with filters applied plus the dashboard stats.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	q := r.URL.Query()
	f := Filter{
		Query:  q.Get("q"),
		Status: Status(q.Get("status")),
		Source: SourceType(q.Get("source")),
		SortBy: q.Get("sort"),
	}
	entries, stats, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list entries", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	pg := shared.NewPagination(page, perPage, len(entries))
	start, end := pg.Bounds()
	views := make([]entryView, 0, end-start)
	for _, e := range entries[start:end] {
		views = append(views, toView(e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": views, "stats": stats, "pagination": pg})
}

// Get returns one entry with its lines.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceView) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get entry")
		return
	}
	httpx.JSON(w, http.StatusOK, toView(e))
}

// Create saves a new draft.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceCreate) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	in, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateDraft(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, err, "create entry")
		return
	}
	httpx.JSON(w, http.StatusCreated, toView(created))
}

// Update replaces a draft's header and full line set.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceEdit) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	updated, err := h.service.UpdateDraft(r.Context(), id, in)
	if err != nil {
		h.respondServiceError(w, err, "update entry")
		return
	}
	httpx.JSON(w, http.StatusOK, toView(updated))
}

// Delete removes a draft.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinanceEdit) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteDraft(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "delete entry")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Post transitions a draft to posted.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinancePost) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	posted, err := h.service.Post(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "post entry")
		return
	}
	httpx.JSON(w, http.StatusOK, toView(posted))
}

// CreateAndPost saves and posts in one transaction. The Idempotency-Key
// header guards against duplicate submissions; when absent one is generated,
// which still groups retries behind the same proxy replay.
func (h *Handler) CreateAndPost(w http.ResponseWriter, r *http.Request) {
	if !shared.CapabilitiesFromContext(r.Context()).Has(shared.CapFinancePost) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	in, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		key = uuid.NewString()
	}
	created, err := h.service.CreateAndPost(r.Context(), in, key)
	if err != nil {
		h.respondServiceError(w, err, "create and post entry")
		return
	}
	httpx.JSON(w, http.StatusCreated, toView(created))
}

type voidPayload struct {
	Reason string `json:"reason"`
}

// Void reverses a posted entry.
func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	caps := shared.CapabilitiesFromContext(r.Context())
	if !caps.Has(shared.CapFinancePost) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	var payload voidPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	voided, err := h.service.Void(r.Context(), id, caps.UserID(), payload.Reason)
	if err != nil {
		h.respondServiceError(w, err, "void entry")
		return
	}
	httpx.JSON(w, http.StatusOK, toView(voided))
}

func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid entry id")
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (DraftInput, bool) {
	var payload entryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return DraftInput{}, false
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", ErrMissingHeader.Error())
		return DraftInput{}, false
	}
	in, err := payload.toInput(shared.CapabilitiesFromContext(r.Context()).UserID())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", ErrMissingHeader.Error())
		return DraftInput{}, false
	}
	return in, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrDuplicateRequest):
		httpx.Problem(w, http.StatusConflict, "Duplicate Request", err.Error())
	case errors.Is(err, ErrNotDraft), errors.Is(err, ErrNotPosted), errors.Is(err, ErrAlreadyVoided):
		httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
	case errors.Is(err, ErrMissingHeader), errors.Is(err, ErrTooFewLines),
		errors.Is(err, ErrUnbalanced), errors.Is(err, ErrVoidReason):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrPostingFailed):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Posting Failed", ErrPostingFailed.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
