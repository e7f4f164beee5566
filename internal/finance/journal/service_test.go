package journal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory Repository with transactional semantics: state
// is snapshotted on WithTx and restored when the callback fails.
type memoryRepo struct {
	entries  map[int64]Entry
	lines    map[int64][]Line
	balances map[int64]float64
	normals  map[int64]string
	keys     map[string]bool
	nextID   int64
	seq      int64

	failReplace error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		entries:  map[int64]Entry{},
		lines:    map[int64][]Line{},
		balances: map[int64]float64{},
		normals:  map[int64]string{1: "debit", 2: "credit", 3: "debit"},
		keys:     map[string]bool{},
	}
}

func (m *memoryRepo) List(_ context.Context, companyID int64) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetWithLines(_ context.Context, id int64) (Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	e.Lines = append([]Line(nil), m.lines[id]...)
	return e, nil
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snap := m.snapshot()
	if err := fn(ctx, (*memoryTx)(m)); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memState struct {
	entries  map[int64]Entry
	lines    map[int64][]Line
	balances map[int64]float64
	keys     map[string]bool
	nextID   int64
	seq      int64
}

func (m *memoryRepo) snapshot() memState {
	s := memState{
		entries:  map[int64]Entry{},
		lines:    map[int64][]Line{},
		balances: map[int64]float64{},
		keys:     map[string]bool{},
		nextID:   m.nextID,
		seq:      m.seq,
	}
	for k, v := range m.entries {
		s.entries[k] = v
	}
	for k, v := range m.lines {
		s.lines[k] = append([]Line(nil), v...)
	}
	for k, v := range m.balances {
		s.balances[k] = v
	}
	for k := range m.keys {
		s.keys[k] = true
	}
	return s
}

func (m *memoryRepo) restore(s memState) {
	m.entries, m.lines, m.balances, m.keys, m.nextID, m.seq = s.entries, s.lines, s.balances, s.keys, s.nextID, s.seq
}

type memoryTx memoryRepo

func (m *memoryTx) InsertEntry(_ context.Context, e Entry) (Entry, error) {
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.entries[e.ID] = e
	return e, nil
}

func (m *memoryTx) UpdateEntryHeader(_ context.Context, e Entry) error {
	stored, ok := m.entries[e.ID]
	if !ok {
		return ErrEntryNotFound
	}
	stored.EntryDate = e.EntryDate
	stored.Reference = e.Reference
	stored.Description = e.Description
	stored.SourceType = e.SourceType
	m.entries[e.ID] = stored
	return nil
}

func (m *memoryTx) DeleteEntry(_ context.Context, id int64) error {
	if _, ok := m.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(m.entries, id)
	delete(m.lines, id)
	return nil
}

func (m *memoryTx) GetEntryForUpdate(_ context.Context, id int64) (Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return e, nil
}

func (m *memoryTx) GetLines(_ context.Context, entryID int64) ([]Line, error) {
	return append([]Line(nil), m.lines[entryID]...), nil
}

func (m *memoryTx) ReplaceLines(_ context.Context, entryID int64, lines []Line) error {
	if m.failReplace != nil {
		return m.failReplace
	}
	m.lines[entryID] = append([]Line(nil), lines...)
	return nil
}

func (m *memoryTx) UpdateTotals(_ context.Context, entryID int64, debit, credit float64) error {
	e, ok := m.entries[entryID]
	if !ok {
		return ErrEntryNotFound
	}
	e.TotalDebit, e.TotalCredit = debit, credit
	m.entries[entryID] = e
	return nil
}

func (m *memoryTx) NextEntryNumber(_ context.Context, _ int64) (string, error) {
	m.seq++
	return fmt.Sprintf("JE-%06d", m.seq), nil
}

func (m *memoryTx) MarkPosted(_ context.Context, id int64, number string, at time.Time) error {
	e, ok := m.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	e.IsPosted = true
	e.EntryNumber = number
	e.PostedAt = &at
	m.entries[id] = e
	return nil
}

func (m *memoryTx) MarkVoided(_ context.Context, id int64, by int64, reason string, at time.Time) error {
	e, ok := m.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	e.VoidedAt = &at
	e.VoidedBy = &by
	e.VoidReason = reason
	m.entries[id] = e
	return nil
}

func (m *memoryTx) ApplyToBalances(_ context.Context, lines []Line, sign float64) error {
	for _, l := range lines {
		delta := l.Debit - l.Credit
		if m.normals[l.AccountID] == "credit" {
			delta = l.Credit - l.Debit
		}
		m.balances[l.AccountID] += sign * delta
	}
	return nil
}

func (m *memoryTx) ClaimIdempotencyKey(_ context.Context, key, _ string) error {
	if m.keys[key] {
		return ErrDuplicateRequest
	}
	m.keys[key] = true
	return nil
}

func newTestService(repo *memoryRepo) *Service {
	s := NewService(repo, 1)
	s.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	return s
}

func rentDraft() DraftInput {
	return DraftInput{
		EntryDate:   day(2026, 3, 1),
		Description: "March rent",
		CreatedBy:   7,
		Lines: []LineInput{
			{AccountID: 3, Description: "Rent expense", Debit: 500},
			{AccountID: 1, Description: "Paid from bank", Credit: 500},
		},
	}
}

func TestCreateDraft(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	created, err := svc.CreateDraft(context.Background(), rentDraft())
	require.NoError(t, err)
	require.Equal(t, StatusDraft, created.Status())
	require.Empty(t, created.EntryNumber, "numbers are assigned at posting")
	require.Equal(t, 500.0, created.TotalDebit)
	require.Equal(t, 500.0, created.TotalCredit)
	require.Len(t, created.Lines, 2)
	require.Equal(t, 0, created.Lines[0].LineOrder)
	require.Equal(t, SourceManual, created.SourceType)
}

func TestCreateDraftRejectsInvalid(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	in := rentDraft()
	in.Description = ""
	_, err := svc.CreateDraft(context.Background(), in)
	require.ErrorIs(t, err, ErrMissingHeader)

	in = rentDraft()
	in.Lines = in.Lines[:1]
	_, err = svc.CreateDraft(context.Background(), in)
	require.ErrorIs(t, err, ErrTooFewLines)

	require.Empty(t, repo.entries, "nothing persisted on validation failure")
}

func TestCreateDraftAllowsUnbalanced(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	in := rentDraft()
	in.Lines[1].Credit = 400
	created, err := svc.CreateDraft(context.Background(), in)
	require.NoError(t, err, "drafts may be saved unbalanced")
	require.Equal(t, 500.0, created.TotalDebit)
	require.Equal(t, 400.0, created.TotalCredit)
}

func TestUpdateDraftReplacesLines(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.CreateDraft(ctx, rentDraft())
	require.NoError(t, err)

	in := rentDraft()
	in.Description = "March rent, corrected"
	in.Lines = []LineInput{
		{AccountID: 3, Debit: 650},
		{AccountID: 1, Credit: 600},
		{AccountID: 2, Credit: 50},
	}
	updated, err := svc.UpdateDraft(ctx, created.ID, in)
	require.NoError(t, err)
	require.Equal(t, "March rent, corrected", updated.Description)
	require.Len(t, updated.Lines, 3)
	require.Equal(t, 650.0, updated.TotalDebit)
	require.Equal(t, []int{0, 1, 2}, lineOrders(updated.Lines))
}

func TestUpdateDraftRollsBackOnFailure(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.CreateDraft(ctx, rentDraft())
	require.NoError(t, err)

	repo.failReplace = errors.New("disk full")
	in := rentDraft()
	in.Description = "should not stick"
	_, err = svc.UpdateDraft(ctx, created.ID, in)
	require.Error(t, err)

	repo.failReplace = nil
	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "March rent", after.Description, "header change rolled back with the lines")
	require.Len(t, after.Lines, 2)
}

func TestPost(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.CreateDraft(ctx, rentDraft())
	require.NoError(t, err)

	posted, err := svc.Post(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPosted, posted.Status())
	require.Equal(t, "JE-000001", posted.EntryNumber)
	require.NotNil(t, posted.PostedAt)
	require.Equal(t, -500.0, repo.balances[1], "bank is debit-normal, credited 500")
	require.Equal(t, 500.0, repo.balances[3], "expense is debit-normal, debited 500")

	_, err = svc.Post(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotDraft)
}

func TestPostRejectsUnbalancedStoredLines(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := rentDraft()
	in.Lines[1].Credit = 400
	created, err := svc.CreateDraft(ctx, in)
	require.NoError(t, err)

	_, err = svc.Post(ctx, created.ID)
	require.ErrorIs(t, err, ErrUnbalanced)

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, after.Status())
	require.Empty(t, repo.balances)
}

func TestPostNumbersAreSequential(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.CreateAndPost(ctx, rentDraft(), "key-1")
	require.NoError(t, err)
	second, err := svc.CreateAndPost(ctx, rentDraft(), "key-2")
	require.NoError(t, err)
	require.Equal(t, "JE-000001", first.EntryNumber)
	require.Equal(t, "JE-000002", second.EntryNumber)
}

func TestCreateAndPostIdempotency(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.CreateAndPost(ctx, rentDraft(), "retry-key")
	require.NoError(t, err)

	_, err = svc.CreateAndPost(ctx, rentDraft(), "retry-key")
	require.ErrorIs(t, err, ErrDuplicateRequest)
	require.Len(t, repo.entries, 1, "replay creates no second entry")
}

func TestCreateAndPostRejectsUnbalancedBeforePersisting(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	in := rentDraft()
	in.Lines[1].Credit = 400
	_, err := svc.CreateAndPost(context.Background(), in, "key")
	require.ErrorIs(t, err, ErrUnbalanced)
	require.Empty(t, repo.entries)
	require.False(t, repo.keys["key"], "key not burned on validation failure")
}

func TestVoid(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	posted, err := svc.CreateAndPost(ctx, rentDraft(), "k")
	require.NoError(t, err)
	require.Equal(t, 500.0, repo.balances[3])

	_, err = svc.Void(ctx, posted.ID, 9, "  ")
	require.ErrorIs(t, err, ErrVoidReason)

	voided, err := svc.Void(ctx, posted.ID, 9, "Duplicate entry")
	require.NoError(t, err)
	require.Equal(t, StatusVoided, voided.Status())
	require.Equal(t, "Duplicate entry", voided.VoidReason)
	require.Equal(t, int64(9), *voided.VoidedBy)
	require.Zero(t, repo.balances[1], "ledger effect reversed")
	require.Zero(t, repo.balances[3])
	require.Len(t, voided.Lines, 2, "lines kept for history")

	_, err = svc.Void(ctx, posted.ID, 9, "Again")
	require.ErrorIs(t, err, ErrAlreadyVoided)
}

func TestVoidRequiresPosted(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.CreateDraft(ctx, rentDraft())
	require.NoError(t, err)

	_, err = svc.Void(ctx, created.ID, 9, "Nope")
	require.ErrorIs(t, err, ErrNotPosted)
}

func TestPostVoidedEntryFails(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	posted, err := svc.CreateAndPost(ctx, rentDraft(), "k")
	require.NoError(t, err)
	_, err = svc.Void(ctx, posted.ID, 9, "dup")
	require.NoError(t, err)

	_, err = svc.Post(ctx, posted.ID)
	require.ErrorIs(t, err, ErrAlreadyVoided)
}

func TestDeleteDraft(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.CreateDraft(ctx, rentDraft())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteDraft(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrEntryNotFound)

	posted, err := svc.CreateAndPost(ctx, rentDraft(), "k")
	require.NoError(t, err)
	require.ErrorIs(t, svc.DeleteDraft(ctx, posted.ID), ErrNotDraft)
}

func TestListWithStats(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, rentDraft())
	require.NoError(t, err)
	_, err = svc.CreateAndPost(ctx, rentDraft(), "k")
	require.NoError(t, err)

	entries, stats, err := svc.List(ctx, Filter{Status: StatusPosted})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 2, stats.Total, "stats cover the unfiltered set")
	require.Equal(t, 1, stats.Drafts)
	require.Equal(t, 1, stats.PostedThisMonth)
	require.Equal(t, 500.0, stats.DebitsThisMonth)
}

func lineOrders(lines []Line) []int {
	out := make([]int, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.LineOrder)
	}
	return out
}
