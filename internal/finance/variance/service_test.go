package variance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	snapshots map[int64]Snapshot
	amounts   map[string][]Amount
	nextID    int64
	failLoad  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{snapshots: map[int64]Snapshot{}, amounts: map[string][]Amount{}}
}

func periodKey(start time.Time) string {
	return start.Format("2006-01-02")
}

func (m *memoryRepo) InsertSnapshot(_ context.Context, companyID int64, p Periods, requestedBy int64) (Snapshot, error) {
	m.nextID++
	s := Snapshot{ID: m.nextID, CompanyID: companyID, Periods: p, Status: SnapshotPending, RequestedBy: requestedBy, CreatedAt: time.Now()}
	m.snapshots[s.ID] = s
	return s, nil
}

func (m *memoryRepo) GetSnapshot(_ context.Context, id int64) (Snapshot, error) {
	s, ok := m.snapshots[id]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return s, nil
}

func (m *memoryRepo) ListSnapshots(_ context.Context, companyID int64, _ int) ([]Snapshot, error) {
	var out []Snapshot
	for _, s := range m.snapshots {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status SnapshotStatus) error {
	s, ok := m.snapshots[id]
	if !ok {
		return ErrSnapshotNotFound
	}
	s.Status = status
	m.snapshots[id] = s
	return nil
}

func (m *memoryRepo) SavePayload(_ context.Context, id int64, payload *Result, errMsg string, at time.Time) error {
	s, ok := m.snapshots[id]
	if !ok {
		return ErrSnapshotNotFound
	}
	s.Payload = payload
	s.Error = errMsg
	s.GeneratedAt = &at
	m.snapshots[id] = s
	return nil
}

func (m *memoryRepo) PeriodAmounts(_ context.Context, _ int64, start, _ time.Time) ([]Amount, error) {
	if m.failLoad != nil {
		return nil, m.failLoad
	}
	return m.amounts[periodKey(start)], nil
}

type recordingEnqueuer struct {
	ids []int64
}

func (r *recordingEnqueuer) EnqueueVarianceSnapshot(_ context.Context, id int64) error {
	r.ids = append(r.ids, id)
	return nil
}

func testPeriods() Periods {
	return Periods{
		CurrentStart:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CurrentEnd:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		PreviousStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PreviousEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	}
}

func TestRequestSnapshotEnqueues(t *testing.T) {
	repo := newMemoryRepo()
	enq := &recordingEnqueuer{}
	svc := NewService(repo, enq, 1)

	snap, err := svc.RequestSnapshot(context.Background(), testPeriods(), 7)
	require.NoError(t, err)
	require.Equal(t, SnapshotPending, snap.Status)
	require.Equal(t, []int64{snap.ID}, enq.ids)

	_, err = svc.RequestSnapshot(context.Background(), Periods{}, 7)
	require.ErrorIs(t, err, ErrInvalidPeriods)
}

func TestProcessSnapshot(t *testing.T) {
	repo := newMemoryRepo()
	p := testPeriods()
	repo.amounts[periodKey(p.CurrentStart)] = []Amount{{AccountCode: "5100", AccountName: "Rent", Section: "Expenses", Inverse: true, Amount: 800}}
	repo.amounts[periodKey(p.PreviousStart)] = []Amount{{AccountCode: "5100", AccountName: "Rent", Section: "Expenses", Inverse: true, Amount: 1000}}
	svc := NewService(repo, nil, 1)

	snap, err := svc.RequestSnapshot(context.Background(), p, 7)
	require.NoError(t, err)

	require.NoError(t, svc.ProcessSnapshot(context.Background(), snap.ID))

	done, err := svc.GetSnapshot(context.Background(), snap.ID)
	require.NoError(t, err)
	require.Equal(t, SnapshotReady, done.Status)
	require.NotNil(t, done.Payload)
	require.NotNil(t, done.GeneratedAt)
	require.Len(t, done.Payload.Lines, 1)
	require.True(t, done.Payload.Lines[0].Favorable)
}

func TestProcessSnapshotFailureIsRecorded(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, 1)

	snap, err := svc.RequestSnapshot(context.Background(), testPeriods(), 7)
	require.NoError(t, err)

	repo.failLoad = errors.New("source unavailable")
	require.Error(t, svc.ProcessSnapshot(context.Background(), snap.ID))

	failed, err := svc.GetSnapshot(context.Background(), snap.ID)
	require.NoError(t, err)
	require.Equal(t, SnapshotFailed, failed.Status)
	require.Equal(t, "source unavailable", failed.Error)
	require.Nil(t, failed.Payload)
}

func TestProcessSnapshotUnknownID(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, 1)
	require.ErrorIs(t, svc.ProcessSnapshot(context.Background(), 99), ErrSnapshotNotFound)
}
