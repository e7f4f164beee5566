package variance

import (
	"context"
	"time"
)

// Enqueuer submits snapshot jobs to the background worker.
type Enqueuer interface {
	EnqueueVarianceSnapshot(ctx context.Context, snapshotID int64) error
}

// Service coordinates ad-hoc comparisons and snapshot processing.
type Service struct {
	repo      Repository
	enqueuer  Enqueuer
	companyID int64
	now       func() time.Time
}

// NewService wires the variance service. enqueuer may be nil, in which case
// snapshots stay PENDING until a worker picks them up out of band.
func NewService(repo Repository, enqueuer Enqueuer, companyID int64) *Service {
	return &Service{repo: repo, enqueuer: enqueuer, companyID: companyID, now: time.Now}
}

// Compare runs the comparison synchronously for the two periods.
func (s *Service) Compare(ctx context.Context, p Periods) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	current, err := s.repo.PeriodAmounts(ctx, s.companyID, p.CurrentStart, p.CurrentEnd)
	if err != nil {
		return Result{}, err
	}
	previous, err := s.repo.PeriodAmounts(ctx, s.companyID, p.PreviousStart, p.PreviousEnd)
	if err != nil {
		return Result{}, err
	}
	return Compare(current, previous), nil
}

// RequestSnapshot stores a pending snapshot and hands it to the worker.
func (s *Service) RequestSnapshot(ctx context.Context, p Periods, requestedBy int64) (Snapshot, error) {
	if err := p.Validate(); err != nil {
		return Snapshot{}, err
	}
	snap, err := s.repo.InsertSnapshot(ctx, s.companyID, p, requestedBy)
	if err != nil {
		return Snapshot{}, err
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueVarianceSnapshot(ctx, snap.ID); err != nil {
			return Snapshot{}, err
		}
	}
	return snap, nil
}

// GetSnapshot returns a snapshot with its payload when ready.
func (s *Service) GetSnapshot(ctx context.Context, id int64) (Snapshot, error) {
	return s.repo.GetSnapshot(ctx, id)
}

// ListSnapshots returns the most recent snapshots.
func (s *Service) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	return s.repo.ListSnapshots(ctx, s.companyID, limit)
}

// ProcessSnapshot computes a pending snapshot's payload. Called from the
// worker; failures are recorded on the snapshot rather than retried blindly.
func (s *Service) ProcessSnapshot(ctx context.Context, id int64) error {
	snap, err := s.repo.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, snap.ID, SnapshotInProgress); err != nil {
		return err
	}
	res, err := s.Compare(ctx, snap.Periods)
	if err != nil {
		_ = s.repo.SavePayload(ctx, snap.ID, nil, err.Error(), s.now())
		_ = s.repo.UpdateStatus(ctx, snap.ID, SnapshotFailed)
		return err
	}
	if err := s.repo.SavePayload(ctx, snap.ID, &res, "", s.now()); err != nil {
		_ = s.repo.UpdateStatus(ctx, snap.ID, SnapshotFailed)
		return err
	}
	return s.repo.UpdateStatus(ctx, snap.ID, SnapshotReady)
}
