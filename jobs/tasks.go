package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskVarianceSnapshot computes a requested period comparison.
	TaskVarianceSnapshot = "variance:snapshot"
	// TaskIdempotencyCleanup prunes expired idempotency keys.
	TaskIdempotencyCleanup = "maintenance:idempotency_cleanup"
	// TaskReportWarmup pre-populates the report cache for a company.
	TaskReportWarmup = "reports:warmup"
)

// VarianceSnapshotPayload identifies the snapshot to compute.
type VarianceSnapshotPayload struct {
	SnapshotID int64 `json:"snapshot_id"`
}

// NewVarianceSnapshotTask constructs an Asynq task.
func NewVarianceSnapshotTask(payload VarianceSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVarianceSnapshot, data), nil
}

// IdempotencyCleanupPayload bounds the retention window.
type IdempotencyCleanupPayload struct {
	OlderThanHours int `json:"older_than_hours"`
}

// NewIdempotencyCleanupTask constructs an Asynq task.
func NewIdempotencyCleanupTask(payload IdempotencyCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}

// ReportWarmupPayload selects the company whose statements get warmed.
type ReportWarmupPayload struct {
	CompanyID int64 `json:"company_id"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
