package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type JobTrigger string

const (
	TriggerScheduled JobTrigger = "scheduled"
	TriggerManual    JobTrigger = "manual"
)

// JobRun is the history record of one job execution, successful or not.
type JobRun struct {
	ID         uuid.UUID
	JobName    string
	Trigger    JobTrigger
	StartedAt  time.Time
	FinishedAt time.Time
	Affected   int64
	Error      string
}

func (r *JobRun) Succeeded() bool {
	return r.Error == ""
}

func (r *JobRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type JobRunRepository interface {
	Record(ctx context.Context, run *JobRun) error
	ListByJob(ctx context.Context, jobName string, limit int) ([]*JobRun, error)
}
