package v1

import (
	"context"

	"github.com/billops/backoffice/internal/domain"
	"github.com/billops/backoffice/internal/scheduler"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Obligations() domain.ObligationRepository
	Accounts() domain.AccountRepository
	JobRuns() domain.JobRunRepository
}

// JobRunner abstracts the scheduler's manual trigger surface for handler
// testing. *scheduler.Scheduler satisfies this interface.
type JobRunner interface {
	RunNow(ctx context.Context, name string) (int64, error)
	Jobs() []scheduler.JobInfo
}

// DocumentFetcher abstracts the fiscal document client for handler testing.
// *fiscal.Client satisfies this interface.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, documentID string) ([]byte, error)
}
