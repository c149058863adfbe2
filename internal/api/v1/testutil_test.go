package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/billops/backoffice/internal/domain"
	"github.com/billops/backoffice/internal/scheduler"
	"github.com/billops/backoffice/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject subject/role into context for DoCtx
// ---------------------------------------------------------------------------

func operatorCtx() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeySubject, "ops@example.com")
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, "operator")
	return ctx
}

func adminCtx() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeySubject, "admin@example.com")
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, "admin")
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	obligations domain.ObligationRepository
	accounts    domain.AccountRepository
	jobRuns     domain.JobRunRepository
}

func (m *mockDataStore) Obligations() domain.ObligationRepository { return m.obligations }
func (m *mockDataStore) Accounts() domain.AccountRepository       { return m.accounts }
func (m *mockDataStore) JobRuns() domain.JobRunRepository         { return m.jobRuns }

// ---------------------------------------------------------------------------
// Repository mocks: function fields, nil panics surface missing stubs
// ---------------------------------------------------------------------------

type mockObligationRepo struct {
	listPairsFunc    func(ctx context.Context, period domain.Period) ([]domain.Pair, error)
	createBatchFunc  func(ctx context.Context, period domain.Period, pairs []domain.Pair, createdAt time.Time) (int64, error)
	listByPeriodFunc func(ctx context.Context, period domain.Period) ([]*domain.ObligationRecord, error)
}

func (m *mockObligationRepo) ListPairs(ctx context.Context, period domain.Period) ([]domain.Pair, error) {
	return m.listPairsFunc(ctx, period)
}

func (m *mockObligationRepo) CreateBatch(ctx context.Context, period domain.Period, pairs []domain.Pair, createdAt time.Time) (int64, error) {
	return m.createBatchFunc(ctx, period, pairs, createdAt)
}

func (m *mockObligationRepo) ListByPeriod(ctx context.Context, period domain.Period) ([]*domain.ObligationRecord, error) {
	return m.listByPeriodFunc(ctx, period)
}

type mockAccountRepo struct {
	cancelDelinquentFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	listDelinquentFunc   func(ctx context.Context) ([]*domain.Account, error)
}

func (m *mockAccountRepo) CancelDelinquent(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.cancelDelinquentFunc(ctx, cutoff)
}

func (m *mockAccountRepo) ListDelinquent(ctx context.Context) ([]*domain.Account, error) {
	return m.listDelinquentFunc(ctx)
}

type mockJobRunRepo struct {
	recordFunc    func(ctx context.Context, run *domain.JobRun) error
	listByJobFunc func(ctx context.Context, jobName string, limit int) ([]*domain.JobRun, error)
}

func (m *mockJobRunRepo) Record(ctx context.Context, run *domain.JobRun) error {
	return m.recordFunc(ctx, run)
}

func (m *mockJobRunRepo) ListByJob(ctx context.Context, jobName string, limit int) ([]*domain.JobRun, error) {
	return m.listByJobFunc(ctx, jobName, limit)
}

// ---------------------------------------------------------------------------
// Mock JobRunner
// ---------------------------------------------------------------------------

type mockJobRunner struct {
	runNowFunc func(ctx context.Context, name string) (int64, error)
	jobsFunc   func() []scheduler.JobInfo
}

func (m *mockJobRunner) RunNow(ctx context.Context, name string) (int64, error) {
	return m.runNowFunc(ctx, name)
}

func (m *mockJobRunner) Jobs() []scheduler.JobInfo {
	if m.jobsFunc == nil {
		return nil
	}
	return m.jobsFunc()
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func someJobRun(jobName string) *domain.JobRun {
	started := time.Date(2025, time.January, 1, 1, 0, 0, 0, time.UTC)
	return &domain.JobRun{
		ID:         uuid.New(),
		JobName:    jobName,
		Trigger:    domain.TriggerScheduled,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Affected:   4,
	}
}
