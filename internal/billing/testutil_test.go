package billing_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/billops/backoffice/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock ClientRepository / ObligationTypeRepository
// ---------------------------------------------------------------------------

type mockClientRepo struct {
	listFunc func(ctx context.Context) ([]*domain.Client, error)
}

func (m *mockClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	return m.listFunc(ctx)
}

type mockTypeRepo struct {
	listByCadenceFunc func(ctx context.Context, cadence domain.Cadence) ([]*domain.ObligationType, error)
}

func (m *mockTypeRepo) ListByCadence(ctx context.Context, cadence domain.Cadence) ([]*domain.ObligationType, error) {
	return m.listByCadenceFunc(ctx, cadence)
}

// ---------------------------------------------------------------------------
// In-memory ObligationRepository honoring the uniqueness backstop
// ---------------------------------------------------------------------------

type memObligationRepo struct {
	mu      sync.Mutex
	records map[domain.Period]map[domain.Pair]time.Time

	batchCalls int
}

func newMemObligationRepo() *memObligationRepo {
	return &memObligationRepo{records: make(map[domain.Period]map[domain.Pair]time.Time)}
}

func (m *memObligationRepo) ListPairs(_ context.Context, period domain.Period) ([]domain.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pairs []domain.Pair
	for p := range m.records[period] {
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// CreateBatch mimics the SQL ON CONFLICT DO NOTHING semantics: colliding
// pairs are skipped and the returned count covers created rows only.
func (m *memObligationRepo) CreateBatch(_ context.Context, period domain.Period, pairs []domain.Pair, createdAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batchCalls++

	if m.records[period] == nil {
		m.records[period] = make(map[domain.Pair]time.Time)
	}

	var created int64
	for _, p := range pairs {
		if _, exists := m.records[period][p]; exists {
			continue
		}
		m.records[period][p] = createdAt
		created++
	}
	return created, nil
}

func (m *memObligationRepo) ListByPeriod(_ context.Context, period domain.Period) ([]*domain.ObligationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []*domain.ObligationRecord
	for p, createdAt := range m.records[period] {
		records = append(records, &domain.ObligationRecord{
			ID:               uuid.New(),
			ClientID:         p.ClientID,
			ObligationTypeID: p.ObligationTypeID,
			Period:           period,
			Status:           domain.ObligationStatusPending,
			CreatedAt:        createdAt,
		})
	}
	return records, nil
}

func (m *memObligationRepo) count(period domain.Period) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[period])
}

// ---------------------------------------------------------------------------
// In-memory AccountRepository applying the sweep predicate
// ---------------------------------------------------------------------------

type memAccountRepo struct {
	mu       sync.Mutex
	accounts []*domain.Account

	lastCutoff time.Time
	err        error
}

// CancelDelinquent applies the same predicate the SQL bulk update does.
func (m *memAccountRepo) CancelDelinquent(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return 0, m.err
	}

	m.lastCutoff = cutoff

	var affected int64
	for _, a := range m.accounts {
		if !a.Status.Sweepable() || a.DelinquentSince == nil {
			continue
		}
		if a.DelinquentSince.After(cutoff) {
			continue
		}
		a.Status = domain.AccountStatusCancelled
		a.DelinquentSince = nil
		affected++
	}
	return affected, nil
}

func (m *memAccountRepo) ListDelinquent(_ context.Context) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Account
	for _, a := range m.accounts {
		if a.Status.Sweepable() && a.DelinquentSince != nil {
			out = append(out, a)
		}
	}
	return out, nil
}
