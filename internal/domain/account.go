package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStatus values keep the Portuguese wire form used by the billing
// back office; stored rows and API payloads carry these strings verbatim.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "Ativo"
	AccountStatusOverdue   AccountStatus = "Em atraso"
	AccountStatusSuspended AccountStatus = "Suspenso"
	AccountStatusCancelled AccountStatus = "Cancelado"
)

// Sweepable reports whether accounts in this status participate in the
// delinquency sweep.
func (s AccountStatus) Sweepable() bool {
	return s == AccountStatusOverdue || s == AccountStatusSuspended
}

// Account is a billable tenant account. DelinquentSince is non-nil only
// while the status is Em atraso or Suspenso; cancellation forces it to nil.
// Entering delinquency is owned by external flows; this engine only performs
// the terminal transition.
type Account struct {
	ID              uuid.UUID
	Name            string
	Status          AccountStatus
	DelinquentSince *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AccountRepository interface {
	// CancelDelinquent transitions every sweepable account whose
	// delinquency timestamp is at or before cutoff to Cancelado, clearing
	// the timestamp, in one conditional bulk update. Returns rows affected.
	CancelDelinquent(ctx context.Context, cutoff time.Time) (int64, error)

	ListDelinquent(ctx context.Context) ([]*Account, error)
}
