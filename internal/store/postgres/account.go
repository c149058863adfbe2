package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billops/backoffice/internal/domain"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// sweepableStatuses is the status set eligible for automatic cancellation.
var sweepableStatuses = []string{
	string(domain.AccountStatusOverdue),
	string(domain.AccountStatusSuspended),
}

// CancelDelinquent applies the terminal transition in one conditional bulk
// update; the predicate and the write are a single statement so concurrent
// status changes cannot slip between a check and an act.
func (r *AccountRepo) CancelDelinquent(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts
		 SET status = $1, delinquent_since = NULL, updated_at = now()
		 WHERE status = ANY($2)
		   AND delinquent_since IS NOT NULL
		   AND delinquent_since <= $3`,
		string(domain.AccountStatusCancelled), sweepableStatuses, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("accountRepo.CancelDelinquent: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *AccountRepo) ListDelinquent(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, status, delinquent_since, created_at, updated_at
		 FROM accounts
		 WHERE status = ANY($1) AND delinquent_since IS NOT NULL
		 ORDER BY delinquent_since`,
		sweepableStatuses,
	)
	if err != nil {
		return nil, fmt.Errorf("accountRepo.ListDelinquent: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var a domain.Account

		err = rows.Scan(&a.ID, &a.Name, &a.Status, &a.DelinquentSince, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("accountRepo.ListDelinquent: scan: %w", err)
		}

		accounts = append(accounts, &a)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("accountRepo.ListDelinquent: rows: %w", err)
	}

	return accounts, nil
}
