package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billops/backoffice/internal/domain"
)

type ObligationTypeRepo struct {
	pool *pgxpool.Pool
}

func NewObligationTypeRepo(pool *pgxpool.Pool) *ObligationTypeRepo {
	return &ObligationTypeRepo{pool: pool}
}

func (r *ObligationTypeRepo) ListByCadence(ctx context.Context, cadence domain.Cadence) ([]*domain.ObligationType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, cadence, created_at
		 FROM obligation_types WHERE cadence = $1
		 ORDER BY created_at`,
		string(cadence),
	)
	if err != nil {
		return nil, fmt.Errorf("obligationTypeRepo.ListByCadence: %w", err)
	}
	defer rows.Close()

	var types []*domain.ObligationType
	for rows.Next() {
		var t domain.ObligationType

		err = rows.Scan(&t.ID, &t.Name, &t.Cadence, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("obligationTypeRepo.ListByCadence: scan: %w", err)
		}

		types = append(types, &t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("obligationTypeRepo.ListByCadence: rows: %w", err)
	}

	return types, nil
}

type ObligationRepo struct {
	pool *pgxpool.Pool
}

func NewObligationRepo(pool *pgxpool.Pool) *ObligationRepo {
	return &ObligationRepo{pool: pool}
}

func (r *ObligationRepo) ListPairs(ctx context.Context, period domain.Period) ([]domain.Pair, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT client_id, obligation_type_id
		 FROM obligation_records WHERE period = $1`,
		period.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("obligationRepo.ListPairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.Pair
	for rows.Next() {
		var p domain.Pair

		err = rows.Scan(&p.ClientID, &p.ObligationTypeID)
		if err != nil {
			return nil, fmt.Errorf("obligationRepo.ListPairs: scan: %w", err)
		}

		pairs = append(pairs, p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("obligationRepo.ListPairs: rows: %w", err)
	}

	return pairs, nil
}

// CreateBatch inserts all pairs in one statement. The ON CONFLICT clause
// makes a duplicate triple from a racing run lose quietly, so the returned
// RowsAffected is the number of rows actually created.
func (r *ObligationRepo) CreateBatch(ctx context.Context, period domain.Period, pairs []domain.Pair, createdAt time.Time) (int64, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	clientIDs := make([]uuid.UUID, len(pairs))
	typeIDs := make([]uuid.UUID, len(pairs))
	for i, p := range pairs {
		clientIDs[i] = p.ClientID
		typeIDs[i] = p.ObligationTypeID
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO obligation_records (id, client_id, obligation_type_id, period, status, auto_settled, created_at)
		 SELECT gen_random_uuid(), c, t, $3, $4, false, $5
		 FROM unnest($1::uuid[], $2::uuid[]) AS pair (c, t)
		 ON CONFLICT (client_id, obligation_type_id, period) DO NOTHING`,
		clientIDs, typeIDs, period.String(), string(domain.ObligationStatusPending), createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("obligationRepo.CreateBatch: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *ObligationRepo) ListByPeriod(ctx context.Context, period domain.Period) ([]*domain.ObligationRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, client_id, obligation_type_id, period, status, auto_settled, created_at
		 FROM obligation_records WHERE period = $1
		 ORDER BY created_at`,
		period.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("obligationRepo.ListByPeriod: %w", err)
	}
	defer rows.Close()

	var records []*domain.ObligationRecord
	for rows.Next() {
		var (
			rec       domain.ObligationRecord
			periodStr string
		)

		err = rows.Scan(&rec.ID, &rec.ClientID, &rec.ObligationTypeID, &periodStr, &rec.Status, &rec.AutoSettled, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("obligationRepo.ListByPeriod: scan: %w", err)
		}

		rec.Period, err = domain.ParsePeriod(periodStr)
		if err != nil {
			return nil, fmt.Errorf("obligationRepo.ListByPeriod: %w", err)
		}

		records = append(records, &rec)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("obligationRepo.ListByPeriod: rows: %w", err)
	}

	return records, nil
}
