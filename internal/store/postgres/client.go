package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billops/backoffice/internal/domain"
)

type ClientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at
		 FROM clients ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client

		err = rows.Scan(&c.ID, &c.Name, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("clientRepo.List: scan: %w", err)
		}

		clients = append(clients, &c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: rows: %w", err)
	}

	return clients, nil
}
