package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billops/backoffice/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	clients     *ClientRepo
	types       *ObligationTypeRepo
	obligations *ObligationRepo
	accounts    *AccountRepo
	jobRuns     *JobRunRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		clients:     NewClientRepo(pool),
		types:       NewObligationTypeRepo(pool),
		obligations: NewObligationRepo(pool),
		accounts:    NewAccountRepo(pool),
		jobRuns:     NewJobRunRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Clients() domain.ClientRepository                 { return s.clients }
func (s *Store) ObligationTypes() domain.ObligationTypeRepository { return s.types }
func (s *Store) Obligations() domain.ObligationRepository         { return s.obligations }
func (s *Store) Accounts() domain.AccountRepository               { return s.accounts }
func (s *Store) JobRuns() domain.JobRunRepository                 { return s.jobRuns }
