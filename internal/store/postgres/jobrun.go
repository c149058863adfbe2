package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billops/backoffice/internal/domain"
)

type JobRunRepo struct {
	pool *pgxpool.Pool
}

func NewJobRunRepo(pool *pgxpool.Pool) *JobRunRepo {
	return &JobRunRepo{pool: pool}
}

func (r *JobRunRepo) Record(ctx context.Context, run *domain.JobRun) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO job_runs (id, job_name, trigger, started_at, finished_at, affected, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.JobName, string(run.Trigger), run.StartedAt, run.FinishedAt, run.Affected, run.Error,
	)
	if err != nil {
		return fmt.Errorf("jobRunRepo.Record: %w", err)
	}

	return nil
}

func (r *JobRunRepo) ListByJob(ctx context.Context, jobName string, limit int) ([]*domain.JobRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, job_name, trigger, started_at, finished_at, affected, error
		 FROM job_runs WHERE job_name = $1
		 ORDER BY started_at DESC
		 LIMIT $2`,
		jobName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("jobRunRepo.ListByJob: %w", err)
	}
	defer rows.Close()

	var runs []*domain.JobRun
	for rows.Next() {
		var run domain.JobRun

		err = rows.Scan(&run.ID, &run.JobName, &run.Trigger, &run.StartedAt, &run.FinishedAt, &run.Affected, &run.Error)
		if err != nil {
			return nil, fmt.Errorf("jobRunRepo.ListByJob: scan: %w", err)
		}

		runs = append(runs, &run)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("jobRunRepo.ListByJob: rows: %w", err)
	}

	return runs, nil
}
