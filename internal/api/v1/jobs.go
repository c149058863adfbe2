package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/billops/backoffice/internal/domain"
	"github.com/billops/backoffice/internal/scheduler"
	"github.com/billops/backoffice/internal/server/middleware"
)

type ListJobsOutput struct {
	Body []scheduler.JobInfo
}

type RunJobInput struct {
	Name string `path:"name" doc:"Registered job name"`
}

type RunJobOutput struct {
	Body struct {
		Job      string `json:"job"`
		Affected int64  `json:"affected" doc:"Records created or transitioned by this run"`
	}
}

type ListRunsInput struct {
	Name  string `path:"name" doc:"Registered job name"`
	Limit int    `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Max results"`
}

type ListRunsOutput struct {
	Body []*domain.JobRun
}

func RegisterJobRoutes(api huma.API, runner JobRunner, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/jobs",
		Summary:     "List registered jobs and their schedules",
		Tags:        []string{"Jobs"},
	}, func(_ context.Context, _ *struct{}) (*ListJobsOutput, error) {
		return &ListJobsOutput{Body: runner.Jobs()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "run-job",
		Method:      http.MethodPost,
		Path:        "/jobs/{name}/run",
		Summary:     "Trigger a job outside its schedule",
		Tags:        []string{"Jobs"},
	}, func(ctx context.Context, input *RunJobInput) (*RunJobOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != "admin" {
			return nil, huma.Error403Forbidden("admin role required")
		}

		affected, err := runner.RunNow(ctx, input.Name)
		if errors.Is(err, scheduler.ErrUnknownJob) {
			return nil, huma.Error404NotFound("unknown job")
		}
		if errors.Is(err, scheduler.ErrJobBusy) {
			return nil, huma.Error409Conflict("job already running")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("job run failed", err)
		}

		out := &RunJobOutput{}
		out.Body.Job = input.Name
		out.Body.Affected = affected
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-job-runs",
		Method:      http.MethodGet,
		Path:        "/jobs/{name}/runs",
		Summary:     "List recent runs of a job",
		Tags:        []string{"Jobs"},
	}, func(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error) {
		runs, err := store.JobRuns().ListByJob(ctx, input.Name, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list job runs", err)
		}

		return &ListRunsOutput{Body: runs}, nil
	})
}
