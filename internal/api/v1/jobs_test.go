package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/billops/backoffice/internal/api/v1"
	"github.com/billops/backoffice/internal/domain"
	"github.com/billops/backoffice/internal/scheduler"
)

// ---------------------------------------------------------------------------
// TestListJobs
// ---------------------------------------------------------------------------

func TestListJobs(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	runner := &mockJobRunner{
		jobsFunc: func() []scheduler.JobInfo {
			return []scheduler.JobInfo{
				{Name: "obligation-generation", Schedule: "0 1 * * *", NextRun: time.Date(2025, 1, 2, 1, 0, 0, 0, time.UTC)},
				{Name: "account-cancellation", Schedule: "30 1 * * *", Running: true},
			}
		},
	}
	v1.RegisterJobRoutes(api, runner, &mockDataStore{})

	resp := api.GetCtx(operatorCtx(), "/jobs")
	require.Equal(t, http.StatusOK, resp.Code)

	var body []scheduler.JobInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "obligation-generation", body[0].Name)
	assert.Equal(t, "0 1 * * *", body[0].Schedule)
	assert.True(t, body[1].Running)
}

// ---------------------------------------------------------------------------
// TestRunJob
// ---------------------------------------------------------------------------

func TestRunJob(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var runCalled bool
		_, api := humatest.New(t)
		runner := &mockJobRunner{
			runNowFunc: func(_ context.Context, name string) (int64, error) {
				runCalled = true
				assert.Equal(t, "obligation-generation", name)
				return 12, nil
			},
		}
		v1.RegisterJobRoutes(api, runner, &mockDataStore{})

		resp := api.PostCtx(adminCtx(), "/jobs/obligation-generation/run")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, runCalled, "runner.RunNow must be invoked")

		var body struct {
			Job      string `json:"job"`
			Affected int64  `json:"affected"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "obligation-generation", body.Job)
		assert.Equal(t, int64(12), body.Affected)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		runner := &mockJobRunner{
			runNowFunc: func(context.Context, string) (int64, error) {
				t.Fatal("RunNow must not be reached without the admin role")
				return 0, nil
			},
		}
		v1.RegisterJobRoutes(api, runner, &mockDataStore{})

		resp := api.PostCtx(operatorCtx(), "/jobs/obligation-generation/run")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("unknown_job", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		runner := &mockJobRunner{
			runNowFunc: func(context.Context, string) (int64, error) {
				return 0, scheduler.ErrUnknownJob
			},
		}
		v1.RegisterJobRoutes(api, runner, &mockDataStore{})

		resp := api.PostCtx(adminCtx(), "/jobs/nonexistent/run")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("job_busy", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		runner := &mockJobRunner{
			runNowFunc: func(context.Context, string) (int64, error) {
				return 0, scheduler.ErrJobBusy
			},
		}
		v1.RegisterJobRoutes(api, runner, &mockDataStore{})

		resp := api.PostCtx(adminCtx(), "/jobs/obligation-generation/run")
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("run_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		runner := &mockJobRunner{
			runNowFunc: func(context.Context, string) (int64, error) {
				return 0, errors.New("storage unavailable")
			},
		}
		v1.RegisterJobRoutes(api, runner, &mockDataStore{})

		resp := api.PostCtx(adminCtx(), "/jobs/obligation-generation/run")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestListJobRuns
// ---------------------------------------------------------------------------

func TestListJobRuns(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			jobRuns: &mockJobRunRepo{
				listByJobFunc: func(_ context.Context, jobName string, limit int) ([]*domain.JobRun, error) {
					assert.Equal(t, "account-cancellation", jobName)
					assert.Equal(t, 50, limit, "limit defaults to 50")
					return []*domain.JobRun{someJobRun(jobName)}, nil
				},
			},
		}
		v1.RegisterJobRoutes(api, &mockJobRunner{}, store)

		resp := api.GetCtx(operatorCtx(), "/jobs/account-cancellation/runs")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.JobRun
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "account-cancellation", body[0].JobName)
		assert.Equal(t, int64(4), body[0].Affected)
	})

	t.Run("explicit_limit", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			jobRuns: &mockJobRunRepo{
				listByJobFunc: func(_ context.Context, _ string, limit int) ([]*domain.JobRun, error) {
					assert.Equal(t, 5, limit)
					return nil, nil
				},
			},
		}
		v1.RegisterJobRoutes(api, &mockJobRunner{}, store)

		resp := api.GetCtx(operatorCtx(), "/jobs/obligation-generation/runs?limit=5")
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("limit_out_of_bounds", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterJobRoutes(api, &mockJobRunner{}, &mockDataStore{})

		resp := api.GetCtx(operatorCtx(), "/jobs/obligation-generation/runs?limit=500")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("storage_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			jobRuns: &mockJobRunRepo{
				listByJobFunc: func(context.Context, string, int) ([]*domain.JobRun, error) {
					return nil, errors.New("storage unavailable")
				},
			},
		}
		v1.RegisterJobRoutes(api, &mockJobRunner{}, store)

		resp := api.GetCtx(operatorCtx(), "/jobs/obligation-generation/runs")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
