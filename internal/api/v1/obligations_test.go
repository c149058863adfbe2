package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/billops/backoffice/internal/api/v1"
	"github.com/billops/backoffice/internal/domain"
)

func TestListObligations(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		record := &domain.ObligationRecord{
			ID:               uuid.New(),
			ClientID:         uuid.New(),
			ObligationTypeID: uuid.New(),
			Period:           domain.Period{Year: 2025, Month: time.January},
			Status:           domain.ObligationStatusPending,
			CreatedAt:        time.Date(2025, time.January, 1, 1, 0, 0, 0, time.UTC),
		}

		_, api := humatest.New(t)
		store := &mockDataStore{
			obligations: &mockObligationRepo{
				listByPeriodFunc: func(_ context.Context, period domain.Period) ([]*domain.ObligationRecord, error) {
					assert.Equal(t, domain.Period{Year: 2025, Month: time.January}, period)
					return []*domain.ObligationRecord{record}, nil
				},
			},
		}
		v1.RegisterObligationRoutes(api, store)

		resp := api.GetCtx(operatorCtx(), "/obligations/01-2025")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.ObligationRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, record.ID, body[0].ID)
		assert.Equal(t, domain.ObligationStatusPending, body[0].Status)
	})

	t.Run("invalid_period", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterObligationRoutes(api, &mockDataStore{})

		for _, period := range []string{"13-2025", "2025-01", "garbage"} {
			resp := api.GetCtx(operatorCtx(), "/obligations/"+period)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, "period %q", period)
		}
	})

	t.Run("storage_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			obligations: &mockObligationRepo{
				listByPeriodFunc: func(context.Context, domain.Period) ([]*domain.ObligationRecord, error) {
					return nil, errors.New("storage unavailable")
				},
			},
		}
		v1.RegisterObligationRoutes(api, store)

		resp := api.GetCtx(operatorCtx(), "/obligations/01-2025")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
