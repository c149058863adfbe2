package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/billops/backoffice/internal/domain"
)

type ListObligationsInput struct {
	Period string `path:"period" doc:"Billing period as MM-YYYY (slash form MM/YYYY is not URL-safe)"`
}

type ListObligationsOutput struct {
	Body []*domain.ObligationRecord
}

func RegisterObligationRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-obligations",
		Method:      http.MethodGet,
		Path:        "/obligations/{period}",
		Summary:     "List obligation records for a billing period",
		Tags:        []string{"Obligations"},
	}, func(ctx context.Context, input *ListObligationsInput) (*ListObligationsOutput, error) {
		period, err := parsePeriodParam(input.Period)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid period, expected MM-YYYY")
		}

		records, err := store.Obligations().ListByPeriod(ctx, period)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list obligations", err)
		}

		return &ListObligationsOutput{Body: records}, nil
	})
}

// parsePeriodParam accepts the URL-safe MM-YYYY form and the canonical
// MM/YYYY form.
func parsePeriodParam(s string) (domain.Period, error) {
	if len(s) == 7 && s[2] == '-' {
		s = s[:2] + "/" + s[3:]
	}
	return domain.ParsePeriod(s)
}
