package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/billops/backoffice/internal/domain"
)

type ListDelinquentOutput struct {
	Body []*domain.Account
}

func RegisterAccountRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-delinquent-accounts",
		Method:      http.MethodGet,
		Path:        "/accounts/delinquent",
		Summary:     "List accounts currently in the sweepable status set",
		Tags:        []string{"Accounts"},
	}, func(ctx context.Context, _ *struct{}) (*ListDelinquentOutput, error) {
		accounts, err := store.Accounts().ListDelinquent(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list delinquent accounts", err)
		}

		return &ListDelinquentOutput{Body: accounts}, nil
	})
}
