package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type FetchDocumentInput struct {
	ID string `path:"id" doc:"Provider document id"`
}

type FetchDocumentOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// RegisterDocumentRoutes exposes fiscal document retrieval. Only mounted
// when the credential issuer is configured.
func RegisterDocumentRoutes(api huma.API, docs DocumentFetcher) {
	huma.Register(api, huma.Operation{
		OperationID: "fetch-document",
		Method:      http.MethodGet,
		Path:        "/documents/{id}",
		Summary:     "Fetch a fiscal document from the provider",
		Tags:        []string{"Documents"},
	}, func(ctx context.Context, input *FetchDocumentInput) (*FetchDocumentOutput, error) {
		body, err := docs.FetchDocument(ctx, input.ID)
		if err != nil {
			return nil, huma.Error502BadGateway("document fetch failed", err)
		}

		return &FetchDocumentOutput{ContentType: "application/pdf", Body: body}, nil
	})
}
