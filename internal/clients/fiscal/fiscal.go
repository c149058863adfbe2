// Package fiscal retrieves issued billing documents from the provider API,
// authenticating with the cached issuer credential.
package fiscal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/billops/backoffice/internal/issuer"
)

type Client struct {
	baseURL string
	http    *http.Client
	creds   *issuer.Cache
}

func New(baseURL string, creds *issuer.Cache) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
	}
}

// FetchDocument downloads the rendered document with the given provider id.
// Credential fetch failures propagate to the caller uncached.
func (c *Client) FetchDocument(ctx context.Context, documentID string) ([]byte, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fiscal.FetchDocument: credential: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents/"+documentID, nil)
	if err != nil {
		return nil, fmt.Errorf("fiscal.FetchDocument: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fiscal.FetchDocument: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fiscal.FetchDocument: document %s: unexpected status %d", documentID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fiscal.FetchDocument: read body: %w", err)
	}

	return body, nil
}
