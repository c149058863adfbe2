// Package issuer holds the external credential issuer client and the TTL
// cache that keeps its token warm for outbound API calls.
package issuer

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"
)

// Client exchanges client credentials for an access token at the issuer's
// token endpoint. The token is treated as opaque; validity is governed by
// the cache's TTL, not by inspecting the token.
type Client struct {
	cc *clientcredentials.Config
}

func NewClient(tokenURL, clientID, clientSecret string) *Client {
	return &Client{
		cc: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
	}
}

// Exchange performs the client-credentials grant and returns the raw token.
func (c *Client) Exchange(ctx context.Context) (string, error) {
	tok, err := c.cc.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("issuer.Client.Exchange: %w", err)
	}
	return tok.AccessToken, nil
}
