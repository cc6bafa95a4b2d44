package services

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// NewAuthorizedClient returns an [http.Client] that sends token as a Bearer Authorization header.
//
// base is used as the underlying transport (defaults to [http.DefaultClient]).
// An empty token returns base unchanged.
func NewAuthorizedClient(ctx context.Context, token string, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	if token == "" {
		return base
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	client := oauth2.NewClient(ctx, src)
	client.Timeout = base.Timeout
	return client
}
