package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// RequestToken exchanges email and password for a bearer token using the
// form-encoded password grant.
func (c *Client) RequestToken(ctx context.Context, email, password string) (*domain.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok domain.Token
	if err := c.postForm(ctx, "/auth/token", form, &tok); err != nil {
		return nil, fmt.Errorf("client.RequestToken: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("client.RequestToken: empty access token")
	}
	return &tok, nil
}

// GetMe returns the profile of the user owning the stored token.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// GetMeWithToken is GetMe for a token that has not been stored yet.
func (c *Client) GetMeWithToken(ctx context.Context, token string) (*domain.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil, "")
	if err != nil {
		return nil, fmt.Errorf("client.GetMeWithToken: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var u domain.User
	if err := c.send(req, &u); err != nil {
		return nil, fmt.Errorf("client.GetMeWithToken: %w", err)
	}
	return &u, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/users", creds, &u); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &u, nil
}
