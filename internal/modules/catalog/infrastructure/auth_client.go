package infrastructure

import (
	"context"
	"net/http"

	"nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/platform/restclient"
)

const (
	loginPath  = "/api/users/users/login/"
	logoutPath = "/api/users/users/logout/"
	mePath     = "/api/users/users/me/"
)

type AuthClient struct {
	rest *restclient.Client
}

func NewAuthClient(rest *restclient.Client) *AuthClient {
	return &AuthClient{rest: rest}
}

func (c *AuthClient) Login(ctx context.Context, credentials domain.Credentials) (domain.LoginResponse, error) {
	var out domain.LoginResponse
	err := c.rest.DoJSON(ctx, http.MethodPost, loginPath, nil, credentials, &out)
	return out, err
}

func (c *AuthClient) Logout(ctx context.Context) error {
	return c.rest.DoJSON(ctx, http.MethodPost, logoutPath, nil, map[string]any{}, nil)
}

func (c *AuthClient) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	err := c.rest.DoJSON(ctx, http.MethodGet, mePath, nil, nil, &out)
	return out, err
}
