package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// AuthAPI implements ports.AuthAPI over /api/auth.
type AuthAPI struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthAPI)(nil)

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

func (a *AuthAPI) Signup(ctx context.Context, creds ports.Credentials) error {
	return a.client.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/api/auth/signup",
		Body:      creds,
		Public:    true,
		Operation: "auth.signup",
	}, nil)
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// Login exchanges credentials for a token. The token is returned, not stored.
func (a *AuthAPI) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	var resp loginResponse
	err := a.client.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/api/auth/login",
		Body:      creds,
		Public:    true,
		Operation: "auth.login",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("auth.login: %w: response carried no token", domain.ErrTokenMalformed)
	}
	return resp.Token, nil
}

type meResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (a *AuthAPI) Me(ctx context.Context) (*domain.Identity, error) {
	var resp meResponse
	err := a.client.Do(ctx, Request{
		Method:    http.MethodGet,
		Path:      "/api/auth/me",
		Operation: "auth.me",
	}, &resp)
	if err != nil {
		return nil, err
	}

	id := resp.ID
	if id == "" {
		id = resp.UserID
	}
	return &domain.Identity{ID: id, Role: resp.Role}, nil
}
