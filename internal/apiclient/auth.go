package apiclient

import (
	"context"
	"net/http"

	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/session"
)

// authResponse mirrors the backend's auth envelope.
type authResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// Login exchanges credentials for a token and user. A 401 maps to
// ErrInvalidCredentials without touching the session, so this call does not
// attach a bearer token and never fires OnUnauthorized.
func (c *Client) Login(ctx context.Context, identifier, secret string) (string, *model.User, error) {
	var resp authResponse
	body := map[string]string{"email": identifier, "password": secret}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", body, &resp, false); err != nil {
		return "", nil, err
	}
	return resp.AccessToken, resp.User, nil
}

// Register creates a tenant and its admin account in one call.
func (c *Client) Register(ctx context.Context, req session.RegisterRequest) (string, *model.User, error) {
	var resp authResponse
	body := map[string]string{
		"firstName":      req.FirstName,
		"lastName":       req.LastName,
		"email":          req.Email,
		"password":       req.Password,
		"restaurantName": req.RestaurantName,
		"subdomain":      req.Subdomain,
	}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", body, &resp, false); err != nil {
		return "", nil, err
	}
	return resp.AccessToken, resp.User, nil
}

// Profile fetches the authoritative user for a stored token during session
// bootstrap. The token is passed explicitly because the session has not
// committed it yet; OnUnauthorized stays out of the loop since bootstrap
// handles its own invalidation.
func (c *Client) Profile(ctx context.Context, token string) (*model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/auth/profile", nil)
	if err != nil {
		return nil, &session.ServerError{Msg: "build request: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &session.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &session.ServerError{Status: resp.StatusCode}
	}
	var u model.User
	if err := decodeJSON(resp.Body, &u); err != nil {
		return nil, &session.ServerError{Status: resp.StatusCode, Msg: err.Error()}
	}
	return &u, nil
}

// Logout revokes every refresh token for the signed-in user server-side.
// Local state is the session's business; failures here are advisory.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, true)
}
