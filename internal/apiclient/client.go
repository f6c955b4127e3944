// Package apiclient is the HTTP wrapper the admin client talks to the
// backend through. It attaches the bearer token, decodes responses and
// translates failures into the session error taxonomy so callers can render
// a specific message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openpos/pos-admin/internal/session"
)

// TokenSource yields the current bearer token; empty means unauthenticated.
// *session.Store satisfies it.
type TokenSource interface {
	Token() string
}

// Client issues requests against one backend base URL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenSource
	// OnUnauthorized runs whenever an authenticated request comes back 401.
	// The session wires its Invalidate here so a dead token logs the whole
	// client out instead of leaving a stale authenticated view.
	OnUnauthorized func()
}

// New builds a Client with a sane default timeout.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Tokens:  tokens,
	}
}

// errBody is the backend's error envelope.
type errBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// do runs one round-trip. When authed, the current token is attached and a
// 401 triggers OnUnauthorized. out, when non-nil, receives the decoded 2xx
// body.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		bs, err := json.Marshal(in)
		if err != nil {
			return &session.ServerError{Msg: "encode request: " + err.Error()}
		}
		body = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &session.ServerError{Msg: "build request: " + err.Error()}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if tok := c.Tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &session.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &session.ServerError{Status: resp.StatusCode, Msg: "decode response: " + err.Error()}
		}
		return nil
	}

	var eb errBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if authed && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return session.ErrInvalidCredentials
	case resp.StatusCode == http.StatusUnprocessableEntity && len(eb.Fields) > 0:
		return &session.ValidationError{Fields: eb.Fields}
	default:
		return &session.ServerError{Status: resp.StatusCode, Msg: eb.Error}
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out, true)
}

func (c *Client) patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out, true)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

func idPath(prefix string, id uint64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}
