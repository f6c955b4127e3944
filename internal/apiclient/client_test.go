package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/session"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]model.User{})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok-1"))
	_, err := c.ListStaff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestNoBearerOnLogin(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(authResponse{AccessToken: "tok-2", User: &model.User{ID: 1}})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("stale"))
	tok, u, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "login must not carry a stale bearer token")
	assert.Equal(t, "tok-2", tok)
	require.NotNil(t, u)
}

func TestUnauthorizedFiresHookOnAuthedRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("dead"))
	fired := 0
	c.OnUnauthorized = func() { fired++ }

	_, err := c.ListStaff(context.Background())
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Equal(t, 1, fired, "any 401 on a normal request invalidates the session")
}

func TestUnauthorizedDoesNotFireHookOnLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	fired := 0
	c.OnUnauthorized = func() { fired++ }

	_, _, err := c.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Zero(t, fired, "a rejected login is not a session invalidation")
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":  "validation failed",
			"fields": map[string]string{"subdomain": "already taken"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	_, _, err := c.Register(context.Background(), session.RegisterRequest{Email: "a@b.c"})

	var ve *session.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "already taken", ve.Fields["subdomain"])
}

func TestServerErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "db error"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	_, err := c.ListStaff(context.Background())

	var se *session.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Contains(t, se.Error(), "db error")
}

func TestNetworkErrorMapping(t *testing.T) {
	c := New("http://127.0.0.1:1", staticToken("tok")) // nothing listens here

	_, err := c.ListStaff(context.Background())

	var ne *session.NetworkError
	assert.ErrorAs(t, err, &ne)
}

func TestProfileUsesExplicitToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(model.User{ID: 9, Role: model.RoleManager})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("committed"))
	u, err := c.Profile(context.Background(), "candidate")
	require.NoError(t, err)
	assert.Equal(t, "Bearer candidate", gotAuth, "bootstrap verifies the stored token, not the committed one")
	assert.Equal(t, model.RoleManager, u.Role)
}

func TestProfileNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	_, err := c.Profile(context.Background(), "dead")

	var se *session.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
}
