package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"auth-app/internal/api"
	"auth-app/internal/model"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email == "taken@x.com" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(api.HTTPError{Message: "User already exists"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.AuthResponse{
			Message: "User registered successfully",
			Token:   "tok-1",
			User:    api.UserResponse{ID: 1, Username: req.Username, Email: req.Email},
		})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(api.HTTPError{Message: "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.AuthResponse{
			Message: "Login successful",
			Token:   "tok-1",
			User:    api.UserResponse{ID: 1, Username: "alice", Email: req.Email},
		})
	})
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-auth-token") != "tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(api.HTTPError{Message: "Token is not valid"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.UserResponse{ID: 1, Username: "alice", Email: "a@x.com"})
	})
	mux.HandleFunc("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/", nil)
	ctx := context.Background()

	resp, err := c.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "tok-1", resp.Token)
	require.Equal(t, api.UserResponse{ID: 1, Username: "alice", Email: "a@x.com"}, resp.User)

	_, err = c.Register(ctx, "bob", "taken@x.com", "secret1")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusBadRequest, ae.StatusCode)
	require.Equal(t, "User already exists", ae.Message)

	resp, err = c.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "Login successful", resp.Message)

	_, err = c.Login(ctx, "a@x.com", "wrong")
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "Invalid credentials", ae.Message)
}

func TestClientProfile(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	_, err := c.Profile(ctx)
	require.True(t, IsUnauthorized(err))

	c.SetToken("tok-1")
	p, err := c.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, &model.Profile{ID: 1, Username: "alice", Email: "a@x.com"}, p)
}

func TestClientErrorWithoutBody(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, nil)

	err := c.do(context.Background(), http.MethodGet, "/api/broken", nil, nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusBadGateway, ae.StatusCode)
	require.Equal(t, "Bad Gateway", ae.Message)
	require.False(t, IsUnauthorized(err))
}

func TestClientTransportError(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).Profile(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "/api/auth/profile")
}
