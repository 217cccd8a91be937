package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/domain"
	apierrors "github.com/solarops/solar-console/errors"
)

func TestUserService_Login(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok1", "message": "welcome back"})
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)

	grant, err := c.Users().Login(context.Background(), "a@b.com", "Secret123!")
	require.NoError(t, err)

	assert.Equal(t, "tok1", grant.AccessToken)
	assert.Equal(t, "welcome back", grant.Message)
	assert.Equal(t, map[string]string{"email": "a@b.com", "password": "Secret123!"}, gotBody)
}

func TestUserService_LoginRejectedSurfacesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_credentials", "message": "wrong email or password"})
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)

	_, err = c.Users().Login(context.Background(), "a@b.com", "nope")
	require.Error(t, err)

	assert.True(t, apierrors.IsValidation(err))
	assert.Contains(t, err.Error(), "wrong email or password")
}

func TestUserService_LoginWithoutTokenInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)

	_, err = c.Users().Login(context.Background(), "a@b.com", "Secret123!")
	assert.Error(t, err)
}

func TestUserService_CurrentUserWithExplicitToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/me", r.URL.Path)
		require.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(domain.User{ID: 7, Email: "a@b.com", Role: domain.RoleAdmin})
	}))
	t.Cleanup(srv.Close)

	store := credstore.NewMemStore()
	require.NoError(t, store.Save(credstore.Credentials{AccessToken: "stale", UserID: "7", Role: "admin"}))
	c, err := New(srv.URL, store)
	require.NoError(t, err)

	user, err := c.Users().CurrentUser(context.Background(), "fresh-token")
	require.NoError(t, err)
	assert.EqualValues(t, 7, user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestUserService_ChangePasswordPath(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)

	err = c.Users().ChangePassword(context.Background(), 42, domain.PasswordChange{
		CurrentPassword: "old", NewPassword: "new", ConfirmPassword: "new",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/users/42/change-password", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
}

func TestDecodeAPIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)

	err = c.do(context.Background(), http.MethodGet, "/api/sites", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}
