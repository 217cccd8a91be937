package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarops/solar-console/client"
	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/domain"
	"github.com/solarops/solar-console/session"
)

// newTestServer stands up the gateway against a stub backend.
func newTestServer(t *testing.T, backend http.Handler) (*Server, credstore.Store) {
	t.Helper()
	upstream := httptest.NewServer(backend)
	t.Cleanup(upstream.Close)

	creds := credstore.NewMemStore()
	sdk, err := client.New(upstream.URL, creds)
	require.NoError(t, err)
	t.Cleanup(sdk.HopeCloud().Close)
	t.Cleanup(sdk.FusionSolar().Close)

	sess := session.NewStore(sdk.Users(), creds, session.NopNotifier{})
	return NewServer(sdk, sess, creds), creds
}

func authBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "Secret123!" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_credentials", "message": "wrong email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok1"})
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.User{ID: 7, Email: "a@b.com", Role: domain.RoleAdmin})
	})
	mux.HandleFunc("GET /api/sites", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Site{{ID: 1, Name: "North Field"}})
	})
	return mux
}

func TestSignIn_IssuesRoleRedirect(t *testing.T) {
	srv, creds := newTestServer(t, authBackend())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign-in",
		strings.NewReader(`{"email":"a@b.com","password":"Secret123!"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Redirect string      `json:"redirect"`
		User     domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/admin", resp.Redirect)
	assert.EqualValues(t, 7, resp.User.ID)

	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok1", persisted.AccessToken)
	assert.Equal(t, "admin", persisted.Role)
}

func TestSignIn_BadCredentialsSurfaceBackendMessage(t *testing.T) {
	srv, creds := newTestServer(t, authBackend())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign-in",
		strings.NewReader(`{"email":"a@b.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "wrong email or password")

	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.True(t, persisted.IsZero())
}

func TestProtectedSubtree_RedirectsWithoutSession(t *testing.T) {
	srv, _ := newTestServer(t, authBackend())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sites", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestProtectedSubtree_ServesSitesWithSession(t *testing.T) {
	srv, creds := newTestServer(t, authBackend())
	require.NoError(t, creds.Save(credstore.Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sites", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sites []domain.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sites))
	require.Len(t, sites, 1)
	assert.Equal(t, "North Field", sites[0].Name)
}

func TestProtectedSubtree_WrongRoleNamespaceRedirectsHome(t *testing.T) {
	srv, creds := newTestServer(t, authBackend())
	require.NoError(t, creds.Save(credstore.Credentials{AccessToken: "tok1", UserID: "7", Role: "operator"}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sites", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/operator", rec.Header().Get("Location"))
}

func TestRoot_SignedInUserRedirectedToRoleHome(t *testing.T) {
	srv, creds := newTestServer(t, authBackend())
	require.NoError(t, creds.Save(credstore.Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestSignOut_ClearsFragment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv, creds := newTestServer(t, mux)
	require.NoError(t, creds.Save(credstore.Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sign-out", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.True(t, persisted.IsZero())
}
