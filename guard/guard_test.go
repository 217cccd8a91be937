package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarops/solar-console/credstore"
)

func authedCreds() credstore.Credentials {
	return credstore.Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}
}

func TestLoginRedirect(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		creds credstore.Credentials
		want  Decision
	}{
		{"signed in on root goes to role home", "/", authedCreds(), RedirectTo("/admin")},
		{"signed in on sign-in goes to role home", "/sign-in", authedCreds(), RedirectTo("/admin")},
		{"signed in elsewhere allowed", "/admin/sites", authedCreds(), Allow()},
		{"signed out on root allowed", "/", credstore.Credentials{}, Allow()},
		{"signed out elsewhere goes to root", "/admin/sites", credstore.Credentials{}, RedirectTo("/")},
		{"token without role falls back to root", "/", credstore.Credentials{AccessToken: "tok1"}, RedirectTo("/")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginRedirect(tt.path, tt.creds))
		})
	}
}

func TestLayoutProtect(t *testing.T) {
	assert.Equal(t, RedirectTo("/"), LayoutProtect("/admin/sites", credstore.Credentials{}))
	assert.Equal(t, Allow(), LayoutProtect("/admin/sites", authedCreds()))
	assert.Equal(t, Allow(), LayoutProtect("/", authedCreds()))
}

func TestMiddleware_RedirectsWhenDenied(t *testing.T) {
	store := credstore.NewMemStore()

	e := echo.New()
	e.Use(Middleware(store, LayoutProtect))
	e.GET("/admin/sites", func(c echo.Context) error {
		return c.String(http.StatusOK, "sites")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sites", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestMiddleware_AllowsWithToken(t *testing.T) {
	store := credstore.NewMemStore()
	require.NoError(t, store.Save(authedCreds()))

	e := echo.New()
	e.Use(Middleware(store, LayoutProtect))
	e.GET("/admin/sites", func(c echo.Context) error {
		return c.String(http.StatusOK, "sites")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sites", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sites", rec.Body.String())
}

func TestMiddleware_ReadsFragmentPerRequest(t *testing.T) {
	store := credstore.NewMemStore()
	require.NoError(t, store.Save(authedCreds()))

	e := echo.New()
	e.Use(Middleware(store, LayoutProtect))
	e.GET("/admin/sites", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sites", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, store.Clear())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/sites", nil))
	assert.Equal(t, http.StatusFound, rec.Code, "cleared fragment locks the subtree out immediately")
}
