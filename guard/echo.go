package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solarops/solar-console/credstore"
)

// Policy is any guard function over a request path and the persisted
// fragment.
type Policy func(path string, creds credstore.Credentials) Decision

// Middleware adapts a guard policy to an echo middleware. The fragment is
// loaded fresh per request; a load failure is treated as an absent fragment
// so a corrupt store fails closed.
func Middleware(store credstore.Store, policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			creds, err := store.Load()
			if err != nil {
				creds = credstore.Credentials{}
			}
			if d := policy(c.Request().URL.Path, creds); !d.Allowed() {
				return c.Redirect(http.StatusFound, d.Target)
			}
			return next(c)
		}
	}
}
