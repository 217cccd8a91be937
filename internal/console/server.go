package console

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/solarops/solar-console/client"
	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/domain"
	apierrors "github.com/solarops/solar-console/errors"
	"github.com/solarops/solar-console/guard"
	"github.com/solarops/solar-console/session"
)

// Server is the console gateway. The sign-in surface is public; everything
// under /:role is gated by the guard policies over the persisted fragment.
type Server struct {
	echo  *echo.Echo
	sdk   *client.Client
	sess  *session.Store
	creds credstore.Store
}

// NewServer wires the routes. The session store must already be initialized
// by the caller.
func NewServer(sdk *client.Client, sess *session.Store, creds credstore.Store) *Server {
	s := &Server{
		echo:  echo.New(),
		sdk:   sdk,
		sess:  sess,
		creds: creds,
	}
	s.echo.HideBanner = true
	s.echo.Use(echomw.Recover())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleRoot, guard.Middleware(s.creds, guard.LoginRedirect))
	s.echo.POST("/sign-in", s.handleSignIn)
	s.echo.POST("/sign-out", s.handleSignOut)

	protected := s.echo.Group("/:role", guard.Middleware(s.creds, guard.LayoutProtect), s.requireRoleMatch)
	protected.GET("/profile", s.handleProfile)
	protected.GET("/sites", s.handleSites)
	protected.GET("/notifications", s.handleNotifications)
	protected.GET("/hopecloud/overview", s.handleHopeCloudOverview)
}

// Handler exposes the underlying http.Handler for the outer http.Server.
func (s *Server) Handler() http.Handler { return s.echo }

// requireRoleMatch keeps a user inside their own role namespace. A mismatch
// redirects to the persisted role's home rather than erroring.
func (s *Server) requireRoleMatch(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		creds, err := s.creds.Load()
		if err != nil || c.Param("role") != creds.Role {
			return c.Redirect(http.StatusFound, guard.RoleHome(creds.Role))
		}
		return next(c)
	}
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "sign in via POST /sign-in"})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sign-in payload")
	}
	if err := s.sess.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return s.renderError(c, err)
	}
	user := s.sess.User()
	return c.JSON(http.StatusOK, echo.Map{
		"user":     user,
		"redirect": guard.RoleHome(string(user.Role)),
	})
}

func (s *Server) handleSignOut(c echo.Context) error {
	if err := s.sess.Logout(c.Request().Context()); err != nil {
		log.Warn().Err(err).Msg("sign-out failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"redirect": guard.SignInPath})
}

func (s *Server) handleProfile(c echo.Context) error {
	if user := s.sess.User(); user != nil {
		return c.JSON(http.StatusOK, user)
	}
	creds, err := s.creds.Load()
	if err != nil || creds.AccessToken == "" {
		return c.Redirect(http.StatusFound, guard.SignInPath)
	}
	user, err := s.sdk.Users().CurrentUser(c.Request().Context(), creds.AccessToken)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) handleSites(c echo.Context) error {
	sites, err := s.sdk.Sites().List(c.Request().Context(), domain.SiteStatus(c.QueryParam("status")))
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, sites)
}

func (s *Server) handleNotifications(c echo.Context) error {
	notes, err := s.sdk.Notifications().List(c.Request().Context(), c.QueryParam("unread") == "true")
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (s *Server) handleHopeCloudOverview(c echo.Context) error {
	ctx := c.Request().Context()
	stations, err := s.sdk.HopeCloud().Stations(ctx)
	if err != nil {
		return s.renderError(c, err)
	}
	alarms, err := s.sdk.HopeCloud().Alarms(ctx)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"stations": stations,
		"alarms":   alarms,
	})
}

// renderError maps SDK errors to responses. A dead session is a redirect to
// sign-in, the one place the hard redirect decision is made.
func (s *Server) renderError(c echo.Context, err error) error {
	if apierrors.IsSessionExpired(err) {
		return c.Redirect(http.StatusFound, guard.SignInPath)
	}
	var apiErr *apierrors.APIError
	if apierrors.AsAPIError(err, &apiErr) {
		return c.JSON(apiErr.Status, echo.Map{"error": apiErr.Code, "message": apiErr.Description})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("upstream request failed")
	return echo.NewHTTPError(http.StatusBadGateway, "upstream request failed")
}

// Close releases the SDK's background caches. The outer http.Server owns the
// listener shutdown.
func (s *Server) Close() {
	s.sdk.HopeCloud().Close()
	s.sdk.FusionSolar().Close()
}
