package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/solarops/solar-console/domain"
)

const usersBase = "/api/users"

// UserService wraps the user and session endpoints under /api/users.
type UserService struct {
	c *Client
}

// Login exchanges credentials for an access token. It does not fetch the
// profile; the session store performs that second step.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
	body := map[string]string{"email": email, "password": password}
	var grant domain.TokenGrant
	if err := s.c.do(ctx, http.MethodPost, usersBase+"/login", nil, body, &grant); err != nil {
		return nil, err
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("login response did not contain an access token")
	}
	return &grant, nil
}

// Logout invalidates the server-side session. Local cleanup is the session
// store's responsibility and happens regardless of this call's outcome.
func (s *UserService) Logout(ctx context.Context) error {
	return s.c.do(ctx, http.MethodPost, usersBase+"/logout", nil, nil, nil)
}

// Refresh exchanges the current session for a new access token.
func (s *UserService) Refresh(ctx context.Context) (*domain.TokenGrant, error) {
	var grant domain.TokenGrant
	if err := s.c.do(ctx, http.MethodPost, usersBase+"/refresh", nil, nil, &grant); err != nil {
		return nil, err
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("refresh response did not contain an access token")
	}
	return &grant, nil
}

// Register creates a new user account. The caller is not authenticated by
// this call; the account awaits activation.
func (s *UserService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	var user domain.User
	if err := s.c.do(ctx, http.MethodPost, usersBase, nil, reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Activate exchanges an activation link for an authenticated session,
// following the same two-step token-then-profile flow as Login.
func (s *UserService) Activate(ctx context.Context, act domain.Activation) (*domain.TokenGrant, error) {
	var grant domain.TokenGrant
	if err := s.c.do(ctx, http.MethodPost, usersBase+"/activate", nil, act, &grant); err != nil {
		return nil, err
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("activation response did not contain an access token")
	}
	return &grant, nil
}

// ForgotPassword requests a password-reset email. No session state changes.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	return s.c.do(ctx, http.MethodPost, usersBase+"/forgot-password", nil, map[string]string{"email": email}, nil)
}

// ResetPassword completes a forgot-password flow. No session state changes.
func (s *UserService) ResetPassword(ctx context.Context, reset domain.PasswordReset) error {
	return s.c.do(ctx, http.MethodPost, usersBase+"/reset-password", nil, reset, nil)
}

// ChangePassword rotates the password of the given user. The access token is
// not rotated by this call.
func (s *UserService) ChangePassword(ctx context.Context, id int64, change domain.PasswordChange) error {
	path := fmt.Sprintf("%s/%d/change-password", usersBase, id)
	return s.c.do(ctx, http.MethodPatch, path, nil, change, nil)
}

// CurrentUser fetches the profile of the calling session. A non-empty token
// overrides the persisted one; this is how the profile is hydrated right
// after login/activation, before the fragment has been persisted.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	if err := s.c.doWithToken(ctx, token, http.MethodGet, usersBase+"/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", usersBase, id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial profile update to a user.
func (s *UserService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	var user domain.User
	if err := s.c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", usersBase, id), nil, patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]domain.User, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	var users []domain.User
	if err := s.c.do(ctx, http.MethodGet, usersBase, query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", usersBase, id), nil, nil, nil)
}
