// Package session holds the in-memory session of the console: the current
// user profile and access token, the lifecycle operations that mutate them,
// and the synchronization of the minimal persisted fragment that survives
// restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/domain"
	apierrors "github.com/solarops/solar-console/errors"
)

// State is the lifecycle state of the session store.
type State int

const (
	StateUninitialized State = iota
	StateHydrating
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHydrating:
		return "hydrating"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// API is the slice of the user service the session store drives. It is
// satisfied by *client.UserService.
type API interface {
	Login(ctx context.Context, email, password string) (*domain.TokenGrant, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*domain.TokenGrant, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Activate(ctx context.Context, act domain.Activation) (*domain.TokenGrant, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, reset domain.PasswordReset) error
	ChangePassword(ctx context.Context, id int64, change domain.PasswordChange) error
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
}

// Store is the process-wide session. It is created empty, hydrated once from
// the persisted fragment, and then mutated only by its own operations. The
// user and access token are set and cleared together under one lock; no
// observer can see one without the other.
type Store struct {
	api      API
	creds    credstore.Store
	notifier Notifier

	mu      sync.Mutex
	state   State
	user    *domain.User
	token   string
	loading bool
}

// NewStore creates an uninitialized session store. Pass NopNotifier{} when no
// user-visible surface exists.
func NewStore(api API, creds credstore.Store, notifier Notifier) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{
		api:      api,
		creds:    creds,
		notifier: notifier,
		state:    StateUninitialized,
	}
}

func (s *Store) lock()   { s.mu.Lock() }
func (s *Store) unlock() { s.mu.Unlock() }

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.lock()
	defer s.unlock()
	return s.state
}

// User returns the current profile, or nil when unauthenticated.
func (s *Store) User() *domain.User {
	s.lock()
	defer s.unlock()
	return s.user
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (s *Store) AccessToken() string {
	s.lock()
	defer s.unlock()
	return s.token
}

// IsAuthenticated reports whether both a user and a token are present. The
// two are only ever written together, so this cannot observe a half state.
func (s *Store) IsAuthenticated() bool {
	s.lock()
	defer s.unlock()
	return s.user != nil && s.token != ""
}

// IsLoading reports whether a session operation is in flight.
func (s *Store) IsLoading() bool {
	s.lock()
	defer s.unlock()
	return s.loading
}

func (s *Store) setLoading(v bool) {
	s.lock()
	s.loading = v
	s.unlock()
}

// setAuthenticated installs user and token as one transition and persists the
// fragment (all three keys together).
func (s *Store) setAuthenticated(user *domain.User, token string) error {
	err := s.creds.Save(credstore.Credentials{
		AccessToken: token,
		UserID:      strconv.FormatInt(user.ID, 10),
		Role:        string(user.Role),
	})
	s.lock()
	s.user = user
	s.token = token
	s.state = StateAuthenticated
	s.unlock()
	if err != nil {
		return fmt.Errorf("failed to persist session fragment: %w", err)
	}
	return nil
}

// clearSession drops the in-memory session and the persisted fragment as one
// transition. It never fails the caller: a storage error is logged because
// local cleanup must win regardless.
func (s *Store) clearSession(ctx context.Context) {
	if err := s.creds.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear persisted session fragment")
	}
	s.lock()
	s.user = nil
	s.token = ""
	s.state = StateUnauthenticated
	s.unlock()
}

// Initialize hydrates the session from the persisted fragment. With no stored
// token it settles in StateUnauthenticated. With a token it fetches the
// profile; any failure clears both the in-memory session and the fragment —
// the session fails closed, never token-without-user.
func (s *Store) Initialize(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	creds, err := s.creds.Load()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load persisted session fragment")
		s.clearSession(ctx)
		return nil
	}
	if creds.AccessToken == "" {
		s.lock()
		s.state = StateUnauthenticated
		s.unlock()
		return nil
	}

	s.lock()
	s.state = StateHydrating
	s.unlock()

	user, err := s.api.CurrentUser(ctx, creds.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("session hydration failed, clearing persisted fragment")
		s.clearSession(ctx)
		return nil
	}

	if err := s.setAuthenticated(user, creds.AccessToken); err != nil {
		log.Error().Err(err).Msg("failed to re-persist session fragment during hydration")
	}
	return nil
}

// Login authenticates with email and password. The backend issues a token
// first and the profile is fetched second; when that second call fails the
// freshly issued token is discarded and the login reported as failed rather
// than leaving a token-only session.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	grant, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.notifier.Error(notifyMessage(err, "Login failed"))
		return err
	}
	return s.completeGrant(ctx, grant, "Logged in successfully")
}

// ActivateAccount exchanges an activation link for a session, following the
// same token-then-profile flow as Login.
func (s *Store) ActivateAccount(ctx context.Context, act domain.Activation) error {
	s.setLoading(true)
	defer s.setLoading(false)

	grant, err := s.api.Activate(ctx, act)
	if err != nil {
		s.notifier.Error(notifyMessage(err, "Account activation failed"))
		return err
	}
	return s.completeGrant(ctx, grant, "Account activated")
}

// completeGrant finishes any token-issuing operation: fetch the profile with
// the new token, then install user, token and persisted fragment together.
func (s *Store) completeGrant(ctx context.Context, grant *domain.TokenGrant, successMsg string) error {
	user, err := s.api.CurrentUser(ctx, grant.AccessToken)
	if err != nil {
		// A token was issued but the session is unusable without a profile.
		s.clearSession(ctx)
		s.notifier.Error("Signed in, but loading your profile failed. Please try again.")
		return fmt.Errorf("profile fetch after token grant failed: %w", err)
	}

	if err := s.setAuthenticated(user, grant.AccessToken); err != nil {
		s.notifier.Error("Login could not be persisted")
		return err
	}
	if grant.Message != "" {
		successMsg = grant.Message
	}
	s.notifier.Success(successMsg)
	return nil
}

// Logout ends the session. The backend call is best-effort: a failure is
// logged, not surfaced, and never blocks the unconditional local cleanup.
// Logging out an unauthenticated session is a no-op that does not error.
func (s *Store) Logout(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	s.lock()
	authenticated := s.user != nil && s.token != ""
	s.unlock()

	if authenticated {
		if err := s.api.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
		}
	}
	s.clearSession(ctx)
	return nil
}

// Register creates an account without authenticating the caller.
func (s *Store) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.api.Register(ctx, reg)
	if err != nil {
		s.notifier.Error(notifyMessage(err, "Registration failed"))
		return nil, err
	}
	s.notifier.Success("Registration successful. Check your inbox for the activation link.")
	return user, nil
}

// ForgotPassword requests a reset email. No session state changes.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.ForgotPassword(ctx, email); err != nil {
		s.notifier.Error(notifyMessage(err, "Could not send the reset email"))
		return err
	}
	s.notifier.Success("Password reset email sent")
	return nil
}

// ResetPassword completes a forgot-password flow. No session state changes.
func (s *Store) ResetPassword(ctx context.Context, reset domain.PasswordReset) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.ResetPassword(ctx, reset); err != nil {
		s.notifier.Error(notifyMessage(err, "Password reset failed"))
		return err
	}
	s.notifier.Success("Password has been reset")
	return nil
}

// ChangePassword rotates the current user's password. It fails fast, before
// any network call, when no session is present. The token is not rotated.
func (s *Store) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	s.setLoading(true)
	defer s.setLoading(false)

	s.lock()
	user := s.user
	s.unlock()
	if user == nil {
		s.notifier.Error("You must be signed in to change your password")
		return apierrors.ErrNotAuthenticated
	}

	if err := s.api.ChangePassword(ctx, user.ID, change); err != nil {
		s.notifier.Error(notifyMessage(err, "Password change failed"))
		return err
	}
	s.notifier.Success("Password changed")
	return nil
}

// RefreshToken replaces the access token and re-fetches the profile. Any
// failure clears the entire session — in-memory and all persisted keys as one
// unit — and propagates the error.
func (s *Store) RefreshToken(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	grant, err := s.api.Refresh(ctx)
	if err != nil {
		s.clearSession(ctx)
		return fmt.Errorf("token refresh failed: %w", err)
	}

	user, err := s.api.CurrentUser(ctx, grant.AccessToken)
	if err != nil {
		s.clearSession(ctx)
		return fmt.Errorf("profile fetch after token refresh failed: %w", err)
	}
	return s.setAuthenticated(user, grant.AccessToken)
}

// UpdateUser applies a partial update to any user. When the updated id is the
// current user's, the profile is re-fetched so the in-memory session reflects
// the change; edits to other users leave the session untouched.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.api.Update(ctx, id, patch)
	if err != nil {
		s.notifier.Error(notifyMessage(err, "User update failed"))
		return nil, err
	}

	s.lock()
	current := s.user
	token := s.token
	s.unlock()

	if current != nil && current.ID == id {
		fresh, err := s.api.CurrentUser(ctx, token)
		if err != nil {
			log.Warn().Err(err).Msg("profile re-fetch after self-update failed, keeping update response")
			fresh = updated
		}
		if err := s.setAuthenticated(fresh, token); err != nil {
			log.Error().Err(err).Msg("failed to re-persist session fragment after self-update")
		}
	}

	s.notifier.Success("User updated")
	return updated, nil
}

// notifyMessage prefers the backend-supplied message for user display.
func notifyMessage(err error, fallback string) string {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		return apiErr.Description
	}
	return fallback
}
