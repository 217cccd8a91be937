package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/domain"
	apierrors "github.com/solarops/solar-console/errors"
)

// fakeAPI implements API with scriptable function fields and call counters.
type fakeAPI struct {
	loginFn       func(ctx context.Context, email, password string) (*domain.TokenGrant, error)
	logoutFn      func(ctx context.Context) error
	refreshFn     func(ctx context.Context) (*domain.TokenGrant, error)
	currentUserFn func(ctx context.Context, token string) (*domain.User, error)
	changePwFn    func(ctx context.Context, id int64, change domain.PasswordChange) error
	updateFn      func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	calls map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}}
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
	f.calls["login"]++
	return f.loginFn(ctx, email, password)
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.calls["logout"]++
	if f.logoutFn != nil {
		return f.logoutFn(ctx)
	}
	return nil
}

func (f *fakeAPI) Refresh(ctx context.Context) (*domain.TokenGrant, error) {
	f.calls["refresh"]++
	return f.refreshFn(ctx)
}

func (f *fakeAPI) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	f.calls["register"]++
	return &domain.User{ID: 99, Email: reg.Email, Status: domain.UserStatusPending}, nil
}

func (f *fakeAPI) Activate(ctx context.Context, act domain.Activation) (*domain.TokenGrant, error) {
	f.calls["activate"]++
	return &domain.TokenGrant{AccessToken: "activated-token"}, nil
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) error {
	f.calls["forgotPassword"]++
	return nil
}

func (f *fakeAPI) ResetPassword(ctx context.Context, reset domain.PasswordReset) error {
	f.calls["resetPassword"]++
	return nil
}

func (f *fakeAPI) ChangePassword(ctx context.Context, id int64, change domain.PasswordChange) error {
	f.calls["changePassword"]++
	if f.changePwFn != nil {
		return f.changePwFn(ctx, id, change)
	}
	return nil
}

func (f *fakeAPI) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	f.calls["currentUser"]++
	return f.currentUserFn(ctx, token)
}

func (f *fakeAPI) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	f.calls["update"]++
	return f.updateFn(ctx, id, patch)
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.failures = append(n.failures, msg) }

func adminUser() *domain.User {
	return &domain.User{ID: 7, Email: "a@b.com", Role: domain.RoleAdmin, Status: domain.UserStatusActive}
}

// requireConsistent asserts the core invariant: never a user without a token
// or a token without a user.
func requireConsistent(t *testing.T, s *Store) {
	t.Helper()
	userPresent := s.User() != nil
	tokenPresent := s.AccessToken() != ""
	require.Equal(t, userPresent, tokenPresent, "user and access token must be present or absent together")
	require.Equal(t, userPresent && tokenPresent, s.IsAuthenticated())
}

func TestLogin_Success(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		require.Equal(t, "a@b.com", email)
		require.Equal(t, "Secret123!", password)
		return &domain.TokenGrant{AccessToken: "tok1"}, nil
	}
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		require.Equal(t, "tok1", token, "profile fetch uses the freshly issued token")
		return adminUser(), nil
	}

	creds := credstore.NewMemStore()
	notifier := &recordingNotifier{}
	store := NewStore(api, creds, notifier)

	require.NoError(t, store.Login(context.Background(), "a@b.com", "Secret123!"))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, StateAuthenticated, store.State())
	assert.False(t, store.IsLoading())
	requireConsistent(t, store)

	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, credstore.Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}, persisted)
	assert.Len(t, notifier.successes, 1)
}

func TestLogin_CredentialsRejected(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		return nil, apierrors.NewAPIError(400, "invalid_credentials", "wrong email or password")
	}

	creds := credstore.NewMemStore()
	notifier := &recordingNotifier{}
	store := NewStore(api, creds, notifier)

	err := store.Login(context.Background(), "a@b.com", "nope")
	require.Error(t, err)

	assert.False(t, store.IsAuthenticated())
	assert.False(t, store.IsLoading())
	requireConsistent(t, store)
	require.Len(t, notifier.failures, 1)
	assert.Equal(t, "wrong email or password", notifier.failures[0], "backend message is surfaced")
}

func TestLogin_ProfileFetchFailureDiscardsToken(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		return &domain.TokenGrant{AccessToken: "tok1"}, nil
	}
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		return nil, apierrors.NewAPIError(500, "server_error", "profile service down")
	}

	creds := credstore.NewMemStore()
	notifier := &recordingNotifier{}
	store := NewStore(api, creds, notifier)

	err := store.Login(context.Background(), "a@b.com", "Secret123!")
	require.Error(t, err)

	assert.False(t, store.IsAuthenticated(), "no token-only half-authenticated state")
	assert.Empty(t, store.AccessToken())
	requireConsistent(t, store)

	persisted, loadErr := creds.Load()
	require.NoError(t, loadErr)
	assert.True(t, persisted.IsZero())
	assert.Len(t, notifier.failures, 1)
}

func TestLogout_ClearsEverythingEvenWhenBackendFails(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		return &domain.TokenGrant{AccessToken: "tok1"}, nil
	}
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		return adminUser(), nil
	}
	api.logoutFn = func(ctx context.Context) error {
		return errors.New("backend unreachable")
	}

	creds := credstore.NewMemStore()
	notifier := &recordingNotifier{}
	store := NewStore(api, creds, notifier)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "Secret123!"))

	require.NoError(t, store.Logout(context.Background()), "backend failure is swallowed")

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, StateUnauthenticated, store.State())
	requireConsistent(t, store)

	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.True(t, persisted.IsZero())
	assert.Empty(t, notifier.failures, "logout failure is logged, not surfaced")
}

func TestLogout_IsIdempotent(t *testing.T) {
	api := newFakeAPI()
	store := NewStore(api, credstore.NewMemStore(), NopNotifier{})

	require.NoError(t, store.Logout(context.Background()))
	require.NoError(t, store.Logout(context.Background()))

	assert.Zero(t, api.calls["logout"], "no backend call without a session")
	requireConsistent(t, store)
}

func TestInitialize_NoPersistedToken(t *testing.T) {
	store := NewStore(newFakeAPI(), credstore.NewMemStore(), NopNotifier{})

	require.NoError(t, store.Initialize(context.Background()))

	assert.Equal(t, StateUnauthenticated, store.State())
	requireConsistent(t, store)
}

func TestInitialize_HydratesFromPersistedToken(t *testing.T) {
	api := newFakeAPI()
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		require.Equal(t, "tok1", token)
		return adminUser(), nil
	}

	creds := credstore.NewMemStore()
	require.NoError(t, creds.Save(credstore.Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}))
	store := NewStore(api, creds, NopNotifier{})

	require.NoError(t, store.Initialize(context.Background()))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok1", store.AccessToken())
	requireConsistent(t, store)
}

func TestInitialize_FailsClosed(t *testing.T) {
	api := newFakeAPI()
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		return nil, apierrors.NewAPIError(404, "not_found", "user not found")
	}

	creds := credstore.NewMemStore()
	require.NoError(t, creds.Save(credstore.Credentials{AccessToken: "stale", UserID: "7", Role: "admin"}))
	store := NewStore(api, creds, NopNotifier{})

	require.NoError(t, store.Initialize(context.Background()))

	assert.Equal(t, StateUnauthenticated, store.State())
	assert.False(t, store.IsAuthenticated())
	requireConsistent(t, store)

	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.True(t, persisted.IsZero(), "persisted fragment cleared when hydration fails")
}

func TestRefreshToken_FailureClearsAtomically(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		return &domain.TokenGrant{AccessToken: "tok1"}, nil
	}
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		return adminUser(), nil
	}
	api.refreshFn = func(ctx context.Context) (*domain.TokenGrant, error) {
		return nil, errors.New("refresh rejected")
	}

	creds := credstore.NewMemStore()
	store := NewStore(api, creds, NopNotifier{})
	require.NoError(t, store.Login(context.Background(), "a@b.com", "Secret123!"))

	err := store.RefreshToken(context.Background())
	require.Error(t, err)

	assert.Nil(t, store.User())
	assert.Empty(t, store.AccessToken())
	requireConsistent(t, store)

	persisted, loadErr := creds.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, persisted.AccessToken)
	assert.Empty(t, persisted.UserID)
	assert.Empty(t, persisted.Role)
}

func TestRefreshToken_SuccessReplacesTokenAndUser(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		return &domain.TokenGrant{AccessToken: "tok1"}, nil
	}
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		return adminUser(), nil
	}
	api.refreshFn = func(ctx context.Context) (*domain.TokenGrant, error) {
		return &domain.TokenGrant{AccessToken: "tok2"}, nil
	}

	creds := credstore.NewMemStore()
	store := NewStore(api, creds, NopNotifier{})
	require.NoError(t, store.Login(context.Background(), "a@b.com", "Secret123!"))

	require.NoError(t, store.RefreshToken(context.Background()))

	assert.Equal(t, "tok2", store.AccessToken())
	requireConsistent(t, store)

	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok2", persisted.AccessToken)
}

func TestChangePassword_WithoutSessionFailsFast(t *testing.T) {
	api := newFakeAPI()
	notifier := &recordingNotifier{}
	store := NewStore(api, credstore.NewMemStore(), notifier)

	err := store.ChangePassword(context.Background(), domain.PasswordChange{
		CurrentPassword: "old", NewPassword: "new", ConfirmPassword: "new",
	})

	require.ErrorIs(t, err, apierrors.ErrNotAuthenticated)
	assert.Zero(t, api.calls["changePassword"], "no network call without a session")
	assert.Len(t, notifier.failures, 1)
}

func TestUpdateUser_SelfUpdateRefreshesProfile(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		return &domain.TokenGrant{AccessToken: "tok1"}, nil
	}
	freshName := false
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		u := adminUser()
		if freshName {
			u.FirstName = "Renamed"
		}
		return u, nil
	}
	api.updateFn = func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
		freshName = true
		return adminUser(), nil
	}

	store := NewStore(api, credstore.NewMemStore(), NopNotifier{})
	require.NoError(t, store.Login(context.Background(), "a@b.com", "Secret123!"))

	_, err := store.UpdateUser(context.Background(), 7, domain.UserPatch{})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", store.User().FirstName)
	requireConsistent(t, store)
}

func TestUpdateUser_OtherUserLeavesSessionUntouched(t *testing.T) {
	api := newFakeAPI()
	api.loginFn = func(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
		return &domain.TokenGrant{AccessToken: "tok1"}, nil
	}
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		return adminUser(), nil
	}
	api.updateFn = func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
		return &domain.User{ID: id, Email: "other@b.com", Role: domain.RoleOperator}, nil
	}

	store := NewStore(api, credstore.NewMemStore(), NopNotifier{})
	require.NoError(t, store.Login(context.Background(), "a@b.com", "Secret123!"))
	profileFetches := api.calls["currentUser"]

	_, err := store.UpdateUser(context.Background(), 1234, domain.UserPatch{})
	require.NoError(t, err)

	assert.Equal(t, profileFetches, api.calls["currentUser"], "no profile re-fetch for another user")
	assert.EqualValues(t, 7, store.User().ID)
	requireConsistent(t, store)
}

func TestActivateAccount_AuthenticatesLikeLogin(t *testing.T) {
	api := newFakeAPI()
	api.currentUserFn = func(ctx context.Context, token string) (*domain.User, error) {
		require.Equal(t, "activated-token", token)
		return adminUser(), nil
	}

	creds := credstore.NewMemStore()
	store := NewStore(api, creds, NopNotifier{})

	require.NoError(t, store.ActivateAccount(context.Background(), domain.Activation{
		ActivationLink: "link-123", Password: "Secret123!", ConfirmPassword: "Secret123!",
	}))

	assert.True(t, store.IsAuthenticated())
	requireConsistent(t, store)

	persisted, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "activated-token", persisted.AccessToken)
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	api := newFakeAPI()
	store := NewStore(api, credstore.NewMemStore(), NopNotifier{})

	user, err := store.Register(context.Background(), domain.Registration{Email: "new@b.com"})
	require.NoError(t, err)

	assert.Equal(t, "new@b.com", user.Email)
	assert.False(t, store.IsAuthenticated())
	requireConsistent(t, store)
}

func TestForgotAndResetPassword_NoStateChange(t *testing.T) {
	api := newFakeAPI()
	notifier := &recordingNotifier{}
	store := NewStore(api, credstore.NewMemStore(), notifier)

	require.NoError(t, store.ForgotPassword(context.Background(), "a@b.com"))
	require.NoError(t, store.ResetPassword(context.Background(), domain.PasswordReset{
		Token: "reset-tok", Password: "New123!", ConfirmPassword: "New123!",
	}))

	assert.False(t, store.IsAuthenticated())
	assert.Len(t, notifier.successes, 2)
	requireConsistent(t, store)
}
