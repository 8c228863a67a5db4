package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/fleetapi"
	"fleet-console/internal/infrastructure/memory"
	appErrors "fleet-console/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthRepo struct {
	mu         sync.Mutex
	loginRes   *account.AuthResult
	loginErr   error
	me         *account.Me
	meErr      error
	meSessions []string
	logouts    []string
}

func (f *fakeAuthRepo) Login(ctx context.Context, creds account.Credentials) (*account.AuthResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAuthRepo) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts = append(f.logouts, fleetapi.SessionID(ctx))
	return errors.New("logout endpoint down")
}

func (f *fakeAuthRepo) Me(ctx context.Context) (*account.Me, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meSessions = append(f.meSessions, fleetapi.SessionID(ctx))
	return f.me, f.meErr
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func dispatcherMe() *account.Me {
	return &account.Me{
		Authenticated: true,
		Username:      "dispatch",
		Roles:         []string{"ROLE_DISPATCHER"},
		Account:       &account.UserShort{UserID: 7, FirstName: "Ola", LastName: "Nowak"},
	}
}

func TestLogin_CreatesSessionAndLoadsMe(t *testing.T) {
	sessions := memory.NewSessionRepository()
	repo := &fakeAuthRepo{
		loginRes: &account.AuthResult{AccessToken: "access", RefreshToken: "refresh"},
		me:       dispatcherMe(),
	}
	svc := NewService(repo, sessions, time.Hour)

	res, err := svc.Login(context.Background(), &LoginRequest{Login: " dispatch ", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)
	assert.True(t, res.Me.HasRole(account.RoleDispatcher))
	assert.Equal(t, []string{res.SessionID}, repo.meSessions)

	stored, err := sessions.GetByID(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "access", stored.AccessToken)
	assert.Equal(t, "refresh", stored.RefreshToken)
	require.NotNil(t, stored.Me)
	assert.Equal(t, "Ola Nowak", stored.Me.DisplayName())
}

func TestLogin_Validation(t *testing.T) {
	svc := NewService(&fakeAuthRepo{}, memory.NewSessionRepository(), time.Hour)

	_, err := svc.Login(context.Background(), &LoginRequest{Login: "  ", Password: ""})
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestLogin_RejectedShowsBackendMessageOrDefault(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &fleetapi.APIError{Status: 401, BackendMessage: "Account blocked"}, "Account blocked"},
		{"no message", &fleetapi.APIError{Status: 401}, "Invalid login or password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&fakeAuthRepo{loginErr: tc.err}, memory.NewSessionRepository(), time.Hour)
			_, err := svc.Login(context.Background(), &LoginRequest{Login: "x", Password: "y"})
			assert.Equal(t, tc.want, appErrors.UserMessage(err))
			assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
		})
	}
}

func TestLogin_Unavailable(t *testing.T) {
	unavailable := &fleetapi.APIError{Status: 0, UserMessage: "Backend is unavailable.", Err: errors.New("dial")}
	svc := NewService(&fakeAuthRepo{loginErr: unavailable}, memory.NewSessionRepository(), time.Hour)

	_, err := svc.Login(context.Background(), &LoginRequest{Login: "x", Password: "y"})
	assert.ErrorIs(t, err, fleetapi.ErrUnavailable)
}

func TestLogin_MeFailureFallsBackToTokenRoles(t *testing.T) {
	sessions := memory.NewSessionRepository()
	access := signed(t, jwt.MapClaims{"sub": "driver1", "roles": []string{"DRIVER"}})
	repo := &fakeAuthRepo{
		loginRes: &account.AuthResult{AccessToken: access, RefreshToken: "refresh"},
		meErr:    errors.New("boom"),
	}
	svc := NewService(repo, sessions, time.Hour)

	res, err := svc.Login(context.Background(), &LoginRequest{Login: "driver1", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, res.Me.HasRole(account.RoleDriver))
	assert.Equal(t, "driver1", res.Me.Username)
}

func TestLogin_MeFailureWithoutRolesDropsSession(t *testing.T) {
	sessions := memory.NewSessionRepository()
	repo := &fakeAuthRepo{
		loginRes: &account.AuthResult{AccessToken: "opaque", RefreshToken: "refresh"},
		meErr:    errors.New("boom"),
	}
	svc := NewService(repo, sessions, time.Hour)
	var forgotten []string
	svc.OnSessionEnd(func(id string) { forgotten = append(forgotten, id) })

	_, err := svc.Login(context.Background(), &LoginRequest{Login: "x", Password: "y"})
	require.Error(t, err)
	require.Len(t, forgotten, 1)

	_, err = sessions.GetByID(context.Background(), forgotten[0])
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestCurrent_BootstrapsMissingProfile(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	require.NoError(t, sessions.Create(ctx, &session.Session{ID: "s1", AccessToken: "a", RefreshToken: "r"}))
	repo := &fakeAuthRepo{me: dispatcherMe()}
	svc := NewService(repo, sessions, time.Hour)

	sess, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.Me.HasRole(account.RoleDispatcher))

	// profile is now stored, no second call
	_, err = svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, repo.meSessions, 1)
}

func TestCurrent_BootstrapFailureClearsSession(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	require.NoError(t, sessions.Create(ctx, &session.Session{ID: "s1", AccessToken: "a", RefreshToken: "r"}))
	svc := NewService(&fakeAuthRepo{meErr: fleetapi.ErrSessionExpired}, sessions, time.Hour)

	_, err := svc.Current(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = sessions.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestCurrent_UnknownSession(t *testing.T) {
	svc := NewService(&fakeAuthRepo{}, memory.NewSessionRepository(), time.Hour)

	_, err := svc.Current(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = svc.Current(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestLogout_ForgetsSessionEvenWhenAPIFails(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	require.NoError(t, sessions.Create(ctx, &session.Session{ID: "s1", AccessToken: "a", Me: dispatcherMe()}))
	repo := &fakeAuthRepo{}
	svc := NewService(repo, sessions, time.Hour)
	var forgotten []string
	svc.OnSessionEnd(func(id string) { forgotten = append(forgotten, id) })

	svc.Logout(ctx, "s1")

	assert.Equal(t, []string{"s1"}, repo.logouts)
	assert.Equal(t, []string{"s1"}, forgotten)
	_, err := sessions.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestCleanupExpiredSessions(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	now := time.Now()
	require.NoError(t, sessions.Create(ctx, &session.Session{ID: "old", AccessToken: "a", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, sessions.Create(ctx, &session.Session{ID: "live", AccessToken: "a", ExpiresAt: now.Add(time.Hour)}))

	svc := NewService(&fakeAuthRepo{}, sessions, 2*time.Hour)
	var idle []time.Duration
	svc.cleanupExpiredSessions(ctx, []IdlePurger{func(d time.Duration) { idle = append(idle, d) }})

	assert.Equal(t, []time.Duration{2 * time.Hour}, idle)
	removed, err := sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
	_, err = sessions.GetByID(ctx, "live")
	assert.NoError(t, err)
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(dispatcherMe(), account.RoleAdmin, account.RoleDispatcher))
	assert.False(t, HasRole(dispatcherMe(), account.RoleDriver))
	assert.False(t, HasRole(nil, account.RoleDriver))
}
