package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"fleet-console/internal/config"
	"fleet-console/internal/delivery/http/views"
	"fleet-console/internal/domain/account"
	domainLocation "fleet-console/internal/domain/location"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/fleetapi"
	"fleet-console/internal/infrastructure/memory"
	"fleet-console/internal/middleware"
	"fleet-console/internal/notify"
	"fleet-console/internal/usecase/auth"
	"fleet-console/internal/usecase/location"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var cookieCfg = &config.SessionConfig{CookieName: "fleet_session", TTL: time.Hour}

type fakeAuth struct {
	account.AuthRepository
	loginErr error
	me       *account.Me
}

func (f *fakeAuth) Login(ctx context.Context, creds account.Credentials) (*account.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &account.AuthResult{AccessToken: "access-" + creds.Login, RefreshToken: "refresh"}, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error { return nil }

func (f *fakeAuth) Me(ctx context.Context) (*account.Me, error) { return f.me, nil }

type fakeLocations struct {
	domainLocation.Repository
	mu      sync.Mutex
	items   []domainLocation.Location
	created []*domainLocation.Request
	err     error
}

func (f *fakeLocations) List(ctx context.Context, q page.Query) (*page.Page[domainLocation.Location], error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &page.Page[domainLocation.Location]{Content: append([]domainLocation.Location(nil), f.items...)}, nil
}

func (f *fakeLocations) GetByID(ctx context.Context, id int64) (*domainLocation.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.items {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, &fleetapi.APIError{Status: http.StatusNotFound, UserMessage: "Not found."}
}

func (f *fakeLocations) Create(ctx context.Context, req *domainLocation.Request) (*domainLocation.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	l := domainLocation.Location{ID: int64(len(f.items) + 1), Street: req.Street, City: req.City}
	f.items = append(f.items, l)
	return &l, nil
}

func (f *fakeLocations) Delete(ctx context.Context, id int64) error { return f.err }

type testEnv struct {
	engine    *gin.Engine
	sessions  *memory.SessionRepository
	auth      *fakeAuth
	locations *fakeLocations
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		sessions:  memory.NewSessionRepository(),
		auth:      &fakeAuth{me: &account.Me{Authenticated: true, Username: "disp", Roles: []string{"DISPATCHER"}}},
		locations: &fakeLocations{},
	}
	authService := auth.NewService(env.auth, env.sessions, time.Hour)
	base := NewBase(notify.NewCenter(0), cookieCfg)
	authHandler := NewAuthHandler(base, authService, nil)
	locationHandler := NewLocationHandler(base, location.NewService(env.locations))

	r := gin.New()
	r.HTMLRender = views.MustNew()
	r.Use(middleware.SessionMiddleware(authService, cookieCfg))
	authHandler.RegisterPublicRoutes(r, middleware.LoginRateLimitMiddleware(0.001, 2, authHandler.LoginThrottled))

	protected := r.Group("")
	protected.Use(middleware.AuthRequired())
	{
		authHandler.RegisterRoutes(protected)
		office := protected.Group("")
		office.Use(middleware.RoleMiddleware(account.RoleDispatcher, account.RoleAdmin))
		{
			locationHandler.RegisterRoutes(office)
		}
	}
	env.engine = r
	return env
}

// signIn stores a session for roles and returns its cookie.
func (e *testEnv) signIn(t *testing.T, roles ...string) *http.Cookie {
	t.Helper()
	s := &session.Session{
		ID:          "sess-" + strings.Join(roles, "-"),
		AccessToken: "token",
		Me:          &account.Me{Authenticated: true, Username: "tester", Roles: roles},
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, e.sessions.Create(context.Background(), s))
	return &http.Cookie{Name: cookieCfg.CookieName, Value: s.ID}
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieCfg.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_SuccessSetsCookieAndRedirects(t *testing.T) {
	env := newTestEnv(t)

	w := env.post("/login", url.Values{"login": {"disp"}, "password": {"secret"}}, nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middleware.MenuPath, w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	menu := env.get(middleware.MenuPath, cookie)
	assert.Equal(t, http.StatusOK, menu.Code)
	assert.Contains(t, menu.Body.String(), "Signed in as")
	assert.Contains(t, menu.Body.String(), `href="/transports"`)
}

func TestLogin_RejectedCredentialsShowBackendMessage(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginErr = &fleetapi.APIError{Status: http.StatusUnauthorized, BackendMessage: "Bad credentials"}

	w := env.post("/login", url.Values{"login": {"disp"}, "password": {"wrong"}}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bad credentials")
	assert.Contains(t, w.Body.String(), `value="disp"`)
	assert.Nil(t, sessionCookie(w))
}

func TestLogin_MissingFieldsAreValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.post("/login", url.Values{}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "is required")
}

func TestLogin_Throttled(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginErr = &fleetapi.APIError{Status: http.StatusUnauthorized}
	form := url.Values{"login": {"disp"}, "password": {"wrong"}}

	env.post("/login", form, nil)
	env.post("/login", form, nil)
	w := env.post("/login", form, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many login attempts")
}

func TestProtectedPages_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(middleware.MenuPath, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	w = env.get(middleware.MenuPath, &http.Cookie{Name: cookieCfg.CookieName, Value: "unknown"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestLoginPage_RedirectsSignedInUser(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "DISPATCHER")

	w := env.get(middleware.LoginPath, cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middleware.MenuPath, w.Header().Get("Location"))
}

func TestMenu_ShowsSectionsForRole(t *testing.T) {
	env := newTestEnv(t)

	body := env.get(middleware.MenuPath, env.signIn(t, "ROLE_DRIVER")).Body.String()

	assert.Contains(t, body, `href="/drivers"`)
	assert.Contains(t, body, `href="/worklog"`)
	assert.NotContains(t, body, `href="/locations"`)
}

func TestRoleGuard_RedirectsToMenu(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(locationsPath, env.signIn(t, "DRIVER"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middleware.MenuPath, w.Header().Get("Location"))
}

func TestLogout_DropsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "DISPATCHER")

	w := env.post("/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	_, err := env.sessions.GetByID(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	w = env.get(middleware.MenuPath, cookie)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestLocations_ListRendersRows(t *testing.T) {
	env := newTestEnv(t)
	street, city := "Długa", "Gdańsk"
	env.locations.items = []domainLocation.Location{
		{ID: 7, Street: &street, City: &city, UsedInTransport: true, UsedAsPickup: true},
	}

	w := env.get(locationsPath, env.signIn(t, "DISPATCHER"))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "#7")
	assert.Contains(t, body, "Gdańsk")
	assert.Contains(t, body, "Cannot delete: location is used as pickup.")
	assert.Contains(t, body, `href="/locations/7/edit"`)
}

func TestLocations_CreateRejectsEmptyForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(locationsPath+"/new", url.Values{"street": {"Długa"}}, env.signIn(t, "ADMIN"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "is required")
	assert.Contains(t, body, `value="Długa"`)
	assert.Empty(t, env.locations.created)
}

func TestLocations_CreateRedirectsWithNotice(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "DISPATCHER")

	w := env.post(locationsPath+"/new", url.Values{
		"street":         {"Długa"},
		"buildingNumber": {"1"},
		"city":           {"Gdańsk"},
		"postcode":       {"80-001"},
		"country":        {"Poland"},
		"latitude":       {"54.35"},
		"longitude":      {"18.65"},
	}, cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, locationsPath, w.Header().Get("Location"))
	require.Len(t, env.locations.created, 1)
	require.NotNil(t, env.locations.created[0].Latitude)
	assert.Equal(t, 54.35, *env.locations.created[0].Latitude)

	list := env.get(locationsPath, cookie)
	assert.Contains(t, list.Body.String(), "Location created")

	again := env.get(locationsPath, cookie)
	assert.NotContains(t, again.Body.String(), "Location created")
}

func TestLocations_DeleteInUseIsRefused(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "DISPATCHER")
	env.locations.items = []domainLocation.Location{{ID: 3, UsedInTransport: true, UsedAsDelivery: true}}

	w := env.post(locationsPath+"/3/delete", url.Values{}, cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, locationsPath, w.Header().Get("Location"))
	assert.Contains(t, env.get(locationsPath, cookie).Body.String(), "used as delivery")
}

func TestLocations_InvalidIDRedirects(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(locationsPath+"/abc/edit", env.signIn(t, "DISPATCHER"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, locationsPath, w.Header().Get("Location"))
}

func TestBackendErrors_RedirectBySession(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		location string
	}{
		{name: "expired session", err: fleetapi.ErrSessionExpired, location: middleware.LoginPath},
		{name: "unauthorized", err: &fleetapi.APIError{Status: http.StatusUnauthorized}, location: middleware.LoginPath},
		{name: "forbidden", err: &fleetapi.APIError{Status: http.StatusForbidden}, location: ForbiddenPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.locations.err = tt.err

			w := env.get(locationsPath, env.signIn(t, "DISPATCHER"))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestBackendUnavailable_RendersEmptyList(t *testing.T) {
	env := newTestEnv(t)
	env.locations.err = &fleetapi.APIError{Status: 0, UserMessage: "Backend is unavailable.", Err: context.DeadlineExceeded}

	w := env.get(locationsPath, env.signIn(t, "DISPATCHER"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No locations found.")
	assert.Contains(t, w.Body.String(), "Backend is unavailable.")
}

func TestForbiddenPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(ForbiddenPath, env.signIn(t, "DRIVER"))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(&fleetapi.APIError{Status: 0}))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&fleetapi.APIError{Status: http.StatusBadRequest}))
	assert.Equal(t, http.StatusConflict, statusFor(&fleetapi.APIError{Status: http.StatusConflict}))
	assert.Equal(t, http.StatusBadGateway, statusFor(&fleetapi.APIError{Status: http.StatusInternalServerError}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestFieldErrors_MergesBackendValidation(t *testing.T) {
	err := &fleetapi.APIError{
		Status:           http.StatusBadRequest,
		ValidationErrors: map[string]string{"vin": "must be 17 characters"},
	}

	assert.Equal(t, map[string]string{"vin": "must be 17 characters"}, fieldErrors(err))
	assert.Nil(t, fieldErrors(assert.AnError))
}
