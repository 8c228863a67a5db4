package handler

import (
	"errors"
	"net/http"

	"fleet-console/internal/config"
	"fleet-console/internal/delivery/http/views"
	"fleet-console/internal/infrastructure/fleetapi"
	"fleet-console/internal/logger"
	"fleet-console/internal/middleware"
	"fleet-console/internal/notify"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	ForbiddenPath = "/forbidden"

	codeValidation = "VALIDATION_ERROR"
	codeNotAllowed = "NOT_ALLOWED"
	codeInProgress = "ACTION_IN_PROGRESS"
	codeNotFound   = "NOT_FOUND"
)

// Base holds what every page handler shares: the session notices and the
// cookie settings used when a session has to be dropped.
type Base struct {
	notices *notify.Center
	cookie  *config.SessionConfig
}

func NewBase(notices *notify.Center, cookie *config.SessionConfig) *Base {
	return &Base{notices: notices, cookie: cookie}
}

// render writes a page inside the layout, consuming the pending notice.
func (b *Base) render(c *gin.Context, status int, name, title string, data any) {
	b.renderPage(c, status, name, viewPage(title, data))
}

func (b *Base) renderPage(c *gin.Context, status int, name string, p *views.Page) {
	p.Path = c.Request.URL.Path
	if me := middleware.CurrentMe(c); me != nil && me.Authenticated {
		p.Me = me
		p.Nav = views.Menu(me)
	}
	if n, ok := b.notices.Take(middleware.CurrentSessionID(c)); ok {
		p.Notice = &n
	}
	c.HTML(status, name, p)
}

func viewPage(title string, data any) *views.Page {
	return &views.Page{Title: title, Data: data}
}

// rejectForm re-renders a submitted form with the notice and inline field
// errors of err, keeping what the user typed.
func (b *Base) rejectForm(c *gin.Context, name, title string, data any, err error) {
	if b.respondWithError(c, err) {
		return
	}
	p := viewPage(title, data)
	p.Errors = fieldErrors(err)
	b.renderPage(c, statusFor(err), name, p)
}

// fail reports err and sends the browser back to a page.
func (b *Base) fail(c *gin.Context, err error, back string) {
	if b.respondWithError(c, err) {
		return
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (b *Base) done(c *gin.Context, message, back string) {
	b.notices.Success(middleware.CurrentSessionID(c), message)
	c.Redirect(http.StatusSeeOther, back)
}

// respondWithError shows err to the user. It returns true when the request
// was answered with a redirect (expired session or missing permission) and
// nothing else may be written.
func (b *Base) respondWithError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, fleetapi.ErrSessionExpired), errors.Is(err, fleetapi.ErrUnauthorized):
		middleware.ClearSessionCookie(c, b.cookie)
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		c.Abort()
		return true
	case errors.Is(err, fleetapi.ErrForbidden):
		c.Redirect(http.StatusSeeOther, ForbiddenPath)
		c.Abort()
		return true
	}

	sessionID := middleware.CurrentSessionID(c)

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case codeValidation, codeNotAllowed:
			b.notices.Warn(sessionID, appErr.Message)
		case codeInProgress:
			b.notices.Info(sessionID, appErr.Message)
		default:
			b.notices.Err(sessionID, err)
		}
		return false
	}

	var apiErr *fleetapi.APIError
	if !errors.As(err, &apiErr) {
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		b.notices.Error(sessionID, fleetapi.DefaultErrorMessage)
		return false
	}
	b.notices.Err(sessionID, err)
	return false
}

func statusFor(err error) int {
	if errors.Is(err, appErrors.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case codeValidation, codeNotAllowed:
			return http.StatusUnprocessableEntity
		case codeNotFound:
			return http.StatusNotFound
		}
	}
	var apiErr *fleetapi.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 0:
			return http.StatusBadGateway
		case apiErr.Status == http.StatusBadRequest:
			return http.StatusUnprocessableEntity
		case apiErr.Status < http.StatusInternalServerError:
			return apiErr.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fieldErrors merges form validation errors and the per-field errors the
// fleet API returned.
func fieldErrors(err error) map[string]string {
	out := validator.FieldErrors(err)
	var apiErr *fleetapi.APIError
	if errors.As(err, &apiErr) && len(apiErr.ValidationErrors) > 0 {
		if out == nil {
			out = make(map[string]string, len(apiErr.ValidationErrors))
		}
		for field, msg := range apiErr.ValidationErrors {
			if _, ok := out[field]; !ok {
				out[field] = msg
			}
		}
	}
	return out
}

// pathID reads the :id parameter. A bad id is answered with a redirect to back.
func (b *Base) pathID(c *gin.Context, back string) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		b.notices.Warn(middleware.CurrentSessionID(c), "Invalid identifier")
		c.Redirect(http.StatusSeeOther, back)
		return 0, false
	}
	return id, true
}

// bind reads a form or query into dst. Binding failures are reported like
// validation errors.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		return appErrors.NewAppError(codeValidation, "Invalid input", err)
	}
	return nil
}

func queryInt64(c *gin.Context, key string) int64 {
	v := cast.ToInt64(c.Query(key))
	if v < 0 {
		return 0
	}
	return v
}

func queryBool(c *gin.Context, key string) bool {
	return cast.ToBool(c.Query(key))
}
