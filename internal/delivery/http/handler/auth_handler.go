package handler

import (
	"net/http"

	"fleet-console/internal/middleware"
	"fleet-console/internal/notify"
	"fleet-console/internal/usecase/account"
	"fleet-console/internal/usecase/auth"
	appErrors "fleet-console/pkg/errors"

	"github.com/gin-gonic/gin"
)

const tooManyLogins = "Too many login attempts. Try again in a minute."

type loginView struct {
	Login string
	Error string
}

// AuthHandler serves sign-in, sign-out and the pages every signed-in user
// can open.
type AuthHandler struct {
	*Base
	service  *auth.Service
	accounts *account.Service
}

func NewAuthHandler(base *Base, service *auth.Service, accounts *account.Service) *AuthHandler {
	return &AuthHandler{Base: base, service: service, accounts: accounts}
}

// RegisterPublicRoutes mounts the pages reachable without a session. The
// login POST goes through loginLimit.
func (h *AuthHandler) RegisterPublicRoutes(router gin.IRouter, loginLimit gin.HandlerFunc) {
	router.GET("/login", h.LoginPage)
	router.POST("/login", loginLimit, h.Login)
	router.GET(ForbiddenPath, h.Forbidden)
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, middleware.MenuPath) })
	router.GET(middleware.MenuPath, h.Menu)
	router.GET("/account", h.Account)
	router.POST("/logout", h.Logout)
	router.GET("/logout", h.Logout)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if me := middleware.CurrentMe(c); me != nil && me.Authenticated {
		c.Redirect(http.StatusSeeOther, middleware.MenuPath)
		return
	}
	h.render(c, http.StatusOK, "login.html", "Sign in", &loginView{})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLoginError(c, &req, appErrors.NewAppError(codeValidation, "Invalid input", err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.renderLoginError(c, &req, err)
		return
	}

	// A previous session in this browser is replaced.
	if old := middleware.CurrentSessionID(c); old != "" && old != res.SessionID {
		h.service.Logout(c.Request.Context(), old)
	}
	middleware.SetSessionCookie(c, h.cookie, res.SessionID)
	c.Redirect(http.StatusSeeOther, middleware.MenuPath)
}

// LoginThrottled answers a login attempt rejected by the rate limiter.
func (h *AuthHandler) LoginThrottled(c *gin.Context) {
	h.renderPage(c, http.StatusTooManyRequests, "login.html", viewPage("Sign in", &loginView{
		Login: c.PostForm("login"),
		Error: tooManyLogins,
	}))
}

func (h *AuthHandler) renderLoginError(c *gin.Context, req *auth.LoginRequest, err error) {
	msg, ok := notify.Message(err)
	if !ok || msg == "" {
		msg = appErrors.UserMessage(err)
	}
	p := viewPage("Sign in", &loginView{Login: req.Login, Error: msg})
	p.Errors = fieldErrors(err)
	h.renderPage(c, statusFor(err), "login.html", p)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context(), middleware.CurrentSessionID(c))
	middleware.ClearSessionCookie(c, h.cookie)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AuthHandler) Menu(c *gin.Context) {
	h.render(c, http.StatusOK, "menu.html", "Menu", nil)
}

func (h *AuthHandler) Account(c *gin.Context) {
	my := h.accounts.My(c.Request.Context(), middleware.CurrentMe(c))
	h.render(c, http.StatusOK, "account.html", "My account", my)
}

func (h *AuthHandler) Forbidden(c *gin.Context) {
	h.render(c, http.StatusForbidden, "forbidden.html", "Forbidden", nil)
}
