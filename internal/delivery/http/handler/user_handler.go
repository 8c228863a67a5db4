package handler

import (
	"fmt"
	"net/http"

	"fleet-console/internal/delivery/http/views"
	domainAccount "fleet-console/internal/domain/account"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/middleware"
	"fleet-console/internal/usecase/account"

	"github.com/gin-gonic/gin"
)

const usersPath = "/users"

type userListView struct {
	Page  *page.Page[account.Row]
	State views.ListState
}

type userFormView struct {
	Form       *account.UserForm
	Statuses   []domainAccount.Status
	Roles      []domainAccount.Role
	HasAccount bool
	Edit       bool
	Action     string
}

// UserHandler serves the admin pages for users and their linked accounts.
type UserHandler struct {
	*Base
	service *account.Service
}

func NewUserHandler(base *Base, service *account.Service) *UserHandler {
	return &UserHandler{Base: base, service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group(usersPath)
	{
		users.GET("", h.List)
		users.GET("/new", h.NewForm)
		users.POST("/new", h.Create)
		users.GET("/:id/edit", h.EditForm)
		users.POST("/:id", h.Update)
		users.POST("/:id/delete", h.Delete)
		users.GET("/:id/account", h.AccountDetails)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	var req account.ListRequest
	if err := bind(c, &req); err != nil {
		h.respondWithError(c, err)
		req = account.ListRequest{}
	}

	users, err := h.service.ListUsers(c.Request.Context(), &req)
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		users = page.Empty[account.Row](0, 10)
	}

	h.render(c, http.StatusOK, "users.html", "Users & accounts", &userListView{
		Page: users,
		State: views.ListState{
			Path:        usersPath,
			Q:           req.Search,
			Sort:        req.Sort,
			Dir:         req.Dir,
			Placeholder: "Search users",
			Page:        users,
		},
	})
}

func (h *UserHandler) NewForm(c *gin.Context) {
	h.render(c, http.StatusOK, "user_form.html", "New user", userForm(account.NewUserForm(), 0, true))
}

// Create adds a user together with its login account.
func (h *UserHandler) Create(c *gin.Context) {
	var form account.UserForm
	err := bind(c, &form)
	if err == nil {
		_, err = h.service.CreateUserWithAccount(c.Request.Context(), &form)
	}
	if err != nil {
		form.Password = ""
		h.rejectForm(c, "user_form.html", "New user", userForm(&form, 0, true), err)
		return
	}
	h.done(c, "User + account created", usersPath)
}

func (h *UserHandler) EditForm(c *gin.Context) {
	id, ok := h.pathID(c, usersPath)
	if !ok {
		return
	}
	u, acc, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, usersPath)
		return
	}
	h.render(c, http.StatusOK, "user_form.html", "Edit user", userForm(account.FormFor(u, acc), id, acc != nil))
}

// Update saves the user, then its account. A failed password reset is
// reported as a warning after the rest was saved.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, usersPath)
	if !ok {
		return
	}
	hasAccount := c.PostForm("hasAccount") == "true"

	var form account.UserForm
	if err := bind(c, &form); err != nil {
		h.rejectForm(c, "user_form.html", "Edit user", userForm(&form, id, hasAccount), err)
		return
	}
	res, err := h.service.UpdateUserWithAccount(c.Request.Context(), id, &form)
	if err != nil {
		form.ResetPassword = ""
		h.rejectForm(c, "user_form.html", "Edit user", userForm(&form, id, hasAccount), err)
		return
	}
	if res.Warn {
		h.notices.Warn(middleware.CurrentSessionID(c), res.Message)
		c.Redirect(http.StatusSeeOther, usersPath)
		return
	}
	h.done(c, res.Message, usersPath)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, usersPath)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err, usersPath)
		return
	}
	h.done(c, "Deleted", usersPath)
}

func (h *UserHandler) AccountDetails(c *gin.Context) {
	id, ok := h.pathID(c, usersPath)
	if !ok {
		return
	}
	details, err := h.service.AccountDetails(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, usersPath)
		return
	}
	h.render(c, http.StatusOK, "account_details.html", "Account", details)
}

func userForm(form *account.UserForm, id int64, hasAccount bool) *userFormView {
	view := &userFormView{
		Form:       form,
		Statuses:   domainAccount.AllStatuses,
		Roles:      domainAccount.AllRoles,
		HasAccount: hasAccount,
		Edit:       id != 0,
		Action:     usersPath + "/new",
	}
	if view.Edit {
		view.Action = fmt.Sprintf("%s/%d", usersPath, id)
	}
	return view
}
