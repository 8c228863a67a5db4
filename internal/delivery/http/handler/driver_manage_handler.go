package handler

import (
	"fmt"
	"net/http"

	"fleet-console/internal/delivery/http/views"
	domainDriver "fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/usecase/driver"

	"github.com/gin-gonic/gin"
)

const driversManagePath = "/drivers-manage"

type driverListView struct {
	Result   *driver.ListResult
	State    views.ListState
	Statuses []domainDriver.Status
}

type driverFormView struct {
	Form      *driver.Form
	Users     []driver.UserOption
	UserQuery string
	Statuses  []domainDriver.Status
	Edit      bool
	Action    string
}

// DriverManageHandler serves the dispatcher's driver profile pages.
type DriverManageHandler struct {
	*Base
	service *driver.Service
}

func NewDriverManageHandler(base *Base, service *driver.Service) *DriverManageHandler {
	return &DriverManageHandler{Base: base, service: service}
}

func (h *DriverManageHandler) RegisterRoutes(router *gin.RouterGroup) {
	drivers := router.Group(driversManagePath)
	{
		drivers.GET("", h.List)
		drivers.GET("/new", h.NewForm)
		drivers.POST("/new", h.Create)
		drivers.GET("/:id/edit", h.EditForm)
		drivers.POST("/:id", h.Update)
		drivers.POST("/:id/status", h.ChangeStatus)
		drivers.POST("/:id/delete", h.Delete)
	}
}

func (h *DriverManageHandler) List(c *gin.Context) {
	var req driver.ListRequest
	if err := bind(c, &req); err != nil {
		h.respondWithError(c, err)
		req = driver.ListRequest{}
	}

	res, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		res = &driver.ListResult{Page: page.Empty[driver.Row](0, 10)}
	}

	h.render(c, http.StatusOK, "drivers_manage.html", "Drivers", &driverListView{
		Result:   res,
		Statuses: domainDriver.AllStatuses,
		State: views.ListState{
			Path:        driversManagePath,
			Q:           req.Search,
			Sort:        res.Sort,
			Dir:         res.Dir,
			Placeholder: "Search drivers",
			Page:        res.Page,
		},
	})
}

// NewForm shows the create form. ?userQ= searches the users to pick from.
func (h *DriverManageHandler) NewForm(c *gin.Context) {
	h.renderNew(c, http.StatusOK, &driver.Form{}, c.Query("userQ"), nil)
}

func (h *DriverManageHandler) Create(c *gin.Context) {
	var form driver.Form
	if err := bind(c, &form); err != nil {
		h.renderNew(c, 0, &form, c.PostForm("userQ"), err)
		return
	}
	if _, err := h.service.Create(c.Request.Context(), &form); err != nil {
		h.renderNew(c, 0, &form, c.PostForm("userQ"), err)
		return
	}
	h.done(c, "Driver created", driversManagePath)
}

// renderNew renders the create form. A non-nil err makes it a rejected form.
func (h *DriverManageHandler) renderNew(c *gin.Context, status int, form *driver.Form, query string, err error) {
	view := &driverFormView{
		Form:      form,
		UserQuery: query,
		Users:     []driver.UserOption{},
		Action:    driversManagePath + "/new",
	}
	if query != "" {
		users, searchErr := h.service.SearchUsers(c.Request.Context(), query)
		if searchErr != nil {
			if h.respondWithError(c, searchErr) {
				return
			}
		} else {
			view.Users = users
		}
	}

	if err != nil {
		h.rejectForm(c, "driver_form.html", "New driver", view, err)
		return
	}
	h.render(c, status, "driver_form.html", "New driver", view)
}

func (h *DriverManageHandler) EditForm(c *gin.Context) {
	id, ok := h.pathID(c, driversManagePath)
	if !ok {
		return
	}
	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, driversManagePath)
		return
	}
	h.render(c, http.StatusOK, "driver_form.html", "Edit driver", editDriverForm(driver.FormFor(d), id))
}

func (h *DriverManageHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, driversManagePath)
	if !ok {
		return
	}
	var form driver.Form
	if err := bind(c, &form); err != nil {
		h.rejectForm(c, "driver_form.html", "Edit driver", editDriverForm(&form, id), err)
		return
	}
	form.UserID = fmt.Sprint(id)
	if err := h.service.Update(c.Request.Context(), id, &form); err != nil {
		h.rejectForm(c, "driver_form.html", "Edit driver", editDriverForm(&form, id), err)
		return
	}
	h.done(c, "Driver updated", driversManagePath)
}

// ChangeStatus handles the inline status select of the list.
func (h *DriverManageHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.pathID(c, driversManagePath)
	if !ok {
		return
	}
	var req driver.StatusRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err, driversManagePath)
		return
	}
	changed, err := h.service.ChangeStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err, driversManagePath)
		return
	}
	if !changed {
		c.Redirect(http.StatusSeeOther, driversManagePath)
		return
	}
	h.done(c, "Driver status updated", driversManagePath)
}

func (h *DriverManageHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, driversManagePath)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, driversManagePath)
		return
	}
	h.done(c, "Driver deleted", driversManagePath)
}

func editDriverForm(form *driver.Form, id int64) *driverFormView {
	return &driverFormView{
		Form:     form,
		Statuses: domainDriver.AllStatuses,
		Edit:     true,
		Action:   fmt.Sprintf("%s/%d", driversManagePath, id),
	}
}
