package handler

import (
	"fmt"
	"net/http"

	"fleet-console/internal/delivery/http/views"
	domainAccount "fleet-console/internal/domain/account"
	domainDriver "fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/logger"
	"fleet-console/internal/middleware"
	"fleet-console/internal/usecase/worklog"
	"fleet-console/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const worklogPath = "/worklog"

type worklogListView struct {
	Result  *worklog.ListResult
	State   views.ListState
	Drivers []worklog.Option
}

type worklogFormView struct {
	Form         *worklog.Form
	Options      *worklog.FormOptions
	ChangeDriver bool
	Edit         bool
	Action       string
}

type WorkLogHandler struct {
	*Base
	service *worklog.Service
}

func NewWorkLogHandler(base *Base, service *worklog.Service) *WorkLogHandler {
	return &WorkLogHandler{Base: base, service: service}
}

func (h *WorkLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group(worklogPath)
	{
		logs.GET("", h.List)
		logs.GET("/new", h.NewForm)
		logs.POST("/new", h.Create)
		logs.GET("/:id/edit", h.EditForm)
		logs.POST("/:id", h.Update)
		logs.POST("/:id/delete", h.Delete)
	}
}

// List shows the work log. Drivers see their own entries; others can filter
// by driver with ?driverId=.
func (h *WorkLogHandler) List(c *gin.Context) {
	me := middleware.CurrentMe(c)

	var req worklog.ListRequest
	if err := bind(c, &req); err != nil {
		h.respondWithError(c, err)
		req = worklog.ListRequest{}
	}

	res, err := h.service.List(c.Request.Context(), me, &req)
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		res = &worklog.ListResult{
			Page:      page.Empty[worklog.Row](0, worklog.DefaultPageSize),
			Search:    req.Search,
			CanAdd:    worklog.CanAdd(me),
			CanManage: worklog.CanManage(me),
		}
	}

	view := &worklogListView{
		Result: res,
		State: views.ListState{
			Path:        worklogPath,
			Q:           res.Search,
			Sort:        req.Sort,
			Dir:         req.Dir,
			DriverID:    res.DriverID,
			Placeholder: "Search work log",
			Page:        res.Page,
		},
	}
	if !me.HasRole(domainAccount.RoleDriver) {
		if opts, err := h.service.FormOptions(c.Request.Context(), me, 0); err == nil {
			view.Drivers = opts.Drivers
		} else {
			logger.Debug("Driver filter unavailable", zap.Error(err))
		}
	}
	h.render(c, http.StatusOK, "worklog.html", "Work log", view)
}

// NewForm shows the create form. Admins choose a driver first with ?driverId=.
func (h *WorkLogHandler) NewForm(c *gin.Context) {
	me := middleware.CurrentMe(c)
	if !worklog.CanAdd(me) {
		h.notices.Warn(middleware.CurrentSessionID(c), "Only admin or driver can add work log entries")
		c.Redirect(http.StatusSeeOther, worklogPath)
		return
	}
	driverID := queryInt64(c, "driverId")
	form := &worklog.Form{ActivityType: string(domainDriver.ActivityDriving)}
	if driverID > 0 {
		form.DriverID = fmt.Sprint(driverID)
	}

	view := h.newFormView(c, me, form, driverID)
	if c.IsAborted() {
		return
	}
	h.render(c, http.StatusOK, "worklog_form.html", "New work log entry", view)
}

func (h *WorkLogHandler) Create(c *gin.Context) {
	me := middleware.CurrentMe(c)

	var form worklog.Form
	err := bind(c, &form)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), me, &form)
	}
	if err != nil {
		driverID, _ := utils.ParseID(form.DriverID)
		view := h.newFormView(c, me, &form, driverID)
		if c.IsAborted() {
			return
		}
		h.rejectForm(c, "worklog_form.html", "New work log entry", view, err)
		return
	}
	h.done(c, "Created", worklogPath)
}

func (h *WorkLogHandler) newFormView(c *gin.Context, me *domainAccount.Me, form *worklog.Form, driverID int64) *worklogFormView {
	view := &worklogFormView{
		Form:         form,
		Options:      &worklog.FormOptions{DriverID: driverID},
		ChangeDriver: !me.HasRole(domainAccount.RoleDriver),
		Action:       worklogPath + "/new",
	}
	opts, err := h.service.FormOptions(c.Request.Context(), me, driverID)
	if err != nil {
		h.respondWithError(c, err)
		return view
	}
	view.Options = opts
	return view
}

func (h *WorkLogHandler) EditForm(c *gin.Context) {
	id, ok := h.pathID(c, worklogPath)
	if !ok {
		return
	}
	me := middleware.CurrentMe(c)
	if !worklog.CanManage(me) {
		h.notices.Warn(middleware.CurrentSessionID(c), "Only admin can edit work log entries")
		c.Redirect(http.StatusSeeOther, worklogPath)
		return
	}

	entry, err := h.service.Get(c.Request.Context(), me, id)
	if err != nil {
		h.fail(c, err, worklogPath)
		return
	}
	view := h.editFormView(c, me, worklog.FormFor(entry), id, entry.DriverID)
	if c.IsAborted() {
		return
	}
	h.render(c, http.StatusOK, "worklog_form.html", "Edit work log entry", view)
}

func (h *WorkLogHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, worklogPath)
	if !ok {
		return
	}
	me := middleware.CurrentMe(c)

	var form worklog.Form
	err := bind(c, &form)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), me, id, &form)
	}
	if err != nil {
		driverID, _ := utils.ParseID(form.DriverID)
		view := h.editFormView(c, me, &form, id, driverID)
		if c.IsAborted() {
			return
		}
		h.rejectForm(c, "worklog_form.html", "Edit work log entry", view, err)
		return
	}
	h.done(c, "Saved", worklogPath)
}

// editFormView keeps the entry's driver fixed and offers that driver's transports.
func (h *WorkLogHandler) editFormView(c *gin.Context, me *domainAccount.Me, form *worklog.Form, id, driverID int64) *worklogFormView {
	view := &worklogFormView{
		Form:    form,
		Options: &worklog.FormOptions{DriverID: driverID},
		Edit:    true,
		Action:  fmt.Sprintf("%s/%d", worklogPath, id),
	}
	if driverID == 0 {
		return view
	}
	opts, err := h.service.FormOptions(c.Request.Context(), me, driverID)
	if err != nil {
		h.respondWithError(c, err)
		return view
	}
	view.Options = opts
	return view
}

func (h *WorkLogHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, worklogPath)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentMe(c), id); err != nil {
		h.fail(c, err, worklogPath)
		return
	}
	h.done(c, "Deleted", worklogPath)
}
