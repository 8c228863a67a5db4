package handler

import (
	"fmt"
	"net/http"

	"fleet-console/internal/delivery/http/views"
	"fleet-console/internal/domain/page"
	domainTransport "fleet-console/internal/domain/transport"
	"fleet-console/internal/logger"
	"fleet-console/internal/middleware"
	"fleet-console/internal/usecase/cargo"
	"fleet-console/internal/usecase/transport"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	transportsPath = "/transports"
	// minCargoRows is how many cargo rows the create form offers.
	minCargoRows = 3
)

type transportListView struct {
	Result *transport.ListResult
	State  views.ListState
}

type transportFormView struct {
	Form       *transport.Form
	Options    *transport.FormOptions
	CargoLines []transport.CargoLine
	Edit       bool
	Action     string
	Back       string
}

type transportDetailsView struct {
	Details         *transport.Details
	CanChangeStatus bool
	Statuses        []domainTransport.Status
	Drivers         []transport.Option
}

type TransportHandler struct {
	*Base
	service *transport.Service
	cargos  *cargo.Service
}

func NewTransportHandler(base *Base, service *transport.Service, cargos *cargo.Service) *TransportHandler {
	return &TransportHandler{Base: base, service: service, cargos: cargos}
}

func (h *TransportHandler) RegisterRoutes(router *gin.RouterGroup) {
	transports := router.Group(transportsPath)
	{
		transports.GET("", h.List)
		transports.GET("/new", h.NewForm)
		transports.POST("/new", h.Create)
		transports.GET("/:id", h.Details)
		transports.GET("/:id/edit", h.EditForm)
		transports.POST("/:id", h.Update)
		transports.POST("/:id/delete", h.Delete)
		transports.POST("/:id/status", h.ChangeStatus)
		transports.POST("/:id/assign", h.AssignDriver)
		transports.POST("/:id/cargo", h.AddCargo)
	}
}

func (h *TransportHandler) List(c *gin.Context) {
	var req transport.ListRequest
	if err := bind(c, &req); err != nil {
		h.respondWithError(c, err)
		req = transport.ListRequest{}
	}

	res, err := h.service.List(c.Request.Context(), middleware.CurrentMe(c), &req)
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		res = &transport.ListResult{Page: page.Empty[transport.Row](0, transport.DefaultPageSize), Search: req.Search}
	}

	h.render(c, http.StatusOK, "transports.html", "Transports", &transportListView{
		Result: res,
		State: views.ListState{
			Path:        transportsPath,
			Q:           res.Search,
			Sort:        res.SortField,
			Dir:         res.Dir,
			Placeholder: "Search transports",
			Page:        res.Page,
		},
	})
}

func (h *TransportHandler) NewForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, &transport.Form{}, nil, 0)
}

func (h *TransportHandler) Create(c *gin.Context) {
	var form transport.Form
	if err := bind(c, &form); err != nil {
		h.rejectTransportForm(c, &form, nil, 0, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), &form)
	if err != nil {
		h.rejectTransportForm(c, &form, nil, 0, err)
		return
	}

	sessionID := middleware.CurrentSessionID(c)
	if res.CargoFailed > 0 {
		h.notices.Warn(sessionID, res.Message)
	} else {
		h.notices.Success(sessionID, res.Message)
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/%d", transportsPath, res.Transport.ID))
}

func (h *TransportHandler) Details(c *gin.Context) {
	id, ok := h.pathID(c, transportsPath)
	if !ok {
		return
	}

	me := middleware.CurrentMe(c)
	details, err := h.service.Details(c.Request.Context(), me, id)
	if err != nil {
		h.fail(c, err, transportsPath)
		return
	}

	view := &transportDetailsView{Details: details}
	if !details.Transport.Status.IsTerminal() {
		view.CanChangeStatus = true
		view.Statuses = domainTransport.AllStatuses
		current := &domainTransport.Transport{ID: id, DriverID: details.Transport.DriverID, Status: details.Transport.Status}
		if opts, err := h.service.FormOptions(c.Request.Context(), current); err == nil {
			view.Drivers = opts.Drivers
		} else {
			logger.Debug("Driver options unavailable", zap.Int64("transport_id", id), zap.Error(err))
		}
	}
	h.render(c, http.StatusOK, "transport_details.html", fmt.Sprintf("Transport #%d", id), view)
}

func (h *TransportHandler) EditForm(c *gin.Context) {
	id, ok := h.pathID(c, transportsPath)
	if !ok {
		return
	}

	current, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, transportsPath)
		return
	}
	if !domainTransport.CanEdit(*current) {
		h.notices.Warn(middleware.CurrentSessionID(c), domainTransport.EditTooltip(*current))
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/%d", transportsPath, id))
		return
	}
	h.renderForm(c, http.StatusOK, transport.FormFor(current), current, id)
}

func (h *TransportHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, transportsPath)
	if !ok {
		return
	}

	var form transport.Form
	if err := bind(c, &form); err != nil {
		h.rejectTransportForm(c, &form, nil, id, err)
		return
	}

	if _, err := h.service.Update(c.Request.Context(), middleware.CurrentMe(c), id, &form); err != nil {
		current, _ := h.service.Get(c.Request.Context(), id)
		h.rejectTransportForm(c, &form, current, id, err)
		return
	}
	h.done(c, "Transport updated", fmt.Sprintf("%s/%d", transportsPath, id))
}

func (h *TransportHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, transportsPath)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentMe(c), id); err != nil {
		h.fail(c, err, transportsPath)
		return
	}
	h.done(c, "Transport deleted", transportsPath)
}

func (h *TransportHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.pathID(c, transportsPath)
	if !ok {
		return
	}
	back := fmt.Sprintf("%s/%d", transportsPath, id)

	var req transport.StatusRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err, back)
		return
	}
	msg, err := h.service.ChangeStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err, back)
		return
	}
	h.done(c, msg, back)
}

func (h *TransportHandler) AssignDriver(c *gin.Context) {
	id, ok := h.pathID(c, transportsPath)
	if !ok {
		return
	}
	back := fmt.Sprintf("%s/%d", transportsPath, id)

	var req transport.AssignDriverRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err, back)
		return
	}
	if err := h.service.AssignDriver(c.Request.Context(), id, &req); err != nil {
		h.fail(c, err, back)
		return
	}
	h.done(c, "Driver assigned", back)
}

// AddCargo creates a cargo item on the transport from the detail page.
func (h *TransportHandler) AddCargo(c *gin.Context) {
	id, ok := h.pathID(c, transportsPath)
	if !ok {
		return
	}
	back := fmt.Sprintf("%s/%d", transportsPath, id)

	var form cargo.Form
	if err := bind(c, &form); err != nil {
		h.fail(c, err, back)
		return
	}
	if _, err := h.cargos.CreateForTransport(c.Request.Context(), id, &form); err != nil {
		h.fail(c, err, back)
		return
	}
	h.done(c, "Cargo created", back)
}

func (h *TransportHandler) formView(c *gin.Context, form *transport.Form, current *domainTransport.Transport, id int64) *transportFormView {
	view := &transportFormView{
		Form:    form,
		Options: &transport.FormOptions{},
		Edit:    id != 0,
		Action:  transportsPath + "/new",
		Back:    transportsPath,
	}
	if view.Edit {
		view.Action = fmt.Sprintf("%s/%d", transportsPath, id)
		view.Back = view.Action
	} else {
		view.CargoLines = form.CargoLines()
		for len(view.CargoLines) < minCargoRows {
			view.CargoLines = append(view.CargoLines, transport.CargoLine{})
		}
	}

	opts, err := h.service.FormOptions(c.Request.Context(), current)
	if err != nil {
		h.respondWithError(c, err)
		return view
	}
	view.Options = opts
	return view
}

func (h *TransportHandler) renderForm(c *gin.Context, status int, form *transport.Form, current *domainTransport.Transport, id int64) {
	view := h.formView(c, form, current, id)
	if c.IsAborted() {
		return
	}
	h.render(c, status, "transport_form.html", formTitle("transport", view.Edit), view)
}

func (h *TransportHandler) rejectTransportForm(c *gin.Context, form *transport.Form, current *domainTransport.Transport, id int64, err error) {
	view := h.formView(c, form, current, id)
	if c.IsAborted() {
		return
	}
	h.rejectForm(c, "transport_form.html", formTitle("transport", view.Edit), view, err)
}

func formTitle(noun string, edit bool) string {
	if edit {
		return "Edit " + noun
	}
	return "New " + noun
}
