package handler

import (
	"fmt"
	"net/http"

	"fleet-console/internal/delivery/http/views"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/usecase/cargo"
	"fleet-console/internal/usecase/transport"

	"github.com/gin-gonic/gin"
)

const cargosPath = "/cargos"

type cargoListView struct {
	Result *cargo.ListResult
	State  views.ListState
}

type cargoFormView struct {
	Form       *cargo.Form
	Transports []transport.Option
	Edit       bool
	Action     string
}

type CargoHandler struct {
	*Base
	service    *cargo.Service
	transports *transport.Service
}

func NewCargoHandler(base *Base, service *cargo.Service, transports *transport.Service) *CargoHandler {
	return &CargoHandler{Base: base, service: service, transports: transports}
}

func (h *CargoHandler) RegisterRoutes(router *gin.RouterGroup) {
	cargos := router.Group(cargosPath)
	{
		cargos.GET("", h.List)
		cargos.GET("/new", h.NewForm)
		cargos.POST("/new", h.Create)
		cargos.GET("/:id/edit", h.EditForm)
		cargos.POST("/:id", h.Update)
		cargos.POST("/:id/delete", h.Delete)
	}
}

func (h *CargoHandler) List(c *gin.Context) {
	var req cargo.ListRequest
	if err := bind(c, &req); err != nil {
		h.respondWithError(c, err)
		req = cargo.ListRequest{}
	}

	res, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		res = &cargo.ListResult{Page: page.Empty[cargo.Row](0, 10)}
	}

	h.render(c, http.StatusOK, "cargos.html", "Cargo", &cargoListView{
		Result: res,
		State: views.ListState{
			Path:        cargosPath,
			Q:           req.Search,
			Sort:        res.Sort,
			Dir:         res.Dir,
			Placeholder: "Search cargo",
			Page:        res.Page,
		},
	})
}

func (h *CargoHandler) NewForm(c *gin.Context) {
	form := &cargo.Form{}
	// ?transportId= preselects the transport.
	if id := queryInt64(c, "transportId"); id > 0 {
		form.TransportID = fmt.Sprint(id)
	}
	view := h.newFormView(c, form)
	if c.IsAborted() {
		return
	}
	h.render(c, http.StatusOK, "cargo_form.html", "New cargo", view)
}

func (h *CargoHandler) Create(c *gin.Context) {
	var form cargo.Form
	err := bind(c, &form)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), &form)
	}
	if err != nil {
		view := h.newFormView(c, &form)
		if c.IsAborted() {
			return
		}
		h.rejectForm(c, "cargo_form.html", "New cargo", view, err)
		return
	}
	h.done(c, "Cargo created", cargosPath)
}

func (h *CargoHandler) newFormView(c *gin.Context, form *cargo.Form) *cargoFormView {
	view := &cargoFormView{Form: form, Action: cargosPath + "/new"}
	targets, err := h.transports.CargoTargets(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return view
	}
	view.Transports = targets
	return view
}

func (h *CargoHandler) EditForm(c *gin.Context) {
	id, ok := h.pathID(c, cargosPath)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, cargosPath)
		return
	}
	h.render(c, http.StatusOK, "cargo_form.html", "Edit cargo", editCargoForm(cargo.FormFor(item), id))
}

func (h *CargoHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, cargosPath)
	if !ok {
		return
	}
	var form cargo.Form
	err := bind(c, &form)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, &form)
	}
	if err != nil {
		h.rejectForm(c, "cargo_form.html", "Edit cargo", editCargoForm(&form, id), err)
		return
	}
	h.done(c, "Cargo updated", cargosPath)
}

func (h *CargoHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, cargosPath)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, cargosPath)
		return
	}
	h.done(c, "Deleted", cargosPath)
}

func editCargoForm(form *cargo.Form, id int64) *cargoFormView {
	return &cargoFormView{Form: form, Edit: true, Action: fmt.Sprintf("%s/%d", cargosPath, id)}
}
