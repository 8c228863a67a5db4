package handler

import (
	"fmt"
	"net/http"

	"fleet-console/internal/delivery/http/views"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/usecase/location"

	"github.com/gin-gonic/gin"
)

const locationsPath = "/locations"

type locationListView struct {
	Result *location.ListResult
	State  views.ListState
}

type locationFormView struct {
	Form   *location.Form
	Edit   bool
	Action string
}

type LocationHandler struct {
	*Base
	service *location.Service
}

func NewLocationHandler(base *Base, service *location.Service) *LocationHandler {
	return &LocationHandler{Base: base, service: service}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	locations := router.Group(locationsPath)
	{
		locations.GET("", h.List)
		locations.GET("/new", h.NewForm)
		locations.POST("/new", h.Create)
		locations.GET("/:id/edit", h.EditForm)
		locations.POST("/:id", h.Update)
		locations.POST("/:id/delete", h.Delete)
	}
}

func (h *LocationHandler) List(c *gin.Context) {
	var req location.ListRequest
	if err := bind(c, &req); err != nil {
		h.respondWithError(c, err)
		req = location.ListRequest{}
	}

	res, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		res = &location.ListResult{Page: page.Empty[location.Row](0, 10)}
	}

	h.render(c, http.StatusOK, "locations.html", "Locations", &locationListView{
		Result: res,
		State: views.ListState{
			Path:        locationsPath,
			Q:           req.Search,
			Sort:        res.Sort,
			Dir:         res.Dir,
			Placeholder: "Search locations",
			Page:        res.Page,
		},
	})
}

func (h *LocationHandler) NewForm(c *gin.Context) {
	h.render(c, http.StatusOK, "location_form.html", "New location", locationForm(location.NewForm(), 0))
}

func (h *LocationHandler) Create(c *gin.Context) {
	var form location.Form
	err := bind(c, &form)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), &form)
	}
	if err != nil {
		h.rejectForm(c, "location_form.html", "New location", locationForm(&form, 0), err)
		return
	}
	h.done(c, "Location created", locationsPath)
}

func (h *LocationHandler) EditForm(c *gin.Context) {
	id, ok := h.pathID(c, locationsPath)
	if !ok {
		return
	}
	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, locationsPath)
		return
	}
	h.render(c, http.StatusOK, "location_form.html", "Edit location", locationForm(location.FormFor(l), id))
}

func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, locationsPath)
	if !ok {
		return
	}
	var form location.Form
	err := bind(c, &form)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, &form)
	}
	if err != nil {
		h.rejectForm(c, "location_form.html", "Edit location", locationForm(&form, id), err)
		return
	}
	h.done(c, "Location updated", locationsPath)
}

func (h *LocationHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, locationsPath)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, locationsPath)
		return
	}
	h.done(c, "Location deleted", locationsPath)
}

func locationForm(form *location.Form, id int64) *locationFormView {
	view := &locationFormView{Form: form, Edit: id != 0, Action: locationsPath + "/new"}
	if view.Edit {
		view.Action = fmt.Sprintf("%s/%d", locationsPath, id)
	}
	return view
}
