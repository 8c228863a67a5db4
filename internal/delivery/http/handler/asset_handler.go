package handler

import (
	"fmt"
	"net/http"

	"fleet-console/internal/delivery/http/views"
	domainAsset "fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/usecase/asset"

	"github.com/gin-gonic/gin"
)

const (
	assetsPath    = "/assets"
	tabVehicles   = "vehicles"
	tabTrailers   = "trailers"
	assetPageSize = 10
	vehiclesBack  = assetsPath + "?tab=" + tabVehicles
	trailersBack  = assetsPath + "?tab=" + tabTrailers
)

type assetListView struct {
	Vehicles *page.Page[asset.VehicleRow]
	Trailers *page.Page[asset.TrailerRow]
	State    views.ListState
}

type assetFormView struct {
	Form            any
	Statuses        []domainAsset.Status
	CanChangeStatus bool
	Edit            bool
	Action          string
}

type AssetHandler struct {
	*Base
	service *asset.Service
}

func NewAssetHandler(base *Base, service *asset.Service) *AssetHandler {
	return &AssetHandler{Base: base, service: service}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group(assetsPath)
	{
		assets.GET("", h.List)

		assets.GET("/vehicles/new", h.NewVehicle)
		assets.POST("/vehicles/new", h.CreateVehicle)
		assets.GET("/vehicles/:id/edit", h.EditVehicle)
		assets.POST("/vehicles/:id", h.UpdateVehicle)
		assets.POST("/vehicles/:id/delete", h.DeleteVehicle)

		assets.GET("/trailers/new", h.NewTrailer)
		assets.POST("/trailers/new", h.CreateTrailer)
		assets.GET("/trailers/:id/edit", h.EditTrailer)
		assets.POST("/trailers/:id", h.UpdateTrailer)
		assets.POST("/trailers/:id/delete", h.DeleteTrailer)
	}
}

// List shows the vehicle table, or the trailer table with ?tab=trailers.
func (h *AssetHandler) List(c *gin.Context) {
	var req asset.ListRequest
	if err := bind(c, &req); err != nil {
		h.respondWithError(c, err)
		req = asset.ListRequest{}
	}

	view := &assetListView{
		Vehicles: page.Empty[asset.VehicleRow](0, assetPageSize),
		Trailers: page.Empty[asset.TrailerRow](0, assetPageSize),
		State: views.ListState{
			Path:        assetsPath,
			Q:           req.Search,
			Sort:        req.Sort,
			Dir:         req.Dir,
			Tab:         tabVehicles,
			Placeholder: "Search vehicles",
		},
	}
	view.State.Page = view.Vehicles

	ctx := c.Request.Context()
	if c.Query("tab") == tabTrailers {
		view.State.Tab = tabTrailers
		view.State.Placeholder = "Search trailers"
		view.State.Page = view.Trailers
		trailers, err := h.service.ListTrailers(ctx, &req)
		if err != nil {
			if h.respondWithError(c, err) {
				return
			}
		} else {
			view.Trailers = trailers
			view.State.Page = trailers
		}
	} else {
		vehicles, err := h.service.ListVehicles(ctx, &req)
		if err != nil {
			if h.respondWithError(c, err) {
				return
			}
		} else {
			view.Vehicles = vehicles
			view.State.Page = vehicles
		}
	}
	h.render(c, http.StatusOK, "assets.html", "Assets", view)
}

func (h *AssetHandler) NewVehicle(c *gin.Context) {
	h.render(c, http.StatusOK, "vehicle_form.html", "New vehicle", vehicleForm(&asset.VehicleForm{}, 0, true))
}

func (h *AssetHandler) CreateVehicle(c *gin.Context) {
	var form asset.VehicleForm
	if err := bind(c, &form); err != nil {
		h.rejectForm(c, "vehicle_form.html", "New vehicle", vehicleForm(&form, 0, true), err)
		return
	}
	// Status is set by the backend on create.
	form.Status = ""
	if _, err := h.service.CreateVehicle(c.Request.Context(), &form); err != nil {
		h.rejectForm(c, "vehicle_form.html", "New vehicle", vehicleForm(&form, 0, true), err)
		return
	}
	h.done(c, "Vehicle created", vehiclesBack)
}

func (h *AssetHandler) EditVehicle(c *gin.Context) {
	id, ok := h.pathID(c, vehiclesBack)
	if !ok {
		return
	}
	v, err := h.service.GetVehicle(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, vehiclesBack)
		return
	}
	h.render(c, http.StatusOK, "vehicle_form.html", "Edit vehicle",
		vehicleForm(asset.VehicleFormFor(v), id, domainAsset.CanChangeVehicleStatus(*v)))
}

func (h *AssetHandler) UpdateVehicle(c *gin.Context) {
	id, ok := h.pathID(c, vehiclesBack)
	if !ok {
		return
	}
	var form asset.VehicleForm
	if err := bind(c, &form); err != nil {
		h.rejectForm(c, "vehicle_form.html", "Edit vehicle", vehicleForm(&form, id, true), err)
		return
	}
	if err := h.service.UpdateVehicle(c.Request.Context(), id, &form); err != nil {
		h.rejectForm(c, "vehicle_form.html", "Edit vehicle", vehicleForm(&form, id, true), err)
		return
	}
	h.done(c, "Vehicle updated", vehiclesBack)
}

func (h *AssetHandler) DeleteVehicle(c *gin.Context) {
	id, ok := h.pathID(c, vehiclesBack)
	if !ok {
		return
	}
	if err := h.service.DeleteVehicle(c.Request.Context(), id); err != nil {
		h.fail(c, err, vehiclesBack)
		return
	}
	h.done(c, "Vehicle deleted", vehiclesBack)
}

func (h *AssetHandler) NewTrailer(c *gin.Context) {
	h.render(c, http.StatusOK, "trailer_form.html", "New trailer", trailerForm(&asset.TrailerForm{}, 0, true))
}

func (h *AssetHandler) CreateTrailer(c *gin.Context) {
	var form asset.TrailerForm
	if err := bind(c, &form); err != nil {
		h.rejectForm(c, "trailer_form.html", "New trailer", trailerForm(&form, 0, true), err)
		return
	}
	form.Status = ""
	if _, err := h.service.CreateTrailer(c.Request.Context(), &form); err != nil {
		h.rejectForm(c, "trailer_form.html", "New trailer", trailerForm(&form, 0, true), err)
		return
	}
	h.done(c, "Trailer created", trailersBack)
}

func (h *AssetHandler) EditTrailer(c *gin.Context) {
	id, ok := h.pathID(c, trailersBack)
	if !ok {
		return
	}
	t, err := h.service.GetTrailer(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, trailersBack)
		return
	}
	h.render(c, http.StatusOK, "trailer_form.html", "Edit trailer",
		trailerForm(asset.TrailerFormFor(t), id, domainAsset.CanChangeTrailerStatus(*t)))
}

func (h *AssetHandler) UpdateTrailer(c *gin.Context) {
	id, ok := h.pathID(c, trailersBack)
	if !ok {
		return
	}
	var form asset.TrailerForm
	if err := bind(c, &form); err != nil {
		h.rejectForm(c, "trailer_form.html", "Edit trailer", trailerForm(&form, id, true), err)
		return
	}
	if err := h.service.UpdateTrailer(c.Request.Context(), id, &form); err != nil {
		h.rejectForm(c, "trailer_form.html", "Edit trailer", trailerForm(&form, id, true), err)
		return
	}
	h.done(c, "Trailer updated", trailersBack)
}

func (h *AssetHandler) DeleteTrailer(c *gin.Context) {
	id, ok := h.pathID(c, trailersBack)
	if !ok {
		return
	}
	if err := h.service.DeleteTrailer(c.Request.Context(), id); err != nil {
		h.fail(c, err, trailersBack)
		return
	}
	h.done(c, "Trailer deleted", trailersBack)
}

func vehicleForm(form *asset.VehicleForm, id int64, canChangeStatus bool) *assetFormView {
	return assetForm(form, "vehicles", id, canChangeStatus)
}

func trailerForm(form *asset.TrailerForm, id int64, canChangeStatus bool) *assetFormView {
	return assetForm(form, "trailers", id, canChangeStatus)
}

func assetForm(form any, kind string, id int64, canChangeStatus bool) *assetFormView {
	view := &assetFormView{
		Form:            form,
		Statuses:        domainAsset.AllStatuses,
		CanChangeStatus: canChangeStatus,
		Edit:            id != 0,
		Action:          fmt.Sprintf("%s/%s/new", assetsPath, kind),
	}
	if view.Edit {
		view.Action = fmt.Sprintf("%s/%s/%d", assetsPath, kind, id)
	}
	return view
}
