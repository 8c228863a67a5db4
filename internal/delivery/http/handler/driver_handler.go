package handler

import (
	"net/http"

	domainTransport "fleet-console/internal/domain/transport"
	"fleet-console/internal/middleware"
	"fleet-console/internal/usecase/driver"
	"fleet-console/internal/usecase/transport"

	"github.com/gin-gonic/gin"
)

const driversPath = "/drivers"

type driverBoardView struct {
	Board *transport.DriverBoard
}

// DriverHandler serves the signed-in driver's own pages.
type DriverHandler struct {
	*Base
	transports *transport.Service
	drivers    *driver.Service
}

func NewDriverHandler(base *Base, transports *transport.Service, drivers *driver.Service) *DriverHandler {
	return &DriverHandler{Base: base, transports: transports, drivers: drivers}
}

func (h *DriverHandler) RegisterRoutes(router *gin.RouterGroup) {
	drivers := router.Group(driversPath)
	{
		drivers.GET("", h.Board)
		drivers.POST("/transports/:id/:action", h.PerformAction)
		drivers.GET("/cargo", h.Cargo)
		drivers.GET("/timeline", h.Timeline)
	}
}

func (h *DriverHandler) Board(c *gin.Context) {
	board, err := h.transports.MyBoard(c.Request.Context())
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		board = &transport.DriverBoard{Rows: []transport.DriverRow{}}
	}
	h.render(c, http.StatusOK, "drivers.html", "My transports", &driverBoardView{Board: board})
}

// PerformAction accepts, starts or finishes one of the driver's transports.
func (h *DriverHandler) PerformAction(c *gin.Context) {
	id, ok := h.pathID(c, driversPath)
	if !ok {
		return
	}
	action := domainTransport.Action(c.Param("action"))
	msg, err := h.transports.PerformAction(c.Request.Context(), middleware.CurrentMe(c), id, action)
	if err != nil {
		h.fail(c, err, driversPath)
		return
	}
	h.done(c, msg, driversPath)
}

func (h *DriverHandler) Cargo(c *gin.Context) {
	all := queryBool(c, "all")
	view, err := h.drivers.MyCargo(c.Request.Context(), all)
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		view = &driver.CargoView{All: all}
	}
	h.render(c, http.StatusOK, "driver_cargo.html", "My cargo", view)
}

func (h *DriverHandler) Timeline(c *gin.Context) {
	history := queryBool(c, "history")
	view, err := h.drivers.MyTimeline(c.Request.Context(), history, queryInt64(c, "transportId"))
	if err != nil {
		if h.respondWithError(c, err) {
			return
		}
		view = &driver.TimelineView{History: history}
	}
	h.render(c, http.StatusOK, "driver_timeline.html", "My timeline", view)
}
