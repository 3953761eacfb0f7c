package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freight_routes/internal/apperr"
	"freight_routes/internal/middleware"
	"freight_routes/internal/repository"
	"freight_routes/internal/services"
)

// RouteController exposes the route lifecycle endpoints.
type RouteController struct {
	routeService *services.RouteService
}

func NewRouteController(routeService *services.RouteService) *RouteController {
	return &RouteController{routeService: routeService}
}

type replaceStopsInput struct {
	Stops []services.StopInput `json:"stops" binding:"required"`
}

func (ctl *RouteController) Create(c *gin.Context) {
	var input services.CreateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	route, err := ctl.routeService.Create(input, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

func (ctl *RouteController) List(c *gin.Context) {
	filters := repository.RouteFilters{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	if v := c.Query("created_by"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(c, apperr.Validation("Invalid created_by filter"))
			return
		}
		filters.CreatedBy = &id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, apperr.Validation("Invalid 'from' filter, expected RFC3339 timestamp"))
			return
		}
		filters.CreatedFrom = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, apperr.Validation("Invalid 'to' filter, expected RFC3339 timestamp"))
			return
		}
		filters.CreatedTo = &t
	}

	routes, total, err := ctl.routeService.List(filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listEnvelope{Items: routes, Total: total, Limit: filters.Limit, Offset: filters.Offset})
}

func (ctl *RouteController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.Validation("Invalid route id"))
		return
	}

	route, err := ctl.routeService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (ctl *RouteController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.Validation("Invalid route id"))
		return
	}

	var input services.UpdateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	route, err := ctl.routeService.Update(id, input, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (ctl *RouteController) ReplaceStops(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.Validation("Invalid route id"))
		return
	}

	var input replaceStopsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	route, err := ctl.routeService.ReplaceStops(id, input.Stops, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (ctl *RouteController) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.Validation("Invalid route id"))
		return
	}

	route, err := ctl.routeService.Cancel(id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           route.ID,
		"route_number": route.RouteNumber,
		"status":       route.Status,
		"message":      "Route cancelled successfully",
	})
}
