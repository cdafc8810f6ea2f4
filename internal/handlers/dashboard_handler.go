package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
	pointsService    services.PointsService
}

func NewDashboardHandler(dashboardService services.DashboardService, pointsService services.PointsService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
		pointsService:    pointsService,
	}
}

// GetDashboard returns the overview shaped for the caller's role.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	resp, err := h.dashboardService.GetDashboard(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Dashboard retrieved", resp)
}

// GetPointsHistory returns the caller's recent ledger entries.
func (h *DashboardHandler) GetPointsHistory(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	// Out-of-range values fall back to the service default.
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.pointsService.History(c.Request.Context(), user.ID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Points history retrieved", entries)
}
