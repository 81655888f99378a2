package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/middleware"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB, membership *services.MembershipService, application *services.ApplicationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db, membership, application),
	}
}

// Candidate returns the caller's candidate overview
// GET /api/dashboard/candidate
func (h *DashboardHandler) Candidate(c *gin.Context) {
	dash, err := h.dashboardService.Candidate(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, dash)
}

// Company returns one company's recruiting overview; managers only
// GET /api/dashboard/company/:id
func (h *DashboardHandler) Company(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	dash, err := h.dashboardService.Company(companyID, middleware.GetUserID(c))
	if err != nil {
		response.Forbidden(c, err.Error())
		return
	}
	response.Success(c, dash)
}

// Admin returns platform-wide numbers; admin only
// GET /api/admin/dashboard
func (h *DashboardHandler) Admin(c *gin.Context) {
	dash, err := h.dashboardService.Admin()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, dash)
}
