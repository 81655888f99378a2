package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/middleware"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/pkg/response"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(db *gorm.DB, membership *services.MembershipService, notifier *services.NotificationService) *CompanyHandler {
	return &CompanyHandler{
		companyService: services.NewCompanyService(db, membership, notifier),
	}
}

// Create registers a company with the caller as owner
// POST /api/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req services.CompanyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	company, err := h.companyService.Create(&req, userID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	services.LogInfo("company", "create", "company created", &userID, c.ClientIP(), c.Request.UserAgent(),
		gin.H{"company_id": company.ID})
	response.Created(c, company)
}

// Get returns one company
// GET /api/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	company, err := h.companyService.Get(id)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	response.Success(c, company)
}

// List is the public company directory
// GET /api/companies
func (h *CompanyHandler) List(c *gin.Context) {
	var req services.CompanyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.companyService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// Update edits company profile fields; managers only
// PUT /api/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	var req services.CompanyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyService.Update(id, &req, middleware.GetUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, company)
}

type transferRequest struct {
	NewOwnerID uint `json:"new_owner_id" binding:"required"`
}

// TransferOwnership hands the company to an approved member
// POST /api/companies/:id/transfer
func (h *CompanyHandler) TransferOwnership(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ok, msg := h.companyService.TransferOwnership(id, req.NewOwnerID, middleware.GetUserID(c))
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// Delete removes a company; owner or admin only
// DELETE /api/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	userID := middleware.GetUserID(c)
	ok, msg := h.companyService.Delete(id, userID)
	if !ok {
		response.BadRequest(c, msg)
		return
	}

	services.LogWarning("company", "delete", "company deleted", &userID, c.ClientIP(), c.Request.UserAgent(),
		gin.H{"company_id": id})
	response.Message(c, msg)
}

// ListOwned lists companies the caller owns
// GET /api/companies/mine
func (h *CompanyHandler) ListOwned(c *gin.Context) {
	companies, err := h.companyService.ListOwned(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, companies)
}
