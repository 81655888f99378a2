package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/middleware"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/pkg/response"
)

type PositionHandler struct {
	positionService *services.PositionService
}

func NewPositionHandler(db *gorm.DB, membership *services.MembershipService) *PositionHandler {
	return &PositionHandler{
		positionService: services.NewPositionService(db, membership),
	}
}

// Create posts a position; company managers only
// POST /api/positions
func (h *PositionHandler) Create(c *gin.Context) {
	var req services.PositionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	position, err := h.positionService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, position)
}

// Get returns one position with its company
// GET /api/positions/:id
func (h *PositionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid position id")
		return
	}

	position, err := h.positionService.Get(id)
	if err != nil {
		response.NotFound(c, "position not found")
		return
	}
	response.Success(c, position)
}

// List is the public position search
// GET /api/positions
func (h *PositionHandler) List(c *gin.Context) {
	var req services.PositionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.positionService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// Update edits a position; company managers only
// PUT /api/positions/:id
func (h *PositionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid position id")
		return
	}

	var req services.PositionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	position, err := h.positionService.Update(id, &req, middleware.GetUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, position)
}

// Delete removes a position; company managers only
// DELETE /api/positions/:id
func (h *PositionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid position id")
		return
	}

	if err := h.positionService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Message(c, "position deleted")
}

// Save bookmarks a position for the caller
// POST /api/positions/:id/save
func (h *PositionHandler) Save(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid position id")
		return
	}

	if err := h.positionService.Save(id, middleware.GetUserID(c)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Message(c, "position saved")
}

// Unsave removes a bookmark
// DELETE /api/positions/:id/save
func (h *PositionHandler) Unsave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid position id")
		return
	}

	if err := h.positionService.Unsave(id, middleware.GetUserID(c)); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Message(c, "position unsaved")
}

// ListSaved lists the caller's bookmarks
// GET /api/positions/saved
func (h *PositionHandler) ListSaved(c *gin.Context) {
	saved, err := h.positionService.ListSaved(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, saved)
}
