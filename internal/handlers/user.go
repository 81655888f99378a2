package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/middleware"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/pkg/response"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{userService: services.NewUserService(db)}
}

// UpdateProfile edits the caller's own profile
// PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, user)
}

// List returns a filtered page of users; admin only
// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, result)
}

type roleUpdateRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole changes a user's platform role; admin only
// PUT /api/admin/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req roleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	adminID := middleware.GetUserID(c)
	if err := h.userService.UpdateRole(id, req.Role, adminID); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	services.LogWarning("user", "role_change", "user role changed", &adminID, c.ClientIP(), c.Request.UserAgent(),
		gin.H{"target_user_id": id, "role": req.Role})
	response.Message(c, "role updated")
}

type activeUpdateRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive enables or disables an account; admin only
// PUT /api/admin/users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req activeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.SetActive(id, *req.Active, middleware.GetUserID(c)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Message(c, "user updated")
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword overrides a user's password; admin only
// PUT /api/admin/users/:id/password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.ResetPassword(id, req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Message(c, "password reset")
}

// Delete removes a user account; admin only
// DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	adminID := middleware.GetUserID(c)
	if err := h.userService.Delete(id, adminID); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	services.LogWarning("user", "delete", "user deleted", &adminID, c.ClientIP(), c.Request.UserAgent(),
		gin.H{"target_user_id": id})
	response.Message(c, "user deleted")
}
