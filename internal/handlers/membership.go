package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/careerhub/careerhub/backend/internal/middleware"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/pkg/response"
)

type MembershipHandler struct {
	membershipService *services.MembershipService
}

func NewMembershipHandler(membership *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membership}
}

type joinRequest struct {
	Message string `json:"message"`
}

// RequestToJoin asks to join a company as recruiter
// POST /api/companies/:id/join
func (h *MembershipHandler) RequestToJoin(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	var req joinRequest
	c.ShouldBindJSON(&req)

	ok, msg := h.membershipService.RequestToJoin(companyID, middleware.GetUserID(c), req.Message)
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

type inviteRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message"`
}

// Invite invites a user into the company by email
// POST /api/companies/:id/invite
func (h *MembershipHandler) Invite(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ok, msg := h.membershipService.InviteRecruiter(companyID, req.Email, middleware.GetUserID(c), req.Message)
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

type respondRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Approve bool   `json:"approve"`
	Message string `json:"message"`
}

// Respond approves or rejects an open request/invitation
// POST /api/companies/:id/respond
func (h *MembershipHandler) Respond(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ok, msg := h.membershipService.RespondToRequest(companyID, req.UserID, req.Approve, middleware.GetUserID(c), req.Message)
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// Remove removes a recruiter from the company
// DELETE /api/companies/:id/members/:userId
func (h *MembershipHandler) Remove(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	ok, msg := h.membershipService.RemoveRecruiter(companyID, targetID, middleware.GetUserID(c))
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// Leave removes the caller's own membership
// POST /api/companies/:id/leave
func (h *MembershipHandler) Leave(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	ok, msg := h.membershipService.LeaveCompany(companyID, middleware.GetUserID(c))
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// ListMembers lists a company's membership rows
// GET /api/companies/:id/members
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	members, err := h.membershipService.ListMembers(companyID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, members)
}

// ListRequests lists open pending/invited rows; managers only
// GET /api/companies/:id/requests
func (h *MembershipHandler) ListRequests(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	if !h.membershipService.IsCompanyManager(companyID, middleware.GetUserID(c)) {
		response.Forbidden(c, "you do not have permission to view this company's requests")
		return
	}

	requests, err := h.membershipService.ListOpenRequests(companyID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, requests)
}

// GetMyRole returns the caller's role in the company
// GET /api/companies/:id/my-role
func (h *MembershipHandler) GetMyRole(c *gin.Context) {
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	role := h.membershipService.GetUserRole(companyID, middleware.GetUserID(c))
	response.Success(c, gin.H{"role": role})
}

// ListMyMemberships lists the caller's membership rows across companies
// GET /api/memberships
func (h *MembershipHandler) ListMyMemberships(c *gin.Context) {
	rows, err := h.membershipService.ListUserMemberships(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, rows)
}
