package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/careerhub/careerhub/backend/internal/middleware"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/pkg/response"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(application *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: application}
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
	ResumePath  string `json:"resume_path"`
}

// Apply submits an application to a position
// POST /api/positions/:id/apply
func (h *ApplicationHandler) Apply(c *gin.Context) {
	positionID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid position id")
		return
	}

	var req applyRequest
	c.ShouldBindJSON(&req)

	ok, msg := h.applicationService.Apply(positionID, middleware.GetUserID(c), req.CoverLetter, req.ResumePath)
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// List returns the applications visible to the caller
// GET /api/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	var req services.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.applicationService.List(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// Get returns one application; visible to the applicant and managers
// GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	allowed, err := h.applicationService.CanViewApplication(id, middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "application not found")
		return
	}
	if !allowed {
		response.Forbidden(c, "you do not have permission to view this application")
		return
	}

	app, err := h.applicationService.GetApplication(id)
	if err != nil {
		response.NotFound(c, "application not found")
		return
	}
	response.Success(c, app)
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateStatus moves an application along the status graph
// PUT /api/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	ok, msg := h.applicationService.UpdateStatus(id, req.Status, userID, req.Notes)
	if !ok {
		response.BadRequest(c, msg)
		return
	}

	services.LogInfo("application", "status_change", msg, &userID, c.ClientIP(), c.Request.UserAgent(),
		gin.H{"application_id": id, "status": req.Status})
	response.Message(c, msg)
}

// GetAvailableStatuses lists the statuses reachable from the application's
// current one
// GET /api/applications/:id/available-statuses
func (h *ApplicationHandler) GetAvailableStatuses(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	allowed, err := h.applicationService.CanViewApplication(id, middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "application not found")
		return
	}
	if !allowed {
		response.Forbidden(c, "you do not have permission to view this application")
		return
	}

	app, err := h.applicationService.GetApplication(id)
	if err != nil {
		response.NotFound(c, "application not found")
		return
	}

	response.Success(c, gin.H{
		"current":   app.Status,
		"available": h.applicationService.GetAvailableStatuses(app.Status),
	})
}

// GetHistory returns the append-only status history
// GET /api/applications/:id/history
func (h *ApplicationHandler) GetHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	allowed, err := h.applicationService.CanViewApplication(id, middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "application not found")
		return
	}
	if !allowed {
		response.Forbidden(c, "you do not have permission to view this application")
		return
	}

	history, err := h.applicationService.GetStatusHistory(id)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, history)
}

// Withdraw deletes the caller's own application
// POST /api/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	ok, msg := h.applicationService.Withdraw(id, middleware.GetUserID(c))
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// Delete removes an application; managers only
// DELETE /api/applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	ok, msg := h.applicationService.Delete(id, middleware.GetUserID(c))
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

type noteRequest struct {
	Note string `json:"note" binding:"required"`
}

// AddNote appends an interviewer note
// POST /api/applications/:id/notes
func (h *ApplicationHandler) AddNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ok, msg := h.applicationService.AddApplicantNote(id, middleware.GetUserID(c), req.Note)
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// ListNotes lists interviewer notes; managers only
// GET /api/applications/:id/notes
func (h *ApplicationHandler) ListNotes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid application id")
		return
	}

	allowed, err := h.applicationService.CanManageApplication(id, middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "application not found")
		return
	}
	if !allowed {
		response.Forbidden(c, "you do not have permission to view these notes")
		return
	}

	notes, err := h.applicationService.ListNotes(id)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, notes)
}

// DeleteNote removes a note; its author or a manager
// DELETE /api/applications/notes/:noteId
func (h *ApplicationHandler) DeleteNote(c *gin.Context) {
	noteID, ok := parseIDParam(c, "noteId")
	if !ok {
		response.BadRequest(c, "invalid note id")
		return
	}

	ok, msg := h.applicationService.DeleteApplicantNote(noteID, middleware.GetUserID(c))
	if !ok {
		response.BadRequest(c, msg)
		return
	}
	response.Message(c, msg)
}

// Statistics summarizes visible applications by status
// GET /api/applications/statistics
func (h *ApplicationHandler) Statistics(c *gin.Context) {
	positionID, _ := strconv.ParseUint(c.Query("position_id"), 10, 32)
	companyID, _ := strconv.ParseUint(c.Query("company_id"), 10, 32)

	stats, err := h.applicationService.Statistics(middleware.GetUserID(c), uint(positionID), uint(companyID))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, stats)
}
