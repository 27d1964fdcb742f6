package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-complaints-api/internal/dto"
	"github.com/noah-isme/campus-complaints-api/internal/models"
	"github.com/noah-isme/campus-complaints-api/internal/service"
	appErrors "github.com/noah-isme/campus-complaints-api/pkg/errors"
	"github.com/noah-isme/campus-complaints-api/pkg/middleware/meta"
	"github.com/noah-isme/campus-complaints-api/pkg/response"
)

type complaintService interface {
	CreateSession(ctx context.Context) models.SessionState
	State(ctx context.Context, sessionID string) (*models.SessionState, error)
	SetActiveView(ctx context.Context, sessionID string, req dto.SetViewRequest) (*dto.SetViewResult, error)
	SubmitComplaint(ctx context.Context, sessionID string, req dto.SubmitComplaintRequest) (*dto.SubmitComplaintResult, error)
	ListComplaints(ctx context.Context, sessionID string, filter models.ComplaintFilter) ([]models.AnalyzedComplaint, *models.Pagination, error)
	GetComplaint(ctx context.Context, sessionID, complaintID string) (*models.AnalyzedComplaint, error)
	Notifications(ctx context.Context, sessionID string) ([]models.Notification, error)
	ExportComplaints(ctx context.Context, sessionID string, format dto.ExportFormat) (*dto.ExportFile, error)
}

// ComplaintHandler exposes the complaint portal endpoints.
type ComplaintHandler struct {
	service complaintService
}

// NewComplaintHandler builds a new handler.
func NewComplaintHandler(service complaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// CreateSession godoc
// @Summary Start a portal session
// @Tags Sessions
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *ComplaintHandler) CreateSession(c *gin.Context) {
	response.Created(c, h.service.CreateSession(c.Request.Context()))
}

// GetSession godoc
// @Summary Session state
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{sessionId} [get]
func (h *ComplaintHandler) GetSession(c *gin.Context) {
	state, err := h.service.State(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// SetView godoc
// @Summary Switch between the student and admin views
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param payload body dto.SetViewRequest true "View payload"
// @Success 200 {object} response.Envelope
// @Router /sessions/{sessionId}/view [put]
func (h *ComplaintHandler) SetView(c *gin.Context) {
	var req dto.SetViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid view payload"))
		return
	}
	result, err := h.service.SetActiveView(c.Request.Context(), c.Param("sessionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Submit godoc
// @Summary Submit a complaint for analysis
// @Description Classifies the complaint and prepends it to the session's list. One submission per session may run at a time.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param payload body dto.SubmitComplaintRequest true "Complaint form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /sessions/{sessionId}/complaints [post]
func (h *ComplaintHandler) Submit(c *gin.Context) {
	var req dto.SubmitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint payload"))
		return
	}
	req.ClientKey = c.ClientIP()
	result, err := h.service.SubmitComplaint(c.Request.Context(), c.Param("sessionId"), req)
	if err != nil {
		if errors.Is(err, appErrors.ErrRateLimited) {
			c.Header("Retry-After", strconv.Itoa(int(service.QuotaWindow.Seconds())))
		}
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List analyzed complaints, newest first
// @Tags Complaints
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param priority query string false "High, Medium or Low"
// @Param department query string false "Department filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sessions/{sessionId}/complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	filter := models.ComplaintFilter{
		Priority:   models.Priority(c.Query("priority")),
		Department: c.Query("department"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("pageSize", "20")); err == nil {
		filter.PageSize = size
	}
	items, pagination, err := h.service.ListComplaints(c.Request.Context(), c.Param("sessionId"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if filter.Priority != "" || filter.Department != "" {
		meta.Set(c, "filters", gin.H{"priority": filter.Priority, "department": filter.Department})
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Complaint detail
// @Tags Complaints
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param complaintId path string true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{sessionId}/complaints/{complaintId} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaint, err := h.service.GetComplaint(c.Request.Context(), c.Param("sessionId"), c.Param("complaintId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaint, nil)
}

// Export godoc
// @Summary Download the complaint list
// @Tags Complaints
// @Produce text/csv
// @Produce application/pdf
// @Param sessionId path string true "Session ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /sessions/{sessionId}/complaints/export [get]
func (h *ComplaintHandler) Export(c *gin.Context) {
	file, err := h.service.ExportComplaints(c.Request.Context(), c.Param("sessionId"), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Notifications godoc
// @Summary Recent submission notifications
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{sessionId}/notifications [get]
func (h *ComplaintHandler) Notifications(c *gin.Context) {
	items, err := h.service.Notifications(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Departments godoc
// @Summary Suggested departments and priority levels
// @Tags Complaints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *ComplaintHandler) Departments(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.DepartmentList{
		Departments: models.Departments,
		Priorities:  models.Priorities,
	}, nil)
}
