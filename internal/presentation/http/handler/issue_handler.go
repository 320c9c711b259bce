package handler

import (
	"strconv"
	"time"

	"github.com/agms/backoffice-api/internal/application/service"
	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/agms/backoffice-api/internal/presentation/http/dto/response"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IssueHandler handles issue-related HTTP requests
type IssueHandler struct {
	issueService *service.IssueService
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issueService *service.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

// List handles listing issues
func (h *IssueHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.IssueFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if status, ok := enum.ParseIssueStatus(statusStr); ok {
			params.Status = &status
		}
	}
	if agencyIDStr := c.Query("agency_id"); agencyIDStr != "" {
		if agencyID, err := uuid.Parse(agencyIDStr); err == nil {
			params.AgencyID = &agencyID
		}
	}
	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.issueService.ListIssues(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Issues retrieved successfully", result)
}

// Create handles creating an issue in processing status
func (h *IssueHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		AgencyID  uuid.UUID `json:"agency_id" binding:"required"`
		IssueDate string    `json:"issue_date"`
		Lines     []struct {
			ItemID    uuid.UUID       `json:"item_id" binding:"required"`
			Quantity  int             `json:"quantity" binding:"required"`
			UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
		} `json:"lines" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var issueDate time.Time
	if req.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			response.BadRequest(c, "Invalid issue date, expected YYYY-MM-DD")
			return
		}
		issueDate = parsed
	}

	lines := make([]service.IssueLineInput, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = service.IssueLineInput{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	issue, err := h.issueService.CreateIssue(c.Request.Context(), &service.CreateIssueInput{
		UserID:    *userID,
		AgencyID:  req.AgencyID,
		IssueDate: issueDate,
		Lines:     lines,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Issue created successfully", issue)
}

// Get handles getting a single issue
func (h *IssueHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid issue ID")
		return
	}

	issue, err := h.issueService.GetIssue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issue retrieved successfully", issue)
}

// Approve handles confirming an issue, applying stock and debt effects
func (h *IssueHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid issue ID")
		return
	}

	issue, err := h.issueService.ApproveIssue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issue approved successfully", issue)
}

// Reject handles cancelling a processing issue
func (h *IssueHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid issue ID")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A rejection reason is required")
		return
	}

	issue, err := h.issueService.RejectIssue(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issue rejected successfully", issue)
}

// Deliver handles marking a confirmed issue as delivered
func (h *IssueHandler) Deliver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid issue ID")
		return
	}

	issue, err := h.issueService.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issue marked as delivered", issue)
}
