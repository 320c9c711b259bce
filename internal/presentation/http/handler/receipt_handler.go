package handler

import (
	"strconv"
	"time"

	"github.com/agms/backoffice-api/internal/application/service"
	"github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/agms/backoffice-api/internal/presentation/http/dto/response"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// List handles listing receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
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

	result, err := h.receiptService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Create handles creating a receipt
func (h *ReceiptHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		AgencyID    uuid.UUID `json:"agency_id" binding:"required"`
		ReceiptDate string    `json:"receipt_date"`
		Lines       []struct {
			ItemID    uuid.UUID       `json:"item_id" binding:"required"`
			Quantity  int             `json:"quantity" binding:"required"`
			UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
		} `json:"lines" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var receiptDate time.Time
	if req.ReceiptDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReceiptDate)
		if err != nil {
			response.BadRequest(c, "Invalid receipt date, expected YYYY-MM-DD")
			return
		}
		receiptDate = parsed
	}

	lines := make([]service.ReceiptLineInput, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = service.ReceiptLineInput{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), &service.CreateReceiptInput{
		UserID:      *userID,
		AgencyID:    req.AgencyID,
		ReceiptDate: receiptDate,
		Lines:       lines,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", receipt)
}

// Get handles getting a single receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}
