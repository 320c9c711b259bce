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

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List handles listing payments
func (h *PaymentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.PaymentFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if status, ok := enum.ParsePaymentStatus(statusStr); ok {
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

	result, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// Create handles recording a pending payment
func (h *PaymentHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		AgencyID        uuid.UUID       `json:"agency_id" binding:"required"`
		PaymentDate     string          `json:"payment_date"`
		AmountCollected decimal.Decimal `json:"amount_collected" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			response.BadRequest(c, "Invalid payment date, expected YYYY-MM-DD")
			return
		}
		paymentDate = parsed
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), &service.CreatePaymentInput{
		UserID:          *userID,
		AgencyID:        req.AgencyID,
		PaymentDate:     paymentDate,
		AmountCollected: req.AmountCollected,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment created successfully", payment)
}

// Get handles getting a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Settle handles resolving a pending payment as completed or failed
func (h *PaymentHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req struct {
		Status string  `json:"status" binding:"required"`
		Reason *string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := enum.ParsePaymentStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Invalid payment status")
		return
	}

	payment, err := h.paymentService.SettlePayment(c.Request.Context(), id, &service.SettlePaymentInput{
		Status: status,
		Reason: req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment settled successfully", payment)
}
