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

// AgencyHandler handles agency-related HTTP requests
type AgencyHandler struct {
	agencyService *service.AgencyService
}

// NewAgencyHandler creates a new agency handler
func NewAgencyHandler(agencyService *service.AgencyService) *AgencyHandler {
	return &AgencyHandler{agencyService: agencyService}
}

// List handles listing agencies
func (h *AgencyHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.AgencyFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search: c.Query("search"),
	}

	if typeIDStr := c.Query("agency_type_id"); typeIDStr != "" {
		if typeID, err := uuid.Parse(typeIDStr); err == nil {
			params.AgencyTypeID = &typeID
		}
	}

	result, err := h.agencyService.ListAgencies(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Agencies retrieved successfully", result)
}

// Create handles creating an agency
func (h *AgencyHandler) Create(c *gin.Context) {
	var req struct {
		AgencyTypeID  uuid.UUID `json:"agency_type_id" binding:"required"`
		Name          string    `json:"name" binding:"required"`
		Phone         *string   `json:"phone"`
		Email         *string   `json:"email"`
		Address       *string   `json:"address"`
		ReceptionDate string    `json:"reception_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var receptionDate time.Time
	if req.ReceptionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReceptionDate)
		if err != nil {
			response.BadRequest(c, "Invalid reception date, expected YYYY-MM-DD")
			return
		}
		receptionDate = parsed
	}

	agency, err := h.agencyService.CreateAgency(c.Request.Context(), &service.CreateAgencyInput{
		AgencyTypeID:  req.AgencyTypeID,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		ReceptionDate: receptionDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Agency created successfully", agency)
}

// Get handles getting a single agency
func (h *AgencyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid agency ID")
		return
	}

	agency, err := h.agencyService.GetAgency(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Agency retrieved successfully", agency)
}

// Update handles updating an agency's contact fields
func (h *AgencyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid agency ID")
		return
	}

	var req struct {
		AgencyTypeID *uuid.UUID `json:"agency_type_id"`
		Name         *string    `json:"name"`
		Phone        *string    `json:"phone"`
		Email        *string    `json:"email"`
		Address      *string    `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	agency, err := h.agencyService.UpdateAgency(c.Request.Context(), id, &service.UpdateAgencyInput{
		AgencyTypeID: req.AgencyTypeID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Agency updated successfully", agency)
}

// ListTypes handles listing agency types
func (h *AgencyHandler) ListTypes(c *gin.Context) {
	types, err := h.agencyService.ListAgencyTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Agency types retrieved successfully", types)
}

// CreateType handles creating an agency type
func (h *AgencyHandler) CreateType(c *gin.Context) {
	var req struct {
		Name    string          `json:"name" binding:"required"`
		MaxDebt decimal.Decimal `json:"max_debt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	agencyType, err := h.agencyService.CreateAgencyType(c.Request.Context(), &service.CreateAgencyTypeInput{
		Name:    req.Name,
		MaxDebt: req.MaxDebt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Agency type created successfully", agencyType)
}
