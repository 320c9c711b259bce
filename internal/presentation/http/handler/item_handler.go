package handler

import (
	"strconv"
	"time"

	"github.com/agms/backoffice-api/internal/application/service"
	"github.com/agms/backoffice-api/internal/config"
	"github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/agms/backoffice-api/internal/presentation/http/dto/response"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	itemService *service.ItemService
	cfg         *config.InventoryConfig
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService, cfg *config.InventoryConfig) *ItemHandler {
	return &ItemHandler{itemService: itemService, cfg: cfg}
}

// List handles listing items
func (h *ItemHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ItemFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	result, err := h.itemService.ListItems(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// Create handles creating an item
func (h *ItemHandler) Create(c *gin.Context) {
	var req struct {
		Name      string          `json:"name" binding:"required"`
		Unit      string          `json:"unit"`
		BasePrice decimal.Decimal `json:"base_price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		Name:      req.Name,
		Unit:      req.Unit,
		BasePrice: req.BasePrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// Get handles getting a single item
func (h *ItemHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// Update handles updating an item's catalog fields
func (h *ItemHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req struct {
		Name      *string          `json:"name"`
		Unit      *string          `json:"unit"`
		BasePrice *decimal.Decimal `json:"base_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), id, &service.UpdateItemInput{
		Name:      req.Name,
		Unit:      req.Unit,
		BasePrice: req.BasePrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// Delete handles deleting an item without movement history
func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LowStock handles listing items below the stock threshold
func (h *ItemHandler) LowStock(c *gin.Context) {
	threshold := h.cfg.LowStockThreshold
	if t := c.Query("threshold"); t != "" {
		if parsed, err := strconv.Atoi(t); err == nil && parsed > 0 {
			threshold = parsed
		}
	}

	items, err := h.itemService.GetLowStockItems(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock items retrieved successfully", items)
}

// Movements handles the stock movement history of an item
func (h *ItemHandler) Movements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var start, end *time.Time
	if s := c.Query("start_date"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			start = &parsed
		}
	}
	if e := c.Query("end_date"); e != "" {
		if parsed, err := time.Parse("2006-01-02", e); err == nil {
			end = &parsed
		}
	}

	movements, err := h.itemService.GetItemMovements(c.Request.Context(), id, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item movements retrieved successfully", movements)
}

// ExpectedPrice handles exposing the markup issue price of an item
func (h *ItemHandler) ExpectedPrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	price, err := h.itemService.ExpectedIssuePrice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expected issue price retrieved successfully", gin.H{
		"expected_price": price,
	})
}
