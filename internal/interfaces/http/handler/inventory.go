package handler

import (
	"context"

	inventoryapp "github.com/reponha/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles stock level and movement endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type movementOp func(ctx context.Context, tenantID, actorID uuid.UUID, req inventoryapp.MovementRequest) (*inventoryapp.MovementResponse, error)

// Receive handles POST /inventory/receive
func (h *InventoryHandler) Receive(c *gin.Context) {
	h.movement(c, h.inventoryService.Receive)
}

// Issue handles POST /inventory/issue
func (h *InventoryHandler) Issue(c *gin.Context) {
	h.movement(c, h.inventoryService.Issue)
}

func (h *InventoryHandler) movement(c *gin.Context, op movementOp) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req inventoryapp.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := op(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, movement)
}

// Adjust handles POST /inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req inventoryapp.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.inventoryService.Adjust(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, movement)
}

// GetStock handles GET /inventory/products/:id
func (h *InventoryHandler) GetStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	stock, err := h.inventoryService.GetStock(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stock)
}

// ListStock handles GET /inventory
func (h *InventoryHandler) ListStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.inventoryService.ListStock(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// MovementHistory handles GET /inventory/products/:id/movements
func (h *InventoryHandler) MovementHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	filter, err := parseFilter(c, "type")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.inventoryService.MovementHistory(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, result.Items, result.Total, result.Page, result.PageSize, result.TotalPages)
}
