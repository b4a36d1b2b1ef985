package handler

import (
	procurementapp "github.com/reponha/backend/internal/application/procurement"
	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseOrderHandler handles purchase order lifecycle endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurementapp.OrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *procurementapp.OrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// orderContext resolves the tenant and order ID common to most endpoints
func (h *PurchaseOrderHandler) orderContext(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, orderID, true
}

// partyFromQuery reads the acting party, defaulting to buyer. Supplier
// actions arrive through the shared-link surface or an explicit override.
func partyFromQuery(c *gin.Context) (procurement.PartyRole, bool) {
	party := procurement.PartyRole(c.DefaultQuery("party", string(procurement.PartyBuyer)))
	return party, party.IsValid()
}

// Create handles POST /orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req procurementapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	order, err := h.orderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseFilter(c, "status", "supplier_id", "created_after", "created_before")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, result.Items, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// Update handles PUT /orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req procurementapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// AddItem handles POST /orders/:id/items
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req procurementapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateItem handles PUT /orders/:id/items/:itemId
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req procurementapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItemQuantity(c.Request.Context(), tenantID, orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem handles DELETE /orders/:id/items/:itemId
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), tenantID, orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// ApplyPolicy handles POST /orders/:id/apply-policy
func (h *PurchaseOrderHandler) ApplyPolicy(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req procurementapp.ApplyPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ApplyPolicy(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Send handles POST /orders/:id/send
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req procurementapp.SendOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Send(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	party, valid := partyFromQuery(c)
	if !valid {
		h.BadRequest(c, "Invalid party; expected buyer or supplier")
		return
	}

	var req procurementapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID, party, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Finalize handles POST /orders/:id/finalize
func (h *PurchaseOrderHandler) Finalize(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req procurementapp.FinalizeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Finalize(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// ScheduleInstallments handles POST /orders/:id/installments
func (h *PurchaseOrderHandler) ScheduleInstallments(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req procurementapp.ScheduleInstallmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ScheduleInstallments(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// ShareLink handles POST /orders/:id/share
func (h *PurchaseOrderHandler) ShareLink(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	link, err := h.orderService.ShareLink(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, link)
}

// GetShared handles GET /shared/:token. No authentication; the token is the
// authorization.
func (h *PurchaseOrderHandler) GetShared(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		h.BadRequest(c, "Share token is required")
		return
	}

	order, err := h.orderService.GetByShareToken(c.Request.Context(), token)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// RefreshExternalStatus handles POST /orders/:id/refresh-external-status
func (h *PurchaseOrderHandler) RefreshExternalStatus(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	order, err := h.orderService.RefreshExternalStatus(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}
