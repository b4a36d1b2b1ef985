package handler

import (
	procurementapp "github.com/reponha/backend/internal/application/procurement"
	"github.com/gin-gonic/gin"
)

// ReplenishmentHandler handles replenishment draft endpoints
type ReplenishmentHandler struct {
	BaseHandler
	replenishmentService *procurementapp.ReplenishmentService
}

// NewReplenishmentHandler creates a new ReplenishmentHandler
func NewReplenishmentHandler(replenishmentService *procurementapp.ReplenishmentService) *ReplenishmentHandler {
	return &ReplenishmentHandler{replenishmentService: replenishmentService}
}

// Suggest handles POST /replenishment/suggest. It computes a draft order for
// one supplier from sales velocity and current stock; nothing is persisted.
func (h *ReplenishmentHandler) Suggest(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req procurementapp.ReplenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	draft, err := h.replenishmentService.Suggest(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, draft)
}

// CreateDraft handles POST /replenishment/draft. It recomputes the
// replenishment draft, applies the buyer's overrides and persists the result
// as a draft purchase order.
func (h *ReplenishmentHandler) CreateDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req procurementapp.ReplenishmentDraftOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	order, err := h.replenishmentService.CreateDraftFromSuggestions(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}
