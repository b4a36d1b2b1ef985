package handler

import (
	procurementapp "github.com/reponha/backend/internal/application/procurement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NegotiationHandler handles the suggestion/counter-proposal endpoints on a
// purchase order
type NegotiationHandler struct {
	BaseHandler
	negotiationService *procurementapp.NegotiationService
}

// NewNegotiationHandler creates a new NegotiationHandler
func NewNegotiationHandler(negotiationService *procurementapp.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{negotiationService: negotiationService}
}

func (h *NegotiationHandler) orderContext(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
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

// Submit handles POST /orders/:id/suggestions
func (h *NegotiationHandler) Submit(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	party, valid := partyFromQuery(c)
	if !valid {
		h.BadRequest(c, "Invalid party; expected buyer or supplier")
		return
	}

	var req procurementapp.SubmitSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.negotiationService.Submit(c.Request.Context(), tenantID, orderID, party, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// Respond handles POST /orders/:id/suggestions/respond
func (h *NegotiationHandler) Respond(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	party, valid := partyFromQuery(c)
	if !valid {
		h.BadRequest(c, "Invalid party; expected buyer or supplier")
		return
	}

	var req procurementapp.RespondSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.negotiationService.Respond(c.Request.Context(), tenantID, orderID, party, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// History handles GET /orders/:id/suggestions
func (h *NegotiationHandler) History(c *gin.Context) {
	tenantID, orderID, ok := h.orderContext(c)
	if !ok {
		return
	}

	suggestions, err := h.negotiationService.History(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, suggestions)
}
