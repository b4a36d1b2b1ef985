package handler

import (
	procurementapp "github.com/reponha/backend/internal/application/procurement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyHandler handles purchase policy endpoints
type PolicyHandler struct {
	BaseHandler
	policyService *procurementapp.PolicyService
}

// NewPolicyHandler creates a new PolicyHandler
func NewPolicyHandler(policyService *procurementapp.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// SetPolicyActiveRequest toggles a policy's active flag
type SetPolicyActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Create handles POST /policies
func (h *PolicyHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req procurementapp.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	policy, err := h.policyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, policy)
}

// GetByID handles GET /policies/:id
func (h *PolicyHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid policy ID format")
		return
	}

	policy, err := h.policyService.GetByID(c.Request.Context(), tenantID, policyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, policy)
}

// ListBySupplier handles GET /suppliers/:id/policies
func (h *PolicyHandler) ListBySupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	policies, err := h.policyService.ListBySupplier(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, policies)
}

// Update handles PUT /policies/:id
func (h *PolicyHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid policy ID format")
		return
	}

	var req procurementapp.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	policy, err := h.policyService.Update(c.Request.Context(), tenantID, policyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, policy)
}

// SetActive handles PATCH /policies/:id/active
func (h *PolicyHandler) SetActive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid policy ID format")
		return
	}

	var req SetPolicyActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	policy, err := h.policyService.SetActive(c.Request.Context(), tenantID, policyID, *req.Active)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, policy)
}

// Delete handles DELETE /policies/:id
func (h *PolicyHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid policy ID format")
		return
	}

	if err := h.policyService.Delete(c.Request.Context(), tenantID, policyID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Match handles GET /policies/match?supplier_id=...&subtotal=...
// It reports which of the supplier's policies the subtotal satisfies.
func (h *PolicyHandler) Match(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Query("supplier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	subtotal, err := decimal.NewFromString(c.Query("subtotal"))
	if err != nil {
		h.BadRequest(c, "Invalid subtotal")
		return
	}

	report, err := h.policyService.Match(c.Request.Context(), tenantID, supplierID, subtotal)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, report)
}
