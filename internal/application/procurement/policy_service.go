package procurement

import (
	"context"

	"github.com/reponha/backend/internal/domain/partner"
	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyService handles purchase policy management and matching
type PolicyService struct {
	policyRepo   procurement.PurchasePolicyRepository
	supplierRepo partner.SupplierRepository
}

// NewPolicyService creates a new PolicyService
func NewPolicyService(policyRepo procurement.PurchasePolicyRepository, supplierRepo partner.SupplierRepository) *PolicyService {
	return &PolicyService{
		policyRepo:   policyRepo,
		supplierRepo: supplierRepo,
	}
}

// Create creates a new purchase policy for a supplier
func (s *PolicyService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePolicyRequest) (*PolicyResponse, error) {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID); err != nil {
		return nil, err
	}

	policy, err := procurement.NewPurchasePolicy(tenantID, req.SupplierID, req.Name,
		req.MinimumValue, req.DiscountPercent, req.BonusPercent, req.LeadTimeDays, req.PaymentDayOffsets)
	if err != nil {
		return nil, err
	}

	if err := s.policyRepo.Save(ctx, policy); err != nil {
		return nil, err
	}
	response := ToPolicyResponse(policy)
	return &response, nil
}

// Update changes a policy's commercial terms
func (s *PolicyService) Update(ctx context.Context, tenantID, policyID uuid.UUID, req UpdatePolicyRequest) (*PolicyResponse, error) {
	policy, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, policyID)
	if err != nil {
		return nil, err
	}

	if err := policy.Update(req.Name, req.MinimumValue, req.DiscountPercent, req.BonusPercent, req.LeadTimeDays, req.PaymentDayOffsets); err != nil {
		return nil, err
	}

	if err := s.policyRepo.Save(ctx, policy); err != nil {
		return nil, err
	}
	response := ToPolicyResponse(policy)
	return &response, nil
}

// GetByID retrieves a policy by ID
func (s *PolicyService) GetByID(ctx context.Context, tenantID, policyID uuid.UUID) (*PolicyResponse, error) {
	policy, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, policyID)
	if err != nil {
		return nil, err
	}
	response := ToPolicyResponse(policy)
	return &response, nil
}

// ListBySupplier retrieves a supplier's policies, active and inactive
func (s *PolicyService) ListBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]PolicyResponse, error) {
	policies, err := s.policyRepo.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	responses := make([]PolicyResponse, 0, len(policies))
	for idx := range policies {
		responses = append(responses, ToPolicyResponse(&policies[idx]))
	}
	return responses, nil
}

// SetActive activates or deactivates a policy
func (s *PolicyService) SetActive(ctx context.Context, tenantID, policyID uuid.UUID, active bool) (*PolicyResponse, error) {
	policy, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, policyID)
	if err != nil {
		return nil, err
	}

	if active {
		policy.Activate()
	} else {
		policy.Deactivate()
	}

	if err := s.policyRepo.Save(ctx, policy); err != nil {
		return nil, err
	}
	response := ToPolicyResponse(policy)
	return &response, nil
}

// Delete removes a policy
func (s *PolicyService) Delete(ctx context.Context, tenantID, policyID uuid.UUID) error {
	return s.policyRepo.Delete(ctx, tenantID, policyID)
}

// Match evaluates a supplier's policies against a candidate subtotal
func (s *PolicyService) Match(ctx context.Context, tenantID, supplierID uuid.UUID, subtotal decimal.Decimal) (*procurement.PolicyReport, error) {
	policies, err := s.policyRepo.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	report := procurement.MatchPolicies(policies, subtotal)
	return &report, nil
}
