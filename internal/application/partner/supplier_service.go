package partner

import (
	"context"

	"github.com/reponha/backend/internal/domain/partner"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier registry operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.TradeName != "" {
		if err := supplier.Update(req.Name, req.TradeName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := supplier.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.CNPJ != "" {
		if err := supplier.SetCNPJ(req.CNPJ); err != nil {
			return nil, err
		}
	}
	if req.City != "" || req.State != "" {
		if err := supplier.SetLocation(req.City, req.State); err != nil {
			return nil, err
		}
	}
	if req.LeadTimeDays > 0 {
		if err := supplier.SetDefaultLeadTime(req.LeadTimeDays); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Update updates a supplier's information
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.Update(req.Name, req.TradeName); err != nil {
		return nil, err
	}

	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName, phone, email := supplier.ContactName, supplier.Phone, supplier.Email
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := supplier.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers for a tenant with pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SupplierResponse], error) {
	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for idx := range suppliers {
		responses = append(responses, ToSupplierResponse(&suppliers[idx]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// SetStatus activates, deactivates or blocks a supplier
func (s *SupplierService) SetStatus(ctx context.Context, tenantID, supplierID uuid.UUID, status partner.SupplierStatus, reason string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	switch status {
	case partner.SupplierStatusActive:
		err = supplier.Activate()
	case partner.SupplierStatusInactive:
		err = supplier.Deactivate()
	case partner.SupplierStatusBlocked:
		err = supplier.Block(reason)
	default:
		err = shared.NewDomainError("INVALID_STATUS", "Unknown supplier status")
	}
	if err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, tenantID, supplierID)
}
