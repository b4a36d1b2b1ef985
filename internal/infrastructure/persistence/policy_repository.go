package persistence

import (
	"context"
	"errors"

	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchasePolicyRepository implements PurchasePolicyRepository using GORM
type GormPurchasePolicyRepository struct {
	db *gorm.DB
}

// NewGormPurchasePolicyRepository creates a new GormPurchasePolicyRepository
func NewGormPurchasePolicyRepository(db *gorm.DB) *GormPurchasePolicyRepository {
	return &GormPurchasePolicyRepository{db: db}
}

// FindByID finds a policy by its ID
func (r *GormPurchasePolicyRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchasePolicy, error) {
	var policy procurement.PurchasePolicy
	if err := r.db.WithContext(ctx).First(&policy, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// FindByIDForTenant finds a policy by ID within a tenant
func (r *GormPurchasePolicyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchasePolicy, error) {
	var policy procurement.PurchasePolicy
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&policy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// FindBySupplier returns all of a supplier's policies, active and inactive
func (r *GormPurchasePolicyRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]procurement.PurchasePolicy, error) {
	var policies []procurement.PurchasePolicy
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("minimum_value ASC").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// Save creates or updates a policy
func (r *GormPurchasePolicyRepository) Save(ctx context.Context, policy *procurement.PurchasePolicy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

// Delete deletes a policy within a tenant
func (r *GormPurchasePolicyRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&procurement.PurchasePolicy{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPurchasePolicyRepository implements PurchasePolicyRepository
var _ procurement.PurchasePolicyRepository = (*GormPurchasePolicyRepository)(nil)
