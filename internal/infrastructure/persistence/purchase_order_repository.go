package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.preloaded(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForTenant finds a purchase order by ID within a tenant
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a purchase order by order number for a tenant
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant finds all purchase orders for a tenant with filtering
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.applyFilter(r.preloaded(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySupplier finds purchase orders for a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.applyFilter(
		r.preloaded(ctx).Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders by workflow status for a tenant
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.OrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.applyFilter(
		r.preloaded(ctx).Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order and synchronizes its child rows
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Installments", "Suggestions").Save(order).Error; err != nil {
			return err
		}
		return r.syncChildren(tx, order)
	})
}

// SaveWithLock saves with an optimistic version check. The aggregate bumps
// its version on every mutation, so a stored version at or past the
// in-memory one means another session saved since this one loaded.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ?", order.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			return err
		}
		if currentVersion == 0 {
			return shared.ErrNotFound
		}
		if currentVersion >= order.Version {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Omit("Items", "Installments", "Suggestions").
			Select("*").
			Updates(order)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncChildren(tx, order)
	})
}

// CountForTenant counts purchase orders for a tenant
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique order number for a tenant.
// Format: PO-YYYY-NNNNN (e.g., PO-2026-00042).
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseOrder{}).
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &lastNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if lastNumber != "" {
		parts := strings.Split(lastNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormPurchaseOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Suggestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Suggestions.Lines")
}

// syncChildren replaces the order's child rows with the aggregate's current
// state. Items can be removed and installments are regenerated wholesale, so
// orphans must be deleted; suggestions are append-only.
func (r *GormPurchaseOrderRepository) syncChildren(tx *gorm.DB, order *procurement.PurchaseOrder) error {
	itemIDs := make([]uuid.UUID, len(order.Items))
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		itemIDs[i] = order.Items[i].ID
	}
	if err := deleteOrphans(tx, &procurement.OrderItem{}, order.ID, itemIDs); err != nil {
		return err
	}
	for i := range order.Items {
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}

	installmentIDs := make([]uuid.UUID, len(order.Installments))
	for i := range order.Installments {
		order.Installments[i].OrderID = order.ID
		installmentIDs[i] = order.Installments[i].ID
	}
	if err := deleteOrphans(tx, &procurement.Installment{}, order.ID, installmentIDs); err != nil {
		return err
	}
	for i := range order.Installments {
		if err := tx.Save(&order.Installments[i]).Error; err != nil {
			return err
		}
	}

	for i := range order.Suggestions {
		order.Suggestions[i].OrderID = order.ID
		if err := tx.Omit("Lines").Save(&order.Suggestions[i]).Error; err != nil {
			return err
		}
		for j := range order.Suggestions[i].Lines {
			order.Suggestions[i].Lines[j].SuggestionID = order.Suggestions[i].ID
			if err := tx.Save(&order.Suggestions[i].Lines[j]).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func deleteOrphans(tx *gorm.DB, model interface{}, orderID uuid.UUID, keep []uuid.UUID) error {
	if len(keep) == 0 {
		return tx.Where("order_id = ?", orderID).Delete(model).Error
	}
	return tx.Where("order_id = ? AND id NOT IN ?", orderID, keep).Delete(model).Error
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "created_after":
			query = query.Where("created_at >= ?", value)
		case "created_before":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
