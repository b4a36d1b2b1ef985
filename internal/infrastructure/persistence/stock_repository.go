package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/reponha/backend/internal/domain/inventory"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByProduct finds a product's stock record within a tenant
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProducts finds stock records for a set of products
func (r *GormStockItemRepository) FindByProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) ([]inventory.StockItem, error) {
	if len(productIDs) == 0 {
		return []inventory.StockItem{}, nil
	}
	var items []inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id IN ?", tenantID, productIDs).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAllForTenant finds all stock records for a tenant
func (r *GormStockItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.db.WithContext(ctx).Model(&inventory.StockItem{}).Where("tenant_id = ?", tenantID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "updated_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("updated_at DESC")
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a stock record
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithMovement persists the item and its new movement atomically
func (r *GormStockItemRepository) SaveWithMovement(ctx context.Context, item *inventory.StockItem, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return tx.Create(movement).Error
	})
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByProduct finds a product's movement history, newest first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAllForTenant finds all movements for a tenant, newest first
func (r *GormStockMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByProduct counts movements for a product
func (r *GormStockMovementRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)

// GormSalesVelocityReader computes average daily sales from the outbound
// movement history.
type GormSalesVelocityReader struct {
	db *gorm.DB
}

// NewGormSalesVelocityReader creates a new GormSalesVelocityReader
func NewGormSalesVelocityReader(db *gorm.DB) *GormSalesVelocityReader {
	return &GormSalesVelocityReader{db: db}
}

type velocityRow struct {
	ProductID uuid.UUID
	Issued    decimal.Decimal
}

// VelocityFor returns the average daily sales of each product over the
// trailing window. Products with no outbound history are omitted.
func (r *GormSalesVelocityReader) VelocityFor(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID, windowDays int) (map[uuid.UUID]inventory.SalesVelocity, error) {
	if len(productIDs) == 0 || windowDays <= 0 {
		return map[uuid.UUID]inventory.SalesVelocity{}, nil
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	var rows []velocityRow
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("product_id, SUM(-quantity) AS issued").
		Where("tenant_id = ? AND product_id IN ? AND type = ? AND created_at >= ?",
			tenantID, productIDs, inventory.MovementTypeOutbound, since).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	days := decimal.NewFromInt(int64(windowDays))
	result := make(map[uuid.UUID]inventory.SalesVelocity, len(rows))
	for _, row := range rows {
		if !row.Issued.IsPositive() {
			continue
		}
		result[row.ProductID] = inventory.SalesVelocity{
			ProductID:  row.ProductID,
			DailySales: row.Issued.Div(days),
			WindowDays: windowDays,
			SampledAt:  now,
		}
	}
	return result, nil
}

// Ensure GormSalesVelocityReader implements SalesVelocityReader
var _ inventory.SalesVelocityReader = (*GormSalesVelocityReader)(nil)
