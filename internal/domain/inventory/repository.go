package inventory

import (
	"context"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*StockItem, error)
	FindByProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) ([]StockItem, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItem, error)
	Save(ctx context.Context, item *StockItem) error

	// SaveWithMovement persists the item and its new movement atomically
	SaveWithMovement(ctx context.Context, item *StockItem, movement *StockMovement) error
}

// StockMovementRepository defines the interface for movement history queries
type StockMovementRepository interface {
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}

// SalesVelocityReader computes average daily sales from the outbound
// movement history.
type SalesVelocityReader interface {
	// VelocityFor returns the average daily sales of each product over the
	// trailing window. Products with no outbound history in the window are
	// omitted from the result.
	VelocityFor(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID, windowDays int) (map[uuid.UUID]SalesVelocity, error)
}
