package inventory

import (
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is the aggregate root holding one product's on-hand quantity.
// Every change goes through a movement so the history stays auditable.
type StockItem struct {
	shared.TenantAggregateRoot
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_product,priority:2"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a stock record for a product with zero on-hand quantity
func NewStockItem(tenantID, productID uuid.UUID) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		Quantity:            decimal.Zero,
	}, nil
}

// Receive records an inbound movement (purchase delivery, return)
func (s *StockItem) Receive(quantity decimal.Decimal, reason string, actorID uuid.UUID) (*StockMovement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Inbound quantity must be positive")
	}

	s.Quantity = s.Quantity.Add(quantity)
	s.touch()

	movement := newStockMovement(s, MovementTypeInbound, quantity, reason, actorID)
	s.AddDomainEvent(NewStockMovedEvent(s, movement))
	return movement, nil
}

// Issue records an outbound movement (sale, loss). Stock cannot go negative.
func (s *StockItem) Issue(quantity decimal.Decimal, reason string, actorID uuid.UUID) (*StockMovement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Outbound quantity must be positive")
	}
	if s.Quantity.LessThan(quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Outbound quantity exceeds on-hand stock")
	}

	s.Quantity = s.Quantity.Sub(quantity)
	s.touch()

	movement := newStockMovement(s, MovementTypeOutbound, quantity.Neg(), reason, actorID)
	s.AddDomainEvent(NewStockMovedEvent(s, movement))
	return movement, nil
}

// Adjust sets the on-hand quantity to a counted value, recording the delta
// as an adjustment movement. A reason is required.
func (s *StockItem) Adjust(countedQuantity decimal.Decimal, reason string, actorID uuid.UUID) (*StockMovement, error) {
	if countedQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Adjustments require a reason")
	}

	delta := countedQuantity.Sub(s.Quantity)
	if delta.IsZero() {
		return nil, shared.NewDomainError("NO_CHANGE", "Counted quantity equals on-hand stock")
	}

	s.Quantity = countedQuantity
	s.touch()

	movement := newStockMovement(s, MovementTypeAdjustment, delta, reason, actorID)
	s.AddDomainEvent(NewStockMovedEvent(s, movement))
	return movement, nil
}

func (s *StockItem) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
