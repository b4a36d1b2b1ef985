package inventory

import (
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStockItem = "StockItem"

// Event type constants
const EventTypeStockMoved = "StockMoved"

// StockMovedEvent is raised for every inbound, outbound or adjustment
// movement on a stock item
type StockMovedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reason       string          `json:"reason,omitempty"`
}

// NewStockMovedEvent creates a new StockMovedEvent
func NewStockMovedEvent(item *StockItem, movement *StockMovement) *StockMovedEvent {
	return &StockMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMoved, AggregateTypeStockItem, item.ID, item.TenantID),
		ProductID:       item.ProductID,
		MovementType:    movement.Type,
		Quantity:        movement.Quantity,
		BalanceAfter:    movement.BalanceAfter,
		Reason:          movement.Reason,
	}
}
