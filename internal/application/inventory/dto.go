package inventory

import (
	"time"

	"github.com/reponha/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementRequest represents a request to record an inbound or outbound movement
type MovementRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"max=500"`
}

// AdjustmentRequest represents a request to set the counted on-hand quantity
type AdjustmentRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity" binding:"required"`
	Reason          string          `json:"reason" binding:"required,max=500"`
}

// StockItemResponse represents a product's on-hand stock in responses
type StockItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MovementResponse represents one stock history entry in responses
type MovementResponse struct {
	ID           uuid.UUID              `json:"id"`
	ProductID    uuid.UUID              `json:"product_id"`
	Type         inventory.MovementType `json:"type"`
	Quantity     decimal.Decimal        `json:"quantity"`
	BalanceAfter decimal.Decimal        `json:"balance_after"`
	Reason       string                 `json:"reason,omitempty"`
	ActorID      uuid.UUID              `json:"actor_id"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ToStockItemResponse converts a stock item to its response representation
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UpdatedAt: item.UpdatedAt,
	}
}

// ToMovementResponse converts a movement to its response representation
func ToMovementResponse(movement *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:           movement.ID,
		ProductID:    movement.ProductID,
		Type:         movement.Type,
		Quantity:     movement.Quantity,
		BalanceAfter: movement.BalanceAfter,
		Reason:       movement.Reason,
		ActorID:      movement.ActorID,
		CreatedAt:    movement.CreatedAt,
	}
}
