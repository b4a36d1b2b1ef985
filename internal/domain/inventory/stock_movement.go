package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementTypeInbound    MovementType = "inbound"
	MovementTypeOutbound   MovementType = "outbound"
	MovementTypeAdjustment MovementType = "adjustment"
)

// IsValid checks if the type is a valid MovementType
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeInbound, MovementTypeOutbound, MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement is one immutable entry in a product's stock history.
// Quantity is signed: positive inbound, negative outbound, adjustments carry
// the counted delta.
type StockMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         MovementType    `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason       string          `gorm:"type:varchar(500)"`
	ActorID      uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

func newStockMovement(item *StockItem, movementType MovementType, quantity decimal.Decimal, reason string, actorID uuid.UUID) *StockMovement {
	return &StockMovement{
		ID:           uuid.New(),
		TenantID:     item.TenantID,
		ProductID:    item.ProductID,
		StockItemID:  item.ID,
		Type:         movementType,
		Quantity:     quantity,
		BalanceAfter: item.Quantity,
		Reason:       reason,
		ActorID:      actorID,
		CreatedAt:    time.Now(),
	}
}

// SalesVelocity is the read model the replenishment calculator consumes:
// average units sold per day over the sampled window.
type SalesVelocity struct {
	ProductID  uuid.UUID       `json:"product_id"`
	DailySales decimal.Decimal `json:"daily_sales"`
	WindowDays int             `json:"window_days"`
	SampledAt  time.Time       `json:"sampled_at"`
}

// HasHistory returns true when the product sold at all in the window
func (v SalesVelocity) HasHistory() bool {
	return v.DailySales.IsPositive()
}
