package procurement

import (
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypeOrderCreated        = "PurchaseOrderCreated"
	EventTypeOrderSent           = "PurchaseOrderSent"
	EventTypeSuggestionSubmitted = "SuggestionSubmitted"
	EventTypeSuggestionResolved  = "SuggestionResolved"
	EventTypeOrderFinalized      = "PurchaseOrderFinalized"
	EventTypeOrderCancelled      = "PurchaseOrderCancelled"
)

// OrderCreatedEvent is raised when a new purchase order draft is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *PurchaseOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
	}
}

// OrderSentEvent is raised when the buyer sends the order to the supplier
type OrderSentEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderSentEvent creates a new OrderSentEvent
func NewOrderSentEvent(order *PurchaseOrder) *OrderSentEvent {
	return &OrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSent, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		ItemCount:       len(order.Items),
		Total:           order.Total,
	}
}

// SuggestionSubmittedEvent is raised when either party submits a suggestion
type SuggestionSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID   `json:"order_id"`
	SuggestionID uuid.UUID   `json:"suggestion_id"`
	Author       PartyRole   `json:"author"`
	OrderStatus  OrderStatus `json:"order_status"`
	LineCount    int         `json:"line_count"`
}

// NewSuggestionSubmittedEvent creates a new SuggestionSubmittedEvent
func NewSuggestionSubmittedEvent(order *PurchaseOrder, suggestion *Suggestion) *SuggestionSubmittedEvent {
	return &SuggestionSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSuggestionSubmitted, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		SuggestionID:    suggestion.ID,
		Author:          suggestion.Author,
		OrderStatus:     order.Status,
		LineCount:       len(suggestion.Lines),
	}
}

// SuggestionResolvedEvent is raised when a pending suggestion is accepted or
// rejected by the opposing party
type SuggestionResolvedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	SuggestionID uuid.UUID       `json:"suggestion_id"`
	Author       PartyRole       `json:"author"`
	Accepted     bool            `json:"accepted"`
	OrderStatus  OrderStatus     `json:"order_status"`
	Total        decimal.Decimal `json:"total"`
}

// NewSuggestionResolvedEvent creates a new SuggestionResolvedEvent
func NewSuggestionResolvedEvent(order *PurchaseOrder, suggestion *Suggestion, accepted bool) *SuggestionResolvedEvent {
	return &SuggestionResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSuggestionResolved, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		SuggestionID:    suggestion.ID,
		Author:          suggestion.Author,
		Accepted:        accepted,
		OrderStatus:     order.Status,
		Total:           order.Total,
	}
}

// OrderFinalizedEvent is raised when the buyer finalizes an accepted order.
// ERP synchronization, if configured, is triggered after this point.
type OrderFinalizedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderFinalizedEvent creates a new OrderFinalizedEvent
func NewOrderFinalizedEvent(order *PurchaseOrder) *OrderFinalizedEvent {
	return &OrderFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFinalized, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		Subtotal:        order.Subtotal,
		Discount:        order.Discount,
		Total:           order.Total,
	}
}

// OrderCancelledEvent is raised when either party cancels the order
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	CancelledBy  string    `json:"cancelled_by"`
	CancelReason string    `json:"cancel_reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *PurchaseOrder) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		CancelledBy:     order.CancelledBy,
		CancelReason:    order.CancelReason,
	}
}
