package partner

import (
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeSupplier = "Supplier"

// Event type constants
const (
	EventTypeSupplierCreated       = "SupplierCreated"
	EventTypeSupplierUpdated       = "SupplierUpdated"
	EventTypeSupplierStatusChanged = "SupplierStatusChanged"
)

// SupplierCreatedEvent is raised when a new supplier is registered
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(supplier *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID, supplier.TenantID),
		SupplierID:      supplier.ID,
		Code:            supplier.Code,
		Name:            supplier.Name,
	}
}

// SupplierUpdatedEvent is raised when supplier information changes
type SupplierUpdatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
}

// NewSupplierUpdatedEvent creates a new SupplierUpdatedEvent
func NewSupplierUpdatedEvent(supplier *Supplier) *SupplierUpdatedEvent {
	return &SupplierUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierUpdated, AggregateTypeSupplier, supplier.ID, supplier.TenantID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
	}
}

// SupplierStatusChangedEvent is raised when a supplier is activated,
// deactivated or blocked
type SupplierStatusChangedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID      `json:"supplier_id"`
	NewStatus  SupplierStatus `json:"new_status"`
}

// NewSupplierStatusChangedEvent creates a new SupplierStatusChangedEvent
func NewSupplierStatusChangedEvent(supplier *Supplier, status SupplierStatus) *SupplierStatusChangedEvent {
	return &SupplierStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierStatusChanged, AggregateTypeSupplier, supplier.ID, supplier.TenantID),
		SupplierID:      supplier.ID,
		NewStatus:       status,
	}
}
