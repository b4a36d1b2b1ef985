package procurement

import (
	"context"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForTenant finds a purchase order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by order number for a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindAllForTenant finds all purchase orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by workflow status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status OrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with an optimistic version check. Returns
	// shared.ErrConcurrencyConflict when another session won the race.
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// CountForTenant counts purchase orders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateOrderNumber generates a unique order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PurchasePolicyRepository defines the interface for purchase policy persistence
type PurchasePolicyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchasePolicy, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchasePolicy, error)

	// FindBySupplier returns all of a supplier's policies, active and
	// inactive; the matcher classifies them.
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]PurchasePolicy, error)

	Save(ctx context.Context, policy *PurchasePolicy) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ERPOrderLine is one order line pushed to the external ERP
type ERPOrderLine struct {
	ExternalRef string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// ERPSyncRequest carries a finalized order's snapshot to the external ERP
type ERPSyncRequest struct {
	OrderNumber  string
	SupplierRef  string
	Lines        []ERPOrderLine
	Total        decimal.Decimal
	Installments []Installment
}

// ERPSyncResult is the external ERP's answer: the foreign identifier under
// which the order was registered.
type ERPSyncResult struct {
	ForeignID string
}

// ERPGateway is the external ERP collaborator. A sync failure after
// finalization is reported as a warning on the result; it never reverts the
// order's workflow status.
type ERPGateway interface {
	SyncOrder(ctx context.Context, req ERPSyncRequest) (*ERPSyncResult, error)
	FetchOrderStatus(ctx context.Context, foreignID string) (ExternalStatus, error)
}
