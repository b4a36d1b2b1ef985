package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/reponha/backend/internal/application/inventory"
	procurementapp "github.com/reponha/backend/internal/application/procurement"
	"github.com/reponha/backend/internal/domain/shared"
)

// TestTenantIsolation verifies two tenants sharing one database never see
// each other's records, even with identical codes.
func TestTenantIsolation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	mercadoA := uuid.New()
	mercadoB := uuid.New()

	// The same supplier code is valid in both tenants
	supplierA := env.createSupplier(t, mercadoA, "DIST20")
	supplierB := env.createSupplier(t, mercadoB, "DIST20")
	require.NotEqual(t, supplierA.ID, supplierB.ID)

	productA := env.createProduct(t, mercadoA, supplierA.ID, "SAL-1KG", "2.00")

	// Cross-tenant reads come back not found, not forbidden
	_, err := env.suppliers.GetByID(ctx, mercadoB, supplierA.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, err = env.products.GetByID(ctx, mercadoB, productA.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	// Lists are scoped to the caller's tenant
	listA, err := env.suppliers.List(ctx, mercadoA, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, listA.Items, 1)
	assert.Equal(t, supplierA.ID, listA.Items[0].ID)

	listB, err := env.suppliers.List(ctx, mercadoB, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, listB.Items, 1)
	assert.Equal(t, supplierB.ID, listB.Items[0].ID)
}

// TestTenantIsolation_Orders verifies orders, order numbers and negotiation
// actions stay inside their tenant.
func TestTenantIsolation_Orders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	mercadoA := uuid.New()
	mercadoB := uuid.New()

	supplierA := env.createSupplier(t, mercadoA, "DIST21")
	productA := env.createProduct(t, mercadoA, supplierA.ID, "MILHO-LATA", "1.80")
	supplierB := env.createSupplier(t, mercadoB, "DIST22")
	productB := env.createProduct(t, mercadoB, supplierB.ID, "ERVILHA-LATA", "1.90")

	orderA, err := env.orders.Create(ctx, mercadoA, procurementapp.CreateOrderRequest{
		SupplierID: supplierA.ID,
		Items:      []procurementapp.CreateOrderItemInput{{ProductID: productA.ID, Quantity: qty("24")}},
	})
	require.NoError(t, err)

	// Order numbers are sequenced per tenant, so both tenants get 00001
	orderB, err := env.orders.Create(ctx, mercadoB, procurementapp.CreateOrderRequest{
		SupplierID: supplierB.ID,
		Items:      []procurementapp.CreateOrderItemInput{{ProductID: productB.ID, Quantity: qty("24")}},
	})
	require.NoError(t, err)
	assert.Equal(t, orderA.OrderNumber, orderB.OrderNumber)

	// Tenant B can neither read nor act on tenant A's order
	_, err = env.orders.GetByID(ctx, mercadoB, orderA.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, err = env.orders.Send(ctx, mercadoB, orderA.ID, procurementapp.SendOrderRequest{Version: orderA.Version})
	require.ErrorIs(t, err, shared.ErrNotFound)

	// An order cannot reference another tenant's supplier or product
	_, err = env.orders.Create(ctx, mercadoB, procurementapp.CreateOrderRequest{
		SupplierID: supplierA.ID,
		Items:      []procurementapp.CreateOrderItemInput{{ProductID: productA.ID, Quantity: qty("1")}},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = env.orders.AddItem(ctx, mercadoB, orderB.ID, procurementapp.AddItemRequest{
		ProductID: productA.ID,
		Quantity:  qty("5"),
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

// TestTenantIsolation_Stock verifies stock quantities and movement history
// are tracked per tenant even for look-alike product catalogs.
func TestTenantIsolation_Stock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	mercadoA := uuid.New()
	mercadoB := uuid.New()
	actorID := uuid.New()

	supplierA := env.createSupplier(t, mercadoA, "DIST23")
	productA := env.createProduct(t, mercadoA, supplierA.ID, "AGUA-500ML", "0.80")

	env.receiveStock(t, mercadoA, actorID, productA.ID, "500")

	// Tenant B cannot move stock of a product it does not own
	_, err := env.stock.Receive(ctx, mercadoB, actorID, inventoryapp.MovementRequest{
		ProductID: productA.ID,
		Quantity:  qty("10"),
	})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = env.stock.GetStock(ctx, mercadoB, productA.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	stockA, err := env.stock.GetStock(ctx, mercadoA, productA.ID)
	require.NoError(t, err)
	assert.True(t, stockA.Quantity.Equal(qty("500")))
}
