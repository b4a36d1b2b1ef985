// Package integration exercises the application services against real GORM
// repositories on an in-memory database. Each test opens its own connection,
// so tests stay independent and can run in parallel.
package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/reponha/backend/internal/application/catalog"
	inventoryapp "github.com/reponha/backend/internal/application/inventory"
	partnerapp "github.com/reponha/backend/internal/application/partner"
	procurementapp "github.com/reponha/backend/internal/application/procurement"
	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/reponha/backend/internal/domain/inventory"
	"github.com/reponha/backend/internal/domain/partner"
	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/reponha/backend/internal/infrastructure/cache"
	"github.com/reponha/backend/internal/infrastructure/persistence"
)

// newTestDB opens an isolated in-memory database and migrates the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&partner.Supplier{},
		&catalog.Product{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
		&procurement.PurchasePolicy{},
		&procurement.PurchaseOrder{},
		&procurement.OrderItem{},
		&procurement.Installment{},
		&procurement.Suggestion{},
		&procurement.SuggestionLine{},
	)
	require.NoError(t, err)

	return db
}

// testEnv wires the full service stack over one test database
type testEnv struct {
	db *gorm.DB

	suppliers     *partnerapp.SupplierService
	products      *catalogapp.ProductService
	stock         *inventoryapp.InventoryService
	orders        *procurementapp.OrderService
	negotiation   *procurementapp.NegotiationService
	policies      *procurementapp.PolicyService
	replenishment *procurementapp.ReplenishmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := zap.NewNop()

	supplierRepo := persistence.NewGormSupplierRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	stockRepo := persistence.NewGormStockItemRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	velocityReader := persistence.NewGormSalesVelocityReader(db)
	policyRepo := persistence.NewGormPurchasePolicyRepository(db)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db)

	orders := procurementapp.NewOrderService(orderRepo, policyRepo, supplierRepo, productRepo, log)
	orders.SetShareTokenStore(cache.NewInMemoryShareTokenStore())

	return &testEnv{
		db:            db,
		suppliers:     partnerapp.NewSupplierService(supplierRepo),
		products:      catalogapp.NewProductService(productRepo, supplierRepo),
		stock:         inventoryapp.NewInventoryService(productRepo, stockRepo, movementRepo, log),
		orders:        orders,
		negotiation:   procurementapp.NewNegotiationService(orderRepo, log),
		policies:      procurementapp.NewPolicyService(policyRepo, supplierRepo),
		replenishment: procurementapp.NewReplenishmentService(productRepo, stockRepo, velocityReader, policyRepo, supplierRepo, orderRepo, log),
	}
}

func (env *testEnv) createSupplier(t *testing.T, tenantID uuid.UUID, code string) *partnerapp.SupplierResponse {
	t.Helper()

	supplier, err := env.suppliers.Create(context.Background(), tenantID, partnerapp.CreateSupplierRequest{
		Code:         code,
		Name:         "Distribuidora " + code,
		Email:        code + "@fornecedor.example",
		LeadTimeDays: 5,
	})
	require.NoError(t, err)
	return supplier
}

func (env *testEnv) createProduct(t *testing.T, tenantID, supplierID uuid.UUID, code string, price string) *catalogapp.ProductResponse {
	t.Helper()

	product, err := env.products.Create(context.Background(), tenantID, catalogapp.CreateProductRequest{
		Code:          code,
		Name:          "Produto " + code,
		Unit:          "un",
		PurchasePrice: decimal.RequireFromString(price),
		SalePrice:     decimal.RequireFromString(price).Mul(decimal.NewFromInt(2)),
		SupplierID:    &supplierID,
	})
	require.NoError(t, err)
	return product
}

func newProductRequest(code, price string, supplierID uuid.UUID, boxSize int64) catalogapp.CreateProductRequest {
	return catalogapp.CreateProductRequest{
		Code:          code,
		Name:          "Produto " + code,
		Unit:          "un",
		BoxSize:       boxSize,
		PurchasePrice: decimal.RequireFromString(price),
		SalePrice:     decimal.RequireFromString(price).Mul(decimal.NewFromInt(2)),
		SupplierID:    &supplierID,
	}
}

func (env *testEnv) receiveStock(t *testing.T, tenantID, actorID, productID uuid.UUID, quantity string) {
	t.Helper()

	_, err := env.stock.Receive(context.Background(), tenantID, actorID, inventoryapp.MovementRequest{
		ProductID: productID,
		Quantity:  decimal.RequireFromString(quantity),
		Reason:    "recebimento inicial",
	})
	require.NoError(t, err)
}

// itemByProduct finds the order line for a product; line order is not part
// of the contract, so tests never address lines by index.
func itemByProduct(t *testing.T, items []procurementapp.OrderItemResponse, productID uuid.UUID) procurementapp.OrderItemResponse {
	t.Helper()

	for _, item := range items {
		if item.ProductID == productID {
			return item
		}
	}
	t.Fatalf("no order line for product %s", productID)
	return procurementapp.OrderItemResponse{}
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
