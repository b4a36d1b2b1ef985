package procurement

import (
	"context"
	"errors"
	"testing"

	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/reponha/backend/internal/domain/inventory"
	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type replenishmentFixture struct {
	service      *ReplenishmentService
	productRepo  *MockProductRepository
	stockRepo    *MockStockItemRepository
	velocity     *MockVelocityReader
	policyRepo   *MockPolicyRepository
	supplierRepo *MockSupplierRepository
	orderRepo    *MockOrderRepository
}

func newReplenishmentFixture() *replenishmentFixture {
	f := &replenishmentFixture{
		productRepo:  new(MockProductRepository),
		stockRepo:    new(MockStockItemRepository),
		velocity:     new(MockVelocityReader),
		policyRepo:   new(MockPolicyRepository),
		supplierRepo: new(MockSupplierRepository),
		orderRepo:    new(MockOrderRepository),
	}
	f.service = NewReplenishmentService(f.productRepo, f.stockRepo, f.velocity, f.policyRepo,
		f.supplierRepo, f.orderRepo, zap.NewNop())
	return f
}

func newBoxedProduct(t *testing.T, tenantID uuid.UUID, boxSize int64, price float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, "P-"+uuid.NewString()[:8], "Produto caixa", "un")
	require.NoError(t, err)
	require.NoError(t, product.SetBoxSize(boxSize))
	product.PurchasePrice = decimal.NewFromFloat(price)
	return product
}

func TestReplenishmentService_Suggest(t *testing.T) {
	f := newReplenishmentFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	supplierID := uuid.New()
	product := newBoxedProduct(t, tenantID, 12, 10)

	policy, err := procurement.NewPurchasePolicy(tenantID, supplierID, "30 dias",
		decimal.NewFromInt(500), decimal.NewFromInt(5), decimal.Zero, 0, []int{30})
	require.NoError(t, err)

	f.productRepo.On("FindBySupplier", ctx, tenantID, supplierID).Return([]catalog.Product{*product}, nil)
	f.policyRepo.On("FindBySupplier", ctx, tenantID, supplierID).Return([]procurement.PurchasePolicy{*policy}, nil)
	f.policyRepo.On("FindByIDForTenant", ctx, tenantID, policy.ID).Return(policy, nil)
	f.velocity.On("VelocityFor", ctx, tenantID, mock.Anything, DefaultVelocityWindowDays).
		Return(map[uuid.UUID]inventory.SalesVelocity{
			product.ID: {ProductID: product.ID, DailySales: decimal.NewFromInt(10), WindowDays: 90},
		}, nil)

	stockItem, err := inventory.NewStockItem(tenantID, product.ID)
	require.NoError(t, err)
	stockItem.Quantity = decimal.NewFromInt(50)
	f.stockRepo.On("FindByProducts", ctx, tenantID, mock.Anything).Return([]inventory.StockItem{*stockItem}, nil)

	resp, err := f.service.Suggest(ctx, tenantID, ReplenishmentRequest{
		SupplierID: supplierID,
		PolicyID:   &policy.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.CoverageDays, "policy coverage: 30-day payment term, no lead time")
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, int64(252), resp.Lines[0].SuggestedQuantity, "need 250, snapped to boxes of 12")
	assert.Equal(t, "2520", resp.Subtotal.String())

	// Subtotal 2520 clears the 500 minimum
	require.True(t, resp.PolicyReport.HasApplicable())
	assert.Equal(t, policy.ID, resp.PolicyReport.Best.Policy.ID)
}

func TestReplenishmentService_Suggest_NoSalesHistory(t *testing.T) {
	f := newReplenishmentFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	supplierID := uuid.New()
	product := newBoxedProduct(t, tenantID, 6, 5)

	f.productRepo.On("FindBySupplier", ctx, tenantID, supplierID).Return([]catalog.Product{*product}, nil)
	f.policyRepo.On("FindBySupplier", ctx, tenantID, supplierID).Return([]procurement.PurchasePolicy{}, nil)
	f.velocity.On("VelocityFor", ctx, tenantID, mock.Anything, DefaultVelocityWindowDays).
		Return(map[uuid.UUID]inventory.SalesVelocity{}, nil)

	_, err := f.service.Suggest(ctx, tenantID, ReplenishmentRequest{SupplierID: supplierID})
	assert.True(t, errors.Is(err, procurement.ErrNoSalesHistory),
		"no history is a typed outcome, not an empty draft")
	f.stockRepo.AssertNotCalled(t, "FindByProducts", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplenishmentService_Suggest_DefaultCoverage(t *testing.T) {
	f := newReplenishmentFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	supplierID := uuid.New()
	product := newBoxedProduct(t, tenantID, 1, 8)

	f.productRepo.On("FindBySupplier", ctx, tenantID, supplierID).Return([]catalog.Product{*product}, nil)
	f.policyRepo.On("FindBySupplier", ctx, tenantID, supplierID).Return([]procurement.PurchasePolicy{}, nil)
	f.velocity.On("VelocityFor", ctx, tenantID, mock.Anything, 30).
		Return(map[uuid.UUID]inventory.SalesVelocity{
			product.ID: {ProductID: product.ID, DailySales: decimal.NewFromInt(2), WindowDays: 30},
		}, nil)
	f.stockRepo.On("FindByProducts", ctx, tenantID, mock.Anything).Return([]inventory.StockItem{}, nil)

	resp, err := f.service.Suggest(ctx, tenantID, ReplenishmentRequest{SupplierID: supplierID, WindowDays: 30})
	require.NoError(t, err)
	assert.Equal(t, DefaultCoverageDays, resp.CoverageDays)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, int64(60), resp.Lines[0].SuggestedQuantity, "no stock on record counts as zero")
	assert.False(t, resp.PolicyReport.HasApplicable())
}

func TestReplenishmentService_CreateDraftFromSuggestions_OverrideResnapped(t *testing.T) {
	f := newReplenishmentFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	supplier := newServiceTestSupplier(t, tenantID)
	product := newBoxedProduct(t, tenantID, 12, 10)

	f.supplierRepo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	f.productRepo.On("FindBySupplier", ctx, tenantID, supplier.ID).Return([]catalog.Product{*product}, nil)
	f.policyRepo.On("FindBySupplier", ctx, tenantID, supplier.ID).Return([]procurement.PurchasePolicy{}, nil)
	f.velocity.On("VelocityFor", ctx, tenantID, mock.Anything, DefaultVelocityWindowDays).
		Return(map[uuid.UUID]inventory.SalesVelocity{
			product.ID: {ProductID: product.ID, DailySales: decimal.NewFromInt(10), WindowDays: 90},
		}, nil)
	f.stockRepo.On("FindByProducts", ctx, tenantID, mock.Anything).Return([]inventory.StockItem{}, nil)
	f.orderRepo.On("GenerateOrderNumber", ctx, tenantID).Return("PC-2026-0101", nil)
	f.orderRepo.On("Save", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

	resp, err := f.service.CreateDraftFromSuggestions(ctx, tenantID, ReplenishmentDraftOrderRequest{
		SupplierID: supplier.ID,
		Overrides: []ReplenishmentOverrideInput{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PC-2026-0101", resp.OrderNumber)
	assert.Equal(t, procurement.OrderStatusDraft, resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "84", resp.Items[0].Quantity.String(), "override of 80 rounds up to boxes of 12")
	assert.Equal(t, "840", resp.Items[0].Amount.String(), "line value repriced for the snapped quantity")
	f.orderRepo.AssertExpectations(t)
}

func TestReplenishmentService_CreateDraftFromSuggestions_SuggestedQuantitiesKept(t *testing.T) {
	f := newReplenishmentFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	supplier := newServiceTestSupplier(t, tenantID)
	product := newBoxedProduct(t, tenantID, 12, 10)

	f.supplierRepo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	f.productRepo.On("FindBySupplier", ctx, tenantID, supplier.ID).Return([]catalog.Product{*product}, nil)
	f.policyRepo.On("FindBySupplier", ctx, tenantID, supplier.ID).Return([]procurement.PurchasePolicy{}, nil)
	f.velocity.On("VelocityFor", ctx, tenantID, mock.Anything, DefaultVelocityWindowDays).
		Return(map[uuid.UUID]inventory.SalesVelocity{
			product.ID: {ProductID: product.ID, DailySales: decimal.NewFromInt(10), WindowDays: 90},
		}, nil)
	stockItem, err := inventory.NewStockItem(tenantID, product.ID)
	require.NoError(t, err)
	stockItem.Quantity = decimal.NewFromInt(50)
	f.stockRepo.On("FindByProducts", ctx, tenantID, mock.Anything).Return([]inventory.StockItem{*stockItem}, nil)
	f.orderRepo.On("GenerateOrderNumber", ctx, tenantID).Return("PC-2026-0102", nil)
	f.orderRepo.On("Save", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

	resp, err := f.service.CreateDraftFromSuggestions(ctx, tenantID, ReplenishmentDraftOrderRequest{
		SupplierID: supplier.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "252", resp.Items[0].Quantity.String(), "need 250, snapped to boxes of 12")
}

func TestReplenishmentService_CreateDraftFromSuggestions_OverrideOutsideDraft(t *testing.T) {
	f := newReplenishmentFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	supplier := newServiceTestSupplier(t, tenantID)
	product := newBoxedProduct(t, tenantID, 6, 5)

	f.supplierRepo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	f.productRepo.On("FindBySupplier", ctx, tenantID, supplier.ID).Return([]catalog.Product{*product}, nil)
	f.policyRepo.On("FindBySupplier", ctx, tenantID, supplier.ID).Return([]procurement.PurchasePolicy{}, nil)
	f.velocity.On("VelocityFor", ctx, tenantID, mock.Anything, DefaultVelocityWindowDays).
		Return(map[uuid.UUID]inventory.SalesVelocity{
			product.ID: {ProductID: product.ID, DailySales: decimal.NewFromInt(1), WindowDays: 90},
		}, nil)
	f.stockRepo.On("FindByProducts", ctx, tenantID, mock.Anything).Return([]inventory.StockItem{}, nil)

	_, err := f.service.CreateDraftFromSuggestions(ctx, tenantID, ReplenishmentDraftOrderRequest{
		SupplierID: supplier.ID,
		Overrides: []ReplenishmentOverrideInput{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10)},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_IN_DRAFT", domainErr.Code)
	f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
