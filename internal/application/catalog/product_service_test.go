package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/reponha/backend/internal/domain/partner"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status partner.SupplierStatus, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func TestProductService_Create(t *testing.T) {
	productRepo := new(MockProductRepository)
	supplierRepo := new(MockSupplierRepository)
	service := NewProductService(productRepo, supplierRepo)
	tenantID := uuid.New()

	supplier, err := partner.NewSupplier(tenantID, "ACME", "Acme Distribuidora")
	require.NoError(t, err)

	productRepo.On("ExistsByCode", mock.Anything, tenantID, "SKU-100").Return(false, nil)
	supplierRepo.On("FindByIDForTenant", mock.Anything, tenantID, supplier.ID).Return(supplier, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateProductRequest{
		Code:          "sku-100",
		Name:          "Arroz Tipo 1 5kg",
		Unit:          "un",
		BoxSize:       12,
		PurchasePrice: decimal.NewFromFloat(15.50),
		SalePrice:     decimal.NewFromFloat(22.90),
		TaxRate:       decimal.NewFromInt(5),
		SupplierID:    &supplier.ID,
		ERPForeignRef: "BLG-PRD-7",
	})

	require.NoError(t, err)
	assert.Equal(t, "SKU-100", resp.Code)
	assert.Equal(t, int64(12), resp.BoxSize)
	assert.True(t, resp.PurchasePrice.Equal(decimal.NewFromFloat(15.50)))
	assert.True(t, resp.TaxRate.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "BLG-PRD-7", resp.ERPForeignRef)
	assert.True(t, resp.Active)
	productRepo.AssertExpectations(t)
}

func TestProductService_Create_UnknownSupplier(t *testing.T) {
	productRepo := new(MockProductRepository)
	supplierRepo := new(MockSupplierRepository)
	service := NewProductService(productRepo, supplierRepo)
	tenantID := uuid.New()
	supplierID := uuid.New()

	productRepo.On("ExistsByCode", mock.Anything, tenantID, "SKU-100").Return(false, nil)
	supplierRepo.On("FindByIDForTenant", mock.Anything, tenantID, supplierID).Return(nil, shared.ErrNotFound)

	_, err := service.Create(context.Background(), tenantID, CreateProductRequest{
		Code:       "SKU-100",
		Name:       "Arroz Tipo 1 5kg",
		Unit:       "un",
		SupplierID: &supplierID,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Update_PartialPrices(t *testing.T) {
	productRepo := new(MockProductRepository)
	supplierRepo := new(MockSupplierRepository)
	service := NewProductService(productRepo, supplierRepo)
	tenantID := uuid.New()

	product, err := catalog.NewProduct(tenantID, "SKU-100", "Arroz Tipo 1 5kg", "un")
	require.NoError(t, err)
	require.NoError(t, product.SetPrices(
		valueobject.NewMoneyBRL(decimal.NewFromFloat(15.50)),
		valueobject.NewMoneyBRL(decimal.NewFromFloat(22.90)),
	))

	productRepo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)

	newPurchase := decimal.NewFromFloat(16.20)
	resp, err := service.Update(context.Background(), tenantID, product.ID, UpdateProductRequest{
		Name:          "Arroz Tipo 1 5kg",
		PurchasePrice: &newPurchase,
	})

	require.NoError(t, err)
	assert.True(t, resp.PurchasePrice.Equal(newPurchase))
	assert.True(t, resp.SalePrice.Equal(decimal.NewFromFloat(22.90)))
	productRepo.AssertExpectations(t)
}

func TestProductService_SetActive(t *testing.T) {
	productRepo := new(MockProductRepository)
	supplierRepo := new(MockSupplierRepository)
	service := NewProductService(productRepo, supplierRepo)
	tenantID := uuid.New()

	product, err := catalog.NewProduct(tenantID, "SKU-100", "Arroz Tipo 1 5kg", "un")
	require.NoError(t, err)

	productRepo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)

	resp, err := service.SetActive(context.Background(), tenantID, product.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	_, err = service.SetActive(context.Background(), tenantID, product.ID, false)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_INACTIVE", domainErr.Code)
}
