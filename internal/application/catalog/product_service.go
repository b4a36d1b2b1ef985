package catalog

import (
	"context"

	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/reponha/backend/internal/domain/partner"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	supplierRepo partner.SupplierRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, supplierRepo partner.SupplierRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A product with this code already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.BoxSize > 0 {
		if err := product.SetBoxSize(req.BoxSize); err != nil {
			return nil, err
		}
	}
	if err := product.SetPrices(valueobject.NewMoneyBRL(req.PurchasePrice), valueobject.NewMoneyBRL(req.SalePrice)); err != nil {
		return nil, err
	}
	if !req.TaxRate.IsZero() {
		if err := product.SetTaxRate(req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(ctx, tenantID, *req.SupplierID); err != nil {
			return nil, err
		}
		product.SetPreferredSupplier(req.SupplierID)
	}
	if req.ERPForeignRef != "" {
		if err := product.AttachERPReference(req.ERPForeignRef); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Barcode != nil {
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.BoxSize != nil {
		if err := product.SetBoxSize(*req.BoxSize); err != nil {
			return nil, err
		}
	}
	if req.PurchasePrice != nil || req.SalePrice != nil {
		purchase := product.GetPurchasePriceMoney()
		sale := product.GetSalePriceMoney()
		if req.PurchasePrice != nil {
			purchase = valueobject.NewMoneyBRL(*req.PurchasePrice)
		}
		if req.SalePrice != nil {
			sale = valueobject.NewMoneyBRL(*req.SalePrice)
		}
		if err := product.SetPrices(purchase, sale); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := product.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(ctx, tenantID, *req.SupplierID); err != nil {
			return nil, err
		}
		product.SetPreferredSupplier(req.SupplierID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products for a tenant with pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListBySupplier retrieves the active products sourced from a supplier
func (s *ProductService) ListBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	return responses, nil
}

// SetActive activates or deactivates a product
func (s *ProductService) SetActive(ctx context.Context, tenantID, productID uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if active {
		err = product.Activate()
	} else {
		err = product.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	return s.productRepo.Delete(ctx, tenantID, productID)
}

func (s *ProductService) checkSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID); err != nil {
		return err
	}
	return nil
}
