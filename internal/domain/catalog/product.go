package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product/SKU in the catalog. The box-pack size is the
// case multiple the supplier ships in; purchase quantities are always whole
// multiples of it.
type Product struct {
	shared.TenantAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_code,priority:2"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Barcode       string          `gorm:"type:varchar(50);index"`
	Unit          string          `gorm:"type:varchar(20);not null"`             // base unit ("un", "kg", "cx")
	BoxSize       int64           `gorm:"not null;default:1"`                    // units per case, minimum 1
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // cost price
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // percent surcharge on purchases
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`                      // preferred supplier
	ERPForeignRef string          `gorm:"type:varchar(100);index"`              // product reference in the external ERP
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(tenantID uuid.UUID, code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Unit:                unit,
		BoxSize:             1,
		PurchasePrice:       decimal.Zero,
		SalePrice:           decimal.Zero,
		TaxRate:             decimal.Zero,
		Active:              true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBarcode sets the product's barcode
func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}
	p.Barcode = barcode
	p.touch()
	return nil
}

// SetBoxSize sets the case multiple the supplier ships in
func (p *Product) SetBoxSize(boxSize int64) error {
	if boxSize < 1 {
		return shared.NewDomainError("INVALID_BOX_SIZE", "Box size must be at least 1")
	}
	p.BoxSize = boxSize
	p.touch()
	return nil
}

// SetPrices sets the purchase and sale prices
func (p *Product) SetPrices(purchasePrice, salePrice valueobject.Money) error {
	if purchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}

	p.PurchasePrice = purchasePrice.Amount()
	p.SalePrice = salePrice.Amount()
	p.touch()
	return nil
}

// SetTaxRate sets the percent tax surcharge applied on purchases
func (p *Product) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	p.TaxRate = rate
	p.touch()
	return nil
}

// SetPreferredSupplier sets the supplier this product is replenished from
func (p *Product) SetPreferredSupplier(supplierID *uuid.UUID) {
	p.SupplierID = supplierID
	p.touch()
}

// AttachERPReference records the product's reference in the external ERP
func (p *Product) AttachERPReference(ref string) error {
	if ref == "" {
		return shared.NewDomainError("INVALID_ERP_REF", "ERP reference cannot be empty")
	}
	p.ERPForeignRef = ref
	p.touch()
	return nil
}

// Activate marks the product as active
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Active = true
	p.touch()
	return nil
}

// Deactivate marks the product as inactive; inactive products are excluded
// from replenishment drafts.
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Active = false
	p.touch()
	return nil
}

// GetPurchasePriceMoney returns the purchase price as Money
func (p *Product) GetPurchasePriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.PurchasePrice)
}

// GetSalePriceMoney returns the sale price as Money
func (p *Product) GetSalePriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.SalePrice)
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

var productCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	if !productCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, hyphens and underscores")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Product unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Product unit cannot exceed 20 characters")
	}
	return nil
}
