package catalog

import (
	"time"

	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required,min=1,max=50"`
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Description   string          `json:"description"`
	Barcode       string          `json:"barcode" binding:"max=50"`
	Unit          string          `json:"unit" binding:"required,min=1,max=20"`
	BoxSize       int64           `json:"box_size" binding:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	ERPForeignRef string          `json:"erp_foreign_ref" binding:"max=100"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description"`
	Barcode       *string          `json:"barcode"`
	BoxSize       *int64           `json:"box_size"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	Unit          string          `json:"unit"`
	BoxSize       int64           `json:"box_size"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	ERPForeignRef string          `json:"erp_foreign_ref,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product to its response representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		Code:          product.Code,
		Name:          product.Name,
		Description:   product.Description,
		Barcode:       product.Barcode,
		Unit:          product.Unit,
		BoxSize:       product.BoxSize,
		PurchasePrice: product.PurchasePrice,
		SalePrice:     product.SalePrice,
		TaxRate:       product.TaxRate,
		SupplierID:    product.SupplierID,
		ERPForeignRef: product.ERPForeignRef,
		Active:        product.Active,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
