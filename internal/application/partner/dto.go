package partner

import (
	"time"

	"github.com/reponha/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateSupplierRequest represents a request to register a supplier
type CreateSupplierRequest struct {
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	TradeName    string `json:"trade_name" binding:"max=100"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	Phone        string `json:"phone" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	CNPJ         string `json:"cnpj" binding:"max=20"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"omitempty,len=2"`
	LeadTimeDays int    `json:"lead_time_days" binding:"min=0"`
	Notes        string `json:"notes"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	TradeName   string  `json:"trade_name" binding:"max=100"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Notes       *string `json:"notes"`
}

// SupplierResponse represents a supplier in responses
type SupplierResponse struct {
	ID             uuid.UUID              `json:"id"`
	Code           string                 `json:"code"`
	Name           string                 `json:"name"`
	TradeName      string                 `json:"trade_name,omitempty"`
	Status         partner.SupplierStatus `json:"status"`
	ContactName    string                 `json:"contact_name,omitempty"`
	Phone          string                 `json:"phone,omitempty"`
	Email          string                 `json:"email,omitempty"`
	CNPJ           string                 `json:"cnpj,omitempty"`
	City           string                 `json:"city,omitempty"`
	State          string                 `json:"state,omitempty"`
	LeadTimeDays   int                    `json:"lead_time_days"`
	Notes          string                 `json:"notes,omitempty"`
	ERPForeignID   string                 `json:"erp_foreign_id,omitempty"`
	ContactChannel string                 `json:"contact_channel,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToSupplierResponse converts a supplier to its response representation
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	channel := ""
	if c, ok := supplier.ResolveContactChannel(); ok {
		channel = string(c)
	}
	return SupplierResponse{
		ID:             supplier.ID,
		Code:           supplier.Code,
		Name:           supplier.Name,
		TradeName:      supplier.TradeName,
		Status:         supplier.Status,
		ContactName:    supplier.ContactName,
		Phone:          supplier.Phone,
		Email:          supplier.Email,
		CNPJ:           supplier.CNPJ,
		City:           supplier.City,
		State:          supplier.State,
		LeadTimeDays:   supplier.DefaultLeadTimeDays,
		Notes:          supplier.Notes,
		ERPForeignID:   supplier.ERPForeignID,
		ContactChannel: channel,
		CreatedAt:      supplier.CreatedAt,
		UpdatedAt:      supplier.UpdatedAt,
	}
}
