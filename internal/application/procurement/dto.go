package procurement

import (
	"time"

	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Purchase Order DTOs ====================

// CreateOrderRequest represents a request to create a purchase order draft
type CreateOrderRequest struct {
	SupplierID uuid.UUID              `json:"supplier_id" binding:"required"`
	Items      []CreateOrderItemInput `json:"items"`
	CreatedBy  *uuid.UUID             `json:"-"`
}

// CreateOrderItemInput represents one line in the create order request
type CreateOrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// AddItemRequest represents a request to add a line to a draft order
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateItemRequest represents a request to change a line's paid quantity
type UpdateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateOrderRequest represents a request to update a draft order's terms
type UpdateOrderRequest struct {
	Freight           *decimal.Decimal `json:"freight"`
	FreightChargeable *bool            `json:"freight_chargeable"`
	Discount          *decimal.Decimal `json:"discount"`
	SupplierNote      *string          `json:"supplier_note"`
	InternalNote      *string          `json:"internal_note"`
	ExpectedDelivery  *time.Time       `json:"expected_delivery"`
}

// CancelOrderRequest represents a request to cancel an order. An empty reason
// needs the explicit confirmation flag; cancelling silently is not allowed.
type CancelOrderRequest struct {
	Reason             string `json:"reason"`
	ConfirmEmptyReason bool   `json:"confirm_empty_reason"`
	Version            int    `json:"version" binding:"required"`
}

// SendOrderRequest carries the optimistic-lock version on send
type SendOrderRequest struct {
	Version int `json:"version" binding:"required"`
}

// FinalizeOrderRequest carries the optimistic-lock version on finalize
type FinalizeOrderRequest struct {
	Version int `json:"version" binding:"required"`
}

// ScheduleInstallmentsRequest regenerates the order's installment schedule
type ScheduleInstallmentsRequest struct {
	DayOffsets []int `json:"day_offsets"`
	Count      int   `json:"count"`
}

// ApplyPolicyRequest applies a purchase policy's terms to the order
type ApplyPolicyRequest struct {
	PolicyID uuid.UUID `json:"policy_id" binding:"required"`
}

// OrderItemResponse represents one order line in responses
type OrderItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	BonusQuantity decimal.Decimal `json:"bonus_quantity"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	ExternalRef   string          `json:"external_ref,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// InstallmentResponse represents one installment in responses
type InstallmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	Sequence        int             `json:"sequence"`
	Value           decimal.Decimal `json:"value"`
	DueDate         time.Time       `json:"due_date"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id,omitempty"`
	Note            string          `json:"note,omitempty"`
}

// SuggestionLineResponse represents one suggestion line in responses
type SuggestionLineResponse struct {
	OrderItemID     uuid.UUID       `json:"order_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	BonusPercent    decimal.Decimal `json:"bonus_percent"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
}

// SuggestionResponse represents one negotiation round in responses
type SuggestionResponse struct {
	ID           uuid.UUID                    `json:"id"`
	Author       procurement.PartyRole        `json:"author"`
	Status       procurement.SuggestionStatus `json:"status"`
	Note         string                       `json:"note,omitempty"`
	Terms        *procurement.SuggestionTerms `json:"terms,omitempty"`
	Lines        []SuggestionLineResponse     `json:"lines"`
	CreatedAt    time.Time                    `json:"created_at"`
	RespondedAt  *time.Time                   `json:"responded_at,omitempty"`
	ResponseNote string                       `json:"response_note,omitempty"`
}

// OrderResponse represents a purchase order in responses
type OrderResponse struct {
	ID                uuid.UUID                   `json:"id"`
	OrderNumber       string                      `json:"order_number"`
	SupplierID        uuid.UUID                   `json:"supplier_id"`
	SupplierName      string                      `json:"supplier_name"`
	Status            procurement.OrderStatus     `json:"status"`
	ExternalStatus    *procurement.ExternalStatus `json:"external_status,omitempty"`
	Items             []OrderItemResponse         `json:"items"`
	Installments      []InstallmentResponse       `json:"installments"`
	Suggestions       []SuggestionResponse        `json:"suggestions"`
	Subtotal          decimal.Decimal             `json:"subtotal"`
	DiscountPercent   decimal.Decimal             `json:"discount_percent"`
	Discount          decimal.Decimal             `json:"discount"`
	Freight           decimal.Decimal             `json:"freight"`
	FreightChargeable bool                        `json:"freight_chargeable"`
	TaxSurcharge      decimal.Decimal             `json:"tax_surcharge"`
	Total             decimal.Decimal             `json:"total"`
	AppliedPolicyID   *uuid.UUID                  `json:"applied_policy_id,omitempty"`
	LeadTimeDays      int                         `json:"lead_time_days"`
	SupplierNote      string                      `json:"supplier_note,omitempty"`
	InternalNote      string                      `json:"internal_note,omitempty"`
	ExpectedDelivery  *time.Time                  `json:"expected_delivery,omitempty"`
	SentAt            *time.Time                  `json:"sent_at,omitempty"`
	AcceptedAt        *time.Time                  `json:"accepted_at,omitempty"`
	FinalizedAt       *time.Time                  `json:"finalized_at,omitempty"`
	CancelledAt       *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason      string                      `json:"cancel_reason,omitempty"`
	CancelledBy       string                      `json:"cancelled_by,omitempty"`
	ERPForeignID      string                      `json:"erp_foreign_id,omitempty"`
	ERPSyncWarning    string                      `json:"erp_sync_warning,omitempty"`
	Version           int                         `json:"version"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// ToOrderResponse converts a purchase order to its response representation
func ToOrderResponse(order *procurement.PurchaseOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Description:   item.Description,
			Unit:          item.Unit,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			BonusQuantity: item.BonusQuantity,
			TaxRate:       item.TaxRate,
			ExternalRef:   item.ExternalRef,
			Amount:        item.Amount,
		})
	}

	installments := make([]InstallmentResponse, 0, len(order.Installments))
	for _, inst := range order.Installments {
		installments = append(installments, InstallmentResponse{
			ID:              inst.ID,
			Sequence:        inst.Sequence,
			Value:           inst.Value,
			DueDate:         inst.DueDate,
			PaymentMethodID: inst.PaymentMethodID,
			Note:            inst.Note,
		})
	}

	suggestions := make([]SuggestionResponse, 0, len(order.Suggestions))
	for idx := range order.Suggestions {
		suggestions = append(suggestions, ToSuggestionResponse(&order.Suggestions[idx]))
	}

	return OrderResponse{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		SupplierID:        order.SupplierID,
		SupplierName:      order.SupplierName,
		Status:            order.Status,
		ExternalStatus:    order.ExternalStatus,
		Items:             items,
		Installments:      installments,
		Suggestions:       suggestions,
		Subtotal:          order.Subtotal,
		DiscountPercent:   order.DiscountPercent,
		Discount:          order.Discount,
		Freight:           order.Freight,
		FreightChargeable: order.FreightChargeable,
		TaxSurcharge:      order.TaxSurcharge,
		Total:             order.Total,
		AppliedPolicyID:   order.AppliedPolicyID,
		LeadTimeDays:      order.LeadTimeDays,
		SupplierNote:      order.SupplierNote,
		InternalNote:      order.InternalNote,
		ExpectedDelivery:  order.ExpectedDelivery,
		SentAt:            order.SentAt,
		AcceptedAt:        order.AcceptedAt,
		FinalizedAt:       order.FinalizedAt,
		CancelledAt:       order.CancelledAt,
		CancelReason:      order.CancelReason,
		CancelledBy:       order.CancelledBy,
		ERPForeignID:      order.ERPForeignID,
		ERPSyncWarning:    order.ERPSyncWarning,
		Version:           order.Version,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// ToSuggestionResponse converts a suggestion to its response representation
func ToSuggestionResponse(s *procurement.Suggestion) SuggestionResponse {
	lines := make([]SuggestionLineResponse, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, SuggestionLineResponse{
			OrderItemID:     line.OrderItemID,
			Quantity:        line.Quantity,
			DiscountPercent: line.DiscountPercent,
			BonusPercent:    line.BonusPercent,
			ValidUntil:      line.ValidUntil,
		})
	}
	return SuggestionResponse{
		ID:           s.ID,
		Author:       s.Author,
		Status:       s.Status,
		Note:         s.Note,
		Terms:        s.Terms,
		Lines:        lines,
		CreatedAt:    s.CreatedAt,
		RespondedAt:  s.RespondedAt,
		ResponseNote: s.ResponseNote,
	}
}

// ==================== Negotiation DTOs ====================

// SuggestionLineInput represents one proposed line change
type SuggestionLineInput struct {
	OrderItemID     uuid.UUID       `json:"order_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	BonusPercent    decimal.Decimal `json:"bonus_percent"`
	ValidUntil      *time.Time      `json:"valid_until"`
}

// SubmitSuggestionRequest represents a new negotiation round
type SubmitSuggestionRequest struct {
	Lines   []SuggestionLineInput        `json:"lines"`
	Terms   *procurement.SuggestionTerms `json:"terms"`
	Note    string                       `json:"note"`
	Version int                          `json:"version" binding:"required"`
}

// RespondSuggestionRequest accepts or rejects the pending suggestion
type RespondSuggestionRequest struct {
	Accept  bool   `json:"accept"`
	Note    string `json:"note"`
	Version int    `json:"version" binding:"required"`
}

// ==================== Replenishment DTOs ====================

// ReplenishmentRequest asks for a replenishment draft for one supplier
type ReplenishmentRequest struct {
	SupplierID uuid.UUID  `json:"supplier_id" binding:"required"`
	PolicyID   *uuid.UUID `json:"policy_id"` // coverage from this policy; default window otherwise
	WindowDays int        `json:"window_days"`
}

// ReplenishmentResponse is the replenishment draft plus the policy report
// for its subtotal
type ReplenishmentResponse struct {
	SupplierID   uuid.UUID                       `json:"supplier_id"`
	CoverageDays int                             `json:"coverage_days"`
	Lines        []procurement.ReplenishmentLine `json:"lines"`
	Subtotal     decimal.Decimal                 `json:"subtotal"`
	PolicyReport procurement.PolicyReport        `json:"policy_report"`
}

// ReplenishmentDraftOrderRequest turns a reviewed replenishment draft into a
// purchase order, with optional per-product quantity overrides
type ReplenishmentDraftOrderRequest struct {
	SupplierID uuid.UUID                    `json:"supplier_id" binding:"required"`
	PolicyID   *uuid.UUID                   `json:"policy_id"`
	WindowDays int                          `json:"window_days"`
	Overrides  []ReplenishmentOverrideInput `json:"overrides"`
	CreatedBy  *uuid.UUID                   `json:"-"`
}

// ReplenishmentOverrideInput replaces the suggested quantity for one product;
// the quantity is snapped up to the product's box multiple
type ReplenishmentOverrideInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ==================== Policy DTOs ====================

// CreatePolicyRequest represents a request to create a purchase policy
type CreatePolicyRequest struct {
	SupplierID        uuid.UUID       `json:"supplier_id" binding:"required"`
	Name              string          `json:"name" binding:"required,min=1,max=100"`
	MinimumValue      decimal.Decimal `json:"minimum_value"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	BonusPercent      decimal.Decimal `json:"bonus_percent"`
	LeadTimeDays      int             `json:"lead_time_days"`
	PaymentDayOffsets []int           `json:"payment_day_offsets"`
}

// UpdatePolicyRequest represents a request to update a purchase policy
type UpdatePolicyRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=100"`
	MinimumValue      decimal.Decimal `json:"minimum_value"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	BonusPercent      decimal.Decimal `json:"bonus_percent"`
	LeadTimeDays      int             `json:"lead_time_days"`
	PaymentDayOffsets []int           `json:"payment_day_offsets"`
}

// PolicyResponse represents a purchase policy in responses
type PolicyResponse struct {
	ID                uuid.UUID       `json:"id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	Name              string          `json:"name"`
	MinimumValue      decimal.Decimal `json:"minimum_value"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	BonusPercent      decimal.Decimal `json:"bonus_percent"`
	LeadTimeDays      int             `json:"lead_time_days"`
	PaymentDayOffsets []int           `json:"payment_day_offsets"`
	CoverageDays      int             `json:"coverage_days"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToPolicyResponse converts a purchase policy to its response representation
func ToPolicyResponse(policy *procurement.PurchasePolicy) PolicyResponse {
	return PolicyResponse{
		ID:                policy.ID,
		SupplierID:        policy.SupplierID,
		Name:              policy.Name,
		MinimumValue:      policy.MinimumValue,
		DiscountPercent:   policy.DiscountPercent,
		BonusPercent:      policy.BonusPercent,
		LeadTimeDays:      policy.LeadTimeDays,
		PaymentDayOffsets: policy.PaymentDayOffsets,
		CoverageDays:      policy.CoverageDays(),
		Active:            policy.Active,
		CreatedAt:         policy.CreatedAt,
		UpdatedAt:         policy.UpdatedAt,
	}
}

// ==================== Share link DTOs ====================

// ShareLinkResponse carries the supplier-facing access token for an order
type ShareLinkResponse struct {
	OrderID   uuid.UUID `json:"order_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
