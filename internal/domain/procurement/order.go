package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the negotiation workflow status of a purchase order
type OrderStatus string

const (
	OrderStatusDraft                  OrderStatus = "draft"
	OrderStatusSentToSupplier         OrderStatus = "sent_to_supplier"
	OrderStatusSuggestionPending      OrderStatus = "suggestion_pending"
	OrderStatusCounterProposalPending OrderStatus = "counter_proposal_pending"
	OrderStatusAccepted               OrderStatus = "accepted"
	OrderStatusRejected               OrderStatus = "rejected"
	OrderStatusFinalized              OrderStatus = "finalized"
	OrderStatusCancelled              OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSentToSupplier, OrderStatusSuggestionPending,
		OrderStatusCounterProposalPending, OrderStatusAccepted, OrderStatusRejected,
		OrderStatusFinalized, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states no transition may leave
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFinalized || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// This is the authoritative edge set; anything not listed here is illegal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusSentToSupplier
	case OrderStatusSentToSupplier:
		return target == OrderStatusSuggestionPending
	case OrderStatusSuggestionPending:
		return target == OrderStatusAccepted || target == OrderStatusRejected ||
			target == OrderStatusCounterProposalPending
	case OrderStatusCounterProposalPending:
		return target == OrderStatusAccepted || target == OrderStatusRejected
	case OrderStatusRejected:
		// A rejected order stays actionable: the buyer may re-send or cancel.
		return target == OrderStatusSentToSupplier
	case OrderStatusAccepted:
		return target == OrderStatusFinalized
	}
	return false
}

// ExternalStatus is the coarser fulfillment status reported by the external
// ERP. It is advisory only and never drives workflow transitions.
type ExternalStatus string

const (
	ExternalStatusOpen       ExternalStatus = "open"
	ExternalStatusInProgress ExternalStatus = "in_progress"
	ExternalStatusFulfilled  ExternalStatus = "fulfilled"
	ExternalStatusCancelled  ExternalStatus = "cancelled"
)

// IsValid checks if the status is a valid ExternalStatus
func (s ExternalStatus) IsValid() bool {
	switch s {
	case ExternalStatusOpen, ExternalStatusInProgress, ExternalStatusFulfilled, ExternalStatusCancelled:
		return true
	}
	return false
}

// PartyRole identifies which side of the negotiation performed an action
type PartyRole string

const (
	PartyBuyer    PartyRole = "buyer"
	PartySupplier PartyRole = "supplier"
)

// IsValid checks if the role is a valid PartyRole
func (r PartyRole) IsValid() bool {
	return r == PartyBuyer || r == PartySupplier
}

// Other returns the opposing party
func (r PartyRole) Other() PartyRole {
	if r == PartyBuyer {
		return PartySupplier
	}
	return PartyBuyer
}

// OrderItem represents one product line in a purchase order
type OrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Description   string          `gorm:"type:varchar(200);not null"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // paid quantity
	BonusQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // free units, never merged into Quantity
	TaxRate       decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`  // percent
	ExternalRef   string          `gorm:"type:varchar(100)"`                     // product reference in the external ERP
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity * UnitPrice
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "purchase_order_items"
}

// NewOrderItem creates a new order item
func NewOrderItem(orderID, productID uuid.UUID, description, unit string, quantity decimal.Decimal, unitPrice valueobject.Money, taxRate decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:            uuid.New(),
		OrderID:       orderID,
		ProductID:     productID,
		Description:   description,
		Unit:          unit,
		UnitPrice:     unitPrice.Amount(),
		Quantity:      quantity,
		BonusQuantity: decimal.Zero,
		TaxRate:       taxRate,
		Amount:        quantity.Mul(unitPrice.Amount()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateQuantity updates the paid quantity and recalculates the amount
func (i *OrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and recalculates the amount
func (i *OrderItem) UpdateUnitPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = price.Amount()
	i.Amount = i.Quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()
	return nil
}

// TaxAmount returns the tax surcharge contributed by this line
func (i *OrderItem) TaxAmount() decimal.Decimal {
	return i.Amount.Mul(i.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
}

// PurchaseOrder is the aggregate root for one purchase order to one supplier.
// It owns the negotiation workflow status, the order lines, the installment
// schedule and the suggestion history.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber      string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	SupplierID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	SupplierName     string      `gorm:"type:varchar(200);not null"`
	Status           OrderStatus `gorm:"type:varchar(30);not null;default:'draft'"`
	ExternalStatus   *ExternalStatus
	ExpectedDelivery *time.Time

	Items        []OrderItem   `gorm:"foreignKey:OrderID;references:ID"`
	Installments []Installment `gorm:"foreignKey:OrderID;references:ID"`
	Suggestions  []Suggestion  `gorm:"foreignKey:OrderID;references:ID"`

	Subtotal          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercent   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Discount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Freight           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FreightChargeable bool            `gorm:"not null;default:false"`
	TaxSurcharge      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	AppliedPolicyID *uuid.UUID `gorm:"type:uuid;index"` // referenced, never owned
	LeadTimeDays    int        `gorm:"not null;default:0"`

	SupplierNote string `gorm:"type:text"` // visible to the supplier
	InternalNote string `gorm:"type:text"` // buyer-only

	SentAt       *time.Time
	AcceptedAt   *time.Time
	FinalizedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
	CancelledBy  string `gorm:"type:varchar(20)"`

	ERPForeignID   string `gorm:"type:varchar(100)"` // identifier in the external ERP after sync
	ERPSyncWarning string `gorm:"type:varchar(500)"` // non-fatal sync failure attached to finalization
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Status:              OrderStatusDraft,
		Items:               make([]OrderItem, 0),
		Installments:        make([]Installment, 0),
		Suggestions:         make([]Suggestion, 0),
		Subtotal:            decimal.Zero,
		Discount:            decimal.Zero,
		DiscountPercent:     decimal.Zero,
		Freight:             decimal.Zero,
		TaxSurcharge:        decimal.Zero,
		Total:               decimal.Zero,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// CanModifyLines returns true while line mutation is allowed
func (o *PurchaseOrder) CanModifyLines() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusRejected
}

// AddItem adds a new product line to the order
func (o *PurchaseOrder) AddItem(productID uuid.UUID, description, unit string, quantity decimal.Decimal, unitPrice valueobject.Money, taxRate decimal.Decimal) (*OrderItem, error) {
	if !o.CanModifyLines() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to an order in %s status", o.Status))
	}
	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewOrderItem(o.ID, productID, description, unit, quantity, unitPrice, taxRate)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.touch()

	return item, nil
}

// UpdateItemQuantity updates the paid quantity of an existing line
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if !o.CanModifyLines() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update items of an order in %s status", o.Status))
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line from the order
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if !o.CanModifyLines() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot remove items from an order in %s status", o.Status))
	}
	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetFreight sets the freight value and whether it is charged to the buyer
func (o *PurchaseOrder) SetFreight(freight valueobject.Money, chargeable bool) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change freight on a closed order")
	}
	if freight.IsNegative() {
		return shared.NewDomainError("INVALID_FREIGHT", "Freight cannot be negative")
	}
	o.Freight = freight.Amount()
	o.FreightChargeable = chargeable
	o.recalculateTotals()
	o.touch()
	return nil
}

// SetManualDiscount sets an absolute discount, clearing any percentage discount
func (o *PurchaseOrder) SetManualDiscount(discount valueobject.Money) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change discount on a closed order")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}
	o.DiscountPercent = decimal.Zero
	o.Discount = discount.Amount()
	o.recalculateTotals()
	o.touch()
	return nil
}

// ApplyPolicy applies a purchase policy's commercial terms to the order.
// The policy is referenced, never owned.
func (o *PurchaseOrder) ApplyPolicy(policy *PurchasePolicy) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply a policy to a closed order")
	}
	if policy == nil {
		return shared.NewDomainError("INVALID_POLICY", "Policy cannot be nil")
	}
	if !policy.Active {
		return shared.NewDomainError("INACTIVE_POLICY", "Cannot apply an inactive policy")
	}
	policyID := policy.ID
	o.AppliedPolicyID = &policyID
	o.DiscountPercent = policy.DiscountPercent
	o.LeadTimeDays = policy.LeadTimeDays
	o.recalculateTotals()
	o.touch()
	return nil
}

// SetNotes sets the supplier-visible and internal notes
func (o *PurchaseOrder) SetNotes(supplierNote, internalNote string) {
	o.SupplierNote = supplierNote
	o.InternalNote = internalNote
	o.touch()
}

// SetExpectedDelivery sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDelivery(date time.Time) {
	o.ExpectedDelivery = &date
	o.touch()
}

// SendToSupplier transitions the order to sent_to_supplier. Legal from draft
// and from rejected (re-send after a failed negotiation round). Requires at
// least one line; the contact-channel check happens at the protocol boundary.
func (o *PurchaseOrder) SendToSupplier() error {
	if !o.Status.CanTransitionTo(OrderStatusSentToSupplier) {
		return NewInvalidTransitionError(o.Status, OrderStatusSentToSupplier)
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send an order without items")
	}

	now := time.Now()
	o.Status = OrderStatusSentToSupplier
	o.SentAt = &now
	o.touch()

	o.AddDomainEvent(NewOrderSentEvent(o))

	return nil
}

// Cancel cancels the order from any non-terminal state. The reason is
// recorded; requiring a non-empty reason (or explicit confirmation of an
// empty one) is enforced at the protocol boundary, not here.
func (o *PurchaseOrder) Cancel(party PartyRole, reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return NewInvalidTransitionError(o.Status, OrderStatusCancelled)
	}
	if !party.IsValid() {
		return shared.NewDomainError("INVALID_PARTY", "Cancelling party must be buyer or supplier")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = strings.TrimSpace(reason)
	o.CancelledBy = string(party)
	o.touch()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// Finalize closes the negotiation. Legal only from accepted. After this the
// monetary snapshot is immutable; external ERP synchronization may be
// triggered by the caller once finalization succeeds.
func (o *PurchaseOrder) Finalize() error {
	if !o.Status.CanTransitionTo(OrderStatusFinalized) {
		return NewInvalidTransitionError(o.Status, OrderStatusFinalized)
	}

	now := time.Now()
	o.Status = OrderStatusFinalized
	o.FinalizedAt = &now
	o.touch()

	o.AddDomainEvent(NewOrderFinalizedEvent(o))

	return nil
}

// SetExternalStatus records the fulfillment status reported by the external
// ERP. Advisory only: it never drives a workflow transition.
func (o *PurchaseOrder) SetExternalStatus(status ExternalStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_EXTERNAL_STATUS", fmt.Sprintf("Unknown external status %q", status))
	}
	o.ExternalStatus = &status
	o.touch()
	return nil
}

// AttachERPReference records the foreign identifier returned by a successful
// ERP sync of the finalized order.
func (o *PurchaseOrder) AttachERPReference(foreignID string) error {
	if o.Status != OrderStatusFinalized {
		return shared.NewDomainError("INVALID_STATE", "ERP reference can only be attached to a finalized order")
	}
	if foreignID == "" {
		return shared.NewDomainError("INVALID_ERP_REF", "ERP foreign ID cannot be empty")
	}
	o.ERPForeignID = foreignID
	o.ERPSyncWarning = ""
	o.touch()
	return nil
}

// RecordERPSyncWarning attaches a non-fatal sync failure to the order. The
// local workflow status is authoritative and is never rolled back.
func (o *PurchaseOrder) RecordERPSyncWarning(message string) {
	o.ERPSyncWarning = message
	o.touch()
}

// CheckVersion verifies the caller's view of the aggregate is current.
// A mismatch means the other party acted first; the caller must re-fetch.
func (o *PurchaseOrder) CheckVersion(expected int) error {
	if expected != o.Version {
		return NewStaleStateError(o.Status, o.Version, expected)
	}
	return nil
}

// RegenerateInstallments discards the current installment schedule and
// allocates a new one from the order total. Prior installments are never
// partially patched.
func (o *PurchaseOrder) RegenerateInstallments(spec ScheduleSpec, today time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot regenerate installments on a closed order")
	}
	installments, err := AllocateInstallments(o.ID, valueobject.NewMoneyBRL(o.Total), spec, today)
	if err != nil {
		return err
	}
	o.Installments = installments
	o.touch()
	return nil
}

// recalculateTotals recomputes the monetary snapshot:
// total = subtotal - discount + freight (if chargeable) + tax surcharge
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
		tax = tax.Add(item.TaxAmount())
	}
	o.Subtotal = subtotal
	o.TaxSurcharge = tax

	if o.DiscountPercent.IsPositive() {
		o.Discount = subtotal.Mul(o.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	}
	if o.Discount.GreaterThan(subtotal) {
		o.Discount = subtotal
	}

	total := subtotal.Sub(o.Discount)
	if o.FreightChargeable {
		total = total.Add(o.Freight)
	}
	o.Total = total.Add(tax)
}

// touch bumps UpdatedAt and the optimistic-locking version
func (o *PurchaseOrder) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// GetItem returns a line by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns a line by product ID
func (o *PurchaseOrder) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of lines in the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

// IsTerminal returns true if the order reached a terminal state
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// GetTotalMoney returns the order total as Money
func (o *PurchaseOrder) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.Total)
}

// GetSubtotalMoney returns the order subtotal as Money
func (o *PurchaseOrder) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.Subtotal)
}
