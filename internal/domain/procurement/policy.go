package procurement

import (
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchasePolicy is a supplier-scoped commercial-terms record activated by a
// minimum order value. Policies have their own lifecycle: created and edited
// by the buyer, referenced by orders but never owned by them.
type PurchasePolicy struct {
	shared.TenantAggregateRoot
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name              string          `gorm:"type:varchar(100);not null"`
	MinimumValue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercent   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	BonusPercent      decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	LeadTimeDays      int             `gorm:"not null;default:0"`
	PaymentDayOffsets []int           `gorm:"serializer:json"`
	Active            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PurchasePolicy) TableName() string {
	return "purchase_policies"
}

// NewPurchasePolicy creates a new active purchase policy
func NewPurchasePolicy(tenantID, supplierID uuid.UUID, name string, minimumValue, discountPercent, bonusPercent decimal.Decimal, leadTimeDays int, paymentDayOffsets []int) (*PurchasePolicy, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Policy name cannot be empty")
	}
	if err := validatePolicyTerms(minimumValue, discountPercent, bonusPercent, leadTimeDays, paymentDayOffsets); err != nil {
		return nil, err
	}

	policy := &PurchasePolicy{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		Name:                name,
		MinimumValue:        minimumValue,
		DiscountPercent:     discountPercent,
		BonusPercent:        bonusPercent,
		LeadTimeDays:        leadTimeDays,
		PaymentDayOffsets:   paymentDayOffsets,
		Active:              true,
	}
	return policy, nil
}

// Update changes the policy's commercial terms
func (p *PurchasePolicy) Update(name string, minimumValue, discountPercent, bonusPercent decimal.Decimal, leadTimeDays int, paymentDayOffsets []int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Policy name cannot be empty")
	}
	if err := validatePolicyTerms(minimumValue, discountPercent, bonusPercent, leadTimeDays, paymentDayOffsets); err != nil {
		return err
	}

	p.Name = name
	p.MinimumValue = minimumValue
	p.DiscountPercent = discountPercent
	p.BonusPercent = bonusPercent
	p.LeadTimeDays = leadTimeDays
	p.PaymentDayOffsets = paymentDayOffsets
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Activate marks the policy as active
func (p *PurchasePolicy) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate marks the policy as inactive. Inactive policies are reported as
// informational only, never applicable.
func (p *PurchasePolicy) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// CoverageDays is the stock-coverage window the next order must span: the
// sum of the payment day offsets plus the delivery lead time.
func (p *PurchasePolicy) CoverageDays() int {
	days := p.LeadTimeDays
	for _, offset := range p.PaymentDayOffsets {
		days += offset
	}
	return days
}

// PostDiscountTotal returns the order total a given subtotal would yield
// under this policy's discount.
func (p *PurchasePolicy) PostDiscountTotal(subtotal decimal.Decimal) decimal.Decimal {
	discount := subtotal.Mul(p.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	return subtotal.Sub(discount)
}

// AppliesTo returns true if the subtotal reaches the policy's minimum value.
// A policy with a zero minimum is always applicable.
func (p *PurchasePolicy) AppliesTo(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(p.MinimumValue)
}

// Shortfall returns how much more subtotal is needed to unlock the policy,
// zero when already applicable.
func (p *PurchasePolicy) Shortfall(subtotal decimal.Decimal) decimal.Decimal {
	if p.AppliesTo(subtotal) {
		return decimal.Zero
	}
	return p.MinimumValue.Sub(subtotal)
}

func validatePolicyTerms(minimumValue, discountPercent, bonusPercent decimal.Decimal, leadTimeDays int, paymentDayOffsets []int) error {
	hundred := decimal.NewFromInt(100)
	if minimumValue.IsNegative() {
		return shared.NewDomainError("INVALID_MINIMUM", "Minimum value cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	if bonusPercent.IsNegative() || bonusPercent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_BONUS", "Bonus percent must be between 0 and 100")
	}
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time days cannot be negative")
	}
	for _, offset := range paymentDayOffsets {
		if offset < 0 {
			return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment day offsets cannot be negative")
		}
	}
	return nil
}
