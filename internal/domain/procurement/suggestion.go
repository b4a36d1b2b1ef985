package procurement

import (
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SuggestionStatus represents the status of one negotiation round
type SuggestionStatus string

const (
	SuggestionStatusPending  SuggestionStatus = "pending"
	SuggestionStatusAccepted SuggestionStatus = "accepted"
	SuggestionStatusRejected SuggestionStatus = "rejected"
)

// IsValid checks if the status is a valid SuggestionStatus
func (s SuggestionStatus) IsValid() bool {
	switch s {
	case SuggestionStatusPending, SuggestionStatusAccepted, SuggestionStatusRejected:
		return true
	}
	return false
}

// SuggestionTerms is an optional commercial-terms override carried by a
// suggestion. A nil field means "no change proposed".
type SuggestionTerms struct {
	MinimumValue    *decimal.Decimal `json:"minimum_value,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	BonusPercent    *decimal.Decimal `json:"bonus_percent,omitempty"`
	LeadTimeDays    *int             `json:"lead_time_days,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
}

// SuggestionLine proposes new quantity and per-line percentages for one
// order line.
type SuggestionLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	SuggestionID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	BonusPercent    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	ValidUntil      *time.Time
}

// TableName returns the table name for GORM
func (SuggestionLine) TableName() string {
	return "suggestion_lines"
}

// Suggestion is one round of the negotiation: a proposal authored by either
// party, resolved by the opposing party.
type Suggestion struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Author       PartyRole        `gorm:"type:varchar(20);not null"`
	Status       SuggestionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Note         string           `gorm:"type:text"`
	Terms        *SuggestionTerms `gorm:"serializer:json"`
	Lines        []SuggestionLine `gorm:"foreignKey:SuggestionID;references:ID"`
	CreatedAt    time.Time        `gorm:"not null"`
	RespondedAt  *time.Time
	ResponseNote string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Suggestion) TableName() string {
	return "suggestions"
}

// IsPending returns true while the suggestion awaits a response
func (s *Suggestion) IsPending() bool {
	return s.Status == SuggestionStatusPending
}

// SuggestionLineInput carries one proposed line into SubmitSuggestion
type SuggestionLineInput struct {
	OrderItemID     uuid.UUID
	Quantity        decimal.Decimal
	DiscountPercent decimal.Decimal
	BonusPercent    decimal.Decimal
	ValidUntil      *time.Time
}

// PendingSuggestion returns the single pending suggestion, or nil.
// At most one suggestion may be pending at any time.
func (o *PurchaseOrder) PendingSuggestion() *Suggestion {
	for idx := range o.Suggestions {
		if o.Suggestions[idx].IsPending() {
			return &o.Suggestions[idx]
		}
	}
	return nil
}

// PendingSuggestionCount returns the number of pending suggestions
func (o *PurchaseOrder) PendingSuggestionCount() int {
	count := 0
	for idx := range o.Suggestions {
		if o.Suggestions[idx].IsPending() {
			count++
		}
	}
	return count
}

// SubmitSuggestion records a new negotiation round. A supplier proposal moves
// the order to suggestion_pending; a buyer counter-proposal moves it to
// counter_proposal_pending and supersedes the supplier's pending suggestion
// (marking it rejected). Submitting while the author's own suggestion is
// still pending is an error, never an implicit replacement.
func (o *PurchaseOrder) SubmitSuggestion(author PartyRole, lines []SuggestionLineInput, terms *SuggestionTerms, note string) (*Suggestion, error) {
	if !author.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTY", "Suggestion author must be buyer or supplier")
	}

	pending := o.PendingSuggestion()
	if pending != nil && pending.Author == author {
		return nil, ErrDuplicatePendingSuggestion
	}

	target := OrderStatusSuggestionPending
	if author == PartyBuyer {
		target = OrderStatusCounterProposalPending
	}
	if !o.Status.CanTransitionTo(target) {
		return nil, NewInvalidTransitionError(o.Status, target)
	}

	if len(lines) == 0 && terms == nil {
		return nil, shared.NewDomainError("EMPTY_SUGGESTION", "A suggestion must propose at least one line or a terms override")
	}
	if err := o.validateSuggestionLines(lines); err != nil {
		return nil, err
	}
	if err := validateSuggestionTerms(terms); err != nil {
		return nil, err
	}

	// A counter-proposal is the author's answer to the opposing party's
	// pending suggestion; it resolves that suggestion as rejected in the
	// same step so the single-pending invariant holds.
	if pending != nil {
		pending.resolve(SuggestionStatusRejected, "superseded by counter-proposal")
	}

	suggestion := Suggestion{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Author:    author,
		Status:    SuggestionStatusPending,
		Note:      note,
		Terms:     terms,
		Lines:     make([]SuggestionLine, 0, len(lines)),
		CreatedAt: time.Now(),
	}
	for _, in := range lines {
		suggestion.Lines = append(suggestion.Lines, SuggestionLine{
			ID:              uuid.New(),
			SuggestionID:    suggestion.ID,
			OrderItemID:     in.OrderItemID,
			Quantity:        in.Quantity,
			DiscountPercent: in.DiscountPercent,
			BonusPercent:    in.BonusPercent,
			ValidUntil:      in.ValidUntil,
		})
	}

	o.Suggestions = append(o.Suggestions, suggestion)
	o.Status = target
	o.touch()

	o.AddDomainEvent(NewSuggestionSubmittedEvent(o, &suggestion))

	return &o.Suggestions[len(o.Suggestions)-1], nil
}

// RespondToSuggestion resolves the pending suggestion. Only the party who
// does not own it may respond. Accepting atomically merges the suggestion
// into the order's lines and terms and transitions the order; rejecting
// leaves the order rejected, awaiting the buyer's next action.
func (o *PurchaseOrder) RespondToSuggestion(responder PartyRole, accept bool, note string) error {
	if !responder.IsValid() {
		return shared.NewDomainError("INVALID_PARTY", "Responder must be buyer or supplier")
	}

	pending := o.PendingSuggestion()
	if pending == nil {
		return ErrNoPendingSuggestion
	}
	if pending.Author == responder {
		return ErrSelfResponseForbidden
	}

	target := OrderStatusAccepted
	if !accept {
		target = OrderStatusRejected
	}
	if !o.Status.CanTransitionTo(target) {
		return NewInvalidTransitionError(o.Status, target)
	}

	if accept {
		if err := o.applySuggestion(pending); err != nil {
			return err
		}
		pending.resolve(SuggestionStatusAccepted, note)
		now := time.Now()
		o.Status = OrderStatusAccepted
		o.AcceptedAt = &now
		o.recalculateTotals()
	} else {
		pending.resolve(SuggestionStatusRejected, note)
		o.Status = OrderStatusRejected
	}
	o.touch()

	o.AddDomainEvent(NewSuggestionResolvedEvent(o, pending, accept))

	return nil
}

// applySuggestion replaces the order's lines with the suggestion's lines and
// applies its terms override. Per-line discount percentages reprice paid
// units; bonus percentages never reduce price, they add free units computed
// as floor(quantity * bonusPercent / 100), tracked separately. Bonus is
// recomputed fresh on each acceptance, never accumulated.
func (o *PurchaseOrder) applySuggestion(s *Suggestion) error {
	generalBonus := decimal.Zero
	if s.Terms != nil && s.Terms.BonusPercent != nil {
		generalBonus = *s.Terms.BonusPercent
	}

	if len(s.Lines) > 0 {
		kept := make([]OrderItem, 0, len(s.Lines))
		for _, line := range s.Lines {
			item := o.GetItem(line.OrderItemID)
			if item == nil {
				return shared.NewDomainError("ITEM_NOT_FOUND", "Suggestion references a line that no longer exists")
			}

			updated := *item
			updated.Quantity = line.Quantity
			if line.DiscountPercent.IsPositive() {
				factor := decimal.NewFromInt(1).Sub(line.DiscountPercent.Div(decimal.NewFromInt(100)))
				updated.UnitPrice = item.UnitPrice.Mul(factor).Round(4)
			}
			updated.Amount = updated.Quantity.Mul(updated.UnitPrice)

			bonusPct := line.BonusPercent
			if bonusPct.IsZero() {
				bonusPct = generalBonus
			}
			updated.BonusQuantity = line.Quantity.Mul(bonusPct).Div(decimal.NewFromInt(100)).Floor()
			updated.UpdatedAt = time.Now()

			kept = append(kept, updated)
		}
		o.Items = kept
	}

	if s.Terms != nil {
		if s.Terms.DiscountPercent != nil {
			o.DiscountPercent = *s.Terms.DiscountPercent
			o.Discount = decimal.Zero
		}
		if s.Terms.LeadTimeDays != nil {
			o.LeadTimeDays = *s.Terms.LeadTimeDays
		}
	}

	return nil
}

// resolve marks the suggestion accepted or rejected with a response note
func (s *Suggestion) resolve(status SuggestionStatus, note string) {
	now := time.Now()
	s.Status = status
	s.RespondedAt = &now
	s.ResponseNote = note
}

func (o *PurchaseOrder) validateSuggestionLines(lines []SuggestionLineInput) error {
	hundred := decimal.NewFromInt(100)
	for _, line := range lines {
		if o.GetItem(line.OrderItemID) == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Suggestion line references an unknown order item")
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Suggested quantity must be positive")
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Line discount percent must be between 0 and 100")
		}
		if line.BonusPercent.IsNegative() || line.BonusPercent.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_BONUS", "Line bonus percent must be between 0 and 100")
		}
	}
	return nil
}

func validateSuggestionTerms(terms *SuggestionTerms) error {
	if terms == nil {
		return nil
	}
	hundred := decimal.NewFromInt(100)
	if terms.DiscountPercent != nil && (terms.DiscountPercent.IsNegative() || terms.DiscountPercent.GreaterThan(hundred)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Terms discount percent must be between 0 and 100")
	}
	if terms.BonusPercent != nil && (terms.BonusPercent.IsNegative() || terms.BonusPercent.GreaterThan(hundred)) {
		return shared.NewDomainError("INVALID_BONUS", "Terms bonus percent must be between 0 and 100")
	}
	if terms.MinimumValue != nil && terms.MinimumValue.IsNegative() {
		return shared.NewDomainError("INVALID_MINIMUM", "Terms minimum value cannot be negative")
	}
	if terms.LeadTimeDays != nil && *terms.LeadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time days cannot be negative")
	}
	return nil
}
