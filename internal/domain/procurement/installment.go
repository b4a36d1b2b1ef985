package procurement

import (
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one dated, valued payment within an order's schedule.
// Installments are owned by the order and regenerated wholesale whenever the
// allocator runs; they are never partially patched.
type Installment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence        int             `gorm:"not null"`
	Value           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate         time.Time       `gorm:"not null"`
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid"`
	Note            string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Installment) TableName() string {
	return "order_installments"
}

// GetValueMoney returns the installment value as Money
func (i *Installment) GetValueMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.Value)
}

// ScheduleSpec describes how to spread a total into installments: either an
// explicit list of day offsets from today (policy payment terms) or a plain
// installment count for a quick monthly schedule.
type ScheduleSpec struct {
	DayOffsets []int
	Count      int
}

// installmentCount returns the number of installments the spec produces
func (s ScheduleSpec) installmentCount() int {
	if len(s.DayOffsets) > 0 {
		return len(s.DayOffsets)
	}
	return s.Count
}

// Validate checks the spec describes a usable schedule
func (s ScheduleSpec) Validate() error {
	if len(s.DayOffsets) > 0 && s.Count > 0 {
		return shared.NewDomainError("INVALID_SCHEDULE", "Provide either day offsets or a count, not both")
	}
	if len(s.DayOffsets) == 0 && s.Count <= 0 {
		return shared.NewDomainError("INVALID_SCHEDULE", "Schedule needs day offsets or a positive installment count")
	}
	for _, offset := range s.DayOffsets {
		if offset < 0 {
			return shared.NewDomainError("INVALID_SCHEDULE", "Day offsets cannot be negative")
		}
	}
	return nil
}

// AllocateInstallments splits the total into dated installments. Every
// installment except the last carries round(total/count, 2); the last carries
// the remainder so the schedule sums to the total exactly to the cent.
//
// Due dates come from the explicit offsets when present. Count-based "quick"
// schedules fall on today + 30*i (1-indexed); a single installment is due
// same-day.
func AllocateInstallments(orderID uuid.UUID, total valueobject.Money, spec ScheduleSpec, today time.Time) ([]Installment, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Cannot allocate installments for a negative total")
	}

	count := spec.installmentCount()
	parts, err := total.Split(count)
	if err != nil {
		return nil, err
	}

	installments := make([]Installment, count)
	for i := 0; i < count; i++ {
		var due time.Time
		if len(spec.DayOffsets) > 0 {
			due = today.AddDate(0, 0, spec.DayOffsets[i])
		} else if count == 1 {
			due = today
		} else {
			due = today.AddDate(0, 0, 30*(i+1))
		}
		installments[i] = Installment{
			ID:       uuid.New(),
			OrderID:  orderID,
			Sequence: i + 1,
			Value:    parts[i].Amount(),
			DueDate:  due,
		}
	}
	return installments, nil
}
