package procurement

import (
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReplenishmentInput carries one product's stock picture into the calculator
type ReplenishmentInput struct {
	ProductID   uuid.UUID
	Description string
	Unit        string
	ExternalRef string
	Stock       decimal.Decimal // current on-hand quantity
	DailySales  decimal.Decimal // average units sold per day
	UnitPrice   decimal.Decimal // purchase price per unit
	BoxSize     int64           // units per case; 0 is treated as 1
	TaxRate     decimal.Decimal
}

// ReplenishmentLine is one suggested order line. SuggestedQuantity is always
// a whole multiple of the box size.
type ReplenishmentLine struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Description       string          `json:"description"`
	Unit              string          `json:"unit"`
	ExternalRef       string          `json:"external_ref,omitempty"`
	NeededUnits       decimal.Decimal `json:"needed_units"`
	SuggestedQuantity int64           `json:"suggested_quantity"`
	Boxes             int64           `json:"boxes"`
	BoxSize           int64           `json:"box_size"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LineValue         decimal.Decimal `json:"line_value"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
}

// SnapToBox rounds a quantity up to the nearest whole multiple of boxSize.
// A box size of zero or one degrades to unit-level rounding.
func SnapToBox(quantity decimal.Decimal, boxSize int64) int64 {
	if boxSize <= 1 {
		return quantity.Ceil().IntPart()
	}
	box := decimal.NewFromInt(boxSize)
	boxes := quantity.Div(box).Ceil().IntPart()
	return boxes * boxSize
}

// SuggestQuantity computes the purchase quantity covering the given window:
// needed = max(0, velocity*coverageDays - stock), rounded up to whole boxes.
// Overstocked products (negative need) clamp to zero.
func SuggestQuantity(stock, velocity decimal.Decimal, coverageDays int, boxSize int64) int64 {
	needed := velocity.Mul(decimal.NewFromInt(int64(coverageDays))).Sub(stock)
	if needed.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return SnapToBox(needed, boxSize)
}

// ComputeReplenishment runs the calculator over a supplier's products.
// Products with zero sales velocity, or with nothing to order, are excluded
// from the output rather than kept as zero lines.
func ComputeReplenishment(inputs []ReplenishmentInput, coverageDays int) ([]ReplenishmentLine, error) {
	if coverageDays <= 0 {
		return nil, shared.NewDomainError("INVALID_COVERAGE", "Coverage days must be positive")
	}

	lines := make([]ReplenishmentLine, 0, len(inputs))
	for _, in := range inputs {
		if in.DailySales.LessThanOrEqual(decimal.Zero) {
			continue
		}
		boxSize := in.BoxSize
		if boxSize < 1 {
			boxSize = 1
		}

		needed := in.DailySales.Mul(decimal.NewFromInt(int64(coverageDays))).Sub(in.Stock)
		if needed.LessThanOrEqual(decimal.Zero) {
			continue
		}

		quantity := SnapToBox(needed, boxSize)
		lines = append(lines, ReplenishmentLine{
			ProductID:         in.ProductID,
			Description:       in.Description,
			Unit:              in.Unit,
			ExternalRef:       in.ExternalRef,
			NeededUnits:       needed,
			SuggestedQuantity: quantity,
			Boxes:             quantity / boxSize,
			BoxSize:           boxSize,
			UnitPrice:         in.UnitPrice,
			LineValue:         decimal.NewFromInt(quantity).Mul(in.UnitPrice),
			TaxRate:           in.TaxRate,
		})
	}
	return lines, nil
}

// OverrideQuantity re-snaps a buyer-edited quantity to the line's box
// multiple (rounding up) and recomputes the line value.
func (l *ReplenishmentLine) OverrideQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Override quantity must be positive")
	}
	boxSize := l.BoxSize
	if boxSize < 1 {
		boxSize = 1
	}
	l.SuggestedQuantity = SnapToBox(quantity, boxSize)
	l.Boxes = l.SuggestedQuantity / boxSize
	l.LineValue = decimal.NewFromInt(l.SuggestedQuantity).Mul(l.UnitPrice)
	return nil
}

// SubtotalOf sums the line values of a replenishment draft
func SubtotalOf(lines []ReplenishmentLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineValue)
	}
	return subtotal
}
