package procurement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PolicyEvaluation is the matcher's verdict on one policy for a given
// candidate subtotal.
type PolicyEvaluation struct {
	Policy            PurchasePolicy  `json:"policy"`
	Applicable        bool            `json:"applicable"`
	PostDiscountTotal decimal.Decimal `json:"post_discount_total"`
	Shortfall         decimal.Decimal `json:"shortfall"` // minimumValue - subtotal when not applicable
}

// PolicyReport is the full matcher output: the best applicable policy, the
// remaining applicable ones, actives that fall short (with the shortfall so
// the caller can display "how much more to unlock"), and inactive policies
// reported as informational only.
type PolicyReport struct {
	Best          *PolicyEvaluation  `json:"best,omitempty"`
	Applicable    []PolicyEvaluation `json:"applicable"`
	NotApplicable []PolicyEvaluation `json:"not_applicable"`
	Inactive      []PolicyEvaluation `json:"inactive"`
}

// HasApplicable returns true if at least one policy is applicable
func (r *PolicyReport) HasApplicable() bool {
	return r.Best != nil
}

// MatchPolicies evaluates a supplier's policies against a candidate subtotal.
// Active policies are applicable iff subtotal >= minimumValue; the best
// applicable policy is the one yielding the lowest post-discount total, ties
// broken by the larger minimum value (the more senior commercial tier).
//
// When no policy is applicable the report carries no best policy; callers
// must handle that explicitly rather than assuming a zero-discount default.
func MatchPolicies(policies []PurchasePolicy, subtotal decimal.Decimal) PolicyReport {
	report := PolicyReport{
		Applicable:    make([]PolicyEvaluation, 0),
		NotApplicable: make([]PolicyEvaluation, 0),
		Inactive:      make([]PolicyEvaluation, 0),
	}

	for _, policy := range policies {
		eval := PolicyEvaluation{
			Policy:            policy,
			PostDiscountTotal: policy.PostDiscountTotal(subtotal),
			Shortfall:         decimal.Zero,
		}
		switch {
		case !policy.Active:
			report.Inactive = append(report.Inactive, eval)
		case policy.AppliesTo(subtotal):
			eval.Applicable = true
			report.Applicable = append(report.Applicable, eval)
		default:
			eval.Shortfall = policy.Shortfall(subtotal)
			report.NotApplicable = append(report.NotApplicable, eval)
		}
	}

	// Lowest post-discount total wins; ties go to the larger minimum value.
	sort.SliceStable(report.Applicable, func(i, j int) bool {
		a, b := report.Applicable[i], report.Applicable[j]
		if !a.PostDiscountTotal.Equal(b.PostDiscountTotal) {
			return a.PostDiscountTotal.LessThan(b.PostDiscountTotal)
		}
		return a.Policy.MinimumValue.GreaterThan(b.Policy.MinimumValue)
	})
	sort.SliceStable(report.NotApplicable, func(i, j int) bool {
		return report.NotApplicable[i].Shortfall.LessThan(report.NotApplicable[j].Shortfall)
	})

	if len(report.Applicable) > 0 {
		best := report.Applicable[0]
		report.Best = &best
	}
	return report
}
