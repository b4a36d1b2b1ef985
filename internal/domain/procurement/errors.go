package procurement

import (
	"fmt"

	"github.com/reponha/backend/internal/domain/shared"
)

// Error codes surfaced to callers so they can resynchronize their view
const (
	ErrCodeInvalidTransition          = "INVALID_TRANSITION"
	ErrCodeStaleState                 = "STALE_STATE"
	ErrCodeDuplicatePendingSuggestion = "DUPLICATE_PENDING_SUGGESTION"
	ErrCodeSelfResponseForbidden      = "SELF_RESPONSE_FORBIDDEN"
	ErrCodeNoPendingSuggestion        = "NO_PENDING_SUGGESTION"
	ErrCodeNoApplicablePolicy         = "NO_APPLICABLE_POLICY"
	ErrCodeNoSalesHistory             = "NO_SALES_HISTORY"
)

// InvalidTransitionError is returned when a workflow transition is not in the
// legal edge set. It always identifies the current state and the requested
// target so the caller can resynchronize.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// Code returns the machine-readable error code
func (e *InvalidTransitionError) Code() string {
	return ErrCodeInvalidTransition
}

// NewInvalidTransitionError creates an InvalidTransitionError
func NewInvalidTransitionError(from, to OrderStatus) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

// StaleStateError is returned when the caller's view of the order no longer
// matches the stored aggregate. Buyer and supplier act from independent
// sessions; the losing party must re-fetch and retry.
type StaleStateError struct {
	CurrentStatus   OrderStatus
	CurrentVersion  int
	ExpectedVersion int
}

// Error implements the error interface
func (e *StaleStateError) Error() string {
	return fmt.Sprintf("order was modified by another party: status=%s version=%d expected=%d",
		e.CurrentStatus, e.CurrentVersion, e.ExpectedVersion)
}

// Code returns the machine-readable error code
func (e *StaleStateError) Code() string {
	return ErrCodeStaleState
}

// NewStaleStateError creates a StaleStateError
func NewStaleStateError(status OrderStatus, current, expected int) *StaleStateError {
	return &StaleStateError{CurrentStatus: status, CurrentVersion: current, ExpectedVersion: expected}
}

// Negotiation guard errors
var (
	ErrDuplicatePendingSuggestion = shared.NewDomainError(ErrCodeDuplicatePendingSuggestion,
		"A suggestion is already pending on this order")
	ErrSelfResponseForbidden = shared.NewDomainError(ErrCodeSelfResponseForbidden,
		"The author of a suggestion cannot respond to it")
	ErrNoPendingSuggestion = shared.NewDomainError(ErrCodeNoPendingSuggestion,
		"Order has no pending suggestion to respond to")
)

// Computation "no result" outcomes. These are distinguishable signals, never
// approximated with zero-discount or zero-quantity defaults.
var (
	ErrNoApplicablePolicy = shared.NewDomainError(ErrCodeNoApplicablePolicy,
		"No active purchase policy is applicable to the order subtotal")
	ErrNoSalesHistory = shared.NewDomainError(ErrCodeNoSalesHistory,
		"No sales history available for the supplier's products")
)
