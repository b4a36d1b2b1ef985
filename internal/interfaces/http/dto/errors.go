package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes not
// listed here fall back to 422: they describe a business rule the request
// violated, not a transport problem.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,

	// Duplicates and races -> 409
	"DUPLICATE_CODE":               http.StatusConflict,
	"DUPLICATE_PENDING_SUGGESTION": http.StatusConflict,
	"STALE_STATE":                  http.StatusConflict,
	"CONCURRENCY_CONFLICT":         http.StatusConflict,

	// Negotiation and workflow guards -> 422
	"INVALID_TRANSITION":      http.StatusUnprocessableEntity,
	"SELF_RESPONSE_FORBIDDEN": http.StatusUnprocessableEntity,
	"NO_PENDING_SUGGESTION":   http.StatusUnprocessableEntity,
	"NO_APPLICABLE_POLICY":    http.StatusUnprocessableEntity,
	"NO_SALES_HISTORY":        http.StatusUnprocessableEntity,
	"REASON_REQUIRED":         http.StatusUnprocessableEntity,
	"NO_CONTACT_CHANNEL":      http.StatusUnprocessableEntity,
	"NO_ITEMS":                http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":      http.StatusUnprocessableEntity,
	"SUPPLIER_NOT_ACTIVE":     http.StatusUnprocessableEntity,
	"PRODUCT_NOT_ACTIVE":      http.StatusUnprocessableEntity,

	// Malformed values caught past binding -> 400
	"INVALID_QUANTITY": http.StatusBadRequest,
	"INVALID_PRICE":    http.StatusBadRequest,
	"INVALID_STATUS":   http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,

	// Sharing
	"SHARING_UNAVAILABLE": http.StatusServiceUnavailable,
}

// HTTPStatusFor returns the HTTP status for a domain error code
func HTTPStatusFor(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
