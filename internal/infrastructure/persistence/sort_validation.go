package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC, defaulting
// to DESC for anything unrecognized.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a caller-supplied sort column against a whitelist.
// Anything not whitelisted falls back to defaultField, so user input never
// reaches the ORDER BY clause verbatim.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"code":                   true,
	"name":                   true,
	"trade_name":             true,
	"status":                 true,
	"city":                   true,
	"state":                  true,
	"default_lead_time_days": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"unit":           true,
	"purchase_price": true,
	"sale_price":     true,
	"box_size":       true,
	"active":         true,
}

// OrderSortFields contains allowed sort fields for purchase orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total":        true,
	"subtotal":     true,
	"sent_at":      true,
	"finalized_at": true,
}

// PolicySortFields contains allowed sort fields for purchase policies
var PolicySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"minimum_value": true,
	"active":        true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"product_id": true,
	"quantity":   true,
}
