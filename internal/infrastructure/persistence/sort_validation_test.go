package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"asc", "ASC"},
		{"ASC", "ASC"},
		{" Asc ", "ASC"},
		{"desc", "DESC"},
		{"DESC", "DESC"},
		{"", "DESC"},
		{"ascending", "DESC"},
		{"1; DROP TABLE suppliers", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"allowed field", "name", SupplierSortFields, "name"},
		{"empty input", "", SupplierSortFields, "created_at"},
		{"whitespace", "  code  ", SupplierSortFields, "code"},
		{"unknown field", "password", SupplierSortFields, "created_at"},
		{"injection attempt", "name; DROP TABLE suppliers--", SupplierSortFields, "created_at"},
		{"order field", "order_number", OrderSortFields, "order_number"},
		{"stock item field", "quantity", StockItemSortFields, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "created_at"))
		})
	}
}
