package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add suppliers table", "add_suppliers_table"},
		{"Add-Suppliers-Table", "add_suppliers_table"},
		{"add__stock__movements", "add_stock_movements"},
		{"Create Policies 2", "create_policies_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add purchase orders")
	require.NoError(t, err)

	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
	assert.Contains(t, filepath.Base(mf.UpPath), "add_purchase_orders.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_purchase_orders.down.sql")

	content, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "add purchase orders")
}

func TestCreateMigration_NewDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "initial schema")
	require.NoError(t, err)

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Contains(t, names[0], "initial_schema")
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
