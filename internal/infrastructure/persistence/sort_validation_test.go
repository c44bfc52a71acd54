package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE solar_packages;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"whitelisted field is kept", "unit_price", "unit_price"},
		{"whitespace is trimmed", "  name ", "name"},
		{"unknown field returns default", "cost_basis", "created_at"},
		{"matching is case sensitive", "NAME", "created_at"},
		{"injection attempt returns default", "name; DROP TABLE products;--", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "created_at"))
		})
	}
}

func TestQuoteRequestSortFields(t *testing.T) {
	for _, field := range []string{"created_at", "monthly_bill", "status"} {
		assert.True(t, QuoteRequestSortFields[field], field)
	}
	assert.False(t, QuoteRequestSortFields["email"])
}
