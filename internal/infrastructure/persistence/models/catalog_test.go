package models

import (
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolarPackageModel_FeaturesEncoding(t *testing.T) {
	minBill, maxBill, price := decimal.NewFromInt(800), decimal.NewFromInt(1200), decimal.NewFromInt(150000)
	pkg, err := catalog.NewSolarPackage(catalog.PackageFields{
		Name:       "Home 5kW",
		MinBill:    &minBill,
		MaxBill:    &maxBill,
		TotalPrice: &price,
		Features:   []string{"10 year warranty", "Monitoring app"},
	})
	require.NoError(t, err)

	m := SolarPackageModelFromDomain(pkg)
	assert.JSONEq(t, `["10 year warranty","Monitoring app"]`, m.Features)

	back := m.ToDomain()
	assert.Equal(t, pkg.Features, back.Features)
	assert.Equal(t, pkg.ID, back.ID)

	t.Run("empty list is stored as empty array", func(t *testing.T) {
		pkg.Features = nil
		assert.Equal(t, "[]", SolarPackageModelFromDomain(pkg).Features)
	})

	t.Run("malformed column decodes to empty list", func(t *testing.T) {
		m.Features = "{not json"
		assert.Equal(t, []string{}, m.ToDomain().Features)
	})
}

func TestProductModel_Conversion(t *testing.T) {
	p, err := catalog.NewProduct("Panel 550W", decimal.NewFromInt(3200))
	require.NoError(t, err)
	p.SetSpecifications(map[string]string{"power": "550W", "efficiency": "21.3%"})

	t.Run("blank SKU is stored as NULL", func(t *testing.T) {
		m := ProductModelFromDomain(p)
		assert.Nil(t, m.SKU)
		assert.Empty(t, m.ToDomain().SKU)
	})

	t.Run("specifications survive the JSON column", func(t *testing.T) {
		require.NoError(t, p.SetSKU("pnl-550"))
		m := ProductModelFromDomain(p)
		require.NotNil(t, m.SKU)
		assert.Equal(t, "PNL-550", *m.SKU)
		assert.JSONEq(t, `{"power":"550W","efficiency":"21.3%"}`, m.Specifications)
		assert.Equal(t, p.Specifications, m.ToDomain().Specifications)
	})

	t.Run("empty column decodes to empty map", func(t *testing.T) {
		m := ProductModelFromDomain(p)
		m.Specifications = ""
		assert.Equal(t, map[string]string{}, m.ToDomain().Specifications)
	})
}
