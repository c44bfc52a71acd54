package persistence

import (
	"context"
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	p, err := catalog.NewProduct("Panel 550W", decimal.RequireFromString("3200.50"))
	require.NoError(t, err)
	require.NoError(t, p.SetSKU("pnl-550"))
	require.NoError(t, p.Update("Panel 550W", "Monocrystalline half-cut", "panels"))
	p.SetSpecifications(map[string]string{"power": "550W"})
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "PNL-550", found.SKU)
	assert.Equal(t, "panels", found.Category)
	assert.True(t, found.UnitPrice.Equal(decimal.RequireFromString("3200.5")))
	assert.Equal(t, map[string]string{"power": "550W"}, found.Specifications)

	t.Run("save updates an existing row", func(t *testing.T) {
		require.NoError(t, found.SetStock(40))
		require.NoError(t, repo.Save(ctx, found))

		again, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, again.Stock)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindAllAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	panel := createTestProduct(t, repo, "Mono Panel", 3200)
	require.NoError(t, panel.Update("Mono Panel", "", "panels"))
	require.NoError(t, repo.Save(ctx, panel))

	inverter := createTestProduct(t, repo, "Hybrid Inverter", 18000)
	require.NoError(t, inverter.Update("Hybrid Inverter", "", "inverters"))
	require.NoError(t, inverter.Deactivate())
	require.NoError(t, repo.Save(ctx, inverter))

	createTestProduct(t, repo, "Poly Panel", 2500)

	t.Run("filters by status and category", func(t *testing.T) {
		filter := shared.Filter{Equals: map[string]string{"status": string(catalog.ProductStatusActive)}}
		active, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, active, 2)

		filter = shared.Filter{Equals: map[string]string{"category": "inverters"}}
		inverters, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, inverters, 1)
		assert.Equal(t, inverter.ID, inverters[0].ID)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.Filter{Search: "PANEL"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("sorts and paginates", func(t *testing.T) {
		filter := shared.Filter{Page: 1, PageSize: 2, OrderBy: "unit_price", OrderDir: "asc"}
		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "Poly Panel", page[0].Name)
		assert.Equal(t, "Mono Panel", page[1].Name)

		filter.Page = 2
		rest, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, inverter.ID, rest[0].ID)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("find by ids skips unknown ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{panel.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, panel.ID, found[0].ID)

		empty, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestGormProductRepository_ExistsBySKU(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	p := createTestProduct(t, repo, "Battery 5kWh", 40000)
	require.NoError(t, p.SetSKU("BAT-5"))
	require.NoError(t, repo.Save(ctx, p))

	exists, err := repo.ExistsBySKU(ctx, "bat-5", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySKU(ctx, "BAT-5", p.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a product does not conflict with itself")
}

func TestGormProductRepository_Delete(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	p := createTestProduct(t, repo, "Cable set", 900)
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), shared.ErrNotFound)
}

func TestGormProductRepository_FindBySKUs(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	p := createTestProduct(t, repo, "Panel 550W", 3200)
	require.NoError(t, p.SetSKU("PNL-550"))
	require.NoError(t, repo.Save(ctx, p))
	createTestProduct(t, repo, "No SKU", 10)

	found, err := repo.FindBySKUs(ctx, []string{" pnl-550 ", "UNKNOWN", ""})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	none, err := repo.FindBySKUs(ctx, []string{""})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormProductRepository_SaveAll(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	newProduct := func(name, sku string) *catalog.Product {
		p, err := catalog.NewProduct(name, decimal.NewFromInt(100))
		require.NoError(t, err)
		require.NoError(t, p.SetSKU(sku))
		return p
	}

	t.Run("writes every product", func(t *testing.T) {
		a, b := newProduct("Rail", "RAIL-1"), newProduct("Clamp", "CLAMP-1")
		require.NoError(t, repo.SaveAll(ctx, []*catalog.Product{a, b}))

		count, err := repo.Count(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("a failing row rolls back the batch", func(t *testing.T) {
		fresh := newProduct("Fuse", "FUSE-1")
		clash := newProduct("Rail copy", "RAIL-1")
		assert.Error(t, repo.SaveAll(ctx, []*catalog.Product{fresh, clash}))

		_, err := repo.FindByID(ctx, fresh.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty batch", func(t *testing.T) {
		assert.NoError(t, repo.SaveAll(ctx, nil))
	})
}
