package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRecommendationCache_SetGetInvalidate(t *testing.T) {
	c := NewInMemoryRecommendationCache(time.Minute)
	ctx := context.Background()
	bill := decimal.RequireFromString("1100.50")

	_, gen, found, err := c.Get(ctx, bill)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, gen, bill, matchedResult(bill)))
	got, _, found, err := c.Get(ctx, decimal.RequireFromString("1100.5"))
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Matched)

	require.NoError(t, c.Invalidate(ctx))
	_, _, found, _ = c.Get(ctx, bill)
	assert.False(t, found)
	assert.Zero(t, c.Size())
}

func TestInMemoryRecommendationCache_SetAfterInvalidateIsDropped(t *testing.T) {
	c := NewInMemoryRecommendationCache(time.Minute)
	ctx := context.Background()
	bill := decimal.NewFromInt(1000)

	_, staleGen, _, err := c.Get(ctx, bill)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))

	require.NoError(t, c.Set(ctx, staleGen, bill, matchedResult(bill)))
	_, gen, found, err := c.Get(ctx, bill)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, c.Size())
	assert.NotEqual(t, staleGen, gen)

	require.NoError(t, c.Set(ctx, gen, bill, matchedResult(bill)))
	_, _, found, _ = c.Get(ctx, bill)
	assert.True(t, found)
}

func TestInMemoryRecommendationCache_ReturnsIndependentCopies(t *testing.T) {
	c := NewInMemoryRecommendationCache(time.Minute)
	ctx := context.Background()
	bill := decimal.NewFromInt(1000)

	stored := matchedResult(bill)
	stored.Package.LineItems = []catalogapp.LineItemResponse{{ProductName: "Panel", Quantity: 10}}
	require.NoError(t, c.Set(ctx, 0, bill, stored))
	stored.Package.Features[0] = "changed by writer"

	first, _, found, err := c.Get(ctx, bill)
	require.NoError(t, err)
	require.True(t, found)
	first.Package.Name = "changed by reader"
	first.Package.Features[0] = "changed by reader"
	first.Package.LineItems[0].Quantity = 99
	first.Message = "changed by reader"

	second, _, found, err := c.Get(ctx, bill)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Home 5kW", second.Package.Name)
	assert.Equal(t, []string{"monitoring"}, second.Package.Features)
	assert.Equal(t, 10, second.Package.LineItems[0].Quantity)
	assert.Empty(t, second.Message)
}

func TestInMemoryRecommendationCache_Expiry(t *testing.T) {
	c := NewInMemoryRecommendationCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()
	bill := decimal.NewFromInt(300)

	require.NoError(t, c.Set(ctx, 0, bill, &catalogapp.RecommendationResult{BillAmount: bill}))
	now = now.Add(2 * time.Minute)

	_, _, found, err := c.Get(ctx, bill)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryRecommendationCache_Bounded(t *testing.T) {
	c := NewInMemoryRecommendationCache(time.Minute)
	c.maxEntries = 3
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		bill := decimal.NewFromInt(int64(i))
		require.NoError(t, c.Set(ctx, 0, bill, &catalogapp.RecommendationResult{BillAmount: bill}))
	}
	assert.LessOrEqual(t, c.Size(), 3)
}

func TestInMemoryRecommendationCache_Concurrent(t *testing.T) {
	c := NewInMemoryRecommendationCache(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bill := decimal.NewFromInt(int64(i % 5))
			_, gen, _, _ := c.Get(ctx, bill)
			_ = c.Set(ctx, gen, bill, &catalogapp.RecommendationResult{BillAmount: bill})
			if i%7 == 0 {
				_ = c.Invalidate(ctx)
			}
		}(i)
	}
	wg.Wait()
}

func TestNoopRecommendationCache(t *testing.T) {
	var c NoopRecommendationCache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, decimal.NewFromInt(1), &catalogapp.RecommendationResult{}))
	_, _, found, err := c.Get(ctx, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx))
}
