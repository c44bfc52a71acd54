package persistence

import (
	"context"
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/inquiry"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuote(t *testing.T, name, city string, bill int64) *inquiry.QuoteRequest {
	t.Helper()
	q, err := inquiry.NewQuoteRequest(inquiry.ContactDetails{
		FullName: name,
		Email:    "customer@example.com",
		City:     city,
	}, decimal.NewFromInt(bill), nil)
	require.NoError(t, err)
	return q
}

func TestGormQuoteRequestRepository(t *testing.T) {
	repo := NewGormQuoteRequestRepository(setupTestDB(t))
	ctx := context.Background()

	packageID := uuid.New()
	first := newTestQuote(t, "Ayse Demir", "Izmir", 1100)
	first.PackageID = &packageID
	second := newTestQuote(t, "Mehmet Kaya", "Ankara", 2400)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	t.Run("round trips optional package id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, found.PackageID)
		assert.Equal(t, packageID, *found.PackageID)
		assert.Equal(t, inquiry.QuoteStatusNew, found.Status)

		other, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Nil(t, other.PackageID)
	})

	t.Run("status transitions are persisted", func(t *testing.T) {
		require.NoError(t, second.TransitionTo(inquiry.QuoteStatusContacted))
		require.NoError(t, repo.Save(ctx, second))

		filter := shared.Filter{Equals: map[string]string{"status": string(inquiry.QuoteStatusContacted)}}
		contacted, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, contacted, 1)
		assert.Equal(t, second.ID, contacted[0].ID)

		count, err := repo.Count(ctx, shared.Filter{Equals: map[string]string{"status": string(inquiry.QuoteStatusNew)}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("lists newest first by default", func(t *testing.T) {
		all, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
	})

	t.Run("search matches city", func(t *testing.T) {
		found, err := repo.FindAll(ctx, shared.Filter{Search: "izmir"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, first.ID, found[0].ID)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
