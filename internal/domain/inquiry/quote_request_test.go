package inquiry

import (
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuoteRequest(t *testing.T) {
	pkgID := uuid.New()

	t.Run("creates request with email", func(t *testing.T) {
		q, err := NewQuoteRequest(ContactDetails{
			FullName: " Ayse Yilmaz ",
			Email:    "Ayse@Example.com",
			City:     "Izmir",
		}, decimal.NewFromInt(1100), &pkgID)
		require.NoError(t, err)

		assert.Equal(t, "Ayse Yilmaz", q.FullName)
		assert.Equal(t, "ayse@example.com", q.Email)
		assert.Equal(t, QuoteStatusNew, q.Status)
		assert.Equal(t, &pkgID, q.PackageID)
	})

	t.Run("phone alone is enough", func(t *testing.T) {
		_, err := NewQuoteRequest(ContactDetails{FullName: "Mehmet", Phone: "+90 555 000 00 00"}, decimal.Zero, nil)
		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		contact ContactDetails
		bill    decimal.Decimal
	}{
		{"missing name", ContactDetails{Email: "a@b.com"}, decimal.Zero},
		{"missing contact channel", ContactDetails{FullName: "A"}, decimal.Zero},
		{"invalid email", ContactDetails{FullName: "A", Email: "not-an-email"}, decimal.Zero},
		{"negative bill", ContactDetails{FullName: "A", Email: "a@b.com"}, decimal.NewFromInt(-5)},
		{"huge exponent bill", ContactDetails{FullName: "A", Email: "a@b.com"}, decimal.New(1, 10000000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuoteRequest(tt.contact, tt.bill, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestQuoteRequest_TransitionTo(t *testing.T) {
	newQuote := func(t *testing.T) *QuoteRequest {
		q, err := NewQuoteRequest(ContactDetails{FullName: "A", Email: "a@b.com"}, decimal.Zero, nil)
		require.NoError(t, err)
		return q
	}

	t.Run("new to contacted to closed", func(t *testing.T) {
		q := newQuote(t)
		require.NoError(t, q.TransitionTo(QuoteStatusContacted))
		require.NoError(t, q.TransitionTo(QuoteStatusClosed))
		assert.Equal(t, QuoteStatusClosed, q.Status)
	})

	t.Run("new to closed", func(t *testing.T) {
		q := newQuote(t)
		assert.NoError(t, q.TransitionTo(QuoteStatusClosed))
	})

	t.Run("closed is terminal", func(t *testing.T) {
		q := newQuote(t)
		require.NoError(t, q.TransitionTo(QuoteStatusClosed))
		err := q.TransitionTo(QuoteStatusContacted)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown status", func(t *testing.T) {
		q := newQuote(t)
		assert.ErrorIs(t, q.TransitionTo("lost"), shared.ErrValidation)
	})
}
