// Package inquiry holds customer quote requests raised from the recommendation widget.
package inquiry

import (
	"context"
	"net/mail"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the follow-up state of a quote request
type QuoteStatus string

const (
	QuoteStatusNew       QuoteStatus = "new"
	QuoteStatusContacted QuoteStatus = "contacted"
	QuoteStatusClosed    QuoteStatus = "closed"
)

// IsValid reports whether the status is known
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusNew, QuoteStatusContacted, QuoteStatusClosed:
		return true
	}
	return false
}

// QuoteRequest is a customer's request to be contacted with an offer
type QuoteRequest struct {
	shared.BaseEntity
	FullName    string
	Email       string
	Phone       string
	City        string
	MonthlyBill decimal.Decimal
	PackageID   *uuid.UUID
	Message     string
	Status      QuoteStatus
}

// ContactDetails groups the customer-supplied fields of a quote request
type ContactDetails struct {
	FullName string
	Email    string
	Phone    string
	City     string
	Message  string
}

// NewQuoteRequest creates a new quote request in the "new" state
func NewQuoteRequest(contact ContactDetails, monthlyBill decimal.Decimal, packageID *uuid.UUID) (*QuoteRequest, error) {
	name := strings.TrimSpace(contact.FullName)
	if name == "" {
		return nil, shared.NewValidationError("Full name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Full name cannot exceed 200 characters")
	}
	email := strings.TrimSpace(contact.Email)
	phone := strings.TrimSpace(contact.Phone)
	if email == "" && phone == "" {
		return nil, shared.NewValidationError("Either email or phone is required")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, shared.NewValidationError("Email address is invalid")
		}
	}
	if !shared.AmountInRange(monthlyBill) {
		return nil, shared.NewValidationError("Monthly bill is out of range")
	}
	if monthlyBill.IsNegative() {
		return nil, shared.NewValidationError("Monthly bill cannot be negative")
	}
	if len(contact.Message) > 4000 {
		return nil, shared.NewValidationError("Message cannot exceed 4000 characters")
	}

	return &QuoteRequest{
		BaseEntity:  shared.NewBaseEntity(),
		FullName:    name,
		Email:       strings.ToLower(email),
		Phone:       phone,
		City:        strings.TrimSpace(contact.City),
		MonthlyBill: monthlyBill,
		PackageID:   packageID,
		Message:     contact.Message,
		Status:      QuoteStatusNew,
	}, nil
}

// TransitionTo moves the request along new -> contacted -> closed.
// A new request may also be closed directly.
func (q *QuoteRequest) TransitionTo(status QuoteStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Quote status must be new, contacted or closed")
	}
	allowed := false
	switch q.Status {
	case QuoteStatusNew:
		allowed = status == QuoteStatusContacted || status == QuoteStatusClosed
	case QuoteStatusContacted:
		allowed = status == QuoteStatusClosed
	}
	if !allowed {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot move quote request from "+string(q.Status)+" to "+string(status))
	}
	q.Status = status
	q.Touch()
	return nil
}

// QuoteRequestRepository defines persistence for quote requests
type QuoteRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*QuoteRequest, error)
	// FindAll supports the "status" filter key
	FindAll(ctx context.Context, filter shared.Filter) ([]QuoteRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, quote *QuoteRequest) error
}
