package inquiry

import (
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/inquiry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest is submitted by a customer from the recommendation widget
type CreateQuoteRequest struct {
	FullName    string          `json:"full_name" binding:"required,min=1,max=200"`
	Email       string          `json:"email" binding:"omitempty,email,max=254"`
	Phone       string          `json:"phone" binding:"omitempty,max=32"`
	City        string          `json:"city" binding:"max=100"`
	MonthlyBill decimal.Decimal `json:"monthly_bill"`
	PackageID   *uuid.UUID      `json:"package_id"`
	Message     string          `json:"message" binding:"max=4000"`
}

// UpdateQuoteStatusRequest moves a quote request to a new status
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted closed"`
}

// QuoteListFilter represents filter options for the quote request list
type QuoteListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=new contacted closed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteResponse represents a quote request in API responses
type QuoteResponse struct {
	ID          uuid.UUID       `json:"id"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	City        string          `json:"city"`
	MonthlyBill decimal.Decimal `json:"monthly_bill"`
	PackageID   *uuid.UUID      `json:"package_id"`
	Message     string          `json:"message"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToQuoteResponse converts a domain quote request to a response DTO
func ToQuoteResponse(q *inquiry.QuoteRequest) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		FullName:    q.FullName,
		Email:       q.Email,
		Phone:       q.Phone,
		City:        q.City,
		MonthlyBill: q.MonthlyBill,
		PackageID:   q.PackageID,
		Message:     q.Message,
		Status:      string(q.Status),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// ToQuoteResponses converts a slice of domain quote requests to response DTOs
func ToQuoteResponses(quotes []inquiry.QuoteRequest) []QuoteResponse {
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses
}
