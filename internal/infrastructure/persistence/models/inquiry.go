package models

import (
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/inquiry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequestModel is the persistence model for a customer quote request.
type QuoteRequestModel struct {
	BaseModel
	FullName    string              `gorm:"type:varchar(200);not null"`
	Email       string              `gorm:"type:varchar(200);index"`
	Phone       string              `gorm:"type:varchar(50)"`
	City        string              `gorm:"type:varchar(100)"`
	MonthlyBill decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	PackageID   *uuid.UUID          `gorm:"type:uuid;index"`
	Message     string              `gorm:"type:text"`
	Status      inquiry.QuoteStatus `gorm:"type:varchar(20);not null;default:'new';index"`
}

// TableName returns the table name for GORM
func (QuoteRequestModel) TableName() string {
	return "quote_requests"
}

// ToDomain converts the persistence model to a domain QuoteRequest.
func (m *QuoteRequestModel) ToDomain() *inquiry.QuoteRequest {
	return &inquiry.QuoteRequest{
		BaseEntity:  m.BaseModel.ToDomain(),
		FullName:    m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		City:        m.City,
		MonthlyBill: m.MonthlyBill,
		PackageID:   m.PackageID,
		Message:     m.Message,
		Status:      m.Status,
	}
}

// QuoteRequestModelFromDomain creates a persistence model from a domain QuoteRequest.
func QuoteRequestModelFromDomain(q *inquiry.QuoteRequest) *QuoteRequestModel {
	m := &QuoteRequestModel{
		FullName:    q.FullName,
		Email:       q.Email,
		Phone:       q.Phone,
		City:        q.City,
		MonthlyBill: q.MonthlyBill,
		PackageID:   q.PackageID,
		Message:     q.Message,
		Status:      q.Status,
	}
	m.FromDomainBaseEntity(q.BaseEntity)
	return m
}
