package models

import (
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
)

type TransactionModel struct {
	ID               string                   `gorm:"primaryKey;type:uuid"`
	InvoiceNumber    string                   `gorm:"uniqueIndex:idx_invoice_number"`
	ExternalID       string                   `gorm:"uniqueIndex:idx_external_id"`
	UserID           string                   `gorm:"index"`
	Type             domain.TransactionType   `gorm:"index"`
	Status           domain.TransactionStatus `gorm:"index:idx_status_expired"`
	Amount           int64
	OriginalAmount   int64
	DiscountAmount   int64
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Description      string
	ProductID        string  `gorm:"index"`
	AffiliateUserID  *string `gorm:"index"`
	PaymentProvider  string
	PaymentMethod    string
	PaymentURL       string
	BankCode         string
	BankName         string
	AccountNumber    string
	GatewayRef       string
	Placeholder      bool
	ChannelExpiresAt *time.Time
	PaidAt           *time.Time
	ExpiredAt        *time.Time `gorm:"index:idx_status_expired"`
	CreatedAt        time.Time `gorm:"index:idx_created_at"`
	UpdatedAt        time.Time
}
