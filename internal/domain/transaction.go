package domain

import "time"

type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusPaid     TransactionStatus = "PAID"
	StatusFailed   TransactionStatus = "FAILED"
	StatusExpired  TransactionStatus = "EXPIRED"
	StatusRefunded TransactionStatus = "REFUNDED"
)

type TransactionType string

const (
	TypeMembership TransactionType = "MEMBERSHIP"
	TypeProduct    TransactionType = "PRODUCT"
	TypeCourse     TransactionType = "COURSE"
)

// Commissionable reports whether transactions of this type ever credit
// a referring affiliate.
func (t TransactionType) Commissionable() bool {
	switch t {
	case TypeMembership, TypeProduct, TypeCourse:
		return true
	}
	return false
}

// ChannelMeta is the per-transaction payment channel state. Historical
// migrations left two quirks the provisioner has to live with: rows where
// AccountNumber actually holds a hosted-invoice URL, and rows flagged
// Placeholder whose number was fabricated and cannot receive money.
type ChannelMeta struct {
	BankCode      string
	BankName      string
	AccountNumber string
	GatewayRef    string
	Placeholder   bool
	ExpiresAt     *time.Time
}

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

type AmountInfo struct {
	Amount         int64
	OriginalAmount int64
	DiscountAmount int64
}

type Transaction struct {
	ID            string
	InvoiceNumber string
	// ExternalID correlates this transaction with gateway resources.
	ExternalID      string
	UserID          string
	Type            TransactionType
	Status          TransactionStatus
	AmountInfo      AmountInfo
	Customer        CustomerInfo
	Description     string
	ProductID       string
	AffiliateUserID *string
	PaymentProvider string
	PaymentMethod   string
	// PaymentURL is the top-level redirect target (hosted invoice or an
	// internal payment page).
	PaymentURL string
	Channel    ChannelMeta
	PaidAt     *time.Time
	ExpiredAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Settled reports whether the gateway confirmed payment.
func (t *Transaction) Settled() bool {
	return t.Status == StatusPaid
}

// HasAffiliate reports whether a referring affiliate is attached.
func (t *Transaction) HasAffiliate() bool {
	return t.AffiliateUserID != nil && *t.AffiliateUserID != ""
}
