package domain

import (
	"context"
	"time"
)

type VirtualAccountRequest struct {
	ExternalID   string
	BankCode     string
	CustomerName string
	Amount       int64
	SingleUse    bool
	ExpiresAt    time.Time
}

// VirtualAccountResult carries what the gateway issued. Some gateways
// answer a VA request with a hosted checkout URL in the account-number
// slot when the bank channel cannot issue a dedicated number; callers
// must check RedirectURL before trusting AccountNumber.
type VirtualAccountResult struct {
	ReferenceID   string
	ExternalID    string
	BankCode      string
	AccountNumber string
	RedirectURL   string
	ExpiresAt     *time.Time
}

type InvoiceRequest struct {
	ExternalID  string
	Amount      int64
	PayerEmail  string
	Description string
	Duration    time.Duration
	// AllowedMethods constrains the hosted page to specific channels so
	// the payer is not asked to re-pick a payment method.
	AllowedMethods []string
}

type InvoiceResult struct {
	ReferenceID string
	InvoiceURL  string
	ExpiresAt   *time.Time
}

// PaymentGateway is the external payment provider. Calls must be
// time-bounded through ctx; transport failures and timeouts surface as
// ErrGatewayUnreachable.
type PaymentGateway interface {
	CreateVirtualAccount(ctx context.Context, req VirtualAccountRequest) (*VirtualAccountResult, error)
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*InvoiceResult, error)
}
