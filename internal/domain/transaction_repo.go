package domain

import (
	"context"
	"time"
)

// ChannelPatch is the conditional channel write produced by the
// provisioner. Repositories must apply it without ever overwriting an
// already-resolved real account number.
type ChannelPatch struct {
	AccountNumber   *string
	BankCode        *string
	BankName        *string
	GatewayRef      *string
	Placeholder     *bool
	PaymentURL      *string
	PaymentProvider *string
	PaymentMethod   *string
	ExpiresAt       *time.Time
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetByExternalID(ctx context.Context, externalID string) (*Transaction, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Transaction, error)
	// FindSettledWithAffiliate returns PAID transactions carrying an
	// affiliate reference inside the window, capped at limit.
	FindSettledWithAffiliate(ctx context.Context, from, to time.Time, limit int) ([]*Transaction, error)
	UpdateChannel(ctx context.Context, id string, patch ChannelPatch) error
	UpdateStatus(ctx context.Context, id string, status TransactionStatus) error
	MarkPaidByExternalID(ctx context.Context, externalID string, paidAt time.Time) error
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

type ConversionRepository interface {
	Create(ctx context.Context, conv *AffiliateConversion) error
	CountByTransactionID(ctx context.Context, transactionID string) (int64, error)
	GetByTransactionAndAffiliate(ctx context.Context, transactionID, affiliateID string) (*AffiliateConversion, error)
}

type AffiliateDirectory interface {
	// ResolveProfile maps the referring user to their affiliate profile.
	ResolveProfile(ctx context.Context, userID string) (*AffiliateProfile, error)
}

type MembershipCatalog interface {
	GetByID(ctx context.Context, id string) (*Membership, error)
	// GetCommissionRate returns the percentage (0-100) configured on the
	// membership or product.
	GetCommissionRate(ctx context.Context, id string) (float64, CommissionType, error)
}
