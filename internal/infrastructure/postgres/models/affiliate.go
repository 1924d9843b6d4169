package models

import (
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
)

type AffiliateProfileModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	UserID         string `gorm:"uniqueIndex:idx_affiliate_user"`
	Code           string `gorm:"uniqueIndex:idx_affiliate_code"`
	CommissionRate float64
	Active         bool
	CreatedAt      time.Time
}

// The composite unique index is the second line of defense against double
// commission: the engine pre-checks, the index settles races.
type AffiliateConversionModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	AffiliateID      string `gorm:"type:uuid;uniqueIndex:idx_conversion_tx_affiliate"`
	TransactionID    string `gorm:"type:uuid;uniqueIndex:idx_conversion_tx_affiliate;index"`
	CommissionAmount int64
	CommissionRate   float64
	CommissionType   domain.CommissionType
	PaidOut          bool `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type MembershipModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Name           string
	Slug           string `gorm:"uniqueIndex:idx_membership_slug"`
	Price          int64
	CommissionRate float64
	CommissionType domain.CommissionType
}
