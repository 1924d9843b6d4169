package domain

import "time"

type CommissionType string

const (
	CommissionPercentage CommissionType = "PERCENTAGE"
	CommissionFlat       CommissionType = "FLAT"
)

// AffiliateProfile identifies a referring party, resolved from the user
// that owns the referral link.
type AffiliateProfile struct {
	ID             string
	UserID         string
	Code           string
	CommissionRate float64
	Active         bool
	CreatedAt      time.Time
}

// AffiliateConversion credits an affiliate a share of one settled
// transaction. At most one conversion exists per (transaction, affiliate)
// pair; once paid out it is immutable.
type AffiliateConversion struct {
	ID               string
	AffiliateID      string
	TransactionID    string
	CommissionAmount int64
	CommissionRate   float64
	CommissionType   CommissionType
	PaidOut          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Membership is the purchasable item carrying the commission rate.
// Read-only to this service.
type Membership struct {
	ID             string
	Name           string
	Slug           string
	Price          int64
	CommissionRate float64
	CommissionType CommissionType
}
