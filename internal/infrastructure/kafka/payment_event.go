package publisher

import "time"

// ChannelProvisionedEvent is emitted whenever the cascade produces new
// channel information for a transaction.
type ChannelProvisionedEvent struct {
	TransactionID string    `json:"transaction_id"`
	ExternalID    string    `json:"external_id"`
	Branch        string    `json:"branch"`
	Resolved      bool      `json:"resolved"`
	BankCode      string    `json:"bank_code,omitempty"`
	RedirectURL   string    `json:"redirect_url,omitempty"`
	Amount        int64     `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CommissionRepairedEvent is emitted per conversion created by a
// reconciliation run.
type CommissionRepairedEvent struct {
	TransactionID    string    `json:"transaction_id"`
	AffiliateID      string    `json:"affiliate_id"`
	CommissionAmount int64     `json:"commission_amount"`
	CommissionRate   float64   `json:"commission_rate"`
	Operator         string    `json:"operator"`
	OccurredAt       time.Time `json:"occurred_at"`
}
