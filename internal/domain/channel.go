package domain

import (
	"strings"
	"time"
)

// ResolvedChannel is a dedicated bank account the payer can transfer to.
type ResolvedChannel struct {
	BankCode      string
	BankName      string
	AccountNumber string
	Amount        int64
	ExpiresAt     *time.Time
	InvoiceNumber string
	CustomerName  string
}

// ChannelResult is the provisioning outcome: either a resolved bank
// account or a redirect to a hosted checkout page. The legacy system
// encoded the redirect case as a URL stored inside the account-number
// field; this tagged form replaces that.
type ChannelResult struct {
	Resolved    bool
	Channel     *ResolvedChannel
	RedirectURL string
	Reason      string
}

func ResolvedAccount(ch *ResolvedChannel) *ChannelResult {
	return &ChannelResult{Resolved: true, Channel: ch}
}

func RedirectRequired(url, reason string) *ChannelResult {
	return &ChannelResult{Resolved: false, RedirectURL: url, Reason: reason}
}

// IsChannelURL classifies a stored channel value. Rows migrated from the
// legacy order system may carry a hosted-invoice link where a bank
// account number belongs.
func IsChannelURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}
