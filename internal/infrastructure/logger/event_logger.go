package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ChannelProvisionLog is an audit row written every time the provisioner
// resolves or redirects a payment channel.
type ChannelProvisionLog struct {
	ID            uint `gorm:"primaryKey"`
	TransactionID string
	ExternalID    string
	Branch        string
	Resolved      bool
	BankCode      string
	RedirectURL   string
	Amount        int64
	Timestamp     time.Time
}

// CommissionRepairLog records each conversion the reconciliation engine
// restored, with the operator who triggered the run.
type CommissionRepairLog struct {
	ID               uint `gorm:"primaryKey"`
	TransactionID    string
	AffiliateID      string
	CommissionAmount int64
	CommissionRate   float64
	Operator         string
	Timestamp        time.Time
}

type PaymentEventLogger interface {
	LogChannelProvisioned(ctx context.Context, event ChannelProvisionLog) error
	LogCommissionRepaired(ctx context.Context, event CommissionRepairLog) error
}

type PGPaymentEventLogger struct {
	db *gorm.DB
}

func NewPGPaymentEventLogger(db *gorm.DB) *PGPaymentEventLogger {
	db.AutoMigrate(&ChannelProvisionLog{}, &CommissionRepairLog{})
	return &PGPaymentEventLogger{db: db}
}

func (l *PGPaymentEventLogger) LogChannelProvisioned(ctx context.Context, event ChannelProvisionLog) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGPaymentEventLogger) LogCommissionRepaired(ctx context.Context, event CommissionRepairLog) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
