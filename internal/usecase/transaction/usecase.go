package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/metrics"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/notifier"
	"github.com/eksporyuk/payment-core-service/internal/usecase/commission"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const defaultPendingTTL = 24 * time.Hour

type CheckoutInput struct {
	UserID          string
	Type            domain.TransactionType
	ProductID       string
	Amount          int64
	DiscountAmount  int64
	BankCode        string
	BankName        string
	Customer        domain.CustomerInfo
	Description     string
	AffiliateUserID string
	PendingTTL      time.Duration
}

type CommissionPreview struct {
	Amount         int64                 `json:"amount"`
	CommissionRate float64               `json:"commissionRate"`
	CommissionType domain.CommissionType `json:"commissionType"`
	AffiliateShare int64                 `json:"affiliateShare"`
	Remainder      int64                 `json:"remainder"`
}

type DefaultTransactionUsecase struct {
	TxRepo  domain.TransactionRepository
	Catalog domain.MembershipCatalog
	Metrics *metrics.PaymentMetrics
	// SettlementCallbackURL, when set, receives a webhook for every
	// settled transaction.
	SettlementCallbackURL string
}

func NewDefaultTransactionUsecase(
	txRepo domain.TransactionRepository,
	catalog domain.MembershipCatalog,
	paymentMetrics *metrics.PaymentMetrics,
) *DefaultTransactionUsecase {
	return &DefaultTransactionUsecase{
		TxRepo:  txRepo,
		Catalog: catalog,
		Metrics: paymentMetrics,
	}
}

// CreateCheckout records a PENDING transaction. No gateway call happens
// here: the payment channel is provisioned lazily on the first view.
func (uc *DefaultTransactionUsecase) CreateCheckout(ctx context.Context, input CheckoutInput) (*domain.Transaction, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("checkout amount must be positive, got %d", input.Amount)
	}
	if input.DiscountAmount < 0 {
		return nil, fmt.Errorf("discount cannot be negative, got %d", input.DiscountAmount)
	}

	invoiceGen, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	ttl := input.PendingTTL
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}

	now := time.Now()
	expiredAt := now.Add(ttl)
	tx := &domain.Transaction{
		ID:            uuid.New().String(),
		InvoiceNumber: "INV-" + strings.ToUpper(invoiceGen()),
		ExternalID:    "TXN-" + uuid.New().String(),
		UserID:        input.UserID,
		Type:          input.Type,
		Status:        domain.StatusPending,
		AmountInfo: domain.AmountInfo{
			Amount:         input.Amount,
			OriginalAmount: input.Amount + input.DiscountAmount,
			DiscountAmount: input.DiscountAmount,
		},
		Customer:    input.Customer,
		Description: input.Description,
		ProductID:   input.ProductID,
		Channel: domain.ChannelMeta{
			BankCode: input.BankCode,
			BankName: input.BankName,
		},
		ExpiredAt: &expiredAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.AffiliateUserID != "" {
		affiliate := input.AffiliateUserID
		tx.AffiliateUserID = &affiliate
	}

	if err := uc.TxRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating checkout transaction: %w", err)
	}

	slog.Info("checkout created",
		"transaction_id", tx.ID,
		"invoice_number", tx.InvoiceNumber,
		"type", string(tx.Type),
		"amount", tx.AmountInfo.Amount,
		"has_affiliate", tx.HasAffiliate())

	return tx, nil
}

func (uc *DefaultTransactionUsecase) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.TxRepo.GetByID(ctx, id)
}

func (uc *DefaultTransactionUsecase) GetByExternalID(ctx context.Context, externalID string) (*domain.Transaction, error) {
	return uc.TxRepo.GetByExternalID(ctx, externalID)
}

// SettleByExternalID flips a PENDING transaction to PAID. Gateway webhook
// deliveries may repeat, a second call finds no pending row and reports
// ErrTransactionNotFound.
func (uc *DefaultTransactionUsecase) SettleByExternalID(ctx context.Context, externalID string, paidAt time.Time) error {
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	if err := uc.TxRepo.MarkPaidByExternalID(ctx, externalID, paidAt); err != nil {
		return err
	}
	slog.Info("transaction settled", "external_id", externalID, "paid_at", paidAt)

	if uc.SettlementCallbackURL != "" {
		if tx, err := uc.TxRepo.GetByExternalID(ctx, externalID); err == nil {
			notifier.SendCallback(uc.SettlementCallbackURL, notifier.CallbackPayload{
				TransactionID: tx.ID,
				InvoiceNumber: tx.InvoiceNumber,
				ExternalID:    tx.ExternalID,
				Status:        string(tx.Status),
				Amount:        tx.AmountInfo.Amount,
				ProductID:     tx.ProductID,
				PaidAt:        paidAt,
			})
		}
	}
	return nil
}

// PreviewCommission shows how a sale at the given amount would split
// between the affiliate and the platform, without writing anything.
func (uc *DefaultTransactionUsecase) PreviewCommission(ctx context.Context, productID string, amount int64) (*CommissionPreview, error) {
	rate, commissionType, err := uc.Catalog.GetCommissionRate(ctx, productID)
	if err != nil {
		return nil, err
	}

	breakdown := commission.Split(amount, rate, commissionType)
	return &CommissionPreview{
		Amount:         amount,
		CommissionRate: rate,
		CommissionType: commissionType,
		AffiliateShare: breakdown.AffiliateShare,
		Remainder:      breakdown.Remainder,
	}, nil
}

// SweepExpired moves overdue PENDING transactions to EXPIRED.
func (uc *DefaultTransactionUsecase) SweepExpired(ctx context.Context) (int64, error) {
	count, err := uc.TxRepo.MarkExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("sweeping expired transactions: %w", err)
	}
	if count > 0 {
		slog.Info("expired transactions swept", "count", count)
		if uc.Metrics != nil {
			uc.Metrics.TransactionsExpiredTotal.Add(float64(count))
		}
	}
	return count, nil
}

// StartExpirySweeper runs SweepExpired on a ticker until ctx is done.
func (uc *DefaultTransactionUsecase) StartExpirySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.SweepExpired(ctx); err != nil {
				slog.Error("expiry sweep failed", "error", err.Error())
			}
		}
	}
}
