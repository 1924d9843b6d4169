package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	publisher "github.com/eksporyuk/payment-core-service/internal/infrastructure/kafka"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/logger"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/metrics"
	"github.com/eksporyuk/payment-core-service/internal/usecase/commission"
	"github.com/google/uuid"
)

// DefaultWindowLimit caps date-window candidate queries so a run can
// never degenerate into a full-table scan.
const DefaultWindowLimit = 500

// Skip reasons for the report and metrics.
const (
	reasonNotSettled        = "not_settled"
	reasonNotCommissionable = "not_commissionable"
	reasonNoAffiliate       = "no_affiliate"
	reasonHasConversion     = "has_conversion"
	reasonZeroRate          = "zero_rate"
	reasonUnresolved        = "unresolved_affiliate"
	reasonDuplicate         = "duplicate_prevented"
	reasonItemError         = "item_error"
)

// RunInput selects the candidate batch: either an explicit id list or a
// capped date window. Operator identifies who triggered the run.
type RunInput struct {
	TransactionIDs []string
	From           time.Time
	To             time.Time
	Limit          int
	Operator       string
}

type Report struct {
	Scanned            int   `json:"scanned"`
	Repaired           int   `json:"repaired"`
	Skipped            int   `json:"skipped"`
	TotalValueRestored int64 `json:"totalValueRestored"`
}

type EventPublisher interface {
	PublishCommissionRepaired(event publisher.CommissionRepairedEvent) error
}

// Engine detects settled affiliate-referred transactions that are missing
// their commission record and repairs them. Reruns are harmless: the
// zero-existing-conversions filter plus the unique (transaction,
// affiliate) constraint make every repair happen at most once.
type Engine struct {
	TxRepo    domain.TransactionRepository
	ConvRepo  domain.ConversionRepository
	Catalog   domain.MembershipCatalog
	Directory domain.AffiliateDirectory
	Publisher EventPublisher
	Metrics   *metrics.PaymentMetrics
	// EventLog, when set, records every repaired conversion for audit.
	EventLog logger.PaymentEventLogger
}

func NewEngine(
	txRepo domain.TransactionRepository,
	convRepo domain.ConversionRepository,
	catalog domain.MembershipCatalog,
	directory domain.AffiliateDirectory,
	eventPublisher EventPublisher,
	paymentMetrics *metrics.PaymentMetrics,
) *Engine {
	return &Engine{
		TxRepo:    txRepo,
		ConvRepo:  convRepo,
		Catalog:   catalog,
		Directory: directory,
		Publisher: eventPublisher,
		Metrics:   paymentMetrics,
	}
}

// Run processes the batch sequentially. A per-item failure is counted as
// skipped and never aborts the rest - partial progress is the contract.
func (e *Engine) Run(ctx context.Context, input RunInput) (*Report, error) {
	start := time.Now()
	slog.Info("reconciliation run started",
		"operator", input.Operator, "explicit_ids", len(input.TransactionIDs))

	candidates, err := e.loadCandidates(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("loading reconciliation candidates: %w", err)
	}

	report := &Report{}
	for _, tx := range candidates {
		report.Scanned++
		if e.Metrics != nil {
			e.Metrics.ReconciliationScannedTotal.Inc()
		}

		restored, reason, err := e.repairOne(ctx, tx, input.Operator)
		if err != nil {
			slog.Error("reconciliation item failed",
				"transaction_id", tx.ID, "error", err.Error())
			e.skip(report, reasonItemError)
			continue
		}
		if reason != "" {
			e.skip(report, reason)
			continue
		}

		report.Repaired++
		report.TotalValueRestored += restored
		if e.Metrics != nil {
			e.Metrics.ReconciliationRepairedTotal.Inc()
			e.Metrics.CommissionRestoredTotal.Add(float64(restored))
		}
	}

	slog.Info("reconciliation run finished",
		"scanned", report.Scanned,
		"repaired", report.Repaired,
		"skipped", report.Skipped,
		"restored", report.TotalValueRestored,
		"elapsed", time.Since(start))
	return report, nil
}

func (e *Engine) loadCandidates(ctx context.Context, input RunInput) ([]*domain.Transaction, error) {
	if len(input.TransactionIDs) > 0 {
		return e.TxRepo.FindByIDs(ctx, input.TransactionIDs)
	}
	if input.From.IsZero() || input.To.IsZero() {
		return nil, fmt.Errorf("reconciliation needs explicit ids or a bounded date window")
	}
	limit := input.Limit
	if limit <= 0 || limit > DefaultWindowLimit {
		limit = DefaultWindowLimit
	}
	return e.TxRepo.FindSettledWithAffiliate(ctx, input.From, input.To, limit)
}

// repairOne returns the restored value, or a non-empty skip reason for
// legitimately non-commissionable items.
func (e *Engine) repairOne(ctx context.Context, tx *domain.Transaction, operator string) (int64, string, error) {
	if !tx.Settled() {
		return 0, reasonNotSettled, nil
	}
	if !tx.Type.Commissionable() {
		return 0, reasonNotCommissionable, nil
	}
	if !tx.HasAffiliate() {
		return 0, reasonNoAffiliate, nil
	}

	existing, err := e.ConvRepo.CountByTransactionID(ctx, tx.ID)
	if err != nil {
		return 0, "", err
	}
	if existing > 0 {
		return 0, reasonHasConversion, nil
	}

	rate, commissionType, err := e.Catalog.GetCommissionRate(ctx, tx.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return 0, reasonZeroRate, nil
		}
		return 0, "", err
	}
	if rate <= 0 {
		// Zero rate is a business decision, not a defect.
		return 0, reasonZeroRate, nil
	}

	profile, err := e.Directory.ResolveProfile(ctx, *tx.AffiliateUserID)
	if err != nil {
		if errors.Is(err, domain.ErrAffiliateNotFound) {
			return 0, reasonUnresolved, nil
		}
		return 0, "", err
	}

	amount := commission.CalculateTyped(tx.AmountInfo.Amount, rate, commissionType)
	if amount <= 0 {
		return 0, reasonZeroRate, nil
	}

	conv := &domain.AffiliateConversion{
		ID:               uuid.New().String(),
		AffiliateID:      profile.ID,
		TransactionID:    tx.ID,
		CommissionAmount: amount,
		CommissionRate:   rate,
		CommissionType:   commissionType,
		PaidOut:          false,
	}
	if err := e.ConvRepo.Create(ctx, conv); err != nil {
		if errors.Is(err, domain.ErrDuplicateCommission) {
			// The unique constraint caught a concurrent or earlier repair.
			// Look up the surviving row so operators can audit which
			// conversion won the race.
			if existing, lookupErr := e.ConvRepo.GetByTransactionAndAffiliate(
				ctx, tx.ID, profile.ID,
			); lookupErr == nil && existing != nil {
				slog.Info("duplicate commission prevented",
					"transaction_id", tx.ID,
					"affiliate_id", profile.ID,
					"existing_conversion_id", existing.ID,
					"existing_amount", existing.CommissionAmount,
				)
			}
			return 0, reasonDuplicate, nil
		}
		return 0, "", err
	}

	e.notify(conv, operator)
	return amount, "", nil
}

func (e *Engine) skip(report *Report, reason string) {
	report.Skipped++
	if e.Metrics != nil {
		e.Metrics.ReconciliationSkippedTotal.WithLabelValues(reason).Inc()
	}
}

func (e *Engine) notify(conv *domain.AffiliateConversion, operator string) {
	now := time.Now()
	if e.EventLog != nil {
		entry := logger.CommissionRepairLog{
			TransactionID:    conv.TransactionID,
			AffiliateID:      conv.AffiliateID,
			CommissionAmount: conv.CommissionAmount,
			CommissionRate:   conv.CommissionRate,
			Operator:         operator,
			Timestamp:        now,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.EventLog.LogCommissionRepaired(ctx, entry); err != nil {
				slog.Error("failed to log commission repair", "error", err.Error())
			}
		}()
	}

	if e.Publisher == nil {
		return
	}
	event := publisher.CommissionRepairedEvent{
		TransactionID:    conv.TransactionID,
		AffiliateID:      conv.AffiliateID,
		CommissionAmount: conv.CommissionAmount,
		CommissionRate:   conv.CommissionRate,
		Operator:         operator,
		OccurredAt:       now,
	}
	go func() {
		if err := e.Publisher.PublishCommissionRepaired(event); err != nil {
			slog.Error("failed to publish CommissionRepairedEvent", "error", err.Error())
		}
	}()
}
