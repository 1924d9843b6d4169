package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	publisher "github.com/eksporyuk/payment-core-service/internal/infrastructure/kafka"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/logger"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/metrics"
)

// Branch names, used for metrics and events.
const (
	branchStoredAccount    = "stored_account"
	branchStoredRedirect   = "stored_redirect"
	branchPlaceholder      = "placeholder_invoice"
	branchStalePlaceholder = "stale_placeholder"
	branchTopLevelURL      = "top_level_url"
	branchVACreated        = "va_created"
	branchGatewayURL       = "gateway_url"
	branchInvoiceFallback  = "invoice_fallback"
)

const lockTTL = 30 * time.Second

// Params carries the configurable knobs per invocation. They are explicit
// arguments so the cascade stays testable; nothing is read from globals.
type Params struct {
	// VAExpiry bounds the lifetime of a freshly created virtual account.
	VAExpiry time.Duration
	// InvoiceDuration bounds hosted invoices created as fallback.
	InvoiceDuration time.Duration
	// SelfBaseURL identifies this resolver's own payment pages for the
	// cycle guard on stored redirect URLs.
	SelfBaseURL string
}

type EventPublisher interface {
	PublishChannelProvisioned(event publisher.ChannelProvisionedEvent) error
}

// Provisioner resolves a payment channel for a transaction through a
// fallback cascade against the gateway. Stateless and re-entrant: a
// transient failure is retried by simply invoking it again.
type Provisioner struct {
	TxRepo    domain.TransactionRepository
	Gateway   domain.PaymentGateway
	Locker    domain.ProvisionLocker
	Publisher EventPublisher
	Metrics   *metrics.PaymentMetrics
	// EventLog, when set, keeps a queryable audit trail of every
	// provisioning outcome next to the transactions themselves.
	EventLog logger.PaymentEventLogger
}

func NewProvisioner(
	txRepo domain.TransactionRepository,
	gateway domain.PaymentGateway,
	locker domain.ProvisionLocker,
	eventPublisher EventPublisher,
	paymentMetrics *metrics.PaymentMetrics,
) *Provisioner {
	return &Provisioner{
		TxRepo:    txRepo,
		Gateway:   gateway,
		Locker:    locker,
		Publisher: eventPublisher,
		Metrics:   paymentMetrics,
	}
}

// ResolveChannel returns payment details for the transaction: either a
// dedicated bank account or a redirect to a hosted page. Idempotent - a
// transaction whose channel is already resolved never triggers another
// gateway call, and a real account number is never regenerated.
func (p *Provisioner) ResolveChannel(ctx context.Context, transactionID string, params Params) (*domain.ChannelResult, error) {
	release, err := p.Locker.Acquire(ctx, transactionID, lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrProvisionLocked) && p.Metrics != nil {
			p.Metrics.ProvisionLockedTotal.Inc()
		}
		return nil, err
	}
	defer release()

	tx, err := p.TxRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	stored := strings.TrimSpace(tx.Channel.AccountNumber)

	// 1. A real resolved account number is final. Returned verbatim,
	// no gateway call, no write.
	if stored != "" && !domain.IsChannelURL(stored) && !tx.Channel.Placeholder {
		p.countResolved(branchStoredAccount, tx.Channel.BankCode)
		return domain.ResolvedAccount(p.channelFrom(tx, stored)), nil
	}

	// 2. A previous fallback stored a hosted-invoice link where the
	// account number belongs. Redirect there, skip all VA logic.
	if stored != "" && domain.IsChannelURL(stored) {
		p.countRedirect(branchStoredRedirect)
		return domain.RedirectRequired(stored, "hosted invoice stored as channel"), nil
	}

	// 3. Migration placeholder: the stored number cannot receive money.
	// Replace it with a fresh hosted invoice when the gateway lets us.
	if stored != "" && tx.Channel.Placeholder {
		return p.replacePlaceholder(ctx, tx, stored, params)
	}

	// 4. No channel value at all.
	return p.provisionFresh(ctx, tx, params)
}

func (p *Provisioner) replacePlaceholder(ctx context.Context, tx *domain.Transaction, stored string, params Params) (*domain.ChannelResult, error) {
	slog.Warn("channel metadata holds migration placeholder",
		"transaction_id", tx.ID, "account_number", stored)

	invoice, err := p.createInvoice(ctx, tx, params, nil)
	if err == nil {
		if perr := p.persistRedirect(ctx, tx, invoice, "INVOICE"); perr != nil {
			return nil, perr
		}
		p.countRedirect(branchPlaceholder)
		p.notify(tx, branchPlaceholder, false, invoice.InvoiceURL)
		return domain.RedirectRequired(invoice.InvoiceURL, "placeholder channel replaced by hosted invoice"), nil
	}

	// Degrade instead of failing outright. A stored top-level redirect is
	// the next best thing; the stale placeholder itself is the last.
	slog.Error("placeholder replacement failed, degrading",
		"transaction_id", tx.ID, "error", err)
	if tx.PaymentURL != "" && !p.pointsToSelf(tx.PaymentURL, params.SelfBaseURL) {
		p.countRedirect(branchStalePlaceholder)
		return domain.RedirectRequired(tx.PaymentURL, "placeholder replacement unavailable"), nil
	}
	p.countResolved(branchStalePlaceholder, tx.Channel.BankCode)
	return domain.ResolvedAccount(p.channelFrom(tx, stored)), nil
}

func (p *Provisioner) provisionFresh(ctx context.Context, tx *domain.Transaction, params Params) (*domain.ChannelResult, error) {
	// 4a. A stored redirect target that does not point back into this
	// resolver short-circuits the gateway entirely.
	if tx.PaymentURL != "" && !p.pointsToSelf(tx.PaymentURL, params.SelfBaseURL) {
		p.countRedirect(branchTopLevelURL)
		return domain.RedirectRequired(tx.PaymentURL, "stored payment url"), nil
	}

	bankCode := tx.Channel.BankCode
	if bankCode == "" {
		slog.Error("no bank code on transaction, channel unavailable",
			"transaction_id", tx.ID)
		if p.Metrics != nil {
			p.Metrics.ChannelUnavailableTotal.Inc()
		}
		return nil, fmt.Errorf("%w: transaction %s has no bank channel selected",
			domain.ErrChannelUnavailable, tx.ID)
	}

	// 4b. Create a single-use, amount-bound, time-bound virtual account.
	vaStart := time.Now()
	va, err := p.Gateway.CreateVirtualAccount(ctx, domain.VirtualAccountRequest{
		ExternalID:   tx.ExternalID,
		BankCode:     bankCode,
		CustomerName: tx.Customer.Name,
		Amount:       tx.AmountInfo.Amount,
		SingleUse:    true,
		ExpiresAt:    time.Now().Add(params.VAExpiry),
	})
	if p.Metrics != nil {
		p.Metrics.ObserveGateway("create_virtual_account", vaStart, err)
	}

	if err == nil {
		if va.RedirectURL != "" || domain.IsChannelURL(va.AccountNumber) {
			// Gateway-side fallback: a URL came back in place of a number.
			url := va.RedirectURL
			if url == "" {
				url = va.AccountNumber
			}
			if perr := p.persistRedirect(ctx, tx, &domain.InvoiceResult{
				ReferenceID: va.ReferenceID,
				InvoiceURL:  url,
				ExpiresAt:   va.ExpiresAt,
			}, "INVOICE"); perr != nil {
				return nil, perr
			}
			p.countRedirect(branchGatewayURL)
			p.notify(tx, branchGatewayURL, false, url)
			return domain.RedirectRequired(url, "gateway returned hosted page"), nil
		}

		if va.AccountNumber == "" {
			return nil, fmt.Errorf("%w: gateway returned empty account number for %s",
				domain.ErrInconsistentMetadata, tx.ID)
		}

		if perr := p.persistAccount(ctx, tx, va); perr != nil {
			return nil, perr
		}
		p.countResolved(branchVACreated, bankCode)
		p.notify(tx, branchVACreated, true, "")
		resolved := p.channelFrom(tx, va.AccountNumber)
		resolved.ExpiresAt = va.ExpiresAt
		return domain.ResolvedAccount(resolved), nil
	}

	slog.Warn("virtual account creation failed, trying hosted invoice",
		"transaction_id", tx.ID, "bank_code", bankCode, "error", err)

	// Hosted-invoice fallback constrained to the same bank channel so the
	// payer keeps the method they already picked.
	invoice, invErr := p.createInvoice(ctx, tx, params, []string{bankCode})
	if invErr != nil {
		if errors.Is(err, domain.ErrGatewayUnreachable) && errors.Is(invErr, domain.ErrGatewayUnreachable) {
			// Purely transient: the caller re-invokes.
			return nil, fmt.Errorf("%w: virtual account and invoice fallback both unreachable",
				domain.ErrGatewayUnreachable)
		}
		slog.Error("hosted invoice fallback failed, channel unavailable",
			"transaction_id", tx.ID, "va_error", err, "invoice_error", invErr)
		if p.Metrics != nil {
			p.Metrics.ChannelUnavailableTotal.Inc()
		}
		return nil, fmt.Errorf("%w: no channel could be provisioned for %s",
			domain.ErrChannelUnavailable, tx.ID)
	}

	if perr := p.persistRedirect(ctx, tx, invoice, "INVOICE"); perr != nil {
		return nil, perr
	}
	p.countRedirect(branchInvoiceFallback)
	p.notify(tx, branchInvoiceFallback, false, invoice.InvoiceURL)
	return domain.RedirectRequired(invoice.InvoiceURL, "virtual account unavailable for bank "+bankCode), nil
}

func (p *Provisioner) createInvoice(ctx context.Context, tx *domain.Transaction, params Params, methods []string) (*domain.InvoiceResult, error) {
	start := time.Now()
	invoice, err := p.Gateway.CreateInvoice(ctx, domain.InvoiceRequest{
		ExternalID:     tx.ExternalID,
		Amount:         tx.AmountInfo.Amount,
		PayerEmail:     tx.Customer.Email,
		Description:    tx.Description,
		Duration:       params.InvoiceDuration,
		AllowedMethods: methods,
	})
	if p.Metrics != nil {
		p.Metrics.ObserveGateway("create_invoice", start, err)
	}
	if err != nil {
		return nil, err
	}
	if invoice.InvoiceURL == "" {
		return nil, fmt.Errorf("%w: gateway invoice without url for %s",
			domain.ErrInconsistentMetadata, tx.ExternalID)
	}
	return invoice, nil
}

// persistAccount writes the freshly issued account number. The repository
// applies it conditionally so an existing real number is never clobbered.
func (p *Provisioner) persistAccount(ctx context.Context, tx *domain.Transaction, va *domain.VirtualAccountResult) error {
	falseV := false
	provider := "XENDIT"
	method := "VA_" + va.BankCode
	if err := p.TxRepo.UpdateChannel(ctx, tx.ID, domain.ChannelPatch{
		AccountNumber:   &va.AccountNumber,
		GatewayRef:      &va.ReferenceID,
		Placeholder:     &falseV,
		PaymentProvider: &provider,
		PaymentMethod:   &method,
		ExpiresAt:       va.ExpiresAt,
	}); err != nil {
		return fmt.Errorf("persisting resolved channel for %s: %w", tx.ID, err)
	}
	return nil
}

// persistRedirect stores the hosted-invoice URL in the account-number slot
// as well as PaymentURL. The slot write is what makes the redirect sticky:
// later reads classify the stored value as a URL and keep redirecting
// instead of surfacing a stale placeholder number as resolved.
func (p *Provisioner) persistRedirect(ctx context.Context, tx *domain.Transaction, invoice *domain.InvoiceResult, method string) error {
	falseV := false
	provider := "XENDIT"
	if err := p.TxRepo.UpdateChannel(ctx, tx.ID, domain.ChannelPatch{
		AccountNumber:   &invoice.InvoiceURL,
		PaymentURL:      &invoice.InvoiceURL,
		GatewayRef:      &invoice.ReferenceID,
		Placeholder:     &falseV,
		PaymentProvider: &provider,
		PaymentMethod:   &method,
		ExpiresAt:       invoice.ExpiresAt,
	}); err != nil {
		return fmt.Errorf("persisting redirect url for %s: %w", tx.ID, err)
	}
	return nil
}

func (p *Provisioner) channelFrom(tx *domain.Transaction, accountNumber string) *domain.ResolvedChannel {
	return &domain.ResolvedChannel{
		BankCode:      tx.Channel.BankCode,
		BankName:      tx.Channel.BankName,
		AccountNumber: accountNumber,
		Amount:        tx.AmountInfo.Amount,
		ExpiresAt:     tx.Channel.ExpiresAt,
		InvoiceNumber: tx.InvoiceNumber,
		CustomerName:  tx.Customer.Name,
	}
}

func (p *Provisioner) pointsToSelf(url, selfBaseURL string) bool {
	return selfBaseURL != "" && strings.HasPrefix(url, selfBaseURL)
}

func (p *Provisioner) countResolved(branch, bankCode string) {
	if p.Metrics != nil {
		p.Metrics.ChannelResolvedTotal.WithLabelValues(branch, bankCode).Inc()
	}
}

func (p *Provisioner) countRedirect(branch string) {
	if p.Metrics != nil {
		p.Metrics.ChannelRedirectTotal.WithLabelValues(branch).Inc()
	}
}

func (p *Provisioner) notify(tx *domain.Transaction, branch string, resolved bool, redirectURL string) {
	now := time.Now()
	if p.EventLog != nil {
		entry := logger.ChannelProvisionLog{
			TransactionID: tx.ID,
			ExternalID:    tx.ExternalID,
			Branch:        branch,
			Resolved:      resolved,
			BankCode:      tx.Channel.BankCode,
			RedirectURL:   redirectURL,
			Amount:        tx.AmountInfo.Amount,
			Timestamp:     now,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := p.EventLog.LogChannelProvisioned(ctx, entry); err != nil {
				slog.Error("failed to log channel provisioning", "error", err.Error())
			}
		}()
	}

	if p.Publisher == nil {
		return
	}
	event := publisher.ChannelProvisionedEvent{
		TransactionID: tx.ID,
		ExternalID:    tx.ExternalID,
		Branch:        branch,
		Resolved:      resolved,
		BankCode:      tx.Channel.BankCode,
		RedirectURL:   redirectURL,
		Amount:        tx.AmountInfo.Amount,
		OccurredAt:    now,
	}
	go func() {
		if err := p.Publisher.PublishChannelProvisioned(event); err != nil {
			slog.Error("failed to publish ChannelProvisionedEvent", "error", err.Error())
		}
	}()
}
