package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics covers the two hot paths: channel provisioning and
// commission reconciliation.
type PaymentMetrics struct {
	ChannelResolvedTotal    prometheus.CounterVec
	ChannelRedirectTotal    prometheus.CounterVec
	ChannelUnavailableTotal prometheus.Counter
	ProvisionLockedTotal    prometheus.Counter

	GatewayRequestDuration prometheus.HistogramVec
	GatewayErrorsTotal     prometheus.CounterVec

	ReconciliationScannedTotal  prometheus.Counter
	ReconciliationRepairedTotal prometheus.Counter
	ReconciliationSkippedTotal  prometheus.CounterVec
	CommissionRestoredTotal     prometheus.Counter

	TransactionsExpiredTotal prometheus.Counter
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		ChannelResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_channel_resolved_total",
				Help: "Resolved bank-transfer channels by cascade branch",
			},
			[]string{"branch", "bank_code"},
		),
		ChannelRedirectTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_channel_redirect_total",
				Help: "Provisioning outcomes that redirect to a hosted page",
			},
			[]string{"branch"},
		),
		ChannelUnavailableTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_channel_unavailable_total",
				Help: "Terminal provisioning failures needing escalation",
			},
		),
		ProvisionLockedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_provision_locked_total",
				Help: "Provisioning attempts rejected by the per-transaction lock",
			},
		),
		GatewayRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_gateway_request_duration_seconds",
				Help:    "External gateway call latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "success"},
		),
		GatewayErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_errors_total",
				Help: "External gateway failures by operation",
			},
			[]string{"operation"},
		),
		ReconciliationScannedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_reconciliation_scanned_total",
				Help: "Transactions examined by reconciliation runs",
			},
		),
		ReconciliationRepairedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_reconciliation_repaired_total",
				Help: "Conversions created by reconciliation runs",
			},
		),
		ReconciliationSkippedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_reconciliation_skipped_total",
				Help: "Transactions skipped by reconciliation, by reason",
			},
			[]string{"reason"},
		),
		CommissionRestoredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_value_restored_total",
				Help: "Total commission value restored by reconciliation",
			},
		),
		TransactionsExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_expired_total",
				Help: "Pending transactions marked expired by the sweeper",
			},
		),
	}
}

func (m *PaymentMetrics) ObserveGateway(operation string, start time.Time, err error) {
	success := "true"
	if err != nil {
		success = "false"
		m.GatewayErrorsTotal.WithLabelValues(operation).Inc()
	}
	m.GatewayRequestDuration.WithLabelValues(operation, success).Observe(time.Since(start).Seconds())
}
