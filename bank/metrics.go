package bank

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/Tarjei400/actors-vs-locks/bank"

// Metric names.
const (
	MetricAccountOperations  = "bank.account.operations"
	MetricTransfers          = "bank.transfers"
	MetricTransfersStranded  = "bank.transfers.stranded"
	MetricProtocolViolations = "bank.protocol.violations"
)

// Metrics counts what accounts and transfers do. A nil *Metrics records
// nothing.
type Metrics struct {
	accountOps metric.Int64Counter
	transfers  metric.Int64Counter
	stranded   metric.Int64Counter
	violations metric.Int64Counter
}

// NewMetrics creates the bank counters on a meter of provider. A nil
// provider falls back to the OpenTelemetry no-op provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(meterName)

	var (
		m   Metrics
		err error
	)
	if m.accountOps, err = meter.Int64Counter(MetricAccountOperations,
		metric.WithUnit("1"),
		metric.WithDescription("Withdraw and deposit requests handled by account actors.")); err != nil {
		return nil, err
	}
	if m.transfers, err = meter.Int64Counter(MetricTransfers,
		metric.WithUnit("1"),
		metric.WithDescription("Transfer sagas that reached a terminal state.")); err != nil {
		return nil, err
	}
	if m.stranded, err = meter.Int64Counter(MetricTransfersStranded,
		metric.WithUnit("1"),
		metric.WithDescription("Transfers that withdrew from the source but never credited the destination.")); err != nil {
		return nil, err
	}
	if m.violations, err = meter.Int64Counter(MetricProtocolViolations,
		metric.WithUnit("1"),
		metric.WithDescription("Messages an account or saga did not expect.")); err != nil {
		return nil, err
	}
	return &m, nil
}

// NopMetrics returns counters that record nothing.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

func (m *Metrics) accountOp(ctx context.Context, op string, r TransactionResult) {
	if m == nil {
		return
	}
	m.accountOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", r.String()),
	))
}

func (m *Metrics) transfer(ctx context.Context, s TransferStatus, stranded bool) {
	if m == nil {
		return
	}
	m.transfers.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", s.String())))
	if stranded {
		m.stranded.Add(ctx, 1)
	}
}

func (m *Metrics) violation(ctx context.Context, who string) {
	if m == nil {
		return
	}
	m.violations.Add(ctx, 1, metric.WithAttributes(attribute.String("actor", who)))
}
