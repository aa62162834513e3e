package bank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

// counterValues sums the data points of a counter by the value of one attribute.
func counterValues(t *testing.T, reader *sdkmetric.ManualReader, name string, key attribute.Key) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	values := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "expected Sum[int64], got %T", m.Data)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(key)
				values[v.AsString()] += dp.Value
			}
		}
	}
	return values
}

func TestMetrics(t *testing.T) {
	m, reader := newTestMetrics(t)
	as := newTestSystem(t)
	a := newTestAccount(t, as, 1, 0, WithMetrics(m))
	b := newTestAccount(t, as, 2, 0, WithMetrics(m))
	ctx := testContext(t)

	_, err := AskDeposit(ctx, a, 100)
	require.NoError(t, err)
	_, err = AskDeposit(ctx, a, -1)
	require.NoError(t, err)
	_, err = a.Ask(ctx, "garbage")
	require.NoError(t, err)

	s, err := RunTransfer(ctx, as, a, b, 40, WithMetrics(m))
	require.NoError(t, err)
	require.Equal(t, TransferDone, s)
	s, err = RunTransfer(ctx, as, b, a, -3, WithMetrics(m))
	require.NoError(t, err)
	require.Equal(t, TransferFailed, s)

	results := counterValues(t, reader, MetricAccountOperations, "result")
	assert.Equal(t, int64(4), results["done"])
	assert.Equal(t, int64(2), results["failed"])

	outcomes := counterValues(t, reader, MetricTransfers, "outcome")
	assert.Equal(t, int64(1), outcomes["done"])
	assert.Equal(t, int64(1), outcomes["failed"])

	assert.Equal(t, int64(1), counterValues(t, reader, MetricTransfersStranded, "")[""])
	assert.Equal(t, int64(1), counterValues(t, reader, MetricProtocolViolations, "actor")["account-1"])
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.accountOp(context.Background(), "deposit", Done)
		m.transfer(context.Background(), TransferDone, true)
		m.violation(context.Background(), "x")
	})
	assert.NotNil(t, NopMetrics())
}
