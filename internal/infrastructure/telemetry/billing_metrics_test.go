package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMetrics(t *testing.T) (*BillingMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp, err := NewMeterProviderWithReader("leadbill-test", reader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewBillingMetrics(mp.Meter("billing"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func intSum(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func floatSum(t *testing.T, m metricdata.Metrics) float64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[float64])
	require.True(t, ok, "%s is not a float64 sum", m.Name)
	var total float64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewBillingMetrics_NilMeter(t *testing.T) {
	m, err := NewBillingMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Nil(t, m)
}

func TestBillingMetrics_RecordReportGenerated(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	customerID, productID := uuid.New(), uuid.New()
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	billed, err := billing.NewAction(uuid.New(), customerID, productID, billing.LeadTypeWebsiteVisit, billing.ActionTypeClick, billing.EngagementHigh, ts)
	require.NoError(t, err)
	require.NoError(t, billed.ApplyPrice(decimal.NewFromInt(7)))
	require.NoError(t, billed.MarkBilled())

	dup, err := billing.NewAction(uuid.New(), customerID, productID, billing.LeadTypeWebsiteVisit, billing.ActionTypeClick, billing.EngagementLow, ts)
	require.NoError(t, err)
	require.NoError(t, dup.ApplyPrice(decimal.NewFromInt(3)))
	require.NoError(t, dup.MarkDuplicate())

	report := &billing.Report{
		CustomerID:         customerID,
		Actions:            []*billing.Action{billed, dup},
		TotalBilledAmount:  decimal.NewFromInt(7),
		TotalSavingsAmount: decimal.NewFromInt(3),
	}

	m.RecordReportGenerated(ctx, report, 20*time.Millisecond)
	m.RecordReportGenerated(ctx, report, 30*time.Millisecond)

	got := collect(t, reader)
	assert.Equal(t, int64(2), intSum(t, got["billing.reports.generated"]))
	assert.Equal(t, int64(2), intSum(t, got["billing.actions.billed"]))
	assert.Equal(t, int64(2), intSum(t, got["billing.actions.duplicate"]))
	assert.InDelta(t, 14.0, floatSum(t, got["billing.amount.billed"]), 1e-9)
	assert.InDelta(t, 6.0, floatSum(t, got["billing.amount.savings"]), 1e-9)

	hist, ok := got["billing.report.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.05, hist.DataPoints[0].Sum, 1e-9)
}

func TestBillingMetrics_RecordActionRecorded(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	a, err := billing.NewAction(uuid.New(), uuid.New(), uuid.New(), billing.LeadTypeReferral, billing.ActionTypeSignup, billing.EngagementMedium, time.Now())
	require.NoError(t, err)

	m.RecordActionRecorded(ctx, a)

	got := collect(t, reader)
	recorded := got["billing.actions.recorded"]
	assert.Equal(t, int64(1), intSum(t, recorded))

	sum := recorded.Data.(metricdata.Sum[int64])
	lt, ok := sum.DataPoints[0].Attributes.Value(AttrLeadType)
	require.True(t, ok)
	assert.Equal(t, string(billing.LeadTypeReferral), lt.AsString())
}
