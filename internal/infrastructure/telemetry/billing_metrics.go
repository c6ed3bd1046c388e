package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadbill/backend/internal/domain/billing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Attribute keys used by billing instruments
var (
	AttrCustomerID      = attribute.Key("customer_id")
	AttrLeadType        = attribute.Key("lead_type")
	AttrActionType      = attribute.Key("action_type")
	AttrEngagementLevel = attribute.Key("engagement_level")
	AttrCapReached      = attribute.Key("cap_reached")
)

// ReportDurationBuckets are histogram boundaries in seconds
var ReportDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// BillingMetrics records report and action activity as OpenTelemetry instruments.
type BillingMetrics struct {
	reportsGenerated metric.Int64Counter
	reportDuration   metric.Float64Histogram
	actionsBilled    metric.Int64Counter
	actionsDuplicate metric.Int64Counter
	billedAmount     metric.Float64Counter
	savingsAmount    metric.Float64Counter
	actionsRecorded  metric.Int64Counter
}

// NewBillingMetrics creates the billing instruments on meter
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &BillingMetrics{}
	var err error

	if m.reportsGenerated, err = meter.Int64Counter("billing.reports.generated",
		metric.WithDescription("Billing reports generated"),
		metric.WithUnit("{report}")); err != nil {
		return nil, instrumentErr("billing.reports.generated", err)
	}
	if m.reportDuration, err = meter.Float64Histogram("billing.report.duration",
		metric.WithDescription("Time to price and aggregate a report"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ReportDurationBuckets...)); err != nil {
		return nil, instrumentErr("billing.report.duration", err)
	}
	if m.actionsBilled, err = meter.Int64Counter("billing.actions.billed",
		metric.WithDescription("Actions billed in generated reports"),
		metric.WithUnit("{action}")); err != nil {
		return nil, instrumentErr("billing.actions.billed", err)
	}
	if m.actionsDuplicate, err = meter.Int64Counter("billing.actions.duplicate",
		metric.WithDescription("Actions not billed as duplicates"),
		metric.WithUnit("{action}")); err != nil {
		return nil, instrumentErr("billing.actions.duplicate", err)
	}
	if m.billedAmount, err = meter.Float64Counter("billing.amount.billed",
		metric.WithDescription("Total billed amount after the cap")); err != nil {
		return nil, instrumentErr("billing.amount.billed", err)
	}
	if m.savingsAmount, err = meter.Float64Counter("billing.amount.savings",
		metric.WithDescription("Duplicate and cap savings")); err != nil {
		return nil, instrumentErr("billing.amount.savings", err)
	}
	if m.actionsRecorded, err = meter.Int64Counter("billing.actions.recorded",
		metric.WithDescription("Lead actions recorded"),
		metric.WithUnit("{action}")); err != nil {
		return nil, instrumentErr("billing.actions.recorded", err)
	}

	return m, nil
}

func instrumentErr(name string, err error) error {
	return fmt.Errorf("failed to create instrument %s: %w", name, err)
}

// RecordReportGenerated records one generated report
func (m *BillingMetrics) RecordReportGenerated(ctx context.Context, report *billing.Report, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		AttrCustomerID.String(report.CustomerID.String()),
		AttrCapReached.Bool(report.CapReached),
	)
	m.reportsGenerated.Add(ctx, 1, attrs)
	m.reportDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.actionsBilled.Add(ctx, int64(report.BilledCount()), attrs)
	m.actionsDuplicate.Add(ctx, int64(report.DuplicateCount()), attrs)
	m.billedAmount.Add(ctx, report.TotalBilledAmount.InexactFloat64(), attrs)
	m.savingsAmount.Add(ctx, report.TotalSavingsAmount.InexactFloat64(), attrs)
}

// RecordActionRecorded records one stored action
func (m *BillingMetrics) RecordActionRecorded(ctx context.Context, action *billing.Action) {
	m.actionsRecorded.Add(ctx, 1, metric.WithAttributes(
		AttrLeadType.String(string(action.LeadType)),
		AttrActionType.String(string(action.ActionType)),
		AttrEngagementLevel.String(string(action.EngagementLevel)),
	))
}
