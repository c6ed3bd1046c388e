package billing

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
)

// ReportDocument is everything a renderer needs to lay out one report
type ReportDocument struct {
	Report       *billing.BillingReport
	CustomerName string
	ProductNames map[uuid.UUID]string
}

// ProductName returns the display name of a product, its id when unknown
func (d *ReportDocument) ProductName(id uuid.UUID) string {
	if name, ok := d.ProductNames[id]; ok && name != "" {
		return name
	}
	return id.String()
}

// ReportRenderer renders a report into one file format
type ReportRenderer interface {
	// Format is the short name used in requests and file extensions, e.g. "txt"
	Format() string
	ContentType() string
	Render(ctx context.Context, doc *ReportDocument) ([]byte, error)
}

// ReportFileStore keeps rendered report files
type ReportFileStore interface {
	// Put stores data under key and returns the path to record for later retrieval
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// ReportCache caches report views by report id
type ReportCache interface {
	Get(ctx context.Context, id uuid.UUID) (*BillingReportResponse, bool, error)
	Set(ctx context.Context, report *BillingReportResponse) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BillingMetrics records billing activity
type BillingMetrics interface {
	RecordReportGenerated(ctx context.Context, report *billing.Report, elapsed time.Duration)
	RecordActionRecorded(ctx context.Context, action *billing.Action)
}

type noopMetrics struct{}

func (noopMetrics) RecordReportGenerated(context.Context, *billing.Report, time.Duration) {}
func (noopMetrics) RecordActionRecorded(context.Context, *billing.Action)                 {}
