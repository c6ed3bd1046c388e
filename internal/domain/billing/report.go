package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Report is the billing computation result for one customer over one set of actions.
// It is built once by the ReportEngine and not modified afterwards.
//
// ProductSubtotals only cover billed actions and are not reduced by the cap, so
// when CapReached is true they sum to UncappedTotal rather than TotalBilledAmount.
type Report struct {
	CustomerID         uuid.UUID
	Actions            []*Action
	ProductSubtotals   map[uuid.UUID]decimal.Decimal
	UncappedTotal      decimal.Decimal
	TotalBilledAmount  decimal.Decimal
	TotalSavingsAmount decimal.Decimal
	DuplicateSavings   decimal.Decimal
	CapSavings         decimal.Decimal
	BillingCap         decimal.Decimal
	CapReached         bool
}

// BilledCount returns the number of billed actions
func (r *Report) BilledCount() int {
	n := 0
	for _, a := range r.Actions {
		if a.IsBilled() {
			n++
		}
	}
	return n
}

// DuplicateCount returns the number of actions not billed as duplicates
func (r *Report) DuplicateCount() int {
	n := 0
	for _, a := range r.Actions {
		if a.IsDuplicate() {
			n++
		}
	}
	return n
}

// Subtotal returns the billed subtotal of a product, zero when absent
func (r *Report) Subtotal(productID uuid.UUID) decimal.Decimal {
	return r.ProductSubtotals[productID]
}

// ProductIDs returns the products that have a subtotal, in first-billed order
func (r *Report) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(r.ProductSubtotals))
	ids := make([]uuid.UUID, 0, len(r.ProductSubtotals))
	for _, a := range r.Actions {
		if !a.IsBilled() || seen[a.ProductID] {
			continue
		}
		seen[a.ProductID] = true
		ids = append(ids, a.ProductID)
	}
	return ids
}

// BillingReport is a generated Report as stored and served to callers.
// The action counts are kept apart from Report because stored reports are
// loaded without their actions.
type BillingReport struct {
	shared.BaseEntity
	BillingDate      time.Time
	PeriodStart      *time.Time
	PeriodEnd        *time.Time
	BilledActions    int
	DuplicateActions int
	*Report
}

// NewBillingReport wraps a computed report with identity and its billing period
func NewBillingReport(report *Report, filter ActionFilter, billingDate time.Time) *BillingReport {
	return &BillingReport{
		BaseEntity:       shared.NewBaseEntity(),
		BillingDate:      billingDate,
		PeriodStart:      filter.From,
		PeriodEnd:        filter.To,
		BilledActions:    report.BilledCount(),
		DuplicateActions: report.DuplicateCount(),
		Report:           report,
	}
}

// ReportFile records a rendered copy of a billing report kept in file storage
type ReportFile struct {
	shared.BaseEntity
	BillingReportID uuid.UUID
	CustomerID      uuid.UUID
	Format          string
	FilePath        string
}

// NewReportFile creates a new report file record
func NewReportFile(report *BillingReport, format, filePath string) (*ReportFile, error) {
	if filePath == "" {
		return nil, shared.NewDomainError("INVALID_FILE_PATH", "Report file path cannot be empty")
	}
	return &ReportFile{
		BaseEntity:      shared.NewBaseEntity(),
		BillingReportID: report.ID,
		CustomerID:      report.CustomerID,
		Format:          format,
		FilePath:        filePath,
	}, nil
}
