package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/shared"
)

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Customer, int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDs returns the products found; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Product, int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// LeadRepository defines persistence for leads
type LeadRepository interface {
	Save(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*Lead, int64, error)
}

// ActionRepository defines persistence for actions
type ActionRepository interface {
	// Save persists a new action
	Save(ctx context.Context, action *Action) error

	// FindByID retrieves an action with its last stored billing state
	FindByID(ctx context.Context, id uuid.UUID) (*Action, error)

	// FindByCustomer returns a customer's actions ordered by timestamp, then id.
	// The order is stable so reports regenerated from the same data agree.
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter ActionFilter) ([]*Action, error)
}

// BillingReportRepository defines persistence for generated billing reports
type BillingReportRepository interface {
	// Save persists the report header and product subtotals, and stores the priced
	// value and billing status of every action in the report, atomically
	Save(ctx context.Context, report *BillingReport) error

	// FindByID loads a report with subtotals. Actions are not populated.
	FindByID(ctx context.Context, id uuid.UUID) (*BillingReport, error)

	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*BillingReport, int64, error)
}

// ReportFileRepository defines persistence for rendered report file records
type ReportFileRepository interface {
	Save(ctx context.Context, file *ReportFile) error
	FindByReport(ctx context.Context, reportID uuid.UUID) ([]*ReportFile, error)
	FindByReportAndFormat(ctx context.Context, reportID uuid.UUID, format string) (*ReportFile, error)
}
