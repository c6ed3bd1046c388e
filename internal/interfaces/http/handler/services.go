package handler

import (
	"context"

	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/shared"
)

// CustomerService is the customer use case surface the handlers call
type CustomerService interface {
	Create(ctx context.Context, input billingapp.CreateCustomerInput) (*billingapp.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*billingapp.CustomerResponse, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[billingapp.CustomerResponse], error)
}

// ProductService is the product use case surface the handlers call
type ProductService interface {
	Create(ctx context.Context, input billingapp.CreateProductInput) (*billingapp.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*billingapp.ProductResponse, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[billingapp.ProductResponse], error)
}

// LeadService records leads and their actions
type LeadService interface {
	RecordLead(ctx context.Context, input billingapp.RecordLeadInput) (*billingapp.LeadResponse, error)
	GetLead(ctx context.Context, id uuid.UUID) (*billingapp.LeadResponse, error)
	ListLeads(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[billingapp.LeadResponse], error)
	RecordAction(ctx context.Context, input billingapp.RecordActionInput) (*billingapp.ActionResponse, error)
	ListActions(ctx context.Context, input billingapp.ListActionsInput) ([]billingapp.ActionResponse, error)
}

// BillingReportService generates and serves billing reports
type BillingReportService interface {
	GenerateReport(ctx context.Context, input billingapp.GenerateReportInput) (*billingapp.BillingReportResponse, error)
	GetReport(ctx context.Context, id uuid.UUID) (*billingapp.BillingReportResponse, error)
	ListReports(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[billingapp.BillingReportResponse], error)
	OpenReportFile(ctx context.Context, reportID uuid.UUID, format string) (*billingapp.ReportFileDownload, error)
	Catalog() billingapp.CatalogResponse
	Formats() []string
}

var (
	_ CustomerService      = (*billingapp.CustomerService)(nil)
	_ ProductService       = (*billingapp.ProductService)(nil)
	_ LeadService          = (*billingapp.LeadService)(nil)
	_ BillingReportService = (*billingapp.BillingReportService)(nil)
)
