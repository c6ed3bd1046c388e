package handler

import (
	"context"

	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, input billingapp.CreateCustomerInput) (*billingapp.CustomerResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, id uuid.UUID) (*billingapp.CustomerResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[billingapp.CustomerResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billingapp.CustomerResponse]), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, input billingapp.CreateProductInput) (*billingapp.ProductResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id uuid.UUID) (*billingapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[billingapp.ProductResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billingapp.ProductResponse]), args.Error(1)
}

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) RecordLead(ctx context.Context, input billingapp.RecordLeadInput) (*billingapp.LeadResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.LeadResponse), args.Error(1)
}

func (m *MockLeadService) GetLead(ctx context.Context, id uuid.UUID) (*billingapp.LeadResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.LeadResponse), args.Error(1)
}

func (m *MockLeadService) ListLeads(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[billingapp.LeadResponse], error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).(shared.Paginated[billingapp.LeadResponse]), args.Error(1)
}

func (m *MockLeadService) RecordAction(ctx context.Context, input billingapp.RecordActionInput) (*billingapp.ActionResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.ActionResponse), args.Error(1)
}

func (m *MockLeadService) ListActions(ctx context.Context, input billingapp.ListActionsInput) ([]billingapp.ActionResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billingapp.ActionResponse), args.Error(1)
}

type MockBillingReportService struct {
	mock.Mock
}

func (m *MockBillingReportService) GenerateReport(ctx context.Context, input billingapp.GenerateReportInput) (*billingapp.BillingReportResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.BillingReportResponse), args.Error(1)
}

func (m *MockBillingReportService) GetReport(ctx context.Context, id uuid.UUID) (*billingapp.BillingReportResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.BillingReportResponse), args.Error(1)
}

func (m *MockBillingReportService) ListReports(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[billingapp.BillingReportResponse], error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).(shared.Paginated[billingapp.BillingReportResponse]), args.Error(1)
}

func (m *MockBillingReportService) OpenReportFile(ctx context.Context, reportID uuid.UUID, format string) (*billingapp.ReportFileDownload, error) {
	args := m.Called(ctx, reportID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.ReportFileDownload), args.Error(1)
}

func (m *MockBillingReportService) Catalog() billingapp.CatalogResponse {
	return m.Called().Get(0).(billingapp.CatalogResponse)
}

func (m *MockBillingReportService) Formats() []string {
	return m.Called().Get(0).([]string)
}
