package billing

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// Mock implementations

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) Save(ctx context.Context, customer *billing.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *mockCustomerRepository) FindByEmail(ctx context.Context, email string) (*billing.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *mockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Customer, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *mockCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Save(ctx context.Context, product *billing.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Product), args.Error(1)
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*billing.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Product), args.Error(1)
}

func (m *mockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockLeadRepository struct {
	mock.Mock
}

func (m *mockLeadRepository) Save(ctx context.Context, lead *billing.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Lead), args.Error(1)
}

func (m *mockLeadRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*billing.Lead, int64, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Lead), args.Get(1).(int64), args.Error(2)
}

type mockActionRepository struct {
	mock.Mock
}

func (m *mockActionRepository) Save(ctx context.Context, action *billing.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *mockActionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Action, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Action), args.Error(1)
}

func (m *mockActionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter billing.ActionFilter) ([]*billing.Action, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Action), args.Error(1)
}

type mockBillingReportRepository struct {
	mock.Mock
}

func (m *mockBillingReportRepository) Save(ctx context.Context, report *billing.BillingReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockBillingReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingReport), args.Error(1)
}

func (m *mockBillingReportRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*billing.BillingReport, int64, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.BillingReport), args.Get(1).(int64), args.Error(2)
}

type mockReportFileRepository struct {
	mock.Mock
}

func (m *mockReportFileRepository) Save(ctx context.Context, file *billing.ReportFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *mockReportFileRepository) FindByReport(ctx context.Context, reportID uuid.UUID) ([]*billing.ReportFile, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.ReportFile), args.Error(1)
}

func (m *mockReportFileRepository) FindByReportAndFormat(ctx context.Context, reportID uuid.UUID, format string) (*billing.ReportFile, error) {
	args := m.Called(ctx, reportID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ReportFile), args.Error(1)
}

type mockReportCache struct {
	mock.Mock
}

func (m *mockReportCache) Get(ctx context.Context, id uuid.UUID) (*BillingReportResponse, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*BillingReportResponse), args.Bool(1), args.Error(2)
}

func (m *mockReportCache) Set(ctx context.Context, report *BillingReportResponse) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockReportCache) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockBillingMetrics struct {
	mock.Mock
}

func (m *mockBillingMetrics) RecordReportGenerated(ctx context.Context, report *billing.Report, elapsed time.Duration) {
	m.Called(ctx, report, elapsed)
}

func (m *mockBillingMetrics) RecordActionRecorded(ctx context.Context, action *billing.Action) {
	m.Called(ctx, action)
}

// fakeRenderer renders the billed total as plain text
type fakeRenderer struct {
	format string
	err    error
}

func (r *fakeRenderer) Format() string      { return r.format }
func (r *fakeRenderer) ContentType() string { return "text/plain" }

func (r *fakeRenderer) Render(_ context.Context, doc *ReportDocument) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte(doc.CustomerName + " " + doc.Report.TotalBilledAmount.String()), nil
}

// memoryFileStore keeps files in a map keyed by path
type memoryFileStore struct {
	files map[string][]byte
	err   error
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{files: make(map[string][]byte)}
}

func (s *memoryFileStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	path := "mem://" + key
	s.files[path] = data
	return path, nil
}

func (s *memoryFileStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
