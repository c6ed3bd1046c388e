package billing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrFileStorageDisabled is returned when report files are requested but no store is configured
var ErrFileStorageDisabled = shared.NewDomainError("FILE_STORAGE_DISABLED", "Report file storage is not configured")

// BillingReportServiceConfig contains configuration for BillingReportService
type BillingReportServiceConfig struct {
	// DefaultFormat is rendered and stored when a request names no format. Empty disables it.
	DefaultFormat string
	// KeyPrefix is prepended to stored report file keys
	KeyPrefix string
}

// DefaultBillingReportServiceConfig returns default configuration
func DefaultBillingReportServiceConfig() BillingReportServiceConfig {
	return BillingReportServiceConfig{
		DefaultFormat: "txt",
		KeyPrefix:     "billing-reports",
	}
}

// ReportFileDownload is an opened report file. The caller closes Content.
type ReportFileDownload struct {
	Content     io.ReadCloser
	ContentType string
	FileName    string
}

// BillingReportService generates and serves billing reports
type BillingReportService struct {
	customerRepo billing.CustomerRepository
	productRepo  billing.ProductRepository
	actionRepo   billing.ActionRepository
	reportRepo   billing.BillingReportRepository
	fileRepo     billing.ReportFileRepository
	pricer       *billing.Pricer
	engine       *billing.ReportEngine
	logger       *zap.Logger
	config       BillingReportServiceConfig

	renderers map[string]ReportRenderer
	fileStore ReportFileStore
	cache     ReportCache
	metrics   BillingMetrics
	now       func() time.Time
}

// NewBillingReportService creates a new BillingReportService
func NewBillingReportService(
	customerRepo billing.CustomerRepository,
	productRepo billing.ProductRepository,
	actionRepo billing.ActionRepository,
	reportRepo billing.BillingReportRepository,
	fileRepo billing.ReportFileRepository,
	pricer *billing.Pricer,
	engine *billing.ReportEngine,
	logger *zap.Logger,
	config BillingReportServiceConfig,
) *BillingReportService {
	return &BillingReportService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		actionRepo:   actionRepo,
		reportRepo:   reportRepo,
		fileRepo:     fileRepo,
		pricer:       pricer,
		engine:       engine,
		logger:       logger,
		config:       config,
		renderers:    make(map[string]ReportRenderer),
		metrics:      noopMetrics{},
		now:          time.Now,
	}
}

// RegisterRenderer makes a file format available
func (s *BillingReportService) RegisterRenderer(r ReportRenderer) {
	s.renderers[strings.ToLower(r.Format())] = r
}

// SetFileStore sets where rendered report files are kept
func (s *BillingReportService) SetFileStore(store ReportFileStore) {
	s.fileStore = store
}

// SetCache sets the report cache
func (s *BillingReportService) SetCache(cache ReportCache) {
	s.cache = cache
}

// SetMetrics sets the billing metrics recorder
func (s *BillingReportService) SetMetrics(metrics BillingMetrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// Formats lists the registered file formats
func (s *BillingReportService) Formats() []string {
	formats := make([]string, 0, len(s.renderers))
	for f := range s.renderers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Catalog returns the pricing catalog in force
func (s *BillingReportService) Catalog() CatalogResponse {
	return ToCatalogResponse(s.pricer.Catalog(), s.engine.Ordering())
}

// GenerateReport prices a customer's actions, bills each duplicate key once,
// applies the cap and stores the resulting report.
func (s *BillingReportService) GenerateReport(ctx context.Context, input GenerateReportInput) (*BillingReportResponse, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	renderer, err := s.rendererFor(input.Format)
	if err != nil {
		return nil, err
	}

	start := s.now()
	log := s.logger.With(zap.String("customer_id", input.CustomerID.String()))

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	filter := billing.ActionFilter{From: input.From, To: input.To}
	stored, err := s.actionRepo.FindByCustomer(ctx, input.CustomerID, filter)
	if err != nil {
		log.Error("Failed to load actions", zap.Error(err))
		return nil, err
	}

	actions := make([]*billing.Action, len(stored))
	for i, a := range stored {
		actions[i] = a.Fresh()
	}
	if err := s.pricer.PriceAll(actions); err != nil {
		return nil, err
	}
	report, err := s.engine.Generate(input.CustomerID, actions)
	if err != nil {
		log.Error("Failed to compute billing report", zap.Error(err))
		return nil, err
	}

	billingReport := billing.NewBillingReport(report, filter, s.now().UTC())
	if err := s.reportRepo.Save(ctx, billingReport); err != nil {
		log.Error("Failed to save billing report", zap.Error(err))
		return nil, err
	}

	productNames := s.productNames(ctx, report.ProductIDs())
	resp := ToBillingReportResponse(billingReport, customer.Name, productNames)

	if renderer != nil {
		doc := &ReportDocument{Report: billingReport, CustomerName: customer.Name, ProductNames: productNames}
		file, err := s.storeFile(ctx, renderer, doc)
		if err != nil {
			// The report itself is stored; the file can be produced again by regenerating.
			log.Error("Failed to store report file",
				zap.String("report_id", billingReport.ID.String()),
				zap.String("format", renderer.Format()),
				zap.Error(err))
		} else {
			resp.Files = append(resp.Files, ToReportFileResponse(file))
		}
	}

	s.cacheSet(ctx, resp)
	elapsed := s.now().Sub(start)
	s.metrics.RecordReportGenerated(ctx, report, elapsed)

	log.Info("Billing report generated",
		zap.String("report_id", billingReport.ID.String()),
		zap.Int("actions", len(report.Actions)),
		zap.Int("duplicates", report.DuplicateCount()),
		zap.String("total_billed", report.TotalBilledAmount.String()),
		zap.String("total_savings", report.TotalSavingsAmount.String()),
		zap.Bool("cap_reached", report.CapReached),
		zap.Duration("elapsed", elapsed))

	return &resp, nil
}

// GetReport returns a stored report without its actions
func (s *BillingReportService) GetReport(ctx context.Context, id uuid.UUID) (*BillingReportResponse, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("Report cache read failed", zap.String("report_id", id.String()), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customerName := ""
	if customer, err := s.customerRepo.FindByID(ctx, report.CustomerID); err == nil {
		customerName = customer.Name
	}
	resp := ToBillingReportResponse(report, customerName, s.productNames(ctx, subtotalProductIDs(report.Report)))

	files, err := s.fileRepo.FindByReport(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		resp.Files = append(resp.Files, ToReportFileResponse(f))
	}

	s.cacheSet(ctx, resp)
	return &resp, nil
}

// ListReports returns a page of a customer's reports, newest first
func (s *BillingReportService) ListReports(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[BillingReportResponse], error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return shared.Paginated[BillingReportResponse]{}, err
	}
	reports, total, err := s.reportRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return shared.Paginated[BillingReportResponse]{}, err
	}
	items := make([]BillingReportResponse, len(reports))
	for i, r := range reports {
		items[i] = ToBillingReportResponse(r, customer.Name, nil)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// OpenReportFile opens a stored rendering of a report.
// An empty format selects the most recently stored file.
func (s *BillingReportService) OpenReportFile(ctx context.Context, reportID uuid.UUID, format string) (*ReportFileDownload, error) {
	if s.fileStore == nil {
		return nil, ErrFileStorageDisabled
	}
	if _, err := s.reportRepo.FindByID(ctx, reportID); err != nil {
		return nil, err
	}

	var file *billing.ReportFile
	if format != "" {
		f, err := s.fileRepo.FindByReportAndFormat(ctx, reportID, strings.ToLower(format))
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NotFound("Report file")
			}
			return nil, err
		}
		file = f
	} else {
		files, err := s.fileRepo.FindByReport(ctx, reportID)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, shared.NotFound("Report file")
		}
		file = files[len(files)-1]
	}

	content, err := s.fileStore.Open(ctx, file.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open report file %s: %w", file.FilePath, err)
	}

	contentType := "application/octet-stream"
	if r, ok := s.renderers[file.Format]; ok {
		contentType = r.ContentType()
	}
	return &ReportFileDownload{
		Content:     content,
		ContentType: contentType,
		FileName:    fmt.Sprintf("billing-report-%s.%s", reportID, file.Format),
	}, nil
}

// rendererFor resolves the requested format. A nil renderer means no file is stored.
func (s *BillingReportService) rendererFor(format string) (ReportRenderer, error) {
	explicit := format != ""
	if !explicit {
		format = s.config.DefaultFormat
	}
	if format == "" {
		return nil, nil
	}
	r, ok := s.renderers[strings.ToLower(format)]
	if !ok {
		if !explicit {
			return nil, nil
		}
		return nil, shared.NewDomainError("INVALID_FORMAT", "Unsupported report format: "+format)
	}
	if s.fileStore == nil {
		if explicit {
			return nil, ErrFileStorageDisabled
		}
		return nil, nil
	}
	return r, nil
}

func (s *BillingReportService) storeFile(ctx context.Context, renderer ReportRenderer, doc *ReportDocument) (*billing.ReportFile, error) {
	data, err := renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", renderer.Format(), err)
	}

	key := fmt.Sprintf("%s/%s/%s.%s", s.config.KeyPrefix, doc.Report.CustomerID, doc.Report.ID, renderer.Format())
	path, err := s.fileStore.Put(ctx, strings.TrimPrefix(key, "/"), data, renderer.ContentType())
	if err != nil {
		return nil, err
	}

	file, err := billing.NewReportFile(doc.Report, renderer.Format(), path)
	if err != nil {
		return nil, err
	}
	if err := s.fileRepo.Save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// productNames looks up display names; a lookup failure only costs the names
func (s *BillingReportService) productNames(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load product names", zap.Error(err))
		return names
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names
}

// cacheSet stores the report view without its actions, matching what GetReport serves
func (s *BillingReportService) cacheSet(ctx context.Context, resp BillingReportResponse) {
	if s.cache == nil {
		return
	}
	resp.Actions = nil
	if err := s.cache.Set(ctx, &resp); err != nil {
		s.logger.Warn("Report cache write failed", zap.String("report_id", resp.ID.String()), zap.Error(err))
	}
}

func subtotalProductIDs(r *billing.Report) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.ProductSubtotals))
	for id := range r.ProductSubtotals {
		ids = append(ids, id)
	}
	return ids
}
