package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/infrastructure/logger"
	"github.com/leadbill/backend/internal/interfaces/http/dto"
)

// BillingReportHandler handles billing report and catalog endpoints
type BillingReportHandler struct {
	BaseHandler
	reportService BillingReportService
}

// NewBillingReportHandler creates a new BillingReportHandler
func NewBillingReportHandler(reportService BillingReportService) *BillingReportHandler {
	return &BillingReportHandler{reportService: reportService}
}

// GenerateReportRequest is the optional body of POST /customers/:id/billing-reports.
// From and To take RFC 3339 timestamps or YYYY-MM-DD dates; a date To covers the whole day.
type GenerateReportRequest struct {
	From   string `json:"from" form:"from" example:"2024-03-01"`
	To     string `json:"to" form:"to" example:"2024-03-31"`
	Format string `json:"format" form:"format" binding:"omitempty,max=16" example:"txt" enums:"txt,xlsx"`
}

// CatalogView is the pricing catalog plus the report formats on offer
type CatalogView struct {
	billingapp.CatalogResponse
	Formats []string `json:"formats"`
}

// Generate handles POST /customers/:id/billing-reports.
// Parameters may come as a JSON body or as query parameters.
// @ID           generateBillingReport
// @Summary      Generate a billing report
// @Description  Price the customer's actions, mark duplicates, apply the billing cap and store the report
// @Tags         billing-reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body GenerateReportRequest false "Period and file format"
// @Success      201 {object} APIResponse[billingapp.BillingReportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/{id}/billing-reports [post]
func (h *BillingReportHandler) Generate(c *gin.Context) {
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req GenerateReportRequest
	if !h.bindQuery(c, &req) {
		return
	}
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	from, to, err := timeRange(req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	ctx, _ := logger.WithCustomerID(c.Request.Context(), logger.L(c.Request.Context()), customerID.String())
	report, err := h.reportService.GenerateReport(ctx, billingapp.GenerateReportInput{
		CustomerID: customerID,
		From:       from,
		To:         to,
		Format:     req.Format,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, report)
}

// List handles GET /customers/:id/billing-reports
// @ID           listBillingReports
// @Summary      List a customer's billing reports
// @Tags         billing-reports
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]billingapp.BillingReportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/{id}/billing-reports [get]
func (h *BillingReportHandler) List(c *gin.Context) {
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}
	req := dto.DefaultListRequest()
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.reportService.ListReports(c.Request.Context(), customerID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /billing-reports/:id
// @ID           getBillingReportById
// @Summary      Get billing report by ID
// @Tags         billing-reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.BillingReportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /billing-reports/{id} [get]
func (h *BillingReportHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx, _ := logger.WithReportID(c.Request.Context(), logger.L(c.Request.Context()), id.String())
	report, err := h.reportService.GetReport(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// DownloadFile handles GET /billing-reports/:id/file.
// ?format= picks a rendering; without it the latest stored file is sent.
// @ID           downloadBillingReportFile
// @Summary      Download a rendered billing report
// @Tags         billing-reports
// @Produce      plain
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Report ID" format(uuid)
// @Param        format query string false "File format" Enums(txt, xlsx)
// @Success      200 {file} binary "Report file"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /billing-reports/{id}/file [get]
func (h *BillingReportHandler) DownloadFile(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx, _ := logger.WithReportID(c.Request.Context(), logger.L(c.Request.Context()), id.String())
	file, err := h.reportService.OpenReportFile(ctx, id, c.Query("format"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Content.Close()

	c.DataFromReader(http.StatusOK, -1, file.ContentType, file.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.FileName),
	})
}

// Catalog handles GET /billing/catalog
// @ID           getPricingCatalog
// @Summary      Get the pricing catalog
// @Description  Base values, action rates, engagement multipliers, billing cap and report formats
// @Tags         billing
// @Produce      json
// @Success      200 {object} APIResponse[CatalogView]
// @Router       /billing/catalog [get]
func (h *BillingReportHandler) Catalog(c *gin.Context) {
	h.Success(c, CatalogView{
		CatalogResponse: h.reportService.Catalog(),
		Formats:         h.reportService.Formats(),
	})
}
