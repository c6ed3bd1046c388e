package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/interfaces/http/dto"
)

// LeadHandler handles lead and action endpoints
type LeadHandler struct {
	BaseHandler
	leadService LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// RecordLeadRequest is the body of POST /leads.
// ID lets a source system keep its own lead identifier.
type RecordLeadRequest struct {
	ID         string     `json:"id" binding:"omitempty,uuid"`
	CustomerID string     `json:"customer_id" binding:"required,uuid"`
	ProductID  string     `json:"product_id" binding:"required,uuid"`
	LeadType   string     `json:"lead_type" binding:"required,lead_type" example:"Website Visit"`
	CapturedAt *time.Time `json:"captured_at"`
}

// RecordActionRequest is the body of POST /actions
type RecordActionRequest struct {
	LeadID          string     `json:"lead_id" binding:"required,uuid"`
	ActionType      string     `json:"action_type" binding:"required,action_type" example:"Click"`
	EngagementLevel string     `json:"engagement_level" binding:"required,engagement_level" example:"High" enums:"Low,Medium,High"`
	Timestamp       *time.Time `json:"timestamp"`
}

// ListActionsQuery narrows GET /customers/:id/actions
type ListActionsQuery struct {
	From      string `form:"from"`
	To        string `form:"to"`
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
}

// RecordLead handles POST /leads
// @ID           recordLead
// @Summary      Record a lead
// @Description  Record a lead for an existing customer and product
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body RecordLeadRequest true "Lead"
// @Success      201 {object} APIResponse[billingapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /leads [post]
func (h *LeadHandler) RecordLead(c *gin.Context) {
	var req RecordLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	input := billingapp.RecordLeadInput{
		CustomerID: uuid.MustParse(req.CustomerID),
		ProductID:  uuid.MustParse(req.ProductID),
		LeadType:   req.LeadType,
		CapturedAt: req.CapturedAt,
	}
	if req.ID != "" {
		id := uuid.MustParse(req.ID)
		input.ID = &id
	}

	lead, err := h.leadService.RecordLead(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lead)
}

// GetLead handles GET /leads/:id
// @ID           getLeadById
// @Summary      Get lead by ID
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetLead(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	lead, err := h.leadService.GetLead(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}

// ListCustomerLeads handles GET /customers/:id/leads
// @ID           listCustomerLeads
// @Summary      List a customer's leads
// @Tags         leads
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]billingapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/{id}/leads [get]
func (h *LeadHandler) ListCustomerLeads(c *gin.Context) {
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}
	req := dto.DefaultListRequest()
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.leadService.ListLeads(c.Request.Context(), customerID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RecordAction handles POST /actions
// @ID           recordAction
// @Summary      Record a lead action
// @Description  Record an action against a lead; it inherits the lead's customer, product and lead type
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        request body RecordActionRequest true "Action"
// @Success      201 {object} APIResponse[billingapp.ActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /actions [post]
func (h *LeadHandler) RecordAction(c *gin.Context) {
	var req RecordActionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	action, err := h.leadService.RecordAction(c.Request.Context(), billingapp.RecordActionInput{
		LeadID:          uuid.MustParse(req.LeadID),
		ActionType:      req.ActionType,
		EngagementLevel: req.EngagementLevel,
		Timestamp:       req.Timestamp,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, action)
}

// ListCustomerActions handles GET /customers/:id/actions.
// Actions come back in billing order, unpaginated.
// @ID           listCustomerActions
// @Summary      List a customer's actions
// @Tags         actions
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        from query string false "Start, RFC 3339 or YYYY-MM-DD (inclusive)"
// @Param        to query string false "End, RFC 3339 or YYYY-MM-DD (inclusive)"
// @Param        product_id query string false "Product ID" format(uuid)
// @Success      200 {object} APIResponse[[]billingapp.ActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/{id}/actions [get]
func (h *LeadHandler) ListCustomerActions(c *gin.Context) {
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}
	var query ListActionsQuery
	if !h.bindQuery(c, &query) {
		return
	}
	from, to, err := timeRange(query.From, query.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	input := billingapp.ListActionsInput{CustomerID: customerID, From: from, To: to}
	if query.ProductID != "" {
		productID := uuid.MustParse(query.ProductID)
		input.ProductID = &productID
	}

	actions, err := h.leadService.ListActions(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(actions))
}
