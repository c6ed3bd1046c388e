package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupLeadRoutes(svc *MockLeadService) http.Handler {
	h := NewLeadHandler(svc)
	r := newTestEngine()
	r.POST("/leads", h.RecordLead)
	r.GET("/leads/:id", h.GetLead)
	r.GET("/customers/:id/leads", h.ListCustomerLeads)
	r.POST("/actions", h.RecordAction)
	r.GET("/customers/:id/actions", h.ListCustomerActions)
	return r
}

func TestLeadHandler_RecordLead(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)

	leadID, customerID, productID := uuid.New(), uuid.New(), uuid.New()
	captured := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	svc.On("RecordLead", mock.Anything, mock.MatchedBy(func(in billingapp.RecordLeadInput) bool {
		return in.ID != nil && *in.ID == leadID &&
			in.CustomerID == customerID &&
			in.ProductID == productID &&
			in.LeadType == "Website Visit" &&
			in.CapturedAt != nil && in.CapturedAt.Equal(captured)
	})).Return(&billingapp.LeadResponse{ID: leadID, CustomerID: customerID, ProductID: productID, LeadType: "Website Visit"}, nil)

	w := doRequest(r, http.MethodPost, "/leads", map[string]any{
		"id":          leadID.String(),
		"customer_id": customerID.String(),
		"product_id":  productID.String(),
		"lead_type":   "Website Visit",
		"captured_at": captured.Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestLeadHandler_RecordLeadRejectsUnknownType(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)

	w := doRequest(r, http.MethodPost, "/leads", map[string]any{
		"customer_id": uuid.NewString(),
		"product_id":  uuid.NewString(),
		"lead_type":   "Billboard",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "lead_type", resp.Error.Details[0].Field)
	svc.AssertNotCalled(t, "RecordLead", mock.Anything, mock.Anything)
}

func TestLeadHandler_RecordLeadUnknownCustomer(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)
	svc.On("RecordLead", mock.Anything, mock.Anything).Return(nil, shared.NotFound("Customer"))

	w := doRequest(r, http.MethodPost, "/leads", map[string]any{
		"customer_id": uuid.NewString(),
		"product_id":  uuid.NewString(),
		"lead_type":   "Referral",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeadHandler_GetLead(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)
	id := uuid.New()
	svc.On("GetLead", mock.Anything, id).Return(&billingapp.LeadResponse{ID: id, LeadType: "Event"}, nil)

	w := doRequest(r, http.MethodGet, "/leads/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got billingapp.LeadResponse
	decodeData(t, w, &got)
	assert.Equal(t, "Event", got.LeadType)
}

func TestLeadHandler_ListCustomerLeads(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)
	customerID := uuid.New()
	svc.On("ListLeads", mock.Anything, customerID, mock.Anything).
		Return(shared.NewPaginated([]billingapp.LeadResponse{{ID: uuid.New()}}, 1, 1, 20), nil)

	w := doRequest(r, http.MethodGet, "/customers/"+customerID.String()+"/leads", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestLeadHandler_RecordAction(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)
	leadID := uuid.New()

	svc.On("RecordAction", mock.Anything, mock.MatchedBy(func(in billingapp.RecordActionInput) bool {
		return in.LeadID == leadID && in.ActionType == "Open" && in.EngagementLevel == "medium" && in.Timestamp == nil
	})).Return(&billingapp.ActionResponse{ID: uuid.New(), LeadID: leadID, ActionType: "Open", EngagementLevel: "Medium"}, nil)

	w := doRequest(r, http.MethodPost, "/actions", RecordActionRequest{
		LeadID:          leadID.String(),
		ActionType:      "Open",
		EngagementLevel: "medium",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestLeadHandler_RecordActionUnpricedPair(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)
	svc.On("RecordAction", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("INVALID_ACTION_TYPE", "Action Purchase is not priced for lead type Newsletter"))

	w := doRequest(r, http.MethodPost, "/actions", RecordActionRequest{
		LeadID:          uuid.NewString(),
		ActionType:      "Purchase",
		EngagementLevel: "High",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_INVALID_ACTION_TYPE", resp.Error.Code)
}

func TestLeadHandler_ListCustomerActions(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)
	customerID, productID := uuid.New(), uuid.New()

	svc.On("ListActions", mock.Anything, mock.MatchedBy(func(in billingapp.ListActionsInput) bool {
		return in.CustomerID == customerID &&
			in.From != nil && in.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			in.To != nil && in.To.Equal(time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)) &&
			in.ProductID != nil && *in.ProductID == productID
	})).Return([]billingapp.ActionResponse{{ID: uuid.New()}}, nil)

	w := doRequest(r, http.MethodGet,
		"/customers/"+customerID.String()+"/actions?from=2024-01-01&to=2024-01-31&product_id="+productID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []billingapp.ActionResponse
	decodeData(t, w, &got)
	assert.Len(t, got, 1)
	svc.AssertExpectations(t)
}

func TestLeadHandler_ListCustomerActionsBadDate(t *testing.T) {
	svc := new(MockLeadService)
	r := setupLeadRoutes(svc)

	w := doRequest(r, http.MethodGet, "/customers/"+uuid.NewString()+"/actions?from=last-week", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_INVALID_TIMESTAMP", resp.Error.Code)
}
