package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LeadService records leads and the actions taken on them
type LeadService struct {
	leadRepo     billing.LeadRepository
	actionRepo   billing.ActionRepository
	customerRepo billing.CustomerRepository
	productRepo  billing.ProductRepository
	metrics      BillingMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewLeadService creates a new LeadService. metrics may be nil.
func NewLeadService(
	leadRepo billing.LeadRepository,
	actionRepo billing.ActionRepository,
	customerRepo billing.CustomerRepository,
	productRepo billing.ProductRepository,
	metrics BillingMetrics,
	logger *zap.Logger,
) *LeadService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &LeadService{
		leadRepo:     leadRepo,
		actionRepo:   actionRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// RecordLead records a lead for an existing customer and product
func (s *LeadService) RecordLead(ctx context.Context, input RecordLeadInput) (*LeadResponse, error) {
	leadType, err := billing.ParseLeadType(input.LeadType)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	if err := s.requireProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	id := uuid.Nil
	if input.ID != nil {
		id = *input.ID
		if _, err := s.leadRepo.FindByID(ctx, id); err == nil {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Lead "+id.String()+" already exists")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	capturedAt := s.now().UTC()
	if input.CapturedAt != nil {
		capturedAt = *input.CapturedAt
	}

	lead, err := billing.NewLead(id, input.CustomerID, input.ProductID, leadType, capturedAt)
	if err != nil {
		return nil, err
	}
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		s.logger.Error("Failed to save lead", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("Lead recorded",
		zap.String("lead_id", lead.ID.String()),
		zap.String("customer_id", lead.CustomerID.String()),
		zap.String("lead_type", string(lead.LeadType)))

	resp := ToLeadResponse(lead)
	return &resp, nil
}

// GetLead returns a lead by id
func (s *LeadService) GetLead(ctx context.Context, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLeadResponse(lead)
	return &resp, nil
}

// ListLeads returns a page of a customer's leads
func (s *LeadService) ListLeads(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[LeadResponse], error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return shared.Paginated[LeadResponse]{}, err
	}
	leads, total, err := s.leadRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return shared.Paginated[LeadResponse]{}, err
	}
	items := make([]LeadResponse, len(leads))
	for i, l := range leads {
		items[i] = ToLeadResponse(l)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// RecordAction records an action against an existing lead.
// The action takes its customer, product and lead type from the lead.
func (s *LeadService) RecordAction(ctx context.Context, input RecordActionInput) (*ActionResponse, error) {
	actionType, err := billing.ParseActionType(input.ActionType)
	if err != nil {
		return nil, err
	}
	engagement, err := billing.ParseEngagementLevel(input.EngagementLevel)
	if err != nil {
		return nil, err
	}

	lead, err := s.leadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("Lead")
		}
		return nil, err
	}

	timestamp := s.now().UTC()
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	action, err := lead.NewAction(actionType, engagement, timestamp)
	if err != nil {
		return nil, err
	}
	if err := s.actionRepo.Save(ctx, action); err != nil {
		s.logger.Error("Failed to save action", zap.Error(err))
		return nil, err
	}
	s.metrics.RecordActionRecorded(ctx, action)

	resp := ToActionResponse(action)
	return &resp, nil
}

// ListActions returns a customer's actions in billing order
func (s *LeadService) ListActions(ctx context.Context, input ListActionsInput) ([]ActionResponse, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	if err := s.requireCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	actions, err := s.actionRepo.FindByCustomer(ctx, input.CustomerID, billing.ActionFilter{
		From:      input.From,
		To:        input.To,
		ProductID: input.ProductID,
	})
	if err != nil {
		return nil, err
	}
	items := make([]ActionResponse, len(actions))
	for i, a := range actions {
		items[i] = ToActionResponse(a)
	}
	return items, nil
}

func (s *LeadService) requireCustomer(ctx context.Context, id uuid.UUID) error {
	ok, err := s.customerRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound("Customer")
	}
	return nil
}

func (s *LeadService) requireProduct(ctx context.Context, id uuid.UUID) error {
	ok, err := s.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound("Product")
	}
	return nil
}
