package main

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCustomers struct {
	created []billingapp.CreateCustomerInput
}

func (r *recordingCustomers) Create(_ context.Context, in billingapp.CreateCustomerInput) (*billingapp.CustomerResponse, error) {
	r.created = append(r.created, in)
	return &billingapp.CustomerResponse{ID: uuid.New(), Name: in.Name, Email: in.Email}, nil
}

func (r *recordingCustomers) Get(context.Context, uuid.UUID) (*billingapp.CustomerResponse, error) {
	return nil, shared.ErrNotFound
}

func (r *recordingCustomers) List(context.Context, shared.Filter) (shared.Paginated[billingapp.CustomerResponse], error) {
	return shared.Paginated[billingapp.CustomerResponse]{}, nil
}

type recordingProducts struct{ created int }

func (r *recordingProducts) Create(_ context.Context, in billingapp.CreateProductInput) (*billingapp.ProductResponse, error) {
	r.created++
	return &billingapp.ProductResponse{ID: uuid.New(), Name: in.Name}, nil
}

func (r *recordingProducts) Get(context.Context, uuid.UUID) (*billingapp.ProductResponse, error) {
	return nil, shared.ErrNotFound
}

func (r *recordingProducts) List(context.Context, shared.Filter) (shared.Paginated[billingapp.ProductResponse], error) {
	return shared.Paginated[billingapp.ProductResponse]{}, nil
}

type recordingLeads struct {
	leads   map[uuid.UUID]billingapp.RecordLeadInput
	actions []billingapp.RecordActionInput
}

func (r *recordingLeads) RecordLead(_ context.Context, in billingapp.RecordLeadInput) (*billingapp.LeadResponse, error) {
	id := uuid.New()
	r.leads[id] = in
	return &billingapp.LeadResponse{ID: id, CustomerID: in.CustomerID, ProductID: in.ProductID, LeadType: in.LeadType}, nil
}

func (r *recordingLeads) GetLead(context.Context, uuid.UUID) (*billingapp.LeadResponse, error) {
	return nil, shared.ErrNotFound
}

func (r *recordingLeads) ListLeads(context.Context, uuid.UUID, shared.Filter) (shared.Paginated[billingapp.LeadResponse], error) {
	return shared.Paginated[billingapp.LeadResponse]{}, nil
}

func (r *recordingLeads) RecordAction(_ context.Context, in billingapp.RecordActionInput) (*billingapp.ActionResponse, error) {
	r.actions = append(r.actions, in)
	return &billingapp.ActionResponse{ID: uuid.New(), LeadID: in.LeadID}, nil
}

func (r *recordingLeads) ListActions(context.Context, billingapp.ListActionsInput) ([]billingapp.ActionResponse, error) {
	return nil, nil
}

func TestSeeder_Run(t *testing.T) {
	catalog := billing.DefaultPricingCatalog()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	customers := &recordingCustomers{}
	products := &recordingProducts{}
	leads := &recordingLeads{leads: map[uuid.UUID]billingapp.RecordLeadInput{}}

	s := &seeder{
		customers: customers,
		products:  products,
		leads:     leads,
		pairs:     catalog.PricedPairs(),
		faker:     gofakeit.New(42),
		now:       now,
	}

	stats, err := s.run(context.Background(), seedOptions{Customers: 4, LeadsPerCustomer: 2, ActionsPerLead: 3})
	require.NoError(t, err)

	assert.Equal(t, seedStats{Customers: 4, Products: 4, Leads: 8, Actions: 24}, stats)
	assert.Len(t, customers.created, 4)
	assert.Len(t, leads.actions, 24)

	for _, action := range leads.actions {
		lead, ok := leads.leads[action.LeadID]
		require.True(t, ok)
		lt, err := billing.ParseLeadType(lead.LeadType)
		require.NoError(t, err)
		at, err := billing.ParseActionType(action.ActionType)
		require.NoError(t, err)

		assert.True(t, catalog.IsPriced(lt, at), "%s/%s is not priced", lt, at)
		require.NotNil(t, action.Timestamp)
		assert.False(t, action.Timestamp.Before(*lead.CapturedAt))
		assert.False(t, action.Timestamp.After(now))
	}
}

func TestSeeder_RunWithoutPricedPairs(t *testing.T) {
	s := &seeder{faker: gofakeit.New(1), now: time.Now()}

	_, err := s.run(context.Background(), seedOptions{Customers: 1})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}

type duplicateOnceCustomers struct {
	recordingCustomers
	calls int
}

func (d *duplicateOnceCustomers) Create(ctx context.Context, in billingapp.CreateCustomerInput) (*billingapp.CustomerResponse, error) {
	d.calls++
	if d.calls == 1 {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "duplicate")
	}
	return d.recordingCustomers.Create(ctx, in)
}

func TestSeeder_RetriesDuplicateEmail(t *testing.T) {
	customers := &duplicateOnceCustomers{}
	s := &seeder{customers: customers, faker: gofakeit.New(7), now: time.Now()}

	customer, err := s.createCustomer(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, customer)
	assert.Equal(t, 2, customers.calls)
}
