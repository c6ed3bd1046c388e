package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/leadbill/backend/internal/interfaces/http/handler"
)

type seedOptions struct {
	Customers        int
	LeadsPerCustomer int
	ActionsPerLead   int
	Seed             uint64
}

type seedStats struct {
	Customers int `json:"customers"`
	Products  int `json:"products"`
	Leads     int `json:"leads"`
	Actions   int `json:"actions"`
}

// seedWindow is how far back captured leads and actions may lie
const seedWindow = 90 * 24 * time.Hour

const maxEmailAttempts = 5

type seeder struct {
	customers handler.CustomerService
	products  handler.ProductService
	leads     handler.LeadService
	pairs     []billing.PricedPair
	faker     *gofakeit.Faker
	now       time.Time
}

// run creates one product per customer, then leads and actions against it.
// Actions only use action types the catalog prices for the lead's type.
func (s *seeder) run(ctx context.Context, opts seedOptions) (seedStats, error) {
	var stats seedStats
	if len(s.pairs) == 0 {
		return stats, fmt.Errorf("pricing catalog has no priced pairs")
	}

	for range opts.Customers {
		customer, err := s.createCustomer(ctx)
		if err != nil {
			return stats, err
		}
		stats.Customers++

		product, err := s.products.Create(ctx, billingapp.CreateProductInput{
			Name:        s.faker.ProductName(),
			Description: truncate(s.faker.ProductDescription(), 255),
		})
		if err != nil {
			return stats, fmt.Errorf("create product: %w", err)
		}
		stats.Products++

		for range opts.LeadsPerCustomer {
			leadType := s.pairs[s.faker.IntN(len(s.pairs))].LeadType
			captured := s.randomTime(s.now.Add(-seedWindow))
			lead, err := s.leads.RecordLead(ctx, billingapp.RecordLeadInput{
				CustomerID: customer.ID,
				ProductID:  product.ID,
				LeadType:   string(leadType),
				CapturedAt: &captured,
			})
			if err != nil {
				return stats, fmt.Errorf("record lead: %w", err)
			}
			stats.Leads++

			actionTypes := s.actionTypesFor(leadType)
			for range opts.ActionsPerLead {
				ts := s.randomTime(captured)
				_, err := s.leads.RecordAction(ctx, billingapp.RecordActionInput{
					LeadID:          lead.ID,
					ActionType:      string(actionTypes[s.faker.IntN(len(actionTypes))]),
					EngagementLevel: string(s.engagementLevel()),
					Timestamp:       &ts,
				})
				if err != nil {
					return stats, fmt.Errorf("record action: %w", err)
				}
				stats.Actions++
			}
		}
	}
	return stats, nil
}

// createCustomer retries with a fresh email when the faker repeats one
func (s *seeder) createCustomer(ctx context.Context) (*billingapp.CustomerResponse, error) {
	var lastErr error
	for range maxEmailAttempts {
		customer, err := s.customers.Create(ctx, billingapp.CreateCustomerInput{
			Name:  s.faker.Name(),
			Email: s.faker.Email(),
		})
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("create customer: %w", lastErr)
}

func (s *seeder) actionTypesFor(lt billing.LeadType) []billing.ActionType {
	var out []billing.ActionType
	for _, p := range s.pairs {
		if p.LeadType == lt {
			out = append(out, p.ActionType)
		}
	}
	return out
}

func (s *seeder) engagementLevel() billing.EngagementLevel {
	levels := billing.AllEngagementLevels()
	return levels[s.faker.IntN(len(levels))]
}

func (s *seeder) randomTime(after time.Time) time.Time {
	if !after.Before(s.now) {
		return s.now
	}
	return s.faker.DateRange(after, s.now).UTC()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
