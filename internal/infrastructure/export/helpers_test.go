package export

import (
	"testing"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// sampleDocument prices three actions: a website visit, its duplicate and an email open.
// Billed total is 2.00 + 3.50.
func sampleDocument(t *testing.T) (*billingapp.ReportDocument, uuid.UUID, uuid.UUID) {
	t.Helper()
	customerID := uuid.New()
	crm, mailer := uuid.New(), uuid.New()

	web, err := billing.NewLead(uuid.New(), customerID, crm, billing.LeadTypeWebsiteVisit, baseTime)
	require.NoError(t, err)
	mail, err := billing.NewLead(uuid.New(), customerID, mailer, billing.LeadTypeEmailCampaign, baseTime)
	require.NoError(t, err)

	var actions []*billing.Action
	for _, row := range []struct {
		lead   *billing.Lead
		action billing.ActionType
		level  billing.EngagementLevel
		offset time.Duration
	}{
		{web, billing.ActionTypeVisit, billing.EngagementLow, 0},
		{web, billing.ActionTypeVisit, billing.EngagementHigh, time.Minute},
		{mail, billing.ActionTypeOpen, billing.EngagementMedium, 2 * time.Minute},
	} {
		a, err := row.lead.NewAction(row.action, row.level, baseTime.Add(row.offset))
		require.NoError(t, err)
		actions = append(actions, a)
	}

	catalog := billing.DefaultPricingCatalog()
	require.NoError(t, billing.NewPricer(catalog).PriceAll(actions))
	report, err := billing.NewReportEngine(catalog).Generate(customerID, actions)
	require.NoError(t, err)

	from := baseTime
	to := baseTime.Add(24 * time.Hour)
	stored := billing.NewBillingReport(report, billing.ActionFilter{}.WithTimeRange(from, to), to)

	return &billingapp.ReportDocument{
		Report:       stored,
		CustomerName: "Acme",
		ProductNames: map[uuid.UUID]string{crm: "CRM Suite", mailer: "Mailer"},
	}, crm, mailer
}
