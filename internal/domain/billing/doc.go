// Package billing provides domain models for lead action billing.
//
// A customer captures leads for its products. Each lead comes from a source
// (LeadType) and accumulates actions (ActionType) at some EngagementLevel.
// Producing a billing report runs in three steps:
//   - Pricer assigns every action base(lead) + rate(lead, action) * multiplier(engagement)
//   - ReportEngine bills only the first action per (product, lead type, action type)
//     and marks the rest "Not Billed (Duplicate)"
//   - ReportEngine caps the total at the catalog's billing cap and reports the savings
//
// Key Entities:
//   - Customer, Product, Lead: the parties and opportunities actions are recorded against
//   - Action: one recorded event, carrying derived billing state once a report is produced
//   - BillingReport: a persisted Report with its billing period
//
// Value Objects:
//   - PricingCatalog: immutable pricing tables, injected rather than global
//   - Report: per-product subtotals, billed total and savings for one customer
package billing
