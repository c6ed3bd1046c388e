// Package models contains GORM persistence models for the billing tables.
// They are kept apart from the domain entities so that the domain stays free
// of ORM tags; each model converts to and from its entity with ToDomain and
// a FromDomain constructor.
//
// Tables: customers, products, leads, lead_actions, billing_reports,
// billing_report_subtotals and report_files. The schema itself is owned by
// the SQL files under migrations/.
package models
