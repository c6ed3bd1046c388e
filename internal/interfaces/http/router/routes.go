package router

import (
	"github.com/gin-gonic/gin"
	"github.com/leadbill/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers the billing API is built from
type Handlers struct {
	Customer      *handler.CustomerHandler
	Product       *handler.ProductHandler
	Lead          *handler.LeadHandler
	BillingReport *handler.BillingReportHandler
	Health        *handler.HealthHandler
}

// BillingGroups returns the /api/v1 route groups of the billing API
func BillingGroups(h Handlers) []RouteRegistrar {
	customers := NewDomainGroup("customers", "/customers").
		POST("", h.Customer.Create).
		GET("", h.Customer.List).
		GET("/:id", h.Customer.Get).
		GET("/:id/leads", h.Lead.ListCustomerLeads).
		GET("/:id/actions", h.Lead.ListCustomerActions).
		POST("/:id/billing-reports", h.BillingReport.Generate).
		GET("/:id/billing-reports", h.BillingReport.List)

	products := NewDomainGroup("products", "/products").
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/:id", h.Product.Get)

	leads := NewDomainGroup("leads", "/leads").
		POST("", h.Lead.RecordLead).
		GET("/:id", h.Lead.GetLead)

	actions := NewDomainGroup("actions", "/actions").
		POST("", h.Lead.RecordAction)

	reports := NewDomainGroup("billing-reports", "/billing-reports").
		GET("/:id", h.BillingReport.Get).
		GET("/:id/file", h.BillingReport.DownloadFile)

	billing := NewDomainGroup("billing", "/billing").
		GET("/catalog", h.BillingReport.Catalog)

	return []RouteRegistrar{customers, products, leads, actions, reports, billing}
}

// Setup mounts the health checks at the root and the billing API under /api/v1
func Setup(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
		engine.GET("/health/ping", h.Health.Ping)
	}
	r := NewRouter(engine, opts...).Register(BillingGroups(h)...)
	r.Setup()
	return r
}
