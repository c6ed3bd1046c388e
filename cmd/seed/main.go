// Command seed fills the database with random customers, products, leads and
// actions drawn from the pricing catalog, for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/infrastructure/config"
	"github.com/leadbill/backend/internal/infrastructure/logger"
	"github.com/leadbill/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var opts seedOptions
	flag.IntVar(&opts.Customers, "customers", 10, "Number of customers to create")
	flag.IntVar(&opts.LeadsPerCustomer, "leads", 1, "Leads per customer")
	flag.IntVar(&opts.ActionsPerLead, "actions", 3, "Actions per lead")
	flag.Uint64Var(&opts.Seed, "seed", 0, "Random seed; 0 picks one")
	flag.Parse()

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	catalog, err := cfg.Billing.Catalog()
	if err != nil {
		log.Fatal("Invalid pricing catalog", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	actionRepo := persistence.NewGormActionRepository(db.DB)

	s := &seeder{
		customers: billingapp.NewCustomerService(customerRepo, log),
		products:  billingapp.NewProductService(productRepo, log),
		leads:     billingapp.NewLeadService(leadRepo, actionRepo, customerRepo, productRepo, nil, log),
		pairs:     catalog.PricedPairs(),
		faker:     gofakeit.New(opts.Seed),
		now:       time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stats, err := s.run(ctx, opts)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err), zap.Any("created", stats))
	}
	log.Info("Seeding complete",
		zap.Int("customers", stats.Customers),
		zap.Int("products", stats.Products),
		zap.Int("leads", stats.Leads),
		zap.Int("actions", stats.Actions),
	)
}
