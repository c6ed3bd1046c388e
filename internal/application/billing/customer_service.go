package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService manages customers
type CustomerService struct {
	customerRepo billing.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo billing.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

// Create registers a new customer. Emails are unique.
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*CustomerResponse, error) {
	customer, err := billing.NewCustomer(input.Name, input.Email)
	if err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.FindByEmail(ctx, customer.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Customer with email "+customer.Email+" already exists")
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to save customer", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Customer created", zap.String("customer_id", customer.ID.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Get returns a customer by id
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[CustomerResponse], error) {
	customers, total, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	items := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		items[i] = ToCustomerResponse(c)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// ProductService manages products
type ProductService struct {
	productRepo billing.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo billing.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// Create registers a new product
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*ProductResponse, error) {
	product, err := billing.NewProduct(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns a product by id
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = ToProductResponse(p)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}
