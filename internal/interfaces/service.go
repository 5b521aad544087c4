package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshconcept/ordering/internal/domain"
)

// Commands carried from the HTTP adapter into the services. The acting user
// travels explicitly with every call.

type PlaceOrderCommand struct {
	CustomerID int
	Items      []OrderLineCommand
	Notes      *string
}

type OrderLineCommand struct {
	ProductID int
	Quantity  int
}

// OrderResult is the computed order handed to the presentation layer.
type OrderResult struct {
	Order   *domain.Order
	Amended bool
}

type CreateProductCommand struct {
	Name                string
	Description         string
	UnitCost            decimal.Decimal
	MarginRate          *decimal.Decimal
	MinimumQuantity     int
	UnitWeight          decimal.Decimal
	RetailPriceOverride *decimal.Decimal
}

type UpdateProductCommand struct {
	ID                  int
	Name                string
	Description         string
	UnitCost            decimal.Decimal
	MarginRate          decimal.Decimal
	MinimumQuantity     int
	UnitWeight          decimal.Decimal
	RetailPriceOverride *decimal.Decimal
}

// PricePreview shows staff the derived prices for a product before saving.
type PricePreview struct {
	Wholesale      decimal.Decimal
	Retail         decimal.Decimal
	RetailPerKg    decimal.Decimal
	MarginRate     decimal.Decimal
	EffectiveSince time.Time
}

type CreateCustomerCommand struct {
	Number        string
	CompanyName   string
	Address       string
	ContactPerson string
	VATNumber     *string
	PhoneNumber   string
	Schedule      domain.DeliverySchedule
	UserID        *int
}

type UpdateCustomerCommand struct {
	ID            int
	CompanyName   string
	Address       string
	ContactPerson string
	VATNumber     *string
	PhoneNumber   string
	Schedule      domain.DeliverySchedule
}

type CreateUserCommand struct {
	Username string
	Password string
	Role     domain.Role
}

// Service contracts exposed to the HTTP adapter.

type OrderService interface {
	PlaceOrder(ctx context.Context, actor domain.Actor, cmd PlaceOrderCommand) (*OrderResult, error)
	GetOrder(ctx context.Context, actor domain.Actor, number string) (*domain.Order, error)
	ListRecent(ctx context.Context, actor domain.Actor, customerID, limit int) ([]*domain.Order, error)
	NextDelivery(ctx context.Context, actor domain.Actor, customerID int) (time.Time, error)
	Confirm(ctx context.Context, actor domain.Actor, number string) (*domain.Order, error)
	Cancel(ctx context.Context, actor domain.Actor, number string) (*domain.Order, error)
}

type CatalogService interface {
	ListActive(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, actor domain.Actor, cmd CreateProductCommand) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, cmd UpdateProductCommand) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, actor domain.Actor, id int) error
	PreviewPrices(ctx context.Context, actor domain.Actor, id int) (*PricePreview, error)
}

type AccountService interface {
	CreateCustomer(ctx context.Context, actor domain.Actor, cmd CreateCustomerCommand) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, actor domain.Actor, cmd UpdateCustomerCommand) (*domain.Customer, error)
	DeactivateCustomer(ctx context.Context, actor domain.Actor, id int) error
	CreateUser(ctx context.Context, actor domain.Actor, cmd CreateUserCommand) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Actor, error)
}
