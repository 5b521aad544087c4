package interfaces

import (
	"context"
	"time"

	"github.com/freshconcept/ordering/internal/domain"
)

// Repository contracts implemented by the postgres adapter. The core calls
// through these so it can be exercised against in-memory fakes.

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
	FindByUserID(ctx context.Context, userID int) (*domain.Customer, error)
	Deactivate(ctx context.Context, id int) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	Deactivate(ctx context.Context, id int) error
}

type OrderRepository interface {
	// Submit persists the order inside one transaction. If the customer
	// already has a pending order for the same delivery date, that order is
	// locked, its items replaced and its total updated; otherwise a new
	// order row is inserted. Reports whether an existing order was amended.
	Submit(ctx context.Context, order *domain.Order) (amended bool, err error)

	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	FindPendingForDelivery(ctx context.Context, customerID int, deliveryDate time.Time) (*domain.Order, error)
	ListRecentByCustomer(ctx context.Context, customerID, limit int) ([]*domain.Order, error)
	GenerateOrderNumber(ctx context.Context) (string, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
