package order

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

// Service implements order placement and lifecycle management.
type Service struct {
	orders    interfaces.OrderRepository
	customers interfaces.CustomerRepository
	products  interfaces.ProductRepository
	publisher interfaces.EventPublisher
	logger    logger.Logger

	// now is swappable so delivery-date resolution is testable.
	now func() time.Time
}

func NewService(
	orders interfaces.OrderRepository,
	customers interfaces.CustomerRepository,
	products interfaces.ProductRepository,
	publisher interfaces.EventPublisher,
	lgr logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		customers: customers,
		products:  products,
		publisher: publisher,
		logger:    lgr,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PlaceOrder validates the submission, snapshots prices, resolves the
// delivery date and either creates a new pending order or amends the
// customer's existing pending order for the same delivery date.
func (s *Service) PlaceOrder(ctx context.Context, actor domain.Actor, cmd interfaces.PlaceOrderCommand) (*interfaces.OrderResult, error) {
	if err := s.authorizeCustomerAccess(actor, cmd.CustomerID, "place orders"); err != nil {
		return nil, err
	}

	customer, err := s.activeCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	deliveryDate, err := customer.NextDeliveryDate(s.now())
	if err != nil {
		s.logger.Error("delivery_date_unresolved", "No delivery date for customer", "", map[string]interface{}{
			"customer_id": customer.ID,
		}, err)
		return nil, err
	}

	items, err := s.buildItems(ctx, cmd.Items)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(customer.ID, deliveryDate, items, cmd.Notes)
	if err != nil {
		return nil, err
	}

	number, err := s.orders.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order.Number = number

	// The repository serializes the amend-vs-create decision: it locks the
	// customer's pending order for this delivery date, if any, within one
	// transaction so concurrent submissions cannot create duplicates.
	amended, err := s.orders.Submit(ctx, order)
	if err != nil {
		s.logger.Error("db_transaction_failed", "Failed to submit order", "", nil, err)
		return nil, err
	}

	event := interfaces.EventOrderPlaced
	if amended {
		event = interfaces.EventOrderAmended
	}
	s.publishEvent(ctx, event, order)

	s.logger.Info("order_submitted", "Order submitted", "", map[string]interface{}{
		"order_number":  order.Number,
		"customer_id":   customer.ID,
		"delivery_date": order.DeliveryDate.Format("2006-01-02"),
		"total_amount":  order.TotalAmount.String(),
		"amended":       amended,
	})

	return &interfaces.OrderResult{Order: order, Amended: amended}, nil
}

// buildItems validates quantities against product minimums and snapshots the
// current retail price onto each line. All offending lines are reported
// together so the form can show every message at once.
func (s *Service) buildItems(ctx context.Context, lines []interfaces.OrderLineCommand) ([]domain.OrderItem, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	var errs domain.ValidationErrors
	items := make([]domain.OrderItem, 0, len(lines))

	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, &domain.NotFoundError{Kind: "product", ID: strconv.Itoa(line.ProductID)}
		}

		if line.Quantity < product.MinimumQuantity {
			errs = append(errs, domain.ValidationError{
				Field:   fmt.Sprintf("quantity_%d", product.ID),
				Message: fmt.Sprintf("minimum quantity for %s is %d", product.Name, product.MinimumQuantity),
			})
			continue
		}

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.RetailPrice(),
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

// GetOrder returns one order. Customers may only read their own.
func (s *Service) GetOrder(ctx context.Context, actor domain.Actor, number string) (*domain.Order, error) {
	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCustomerAccess(actor, order.CustomerID, "read this order"); err != nil {
		return nil, err
	}
	return order, nil
}

// ListRecent returns the customer's latest orders, newest first. The bulk
// order form uses these to pre-fill quantities from previous submissions.
func (s *Service) ListRecent(ctx context.Context, actor domain.Actor, customerID, limit int) ([]*domain.Order, error) {
	if err := s.authorizeCustomerAccess(actor, customerID, "read order history"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 3
	}
	return s.orders.ListRecentByCustomer(ctx, customerID, limit)
}

// NextDelivery resolves the next delivery date for a customer.
func (s *Service) NextDelivery(ctx context.Context, actor domain.Actor, customerID int) (time.Time, error) {
	if err := s.authorizeCustomerAccess(actor, customerID, "read the delivery schedule"); err != nil {
		return time.Time{}, err
	}
	customer, err := s.activeCustomer(ctx, customerID)
	if err != nil {
		return time.Time{}, err
	}
	return customer.NextDeliveryDate(s.now())
}

// Confirm moves a pending order to confirmed. Staff only.
func (s *Service) Confirm(ctx context.Context, actor domain.Actor, number string) (*domain.Order, error) {
	return s.transition(ctx, actor, number, domain.StatusConfirmed, interfaces.EventOrderConfirmed)
}

// Cancel moves a pending order to cancelled. Staff only. Cancellation is
// terminal, the record stays.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, number string) (*domain.Order, error) {
	return s.transition(ctx, actor, number, domain.StatusCancelled, interfaces.EventOrderCancelled)
}

func (s *Service) transition(ctx context.Context, actor domain.Actor, number string, status domain.Status, event interfaces.OrderEvent) (*domain.Order, error) {
	if !actor.Role.IsStaff() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Operation: "change order status"}
	}

	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, event, order)

	s.logger.Info("order_status_changed", fmt.Sprintf("Order %s %s", order.Number, status), "", map[string]interface{}{
		"order_number": order.Number,
		"status":       string(status),
	})
	return order, nil
}

func (s *Service) activeCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !customer.Active {
		return nil, &domain.NotFoundError{Kind: "customer", ID: strconv.Itoa(id)}
	}
	return customer, nil
}

// authorizeCustomerAccess lets staff through and restricts customers to
// their own records.
func (s *Service) authorizeCustomerAccess(actor domain.Actor, customerID int, operation string) error {
	if actor.Role.IsStaff() {
		return nil
	}
	if actor.Role == domain.RoleCustomer && actor.OwnsCustomer(customerID) {
		return nil
	}
	return &domain.AuthorizationError{Role: actor.Role, Operation: operation}
}

func (s *Service) publishEvent(ctx context.Context, event interfaces.OrderEvent, order *domain.Order) {
	items := make([]interfaces.OrderEventItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = interfaces.OrderEventItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}

	msg := interfaces.OrderEventMessage{
		Event:        event,
		OrderNumber:  order.Number,
		CustomerID:   order.CustomerID,
		Status:       order.Status,
		DeliveryDate: order.DeliveryDate.Format("2006-01-02"),
		TotalAmount:  order.TotalAmount,
		Items:        items,
		Timestamp:    s.now().UTC(),
	}

	// Event delivery is best effort; the order is already persisted.
	if err := s.publisher.PublishOrderEvent(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish order event", "", map[string]interface{}{
			"order_number": order.Number,
			"event":        string(event),
		}, err)
	}
}
