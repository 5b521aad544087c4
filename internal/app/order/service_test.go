package order_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/app/order"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

// 2025-06-03 is a Tuesday, 2025-06-06 a Friday.
var (
	tuesday = time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	friday  = time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func clockAt(day time.Time, hour, minute int) func() time.Time {
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	return func() time.Time { return at }
}

// In-memory fakes mirroring the postgres adapter's contracts.

type fakeOrderRepo struct {
	orders  map[string]*domain.Order
	seq     int
	nextSeq int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Submit(_ context.Context, o *domain.Order) (bool, error) {
	for _, existing := range r.orders {
		if existing.CustomerID == o.CustomerID &&
			existing.Status == domain.StatusPending &&
			existing.DeliveryDate.Equal(o.DeliveryDate) {
			if err := existing.ReplaceItems(o.Items); err != nil {
				return false, err
			}
			existing.Notes = o.Notes
			o.ID = existing.ID
			o.Number = existing.Number
			return true, nil
		}
	}
	r.seq++
	o.ID = r.seq
	r.orders[o.Number] = o
	return false, nil
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, number string) (*domain.Order, error) {
	o, ok := r.orders[number]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "order", ID: number}
	}
	return o, nil
}

func (r *fakeOrderRepo) FindPendingForDelivery(_ context.Context, customerID int, deliveryDate time.Time) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.CustomerID == customerID && o.Status == domain.StatusPending && o.DeliveryDate.Equal(deliveryDate) {
			return o, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "order", ID: "pending"}
}

func (r *fakeOrderRepo) ListRecentByCustomer(_ context.Context, customerID, limit int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeOrderRepo) GenerateOrderNumber(_ context.Context) (string, error) {
	r.nextSeq++
	return fmt.Sprintf("ORD_20250603_%03d", r.nextSeq), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, o *domain.Order) error {
	if _, ok := r.orders[o.Number]; !ok {
		return &domain.NotFoundError{Kind: "order", ID: o.Number}
	}
	r.orders[o.Number] = o
	return nil
}

type fakeCustomerRepo struct {
	customers map[int]*domain.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id int) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "customer", ID: strconv.Itoa(id)}
	}
	return c, nil
}

func (r *fakeCustomerRepo) FindByUserID(_ context.Context, userID int) (*domain.Customer, error) {
	for _, c := range r.customers {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "customer", ID: strconv.Itoa(userID)}
}

func (r *fakeCustomerRepo) Deactivate(_ context.Context, id int) error {
	c, ok := r.customers[id]
	if !ok {
		return &domain.NotFoundError{Kind: "customer", ID: strconv.Itoa(id)}
	}
	c.Active = false
	return nil
}

type fakeProductRepo struct {
	products map[int]*domain.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	p.ID = len(r.products) + 1
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id int) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "product", ID: strconv.Itoa(id)}
	}
	return p, nil
}

func (r *fakeProductRepo) ListActive(_ context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Deactivate(_ context.Context, id int) error {
	p, ok := r.products[id]
	if !ok {
		return &domain.NotFoundError{Kind: "product", ID: strconv.Itoa(id)}
	}
	p.Active = false
	return nil
}

type fakePublisher struct {
	events []interfaces.OrderEventMessage
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, msg interfaces.OrderEventMessage) error {
	p.events = append(p.events, msg)
	return nil
}

type fixture struct {
	service   *order.Service
	orders    *fakeOrderRepo
	customers *fakeCustomerRepo
	products  *fakeProductRepo
	publisher *fakePublisher
}

func newFixture(now func() time.Time) *fixture {
	customerUserID := 10
	f := &fixture{
		orders: newFakeOrderRepo(),
		customers: &fakeCustomerRepo{customers: map[int]*domain.Customer{
			1: {
				ID:          1,
				Number:      "CUST001",
				CompanyName: "Test Supermarket",
				Schedule: domain.DeliverySchedule{
					{Weekday: time.Tuesday, Cutoff: "14:00"},
					{Weekday: time.Friday, Cutoff: "14:00"},
				},
				UserID: &customerUserID,
				Active: true,
			},
			2: {ID: 2, Number: "CUST002", CompanyName: "Closed Shop", Active: false},
		}},
		products: &fakeProductRepo{products: map[int]*domain.Product{
			1: {ID: 1, Name: "Jambon", UnitCost: dec("10.00"), MarginRate: dec("0.30"), MinimumQuantity: 5, Active: true},
			2: {ID: 2, Name: "Salami", UnitCost: dec("3.00"), MarginRate: dec("0.30"), MinimumQuantity: 1, Active: true},
			3: {ID: 3, Name: "Old Stock", UnitCost: dec("1.00"), MarginRate: dec("0.30"), MinimumQuantity: 1, Active: false},
		}},
		publisher: &fakePublisher{},
	}
	f.service = order.NewService(f.orders, f.customers, f.products, f.publisher, logger.Nop()).WithClock(now)
	return f
}

func customerActor(customerID int) domain.Actor {
	return domain.Actor{UserID: 10, Role: domain.RoleCustomer, CustomerID: &customerID}
}

var staffActor = domain.Actor{UserID: 20, Role: domain.RoleEmployee}

func TestPlaceOrderComputesTotalsAndSnapshotsPrices(t *testing.T) {
	f := newFixture(clockAt(tuesday, 10, 0))

	result, err := f.service.PlaceOrder(context.Background(), customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items: []interfaces.OrderLineCommand{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 10},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Amended)
	assert.Equal(t, domain.StatusPending, result.Order.Status)
	assert.Equal(t, tuesday, result.Order.DeliveryDate)
	assert.NotEmpty(t, result.Order.Number)

	// Unit prices are retail prices frozen at submission time:
	// 10.00 × 1.30 × 1.06 = 13.78 and 3.00 × 1.30 × 1.06 = 4.13.
	require.Len(t, result.Order.Items, 2)
	assert.True(t, result.Order.Items[0].UnitPrice.Equal(dec("13.78")), "got %s", result.Order.Items[0].UnitPrice)
	assert.True(t, result.Order.Items[1].UnitPrice.Equal(dec("4.13")), "got %s", result.Order.Items[1].UnitPrice)
	assert.True(t, result.Order.TotalAmount.Equal(dec("110.20")), "got %s", result.Order.TotalAmount)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, interfaces.EventOrderPlaced, f.publisher.events[0].Event)
	assert.Equal(t, "2025-06-03", f.publisher.events[0].DeliveryDate)
}

func TestPlaceOrderBelowMinimumQuantityFails(t *testing.T) {
	f := newFixture(clockAt(tuesday, 10, 0))

	_, err := f.service.PlaceOrder(context.Background(), customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items: []interfaces.OrderLineCommand{
			{ProductID: 1, Quantity: 0},
			{ProductID: 2, Quantity: 1},
		},
	})

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "quantity_1", errs[0].Field)
	assert.Equal(t, "minimum quantity for Jambon is 5", errs[0].Message)

	// Nothing is persisted and nothing is published.
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.publisher.events)
}

func TestPlaceOrderWithoutItemsFails(t *testing.T) {
	f := newFixture(clockAt(tuesday, 10, 0))

	_, err := f.service.PlaceOrder(context.Background(), customerActor(1), interfaces.PlaceOrderCommand{CustomerID: 1})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestPlaceOrderRejectsInactiveProduct(t *testing.T) {
	f := newFixture(clockAt(tuesday, 10, 0))

	_, err := f.service.PlaceOrder(context.Background(), customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 3, Quantity: 1}},
	})

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Kind)
}

func TestPlaceOrderWithinWindowAmendsExistingOrder(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))
	ctx := context.Background()

	first, err := f.service.PlaceOrder(ctx, customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 1, Quantity: 5}},
	})
	require.NoError(t, err)
	require.False(t, first.Amended)

	// A second submission in the same window replaces the items wholesale.
	second, err := f.service.PlaceOrder(ctx, customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.True(t, second.Amended)
	assert.Equal(t, first.Order.Number, second.Order.Number)
	assert.Len(t, f.orders.orders, 1)

	stored := f.orders.orders[first.Order.Number]
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].ProductID)
	assert.True(t, stored.TotalAmount.Equal(dec("12.39")), "got %s", stored.TotalAmount)

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, interfaces.EventOrderAmended, f.publisher.events[1].Event)
}

func TestPlaceOrderAfterCutoffTargetsNextDeliveryDay(t *testing.T) {
	f := newFixture(clockAt(tuesday, 15, 0))

	result, err := f.service.PlaceOrder(context.Background(), customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.False(t, result.Amended)
	assert.Equal(t, friday, result.Order.DeliveryDate)
}

func TestPlaceOrderDistinctWindowsCreateDistinctOrders(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))
	ctx := context.Background()

	first, err := f.service.PlaceOrder(ctx, customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	// After the Tuesday cutoff the next submission targets Friday.
	f.service.WithClock(clockAt(tuesday, 15, 0))
	second, err := f.service.PlaceOrder(ctx, customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.False(t, second.Amended)
	assert.NotEqual(t, first.Order.Number, second.Order.Number)
	assert.Len(t, f.orders.orders, 2)
}

func TestPlaceOrderDeniedForOtherCustomer(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))

	_, err := f.service.PlaceOrder(context.Background(), customerActor(2), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})

	var authErr *domain.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrderForInactiveCustomerFails(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))

	_, err := f.service.PlaceOrder(context.Background(), staffActor, interfaces.PlaceOrderCommand{
		CustomerID: 2,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "customer", notFound.Kind)
}

func TestPlaceOrderWithoutScheduleFails(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))
	f.customers.customers[1].Schedule = nil

	_, err := f.service.PlaceOrder(context.Background(), customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})

	var configErr *domain.ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestConfirmAndCancelTransitions(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))
	ctx := context.Background()

	placed, err := f.service.PlaceOrder(ctx, customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	confirmed, err := f.service.Confirm(ctx, staffActor, placed.Order.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	// Confirmed orders can no longer be cancelled.
	_, err = f.service.Cancel(ctx, staffActor, placed.Order.Number)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, interfaces.EventOrderConfirmed, f.publisher.events[1].Event)
}

func TestTransitionsAreStaffOnly(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))
	ctx := context.Background()

	placed, err := f.service.PlaceOrder(ctx, customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	var authErr *domain.AuthorizationError
	_, err = f.service.Confirm(ctx, customerActor(1), placed.Order.Number)
	require.ErrorAs(t, err, &authErr)
	_, err = f.service.Cancel(ctx, customerActor(1), placed.Order.Number)
	require.ErrorAs(t, err, &authErr)
}

func TestGetOrderRestrictedToOwner(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))
	ctx := context.Background()

	placed, err := f.service.PlaceOrder(ctx, customerActor(1), interfaces.PlaceOrderCommand{
		CustomerID: 1,
		Items:      []interfaces.OrderLineCommand{{ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	got, err := f.service.GetOrder(ctx, customerActor(1), placed.Order.Number)
	require.NoError(t, err)
	assert.Equal(t, placed.Order.Number, got.Number)

	// Staff may read any order, other customers may not.
	_, err = f.service.GetOrder(ctx, staffActor, placed.Order.Number)
	assert.NoError(t, err)

	var authErr *domain.AuthorizationError
	_, err = f.service.GetOrder(ctx, customerActor(99), placed.Order.Number)
	require.ErrorAs(t, err, &authErr)
}

func TestNextDelivery(t *testing.T) {
	f := newFixture(clockAt(tuesday, 9, 0))

	got, err := f.service.NextDelivery(context.Background(), customerActor(1), 1)
	require.NoError(t, err)
	assert.Equal(t, tuesday, got)
}
