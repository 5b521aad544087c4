package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Order is a bulk purchase order from a customer. Cancellation is terminal;
// orders are never hard-deleted.
type Order struct {
	ID           int
	Number       string
	CustomerID   int
	Status       Status
	DeliveryDate time.Time
	TotalAmount  decimal.Decimal
	Notes        *string
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem is one product line. Name and unit price are captured at
// submission time so later catalog changes never alter a placed order.
type OrderItem struct {
	ID          int
	OrderID     int
	ProductID   int
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// NewOrder assembles a pending order and computes its total.
func NewOrder(customerID int, deliveryDate time.Time, items []OrderItem, notes *string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &Order{
		CustomerID:   customerID,
		Status:       StatusPending,
		DeliveryDate: deliveryDate,
		Notes:        notes,
		Items:        items,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	order.CalculateTotal()
	return order, nil
}

// CalculateTotal recomputes line totals and the order total. Called whenever
// items change so the total always equals the sum of its lines.
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].LineTotal = o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(o.Items[i].Quantity)))
		total = total.Add(o.Items[i].LineTotal)
	}
	o.TotalAmount = RoundMoney(total)
}

// TotalItems is the number of units across all lines.
func (o *Order) TotalItems() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ReplaceItems swaps the order's lines for an amended submission and
// recomputes the total.
func (o *Order) ReplaceItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	o.Items = items
	o.UpdatedAt = time.Now()
	o.CalculateTotal()
	return nil
}

// CanTransitionTo checks the status state machine: pending orders may be
// confirmed or cancelled, nothing else moves.
func (o *Order) CanTransitionTo(newStatus Status) bool {
	validTransitions := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {},
		StatusCancelled: {},
	}

	for _, s := range validTransitions[o.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to a new status.
func (o *Order) TransitionTo(newStatus Status) error {
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return nil
}

// Amendable reports whether a new submission may still replace this order.
func (o *Order) Amendable() bool {
	return o.Status == StatusPending
}
