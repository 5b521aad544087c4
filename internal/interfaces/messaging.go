package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshconcept/ordering/internal/domain"
)

// Order lifecycle events published to RabbitMQ.
type OrderEvent string

const (
	EventOrderPlaced    OrderEvent = "placed"
	EventOrderAmended   OrderEvent = "amended"
	EventOrderConfirmed OrderEvent = "confirmed"
	EventOrderCancelled OrderEvent = "cancelled"
)

type OrderEventMessage struct {
	Event        OrderEvent       `json:"event"`
	OrderNumber  string           `json:"order_number"`
	CustomerID   int              `json:"customer_id"`
	Status       domain.Status    `json:"status"`
	DeliveryDate string           `json:"delivery_date"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	Items        []OrderEventItem `json:"items"`
	Timestamp    time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, msg OrderEventMessage) error
}

type OrderEventHandler func(ctx context.Context, body []byte) error

type MessageConsumer interface {
	ConsumeOrderEvents(ctx context.Context, handler OrderEventHandler) error
}
