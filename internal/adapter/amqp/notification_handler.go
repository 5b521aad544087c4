package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/interfaces"
)

// NotificationHandler consumes order lifecycle events and surfaces them to
// operators. Stand-in for the e-mail side of the portal.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(lgr logger.Logger) *NotificationHandler {
	return &NotificationHandler{logger: lgr}
}

func (h *NotificationHandler) HandleOrderEvent(ctx context.Context, body []byte) error {
	var msg interfaces.OrderEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse order event", "", nil, err)
		return err
	}

	h.logger.Info("order_event_received", fmt.Sprintf("Order %s %s", msg.OrderNumber, msg.Event),
		msg.OrderNumber, map[string]interface{}{
			"order_number":  msg.OrderNumber,
			"event":         string(msg.Event),
			"customer_id":   msg.CustomerID,
			"delivery_date": msg.DeliveryDate,
			"total_amount":  msg.TotalAmount.String(),
		})

	fmt.Printf("Order %s %s: delivery %s, %d line(s), total %s\n",
		msg.OrderNumber, msg.Event, msg.DeliveryDate, len(msg.Items), msg.TotalAmount.StringFixed(2))

	return nil
}
