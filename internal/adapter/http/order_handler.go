package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, lgr logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: lgr}
}

type PlaceOrderRequest struct {
	CustomerID int                `json:"customer_id"`
	Notes      *string            `json:"notes,omitempty"`
	Items      []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type OrderResponse struct {
	OrderNumber  string              `json:"order_number"`
	Status       string              `json:"status"`
	DeliveryDate string              `json:"delivery_date"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Amended      bool                `json:"amended,omitempty"`
	Items        []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type NextDeliveryResponse struct {
	DeliveryDate string `json:"delivery_date"`
	Weekday      string `json:"weekday"`
}

// PlaceOrder accepts a bulk submission and either creates a pending order
// or amends the existing one for the same delivery date.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	// Customers may omit customer_id; it defaults to their own record.
	if req.CustomerID == 0 && actor.CustomerID != nil {
		req.CustomerID = *actor.CustomerID
	}

	if fields := validatePlaceOrderRequest(req); len(fields) > 0 {
		h.logger.Warn("validation_failed", "Order submission rejected", requestIDFrom(r), map[string]interface{}{
			"errors": fields,
		})
		writeError(w, http.StatusBadRequest, "Validation failed", fields)
		return
	}

	cmd := interfaces.PlaceOrderCommand{
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, interfaces.OrderLineCommand{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.service.PlaceOrder(r.Context(), actor, cmd)
	if err != nil {
		h.logger.Warn("order_rejected", "Order submission failed", requestIDFrom(r), map[string]interface{}{
			"customer_id": req.CustomerID,
		})
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Amended {
		status = http.StatusOK
	}
	writeJSON(w, status, orderToResponse(result.Order, result.Amended))
}

func validatePlaceOrderRequest(req PlaceOrderRequest) []FieldError {
	var fields []FieldError

	if req.CustomerID <= 0 {
		fields = append(fields, FieldError{Field: "customer_id", Message: "customer id is required"})
	}
	if len(req.Items) == 0 {
		fields = append(fields, FieldError{Field: "items", Message: "order must contain at least 1 item"})
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("items[%d].product_id", i),
				Message: "product id is required",
			})
		}
		if item.Quantity < 0 {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must not be negative",
			})
		}
	}
	return fields
}

// GetOrder returns one order by number.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	order, err := h.service.GetOrder(r.Context(), actor, chi.URLParam(r, "number"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderToResponse(order, false))
}

// ListRecent returns the latest orders for a customer, used by the bulk
// form to pre-fill quantities.
func (h *OrderHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	customerID := 0
	if v := r.URL.Query().Get("customer_id"); v != "" {
		customerID, _ = strconv.Atoi(v)
	} else if actor.CustomerID != nil {
		customerID = *actor.CustomerID
	}
	if customerID <= 0 {
		writeError(w, http.StatusBadRequest, "customer_id is required", nil)
		return
	}

	limit := 3
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	orders, err := h.service.ListRecent(r.Context(), actor, customerID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]OrderResponse, len(orders))
	for i, order := range orders {
		resp[i] = orderToResponse(order, false)
	}
	writeJSON(w, http.StatusOK, resp)
}

// NextDelivery resolves the customer's next delivery date.
func (h *OrderHandler) NextDelivery(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	customerID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id", nil)
		return
	}

	date, err := h.service.NextDelivery(r.Context(), actor, customerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NextDeliveryResponse{
		DeliveryDate: date.Format("2006-01-02"),
		Weekday:      date.Weekday().String(),
	})
}

// Confirm moves a pending order to confirmed.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm)
}

// Cancel moves a pending order to cancelled.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, actor domain.Actor, number string) (*domain.Order, error),
) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	order, err := op(r.Context(), actor, chi.URLParam(r, "number"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderToResponse(order, false))
}

func orderToResponse(order *domain.Order, amended bool) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}

	return OrderResponse{
		OrderNumber:  order.Number,
		Status:       string(order.Status),
		DeliveryDate: order.DeliveryDate.Format("2006-01-02"),
		TotalAmount:  order.TotalAmount,
		Amended:      amended,
		Items:        items,
	}
}
