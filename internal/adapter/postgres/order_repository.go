package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// Submit runs the create-vs-amend decision inside one transaction. The
// customer's pending order for the delivery date, if any, is locked with
// FOR UPDATE so two concurrent submissions cannot both decide to create.
func (r *orderRepository) Submit(ctx context.Context, order *domain.Order) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID int
	var existingNumber string
	err = tx.QueryRow(ctx, `
		SELECT id, number FROM orders
		WHERE customer_id = $1 AND status = $2 AND delivery_date = $3
		FOR UPDATE
	`, order.CustomerID, domain.StatusPending, order.DeliveryDate).Scan(&existingID, &existingNumber)

	amended := false
	switch {
	case err == nil:
		amended = true
		order.ID = existingID
		order.Number = existingNumber

		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
			return false, fmt.Errorf("failed to clear order items: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE orders SET total_amount = $1, notes = $2, updated_at = $3 WHERE id = $4
		`, order.TotalAmount, order.Notes, time.Now(), order.ID); err != nil {
			return false, fmt.Errorf("failed to update order: %w", err)
		}

	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (number, customer_id, status, delivery_date, total_amount, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, order.Number, order.CustomerID, order.Status, order.DeliveryDate,
			order.TotalAmount, order.Notes, order.CreatedAt, order.UpdatedAt,
		).Scan(&order.ID)
		if err != nil {
			return false, fmt.Errorf("failed to insert order: %w", err)
		}

	default:
		return false, fmt.Errorf("failed to lock pending order: %w", err)
	}

	for i := range order.Items {
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, order.ID, order.Items[i].ProductID, order.Items[i].ProductName,
			order.Items[i].Quantity, order.Items[i].UnitPrice, order.Items[i].LineTotal,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return false, fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return amended, nil
}

func (r *orderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	order, err := r.scanOrder(r.db.QueryRow(ctx, `
		SELECT id, number, customer_id, status, delivery_date, total_amount, notes, created_at, updated_at
		FROM orders
		WHERE number = $1
	`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "order", ID: number}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) FindPendingForDelivery(ctx context.Context, customerID int, deliveryDate time.Time) (*domain.Order, error) {
	order, err := r.scanOrder(r.db.QueryRow(ctx, `
		SELECT id, number, customer_id, status, delivery_date, total_amount, notes, created_at, updated_at
		FROM orders
		WHERE customer_id = $1 AND status = $2 AND delivery_date = $3
	`, customerID, domain.StatusPending, deliveryDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "pending order", ID: deliveryDate.Format("2006-01-02")}
		}
		return nil, fmt.Errorf("failed to load pending order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListRecentByCustomer(ctx context.Context, customerID, limit int) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, number, customer_id, status, delivery_date, total_amount, notes, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	prefix := fmt.Sprintf("ORD_%s_", now.Format("20060102"))

	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders WHERE number LIKE $1
	`, prefix+"%").Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
	`, order.Status, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "order", ID: order.Number}
	}
	return nil
}

func (r *orderRepository) scanOrder(row Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.Number, &order.CustomerID, &order.Status, &order.DeliveryDate,
		&order.TotalAmount, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}
