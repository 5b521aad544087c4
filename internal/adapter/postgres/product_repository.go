package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type productRepository struct {
	db DB
}

func NewProductRepository(db DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, unit_cost, margin_rate, minimum_quantity,
		                      unit_weight, retail_price_override, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, product.Name, product.Description, product.UnitCost, product.MarginRate,
		product.MinimumQuantity, product.UnitWeight, product.RetailPriceOverride,
		product.Active, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, unit_cost = $3, margin_rate = $4,
		    minimum_quantity = $5, unit_weight = $6, retail_price_override = $7, updated_at = $8
		WHERE id = $9
	`, product.Name, product.Description, product.UnitCost, product.MarginRate,
		product.MinimumQuantity, product.UnitWeight, product.RetailPriceOverride,
		product.UpdatedAt, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "product", ID: strconv.Itoa(product.ID)}
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, unit_cost, margin_rate, minimum_quantity,
		       unit_weight, retail_price_override, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.UnitCost,
		&product.MarginRate, &product.MinimumQuantity, &product.UnitWeight,
		&product.RetailPriceOverride, &product.Active, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "product", ID: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, unit_cost, margin_rate, minimum_quantity,
		       unit_weight, retail_price_override, active, created_at, updated_at
		FROM products
		WHERE active = TRUE
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.UnitCost,
			&product.MarginRate, &product.MinimumQuantity, &product.UnitWeight,
			&product.RetailPriceOverride, &product.Active, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}
	return products, rows.Err()
}

func (r *productRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET active = FALSE, updated_at = $1 WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "product", ID: strconv.Itoa(id)}
	}
	return nil
}
