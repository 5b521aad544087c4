package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	schedule, err := json.Marshal(customer.Schedule)
	if err != nil {
		return fmt.Errorf("failed to encode delivery schedule: %w", err)
	}

	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	err = r.db.QueryRow(ctx, `
		INSERT INTO customers (number, company_name, address, contact_person, vat_number,
		                       phone_number, delivery_schedule, user_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, customer.Number, customer.CompanyName, customer.Address, customer.ContactPerson,
		customer.VATNumber, customer.PhoneNumber, schedule, customer.UserID,
		customer.Active, customer.CreatedAt, customer.UpdatedAt,
	).Scan(&customer.ID)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	schedule, err := json.Marshal(customer.Schedule)
	if err != nil {
		return fmt.Errorf("failed to encode delivery schedule: %w", err)
	}

	customer.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET company_name = $1, address = $2, contact_person = $3, vat_number = $4,
		    phone_number = $5, delivery_schedule = $6, updated_at = $7
		WHERE id = $8
	`, customer.CompanyName, customer.Address, customer.ContactPerson, customer.VATNumber,
		customer.PhoneNumber, schedule, customer.UpdatedAt, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "customer", ID: strconv.Itoa(customer.ID)}
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	return r.findOne(ctx, `
		SELECT id, number, company_name, address, contact_person, vat_number,
		       phone_number, delivery_schedule, user_id, active, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, strconv.Itoa(id), id)
}

func (r *customerRepository) FindByUserID(ctx context.Context, userID int) (*domain.Customer, error) {
	return r.findOne(ctx, `
		SELECT id, number, company_name, address, contact_person, vat_number,
		       phone_number, delivery_schedule, user_id, active, created_at, updated_at
		FROM customers
		WHERE user_id = $1
	`, fmt.Sprintf("user:%d", userID), userID)
}

func (r *customerRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers SET active = FALSE, updated_at = $1 WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "customer", ID: strconv.Itoa(id)}
	}
	return nil
}

func (r *customerRepository) findOne(ctx context.Context, query, ref string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	var schedule []byte

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&customer.ID, &customer.Number, &customer.CompanyName, &customer.Address,
		&customer.ContactPerson, &customer.VATNumber, &customer.PhoneNumber,
		&schedule, &customer.UserID, &customer.Active, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "customer", ID: ref}
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &customer.Schedule); err != nil {
			return nil, fmt.Errorf("failed to decode delivery schedule: %w", err)
		}
	}
	return &customer, nil
}
