package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// IsStaff reports whether the role may manage products, customers and orders.
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// IsAdmin reports whether the role may manage user accounts.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleEmployee || r == RoleAdmin
}

// User is a portal credential record.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Actor identifies who is performing an operation. The role travels with
// every service call instead of living in ambient request state.
type Actor struct {
	UserID     int
	Role       Role
	CustomerID *int
}

// OwnsCustomer reports whether the actor is the customer with the given id.
func (a Actor) OwnsCustomer(customerID int) bool {
	return a.CustomerID != nil && *a.CustomerID == customerID
}
