package account

import (
	"context"
	"errors"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

// ErrInvalidCredentials is returned for unknown users, wrong passwords and
// disabled accounts alike so login failures stay indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service implements staff-side customer and credential management.
type Service struct {
	customers interfaces.CustomerRepository
	users     interfaces.UserRepository
	logger    logger.Logger
}

func NewService(customers interfaces.CustomerRepository, users interfaces.UserRepository, lgr logger.Logger) *Service {
	return &Service{customers: customers, users: users, logger: lgr}
}

// CreateCustomer registers a customer location. Staff only.
func (s *Service) CreateCustomer(ctx context.Context, actor domain.Actor, cmd interfaces.CreateCustomerCommand) (*domain.Customer, error) {
	if !actor.Role.IsStaff() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Operation: "manage customers"}
	}

	customer := &domain.Customer{
		Number:        cmd.Number,
		CompanyName:   cmd.CompanyName,
		Address:       cmd.Address,
		ContactPerson: cmd.ContactPerson,
		VATNumber:     cmd.VATNumber,
		PhoneNumber:   cmd.PhoneNumber,
		Schedule:      cmd.Schedule,
		UserID:        cmd.UserID,
		Active:        true,
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer_created", "Customer registered", "", map[string]interface{}{
		"customer_id":     customer.ID,
		"customer_number": customer.Number,
	})
	return customer, nil
}

// UpdateCustomer changes a customer record, including its delivery schedule.
func (s *Service) UpdateCustomer(ctx context.Context, actor domain.Actor, cmd interfaces.UpdateCustomerCommand) (*domain.Customer, error) {
	if !actor.Role.IsStaff() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Operation: "manage customers"}
	}

	customer, err := s.customers.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	customer.CompanyName = cmd.CompanyName
	customer.Address = cmd.Address
	customer.ContactPerson = cmd.ContactPerson
	customer.VATNumber = cmd.VATNumber
	customer.PhoneNumber = cmd.PhoneNumber
	customer.Schedule = cmd.Schedule

	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer_updated", "Customer updated", "", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return customer, nil
}

// DeactivateCustomer soft-disables a customer; its orders remain.
func (s *Service) DeactivateCustomer(ctx context.Context, actor domain.Actor, id int) error {
	if !actor.Role.IsStaff() {
		return &domain.AuthorizationError{Role: actor.Role, Operation: "manage customers"}
	}
	if err := s.customers.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer_deactivated", "Customer disabled", "", map[string]interface{}{
		"customer_id": id,
	})
	return nil
}

// CreateUser registers portal credentials. Admin only.
func (s *Service) CreateUser(ctx context.Context, actor domain.Actor, cmd interfaces.CreateUserCommand) (*domain.User, error) {
	if !actor.Role.IsAdmin() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Operation: "manage users"}
	}

	var errs domain.ValidationErrors
	if cmd.Username == "" {
		errs = append(errs, domain.ValidationError{Field: "username", Message: "username is required"})
	}
	if len(cmd.Password) < 8 {
		errs = append(errs, domain.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if !cmd.Role.Valid() {
		errs = append(errs, domain.ValidationError{Field: "role", Message: "role must be one of: customer, employee, admin"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := domain.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     cmd.Username,
		PasswordHash: hash,
		Role:         cmd.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user_created", "User registered", "", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
	})
	return user, nil
}

// Authenticate verifies credentials and builds the Actor carried through
// every subsequent service call. Customer users are linked to their
// customer record so ownership checks can run without another lookup.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.Actor, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	actor := &domain.Actor{UserID: user.ID, Role: user.Role}

	if user.Role == domain.RoleCustomer {
		customer, err := s.customers.FindByUserID(ctx, user.ID)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				// Credential without a customer profile cannot act.
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		actor.CustomerID = &customer.ID
	}

	return actor, nil
}
