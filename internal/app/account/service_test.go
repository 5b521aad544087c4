package account_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/app/account"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type fakeCustomerRepo struct {
	customers map[int]*domain.Customer
	seq       int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[int]*domain.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.seq++
	c.ID = r.seq
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return &domain.NotFoundError{Kind: "customer", ID: strconv.Itoa(c.ID)}
	}
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

type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.seq++
	u.ID = r.seq
	r.users[u.Username] = u
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "user", ID: username}
	}
	return u, nil
}

var (
	admin    = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	employee = domain.Actor{UserID: 2, Role: domain.RoleEmployee}
	customer = domain.Actor{UserID: 3, Role: domain.RoleCustomer}
)

func newService() (*account.Service, *fakeCustomerRepo, *fakeUserRepo) {
	customers := newFakeCustomerRepo()
	users := newFakeUserRepo()
	return account.NewService(customers, users, logger.Nop()), customers, users
}

func validCustomerCommand() interfaces.CreateCustomerCommand {
	vat := "0123456789"
	return interfaces.CreateCustomerCommand{
		Number:        "CUST001",
		CompanyName:   "Test Supermarket",
		Address:       "123 Test Street, Brussels",
		ContactPerson: "John Doe",
		VATNumber:     &vat,
		PhoneNumber:   "+3221234567",
		Schedule: domain.DeliverySchedule{
			{Weekday: time.Tuesday, Cutoff: "14:00"},
			{Weekday: time.Friday, Cutoff: "14:00"},
		},
	}
}

func TestCreateCustomer(t *testing.T) {
	service, repo, _ := newService()

	created, err := service.CreateCustomer(context.Background(), employee, validCustomerCommand())
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.True(t, created.Active)
	assert.Len(t, repo.customers, 1)
}

func TestCreateCustomerValidationFailure(t *testing.T) {
	service, repo, _ := newService()

	cmd := validCustomerCommand()
	cmd.PhoneNumber = "not-a-phone"
	cmd.Schedule = nil

	_, err := service.CreateCustomer(context.Background(), employee, cmd)

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Empty(t, repo.customers)
}

func TestCustomerManagementIsStaffOnly(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	var authErr *domain.AuthorizationError

	_, err := service.CreateCustomer(ctx, customer, validCustomerCommand())
	require.ErrorAs(t, err, &authErr)

	_, err = service.UpdateCustomer(ctx, customer, interfaces.UpdateCustomerCommand{ID: 1})
	require.ErrorAs(t, err, &authErr)

	err = service.DeactivateCustomer(ctx, customer, 1)
	require.ErrorAs(t, err, &authErr)
}

func TestDeactivateCustomerKeepsRecord(t *testing.T) {
	service, repo, _ := newService()
	ctx := context.Background()

	created, err := service.CreateCustomer(ctx, employee, validCustomerCommand())
	require.NoError(t, err)

	require.NoError(t, service.DeactivateCustomer(ctx, employee, created.ID))

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestCreateUserIsAdminOnly(t *testing.T) {
	service, _, _ := newService()

	cmd := interfaces.CreateUserCommand{Username: "jdoe", Password: "s3cret-passw0rd", Role: domain.RoleEmployee}

	var authErr *domain.AuthorizationError
	_, err := service.CreateUser(context.Background(), employee, cmd)
	require.ErrorAs(t, err, &authErr)

	user, err := service.CreateUser(context.Background(), admin, cmd)
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("s3cret-passw0rd"))
	assert.True(t, user.Active)
}

func TestCreateUserValidation(t *testing.T) {
	service, _, _ := newService()

	_, err := service.CreateUser(context.Background(), admin, interfaces.CreateUserCommand{
		Username: "",
		Password: "short",
		Role:     domain.Role("manager"),
	})

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

func TestAuthenticate(t *testing.T) {
	service, customers, _ := newService()
	ctx := context.Background()

	_, err := service.CreateUser(ctx, admin, interfaces.CreateUserCommand{
		Username: "shopkeeper", Password: "s3cret-passw0rd", Role: domain.RoleCustomer,
	})
	require.NoError(t, err)

	// Link the credential to a customer profile.
	cmd := validCustomerCommand()
	userID := 1
	cmd.UserID = &userID
	created, err := service.CreateCustomer(ctx, admin, cmd)
	require.NoError(t, err)

	actor, err := service.Authenticate(ctx, "shopkeeper", "s3cret-passw0rd")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, actor.Role)
	require.NotNil(t, actor.CustomerID)
	assert.Equal(t, created.ID, *actor.CustomerID)

	_, err = service.Authenticate(ctx, "shopkeeper", "wrong")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, "nobody", "s3cret-passw0rd")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	// Customer link disappearing means the credential cannot act.
	delete(customers.customers, created.ID)
	_, err = service.Authenticate(ctx, "shopkeeper", "s3cret-passw0rd")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	service, _, users := newService()
	ctx := context.Background()

	_, err := service.CreateUser(ctx, admin, interfaces.CreateUserCommand{
		Username: "former", Password: "s3cret-passw0rd", Role: domain.RoleEmployee,
	})
	require.NoError(t, err)
	users.users["former"].Active = false

	_, err = service.Authenticate(ctx, "former", "s3cret-passw0rd")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestAuthenticateStaffHasNoCustomerLink(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	_, err := service.CreateUser(ctx, admin, interfaces.CreateUserCommand{
		Username: "clerk", Password: "s3cret-passw0rd", Role: domain.RoleEmployee,
	})
	require.NoError(t, err)

	actor, err := service.Authenticate(ctx, "clerk", "s3cret-passw0rd")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, actor.Role)
	assert.Nil(t, actor.CustomerID)
}
