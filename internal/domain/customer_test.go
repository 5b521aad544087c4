package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshconcept/ordering/internal/domain"
)

func validCustomer() domain.Customer {
	vat := "0123456789"
	return domain.Customer{
		Number:        "CUST001",
		CompanyName:   "Test Supermarket",
		Address:       "123 Test Street, Brussels",
		ContactPerson: "John Doe",
		VATNumber:     &vat,
		PhoneNumber:   "+3221234567",
		Schedule:      tueFriSchedule(),
		Active:        true,
	}
}

func TestCustomerValidateAcceptsValidRecord(t *testing.T) {
	customer := validCustomer()
	require.NoError(t, customer.Validate())
}

func TestCustomerValidateVATNumber(t *testing.T) {
	valid := []string{"0123456789", "1123456789"}
	for _, vat := range valid {
		customer := validCustomer()
		customer.VATNumber = &vat
		assert.NoError(t, customer.Validate(), "vat %s", vat)
	}

	invalid := []string{"123456789", "012345678", "2123456789", "abc1234567"}
	for _, vat := range invalid {
		customer := validCustomer()
		customer.VATNumber = &vat
		err := customer.Validate()
		require.Error(t, err, "vat %s", vat)

		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "vat_number", errs[0].Field)
	}
}

func TestCustomerValidatePhoneNumber(t *testing.T) {
	valid := []string{"+3221234567", "021234567", "+32470123456", "0470123456"}
	for _, phone := range valid {
		customer := validCustomer()
		customer.PhoneNumber = phone
		assert.NoError(t, customer.Validate(), "phone %s", phone)
	}

	invalid := []string{"+320123456", "1234567", "+3321234567"}
	for _, phone := range invalid {
		customer := validCustomer()
		customer.PhoneNumber = phone
		err := customer.Validate()
		require.Error(t, err, "phone %s", phone)
	}
}

func TestCustomerValidateRequiresSchedule(t *testing.T) {
	customer := validCustomer()
	customer.Schedule = nil

	err := customer.Validate()
	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "delivery_schedule", errs[0].Field)
}

func TestCustomerNextDeliveryDate(t *testing.T) {
	customer := validCustomer()
	got, err := customer.NextDeliveryDate(at(tuesday, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, tuesday, got)
}

func TestCustomerString(t *testing.T) {
	customer := validCustomer()
	assert.Equal(t, "CUST001 - Test Supermarket", customer.String())
}
