package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Belgian identifiers: enterprise VAT numbers are ten digits starting with
// 0 or 1, phone numbers cover both landline and GSM forms.
var (
	vatNumberRegex   = regexp.MustCompile(`^[01]\d{9}$`)
	phoneNumberRegex = regexp.MustCompile(`^(\+32|0)[1-9]\d{7,8}$`)
)

// Customer is a supermarket or retail chain location ordering from the
// distributor. Customers are soft-disabled, never deleted.
type Customer struct {
	ID            int
	Number        string
	CompanyName   string
	Address       string
	ContactPerson string
	VATNumber     *string
	PhoneNumber   string
	Schedule      DeliverySchedule
	UserID        *int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate applies account business rules, including the delivery schedule.
func (c *Customer) Validate() error {
	var errs ValidationErrors

	if c.Number == "" {
		errs = append(errs, ValidationError{Field: "customer_number", Message: "customer number is required"})
	}
	if c.CompanyName == "" {
		errs = append(errs, ValidationError{Field: "company_name", Message: "company name is required"})
	}
	if c.VATNumber != nil && !vatNumberRegex.MatchString(*c.VATNumber) {
		errs = append(errs, ValidationError{
			Field:   "vat_number",
			Message: "Belgian VAT number must be 10 digits starting with 0 or 1",
		})
	}
	if c.PhoneNumber != "" && !phoneNumberRegex.MatchString(c.PhoneNumber) {
		errs = append(errs, ValidationError{
			Field:   "phone_number",
			Message: "phone number must be a valid Belgian number",
		})
	}
	if len(c.Schedule) == 0 {
		errs = append(errs, ValidationError{
			Field:   "delivery_schedule",
			Message: "delivery schedule must name at least one weekday",
		})
	} else if err := c.Schedule.Validate(); err != nil {
		if ve, ok := err.(ValidationErrors); ok {
			errs = append(errs, ve...)
		} else {
			errs = append(errs, ValidationError{Field: "delivery_schedule", Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// NextDeliveryDate resolves the next delivery for this customer.
func (c *Customer) NextDeliveryDate(now time.Time) (time.Time, error) {
	return c.Schedule.NextDelivery(now)
}

func (c *Customer) String() string {
	return fmt.Sprintf("%s - %s", c.Number, c.CompanyName)
}
