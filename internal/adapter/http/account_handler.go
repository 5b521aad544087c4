package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type AccountHandler struct {
	service interfaces.AccountService
	logger  logger.Logger
}

func NewAccountHandler(service interfaces.AccountService, lgr logger.Logger) *AccountHandler {
	return &AccountHandler{service: service, logger: lgr}
}

type ScheduleRuleRequest struct {
	Weekday  int    `json:"weekday"`
	Cutoff   string `json:"cutoff"`
	LeadDays int    `json:"lead_days"`
}

type CustomerRequest struct {
	Number        string                `json:"customer_number"`
	CompanyName   string                `json:"company_name"`
	Address       string                `json:"address"`
	ContactPerson string                `json:"contact_person"`
	VATNumber     *string               `json:"vat_number,omitempty"`
	PhoneNumber   string                `json:"phone_number"`
	Schedule      []ScheduleRuleRequest `json:"delivery_schedule"`
	UserID        *int                  `json:"user_id,omitempty"`
}

type CustomerResponse struct {
	ID            int                   `json:"id"`
	Number        string                `json:"customer_number"`
	CompanyName   string                `json:"company_name"`
	Address       string                `json:"address"`
	ContactPerson string                `json:"contact_person"`
	VATNumber     *string               `json:"vat_number,omitempty"`
	PhoneNumber   string                `json:"phone_number"`
	Schedule      []ScheduleRuleRequest `json:"delivery_schedule"`
	DeliveryDays  []string              `json:"delivery_days"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CreateCustomer registers a customer location. Staff only.
func (h *AccountHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), actor, interfaces.CreateCustomerCommand{
		Number:        req.Number,
		CompanyName:   req.CompanyName,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		VATNumber:     req.VATNumber,
		PhoneNumber:   req.PhoneNumber,
		Schedule:      scheduleFromRequest(req.Schedule),
		UserID:        req.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customerToResponse(customer))
}

// UpdateCustomer changes a customer record, including its schedule. Staff only.
func (h *AccountHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id", nil)
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), actor, interfaces.UpdateCustomerCommand{
		ID:            id,
		CompanyName:   req.CompanyName,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		VATNumber:     req.VATNumber,
		PhoneNumber:   req.PhoneNumber,
		Schedule:      scheduleFromRequest(req.Schedule),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customerToResponse(customer))
}

// DeactivateCustomer soft-disables a customer. Staff only.
func (h *AccountHandler) DeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id", nil)
		return
	}

	if err := h.service.DeactivateCustomer(r.Context(), actor, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateUser registers portal credentials. Admin only.
func (h *AccountHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	user, err := h.service.CreateUser(r.Context(), actor, interfaces.CreateUserCommand{
		Username: req.Username,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

func scheduleFromRequest(rules []ScheduleRuleRequest) domain.DeliverySchedule {
	schedule := make(domain.DeliverySchedule, len(rules))
	for i, r := range rules {
		schedule[i] = domain.ScheduleRule{
			Weekday:  time.Weekday(r.Weekday),
			Cutoff:   r.Cutoff,
			LeadDays: r.LeadDays,
		}
	}
	return schedule
}

func customerToResponse(c *domain.Customer) CustomerResponse {
	schedule := make([]ScheduleRuleRequest, len(c.Schedule))
	for i, r := range c.Schedule {
		schedule[i] = ScheduleRuleRequest{
			Weekday:  int(r.Weekday),
			Cutoff:   r.Cutoff,
			LeadDays: r.LeadDays,
		}
	}

	return CustomerResponse{
		ID:            c.ID,
		Number:        c.Number,
		CompanyName:   c.CompanyName,
		Address:       c.Address,
		ContactPerson: c.ContactPerson,
		VATNumber:     c.VATNumber,
		PhoneNumber:   c.PhoneNumber,
		Schedule:      schedule,
		DeliveryDays:  c.Schedule.WeekdayNames(),
	}
}
