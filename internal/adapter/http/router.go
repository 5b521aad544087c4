package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/interfaces"
)

// NewRouter wires the portal API. Every route requires authentication;
// role checks live in the services, keyed on the Actor the middleware
// attaches.
func NewRouter(
	orders *OrderHandler,
	catalog *CatalogHandler,
	accounts *AccountHandler,
	accountService interfaces.AccountService,
	lgr logger.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(lgr))
	r.Use(RecoveryMiddleware(lgr))
	r.Use(AuthMiddleware(accountService, lgr))

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.PlaceOrder)
		r.Get("/", orders.ListRecent)
		r.Get("/{number}", orders.GetOrder)
		r.Post("/{number}/confirm", orders.Confirm)
		r.Post("/{number}/cancel", orders.Cancel)
	})

	r.Get("/catalog", catalog.ListCatalog)

	r.Route("/products", func(r chi.Router) {
		r.Post("/", catalog.CreateProduct)
		r.Put("/{id}", catalog.UpdateProduct)
		r.Delete("/{id}", catalog.DeactivateProduct)
		r.Get("/{id}/prices", catalog.PreviewPrices)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", accounts.CreateCustomer)
		r.Put("/{id}", accounts.UpdateCustomer)
		r.Delete("/{id}", accounts.DeactivateCustomer)
		r.Get("/{id}/next-delivery", orders.NextDelivery)
	})

	r.Post("/users", accounts.CreateUser)

	return r
}
