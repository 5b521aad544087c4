package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, lgr logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: lgr}
}

type ProductRequest struct {
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	UnitCost            decimal.Decimal  `json:"unit_cost"`
	MarginRate          *decimal.Decimal `json:"margin_rate,omitempty"`
	MinimumQuantity     int              `json:"minimum_quantity"`
	UnitWeight          decimal.Decimal  `json:"unit_weight"`
	RetailPriceOverride *decimal.Decimal `json:"retail_price_override,omitempty"`
}

type ProductResponse struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	MinimumQuantity  int             `json:"minimum_quantity"`
	UnitWeight       decimal.Decimal `json:"unit_weight"`
	RetailPrice      decimal.Decimal `json:"retail_price"`
	RetailPricePerKg decimal.Decimal `json:"retail_price_per_kg"`
	MarginPercentage int             `json:"margin_percentage"`
}

type PricePreviewResponse struct {
	Wholesale   decimal.Decimal `json:"wholesale_price"`
	Retail      decimal.Decimal `json:"retail_price"`
	RetailPerKg decimal.Decimal `json:"retail_price_per_kg"`
	MarginRate  decimal.Decimal `json:"margin_rate"`
}

// ListCatalog returns the active products a customer can order.
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = productToResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateProduct adds a catalog entry. Staff only.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), actor, interfaces.CreateProductCommand{
		Name:                req.Name,
		Description:         req.Description,
		UnitCost:            req.UnitCost,
		MarginRate:          req.MarginRate,
		MinimumQuantity:     req.MinimumQuantity,
		UnitWeight:          req.UnitWeight,
		RetailPriceOverride: req.RetailPriceOverride,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productToResponse(product))
}

// UpdateProduct changes a catalog entry. Staff only.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	margin := domain.DefaultMarginRate
	if req.MarginRate != nil {
		margin = *req.MarginRate
	}

	product, err := h.service.UpdateProduct(r.Context(), actor, interfaces.UpdateProductCommand{
		ID:                  id,
		Name:                req.Name,
		Description:         req.Description,
		UnitCost:            req.UnitCost,
		MarginRate:          margin,
		MinimumQuantity:     req.MinimumQuantity,
		UnitWeight:          req.UnitWeight,
		RetailPriceOverride: req.RetailPriceOverride,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productToResponse(product))
}

// DeactivateProduct soft-disables a product. Staff only.
func (h *CatalogHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}

	if err := h.service.DeactivateProduct(r.Context(), actor, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewPrices shows derived prices for staff screens.
func (h *CatalogHandler) PreviewPrices(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}

	preview, err := h.service.PreviewPrices(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PricePreviewResponse{
		Wholesale:   preview.Wholesale,
		Retail:      preview.Retail,
		RetailPerKg: preview.RetailPerKg,
		MarginRate:  preview.MarginRate,
	})
}

func productToResponse(p *domain.Product) ProductResponse {
	marginPct, _ := p.MarginRate.Mul(decimal.NewFromInt(100)).Float64()

	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		MinimumQuantity:  p.MinimumQuantity,
		UnitWeight:       p.UnitWeight,
		RetailPrice:      p.RetailPrice(),
		RetailPricePerKg: p.RetailPricePerKg(),
		MarginPercentage: int(marginPct),
	}
}
