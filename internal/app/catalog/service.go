package catalog

import (
	"context"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

// Service implements staff-side product management and the customer-facing
// catalog listing.
type Service struct {
	products interfaces.ProductRepository
	logger   logger.Logger
}

func NewService(products interfaces.ProductRepository, lgr logger.Logger) *Service {
	return &Service{products: products, logger: lgr}
}

// ListActive returns the orderable catalog. Open to every authenticated role.
func (s *Service) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListActive(ctx)
}

// CreateProduct adds a catalog entry. The margin rate defaults when staff
// leaves it unset.
func (s *Service) CreateProduct(ctx context.Context, actor domain.Actor, cmd interfaces.CreateProductCommand) (*domain.Product, error) {
	if !actor.Role.IsStaff() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Operation: "manage products"}
	}

	margin := domain.DefaultMarginRate
	if cmd.MarginRate != nil {
		margin = *cmd.MarginRate
	}

	product := &domain.Product{
		Name:                cmd.Name,
		Description:         cmd.Description,
		UnitCost:            cmd.UnitCost,
		MarginRate:          margin,
		MinimumQuantity:     cmd.MinimumQuantity,
		UnitWeight:          cmd.UnitWeight,
		RetailPriceOverride: cmd.RetailPriceOverride,
		Active:              true,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product_created", "Product added to catalog", "", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

// UpdateProduct changes a catalog entry. Existing orders keep their
// snapshotted prices.
func (s *Service) UpdateProduct(ctx context.Context, actor domain.Actor, cmd interfaces.UpdateProductCommand) (*domain.Product, error) {
	if !actor.Role.IsStaff() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Operation: "manage products"}
	}

	product, err := s.products.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.UnitCost = cmd.UnitCost
	product.MarginRate = cmd.MarginRate
	product.MinimumQuantity = cmd.MinimumQuantity
	product.UnitWeight = cmd.UnitWeight
	product.RetailPriceOverride = cmd.RetailPriceOverride

	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product_updated", "Product updated", "", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

// DeactivateProduct soft-disables a product so historical order lines keep
// their reference.
func (s *Service) DeactivateProduct(ctx context.Context, actor domain.Actor, id int) error {
	if !actor.Role.IsStaff() {
		return &domain.AuthorizationError{Role: actor.Role, Operation: "manage products"}
	}
	if err := s.products.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product_deactivated", "Product removed from catalog", "", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// PreviewPrices shows the derived wholesale/retail prices for staff screens.
func (s *Service) PreviewPrices(ctx context.Context, actor domain.Actor, id int) (*interfaces.PricePreview, error) {
	if !actor.Role.IsStaff() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Operation: "preview prices"}
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &interfaces.PricePreview{
		Wholesale:      product.WholesalePrice(),
		Retail:         product.RetailPrice(),
		RetailPerKg:    product.RetailPricePerKg(),
		MarginRate:     product.MarginRate,
		EffectiveSince: product.UpdatedAt,
	}, nil
}
