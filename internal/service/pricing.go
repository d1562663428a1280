package service

import (
	"context"
	"fmt"

	"github.com/rookgm/storefront/internal/models"
)

//go:generate mockgen -source=pricing.go -destination=mocks/pricing.go -package=mocks

// CatalogRepository is interface for reading product catalog
type CatalogRepository interface {
	// ListProducts returns all products with nested specifications
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// PricingService resolves authoritative prices
type PricingService struct {
	repo CatalogRepository
}

// NewPricingService creates new PricingService instance
func NewPricingService(repo CatalogRepository) *PricingService {
	return &PricingService{repo: repo}
}

// Catalog is catalog snapshot indexed by product name
type Catalog struct {
	products map[string]models.Product
}

// Snapshot reads current catalog. It is never cached between requests.
func (ps *PricingService) Snapshot(ctx context.Context) (*Catalog, error) {
	products, err := ps.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	c := &Catalog{products: make(map[string]models.Product, len(products))}
	for _, p := range products {
		c.products[p.Name] = p
	}

	return c, nil
}

// ResolvePrice returns product and specification by exact names
func (c *Catalog) ResolvePrice(productName, specName string) (models.Product, models.Specification, error) {
	product, ok := c.products[productName]
	if !ok {
		return models.Product{}, models.Specification{}, models.ErrProductNotFound
	}

	spec, ok := product.Specification(specName)
	if !ok {
		return models.Product{}, models.Specification{}, models.ErrSpecificationNotFound
	}

	return product, spec, nil
}

// CheckStock fails when specification declares stock lower than quantity
func CheckStock(spec models.Specification, quantity int64) error {
	if spec.StockQuantity != nil && quantity > *spec.StockQuantity {
		return models.ErrInsufficientStock
	}
	return nil
}
