package repository

import (
	"context"

	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/repository/postgres"
	"github.com/shopspring/decimal"
)

const selectCatalogQuery = `
						SELECT p.id, p.name, s.name, s.price, s.stock_quantity
						FROM products p
						LEFT JOIN specifications s ON s.product_id = p.id
						ORDER BY p.id, s.id
`

// CatalogRepository reads product catalog
type CatalogRepository struct {
	db *postgres.DB
}

// NewCatalogRepository creates new CatalogRepository instance
func NewCatalogRepository(db *postgres.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListProducts returns all products with nested specifications
func (cr *CatalogRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := cr.db.Query(ctx, selectCatalogQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		var (
			productID   uint64
			productName string
			specName    *string
			price       decimal.NullDecimal
			stock       *int64
		)
		if err := rows.Scan(&productID, &productName, &specName, &price, &stock); err != nil {
			return nil, err
		}

		// rows are ordered by product, so new product starts new entry
		if n := len(products); n == 0 || products[n-1].ID != productID {
			products = append(products, models.Product{ID: productID, Name: productName})
		}

		if specName == nil {
			continue
		}

		last := &products[len(products)-1]
		last.Specifications = append(last.Specifications, models.Specification{
			Name:          *specName,
			Price:         price.Decimal,
			StockQuantity: stock,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
