package models

import "github.com/shopspring/decimal"

// Product is catalog entry with its purchasable specifications
type Product struct {
	ID             uint64
	Name           string
	Specifications []Specification
}

// Specification is a purchasable variant of product
type Specification struct {
	Name  string
	Price decimal.Decimal
	// StockQuantity is nil when stock is unlimited
	StockQuantity *int64
}

// Specification returns product specification by exact name
func (p Product) Specification(name string) (Specification, bool) {
	for _, spec := range p.Specifications {
		if spec.Name == name {
			return spec, true
		}
	}
	return Specification{}, false
}
