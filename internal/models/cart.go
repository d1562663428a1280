package models

import "github.com/shopspring/decimal"

// CartItem is item submitted by client, price is never trusted
type CartItem struct {
	ProductName   string
	Specification string
	Quantity      int64
	Price         float64
}

// ValidatedItem is cart item priced by server
type ValidatedItem struct {
	ProductID     uint64
	ProductName   string
	Specification string
	Quantity      int64
	Price         decimal.Decimal
}

// LineTotal returns price multiplied by quantity
func (vi ValidatedItem) LineTotal() decimal.Decimal {
	return vi.Price.Mul(decimal.NewFromInt(vi.Quantity))
}

// Quote is server-trusted order quote
type Quote struct {
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Shipping       decimal.Decimal
	TotalAmount    decimal.Decimal
	ValidatedItems []ValidatedItem
	ValidatedPromo *PromoRule
}
