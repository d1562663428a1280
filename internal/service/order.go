package service

import (
	"context"
	"strings"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=order.go -destination=mocks/order.go -package=mocks

const maxCartItems = 50

// ShippingCost is flat shipping cost added to every order
var ShippingCost = decimal.RequireFromString("15.00")

// PromoResolver is interface for promo code lookup
type PromoResolver interface {
	// ResolvePromo returns rule for code, ok is false when code does not apply
	ResolvePromo(ctx context.Context, code string) (*models.PromoRule, bool)
}

// OrderService implements OrderService interface
type OrderService struct {
	pricing *PricingService
	promo   PromoResolver
}

// NewOrderService creates new OrderService instance
func NewOrderService(pricing *PricingService, promo PromoResolver) *OrderService {
	return &OrderService{
		pricing: pricing,
		promo:   promo,
	}
}

// ValidateOrder re-prices cart against current catalog and returns trusted quote.
// Any item failure rejects whole cart.
func (os *OrderService) ValidateOrder(ctx context.Context, items []models.CartItem, promoCode string) (*models.Quote, error) {
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}
	if len(items) > maxCartItems {
		return nil, models.ErrTooManyItems
	}

	// reject malformed input before reading catalog
	for i, item := range items {
		if strings.TrimSpace(item.ProductName) == "" || strings.TrimSpace(item.Specification) == "" || item.Quantity < 1 {
			return nil, &models.ItemError{
				Index:         i,
				ProductName:   item.ProductName,
				Specification: item.Specification,
				Err:           models.ErrInvalidItem,
			}
		}
	}

	catalog, err := os.pricing.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	validated := make([]models.ValidatedItem, 0, len(items))
	subtotal := decimal.Zero

	for i, item := range items {
		product, spec, err := catalog.ResolvePrice(item.ProductName, item.Specification)
		if err == nil {
			err = CheckStock(spec, item.Quantity)
		}
		if err != nil {
			return nil, &models.ItemError{
				Index:         i,
				ProductName:   item.ProductName,
				Specification: item.Specification,
				Err:           err,
			}
		}

		vi := models.ValidatedItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Specification: spec.Name,
			Quantity:      item.Quantity,
			Price:         spec.Price,
		}
		validated = append(validated, vi)
		subtotal = subtotal.Add(vi.LineTotal())
	}

	quote := &models.Quote{
		Subtotal:       subtotal,
		Discount:       decimal.Zero,
		Shipping:       ShippingCost,
		ValidatedItems: validated,
	}

	if strings.TrimSpace(promoCode) != "" {
		if rule, ok := os.promo.ResolvePromo(ctx, promoCode); ok {
			quote.Discount = subtotal.Mul(rule.Discount)
			quote.ValidatedPromo = rule
		} else {
			logger.Log.Debug("promo code ignored", zap.String("code", promoCode))
		}
	}

	quote.TotalAmount = quote.Subtotal.Sub(quote.Discount).Add(quote.Shipping)

	return quote, nil
}
