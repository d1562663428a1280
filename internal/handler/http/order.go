package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rookgm/storefront/internal/models"
)

//go:generate mockgen -source=order.go -destination=mocks/order.go -package=mocks

type OrderService interface {
	// ValidateOrder re-prices cart against catalog
	ValidateOrder(ctx context.Context, items []models.CartItem, promoCode string) (*models.Quote, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type cartItemRequest struct {
	ProductName   string  `json:"productName"`
	Specification string  `json:"specification"`
	Quantity      int64   `json:"quantity"`
	Price         float64 `json:"price,omitempty"`
}

type validateOrderRequest struct {
	Items     []cartItemRequest `json:"items"`
	PromoCode string            `json:"promoCode,omitempty"`
}

type validatedItemResponse struct {
	ProductID     uint64  `json:"productId"`
	ProductName   string  `json:"productName"`
	Specification string  `json:"specification"`
	Quantity      int64   `json:"quantity"`
	Price         float64 `json:"price"`
}

type promoResponse struct {
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	Label       string  `json:"label"`
	IsAffiliate bool    `json:"isAffiliate,omitempty"`
}

type quoteResponse struct {
	Subtotal       float64                 `json:"subtotal"`
	Discount       float64                 `json:"discount"`
	Shipping       float64                 `json:"shipping"`
	TotalAmount    float64                 `json:"totalAmount"`
	ValidatedItems []validatedItemResponse `json:"validatedItems"`
	ValidatedPromo *promoResponse          `json:"validatedPromo,omitempty"`
}

func newPromoResponse(rule *models.PromoRule) *promoResponse {
	if rule == nil {
		return nil
	}
	return &promoResponse{
		Code:        rule.Code,
		Discount:    rule.Discount.InexactFloat64(),
		Label:       rule.Label,
		IsAffiliate: rule.IsAffiliate,
	}
}

// ValidateOrder returns server-priced quote for cart
// 200 — корзина проверена;
// 400 — неверный формат запроса или позиция корзины не прошла проверку;
// 429 — превышен лимит запросов;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ValidateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var orderReq validateOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		items := make([]models.CartItem, 0, len(orderReq.Items))
		for _, it := range orderReq.Items {
			items = append(items, models.CartItem{
				ProductName:   it.ProductName,
				Specification: it.Specification,
				Quantity:      it.Quantity,
				Price:         it.Price,
			})
		}

		quote, err := oh.svc.ValidateOrder(r.Context(), items, orderReq.PromoCode)
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := quoteResponse{
			Subtotal:       quote.Subtotal.InexactFloat64(),
			Discount:       quote.Discount.InexactFloat64(),
			Shipping:       quote.Shipping.InexactFloat64(),
			TotalAmount:    quote.TotalAmount.InexactFloat64(),
			ValidatedItems: make([]validatedItemResponse, 0, len(quote.ValidatedItems)),
			ValidatedPromo: newPromoResponse(quote.ValidatedPromo),
		}
		for _, vi := range quote.ValidatedItems {
			resp.ValidatedItems = append(resp.ValidatedItems, validatedItemResponse{
				ProductID:     vi.ProductID,
				ProductName:   vi.ProductName,
				Specification: vi.Specification,
				Quantity:      vi.Quantity,
				Price:         vi.Price.InexactFloat64(),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
