package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/storefront/internal/models"
)

//go:generate mockgen -source=promo.go -destination=mocks/promo.go -package=mocks

type PromoService interface {
	// ResolvePromo returns rule for code, ok is false when code does not apply
	ResolvePromo(ctx context.Context, code string) (*models.PromoRule, bool)
	// PutAffiliateCode creates or replaces affiliate code
	PutAffiliateCode(ctx context.Context, code *models.AffiliateCode) (*models.AffiliateCode, error)
}

// PromoHandler represents HTTP handler for promo codes
type PromoHandler struct {
	svc PromoService
}

// NewPromoHandler creates new PromoHandler instance
func NewPromoHandler(svc PromoService) *PromoHandler {
	return &PromoHandler{svc: svc}
}

type validatePromoRequest struct {
	Code string `json:"code"`
}

type validatePromoResponse struct {
	Valid       bool     `json:"valid"`
	Code        string   `json:"code,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	Label       string   `json:"label,omitempty"`
	IsAffiliate bool     `json:"isAffiliate,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// ValidatePromo reports whether promo code applies
// 200 — код проверен, результат в поле valid;
// 400 — неверный формат запроса;
// 429 — превышен лимит запросов.
func (ph *PromoHandler) ValidatePromo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var promoReq validatePromoRequest

		if err := json.NewDecoder(r.Body).Decode(&promoReq); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		rule, ok := ph.svc.ResolvePromo(r.Context(), promoReq.Code)
		if !ok {
			writeJSON(w, http.StatusOK, validatePromoResponse{Error: models.ErrInvalidPromoCode.Error()})
			return
		}

		discount := rule.Discount.InexactFloat64()
		writeJSON(w, http.StatusOK, validatePromoResponse{
			Valid:       true,
			Code:        rule.Code,
			Discount:    &discount,
			Label:       rule.Label,
			IsAffiliate: rule.IsAffiliate,
		})
	}
}

type affiliateCodeRequest struct {
	AffiliateName   string   `json:"affiliateName"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
	Active          *bool    `json:"active,omitempty"`
}

type affiliateCodeResponse struct {
	Code            string   `json:"code"`
	AffiliateName   string   `json:"affiliateName"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
	Active          bool     `json:"active"`
	UpdatedAt       string   `json:"updatedAt"`
}

// PutAffiliateCode creates or replaces affiliate code
// 200 — код сохранен;
// 400 — неверный формат запроса или кода;
// 401 — пользователь не аутентифицирован;
// 403 — недостаточно прав;
// 500 — внутренняя ошибка сервера.
func (ph *PromoHandler) PutAffiliateCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var codeReq affiliateCodeRequest

		if err := json.NewDecoder(r.Body).Decode(&codeReq); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		ac := models.AffiliateCode{
			Code:            chi.URLParam(r, "code"),
			AffiliateName:   codeReq.AffiliateName,
			DiscountPercent: codeReq.DiscountPercent,
			Active:          true,
		}
		if codeReq.Active != nil {
			ac.Active = *codeReq.Active
		}

		saved, err := ph.svc.PutAffiliateCode(r.Context(), &ac)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, affiliateCodeResponse{
			Code:            saved.Code,
			AffiliateName:   saved.AffiliateName,
			DiscountPercent: saved.DiscountPercent,
			Active:          saved.Active,
			UpdatedAt:       saved.UpdatedAt.Format(time.RFC3339),
		})
	}
}
