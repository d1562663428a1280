package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=promo.go -destination=mocks/promo.go -package=mocks

const (
	maxPromoCodeLen         = 30
	defaultAffiliatePercent = 15
)

var hundred = decimal.NewFromInt(100)

// AffiliateRepository is interface for interacting with affiliate codes
type AffiliateRepository interface {
	// ListActiveAffiliateCodes returns active affiliate codes
	ListActiveAffiliateCodes(ctx context.Context) ([]models.AffiliateCode, error)
	// UpsertAffiliateCode creates or replaces affiliate code
	UpsertAffiliateCode(ctx context.Context, code *models.AffiliateCode) (*models.AffiliateCode, error)
}

// PromoCache is time-bounded cache of active affiliate codes
type PromoCache interface {
	Get(ctx context.Context) ([]models.AffiliateCode, bool, error)
	Set(ctx context.Context, codes []models.AffiliateCode) error
	Invalidate(ctx context.Context) error
}

// DefaultPromoCodes returns static promo table compiled into the binary
func DefaultPromoCodes() map[string]models.PromoRule {
	return map[string]models.PromoRule{
		"SAVE10": {
			Code:     "SAVE10",
			Discount: decimal.RequireFromString("0.10"),
			Label:    "10% off",
		},
		"WELCOME15": {
			Code:     "WELCOME15",
			Discount: decimal.RequireFromString("0.15"),
			Label:    "15% off your first order",
		},
		"RESEARCH20": {
			Code:     "RESEARCH20",
			Discount: decimal.RequireFromString("0.20"),
			Label:    "20% off for research institutions",
		},
	}
}

// NormalizePromoCode trims and uppercases code, ok is false for empty or too long code
func NormalizePromoCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || utf8.RuneCountInString(code) > maxPromoCodeLen {
		return "", false
	}
	return code, true
}

// MergeCodes overlays active affiliate codes on static table. Affiliate codes win on collision.
func MergeCodes(static map[string]models.PromoRule, dynamic []models.AffiliateCode) map[string]models.PromoRule {
	merged := make(map[string]models.PromoRule, len(static)+len(dynamic))
	for code, rule := range static {
		merged[code] = rule
	}

	for _, ac := range dynamic {
		if !ac.Active {
			continue
		}
		code, ok := NormalizePromoCode(ac.Code)
		if !ok {
			continue
		}

		percent := decimal.NewFromInt(defaultAffiliatePercent)
		if ac.DiscountPercent != nil {
			percent = decimal.NewFromFloat(*ac.DiscountPercent)
		}
		if !percent.IsPositive() || percent.GreaterThan(hundred) {
			continue
		}

		merged[code] = models.PromoRule{
			Code:        code,
			Discount:    percent.Div(hundred),
			Label:       fmt.Sprintf("%s%% off from %s", percent.String(), ac.AffiliateName),
			IsAffiliate: true,
		}
	}

	return merged
}

// PromoService resolves promo and affiliate codes
type PromoService struct {
	repo   AffiliateRepository
	cache  PromoCache
	static map[string]models.PromoRule
}

// NewPromoService creates new PromoService instance, cache may be nil
func NewPromoService(repo AffiliateRepository, cache PromoCache, static map[string]models.PromoRule) *PromoService {
	return &PromoService{
		repo:   repo,
		cache:  cache,
		static: static,
	}
}

// ResolvePromo returns rule for code, ok is false when code does not apply
func (ps *PromoService) ResolvePromo(ctx context.Context, code string) (*models.PromoRule, bool) {
	code, ok := NormalizePromoCode(code)
	if !ok {
		return nil, false
	}

	dynamic, err := ps.activeAffiliateCodes(ctx)
	if err != nil {
		// static table still applies
		logger.Log.Warn("affiliate codes unavailable", zap.Error(err))
	}

	rule, ok := MergeCodes(ps.static, dynamic)[code]
	if !ok {
		return nil, false
	}

	return &rule, true
}

func (ps *PromoService) activeAffiliateCodes(ctx context.Context) ([]models.AffiliateCode, error) {
	if ps.cache != nil {
		codes, ok, err := ps.cache.Get(ctx)
		if err != nil {
			logger.Log.Warn("promo cache read", zap.Error(err))
		} else if ok {
			return codes, nil
		}
	}

	codes, err := ps.repo.ListActiveAffiliateCodes(ctx)
	if err != nil {
		return nil, err
	}

	if ps.cache != nil {
		if err := ps.cache.Set(ctx, codes); err != nil {
			logger.Log.Warn("promo cache write", zap.Error(err))
		}
	}

	return codes, nil
}

// PutAffiliateCode creates or replaces affiliate code and invalidates cache
func (ps *PromoService) PutAffiliateCode(ctx context.Context, ac *models.AffiliateCode) (*models.AffiliateCode, error) {
	code, ok := NormalizePromoCode(ac.Code)
	if !ok || strings.TrimSpace(ac.AffiliateName) == "" {
		return nil, models.ErrInvalidPromoCode
	}
	if p := ac.DiscountPercent; p != nil && (*p <= 0 || *p > 100) {
		return nil, models.ErrInvalidPromoCode
	}
	ac.Code = code

	saved, err := ps.repo.UpsertAffiliateCode(ctx, ac)
	if err != nil {
		return nil, fmt.Errorf("upsert affiliate code: %w", err)
	}

	if ps.cache != nil {
		if err := ps.cache.Invalidate(ctx); err != nil {
			logger.Log.Error("promo cache invalidate", zap.Error(err))
		}
	}

	return saved, nil
}
