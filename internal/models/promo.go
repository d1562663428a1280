package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromoRule is effective promo code entry
type PromoRule struct {
	Code        string
	Discount    decimal.Decimal
	Label       string
	IsAffiliate bool
}

// AffiliateCode is dynamic promo code owned by affiliate
type AffiliateCode struct {
	ID              uint64
	Code            string
	AffiliateName   string
	DiscountPercent *float64
	Active          bool
	UpdatedAt       time.Time
}
