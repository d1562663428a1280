package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rookgm/storefront/internal/models"
)

const affiliateCodesKey = "promo:affiliate_codes"

// PromoCache keeps snapshot of active affiliate codes in redis
type PromoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPromoCache creates new PromoCache instance
func NewPromoCache(client *redis.Client, ttl time.Duration) *PromoCache {
	return &PromoCache{client: client, ttl: ttl}
}

// Get returns cached affiliate codes, ok is false on miss
func (pc *PromoCache) Get(ctx context.Context) ([]models.AffiliateCode, bool, error) {
	val, err := pc.client.Get(ctx, affiliateCodesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var codes []models.AffiliateCode
	if err := json.Unmarshal(val, &codes); err != nil {
		return nil, false, err
	}

	return codes, true, nil
}

// Set stores affiliate codes snapshot with TTL
func (pc *PromoCache) Set(ctx context.Context, codes []models.AffiliateCode) error {
	val, err := json.Marshal(codes)
	if err != nil {
		return err
	}

	return pc.client.Set(ctx, affiliateCodesKey, val, pc.ttl).Err()
}

// Invalidate drops cached snapshot
func (pc *PromoCache) Invalidate(ctx context.Context) error {
	return pc.client.Del(ctx, affiliateCodesKey).Err()
}
