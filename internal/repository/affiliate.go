package repository

import (
	"context"

	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/repository/postgres"
)

const (
	selectActiveAffiliateCodesQuery = `
						SELECT id, code, affiliate_name, discount_percent, active, updated_at FROM affiliate_codes
						WHERE active
`
	upsertAffiliateCodeQuery = `
						INSERT INTO affiliate_codes (code, affiliate_name, discount_percent, active)
						VALUES ($1, $2, $3, $4)
						ON CONFLICT (code) DO UPDATE
						SET affiliate_name = EXCLUDED.affiliate_name,
						    discount_percent = EXCLUDED.discount_percent,
						    active = EXCLUDED.active,
						    updated_at = NOW()
						RETURNING id, updated_at
`
)

// AffiliateRepository reads and writes dynamic affiliate codes
type AffiliateRepository struct {
	db *postgres.DB
}

// NewAffiliateRepository creates new AffiliateRepository instance
func NewAffiliateRepository(db *postgres.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

// ListActiveAffiliateCodes returns active affiliate codes
func (ar *AffiliateRepository) ListActiveAffiliateCodes(ctx context.Context) ([]models.AffiliateCode, error) {
	rows, err := ar.db.Query(ctx, selectActiveAffiliateCodesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []models.AffiliateCode{}

	for rows.Next() {
		code := models.AffiliateCode{}
		if err := rows.Scan(&code.ID, &code.Code, &code.AffiliateName, &code.DiscountPercent, &code.Active, &code.UpdatedAt); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

// UpsertAffiliateCode creates or replaces affiliate code
func (ar *AffiliateRepository) UpsertAffiliateCode(ctx context.Context, code *models.AffiliateCode) (*models.AffiliateCode, error) {
	err := ar.db.QueryRow(ctx, upsertAffiliateCodeQuery, code.Code, code.AffiliateName, code.DiscountPercent, code.Active).
		Scan(&code.ID, &code.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return code, nil
}
