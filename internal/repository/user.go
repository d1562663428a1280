package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/repository/postgres"
)

const (
	selectUserByIDQuery = `
						SELECT id, email, created_at FROM users
						WHERE id = $1
`
	selectFinancialItemQuery = `
						SELECT user_id, item_hash, encrypted_data FROM financial_items
						WHERE user_id = $1 AND item_hash = $2
`
)

// UserRepository reads customer accounts and their linked financial items
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByIDQuery, id).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetFinancialItem returns encrypted item by keyed hash of provider item id
func (ur *UserRepository) GetFinancialItem(ctx context.Context, userID uint64, itemHash string) (*models.FinancialItem, error) {
	item := models.FinancialItem{}
	err := ur.db.QueryRow(ctx, selectFinancialItemQuery, userID, itemHash).Scan(&item.UserID, &item.ItemHash, &item.EncryptedData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &item, nil
}
