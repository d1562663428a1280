package service

import "github.com/rookgm/storefront/internal/models"

type TokenService interface {
	CreateToken(user *models.User, role string) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
