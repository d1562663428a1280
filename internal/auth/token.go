package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rookgm/storefront/internal/models"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// AuthToken issues and verifies HS256 tokens
type AuthToken struct {
	key []byte
	now func() time.Time
}

// NewAuthToken creates new AuthToken instance
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key, now: time.Now}
}

// CreateToken creates signed token for user
func (at *AuthToken) CreateToken(user *models.User, role string) (string, error) {
	now := at.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: user.ID,
		Role:   role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(at.key)
}

// VerifyToken verifies token and returns its payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	c := claims{}
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return at.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{UserID: c.UserID, Role: c.Role}, nil
}

type contextKey string

const payloadKey contextKey = "auth_payload"

// WithPayload returns context carrying token payload
func WithPayload(ctx context.Context, payload *models.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadKey, payload)
}

// PayloadFromContext extracts token payload from context
func PayloadFromContext(ctx context.Context) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(payloadKey).(*models.TokenPayload)
	return payload, ok && payload != nil
}
