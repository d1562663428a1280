package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/models"
)

// getAuthPayload extracts authorization token payload from context
func getAuthPayload(ctx context.Context) (*models.TokenPayload, bool) {
	return auth.PayloadFromContext(ctx)
}

// RequireRole rejects requests whose token has no given role
func RequireRole(role string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := getAuthPayload(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if payload.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
