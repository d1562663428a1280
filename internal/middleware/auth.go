package middleware

import (
	"net/http"
	"strings"

	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/service"
)

const authCookieName = "auth_token"

// tokenFromRequest returns token from cookie, then from Authorization header
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth rejects requests without valid token and passes token payload to the context
func Auth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPayload(r.Context(), payload)))
		})
	}
}

// OptionalAuth passes payload of valid token to the context, anonymous requests pass through
func OptionalAuth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := tokenFromRequest(r); token != "" {
				if payload, err := ts.VerifyToken(token); err == nil {
					r = r.WithContext(auth.WithPayload(r.Context(), payload))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
