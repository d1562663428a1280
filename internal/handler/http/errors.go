package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"go.uber.org/zap"
)

// writeError maps service error to response status.
// Internal details are logged and never returned to client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		itemErr     *models.ItemError
		providerErr *models.ProviderError
		rateErr     models.TooManyRequestsError
	)

	switch {
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	case errors.As(err, &itemErr):
		http.Error(w, itemErr.Error(), http.StatusBadRequest)
	case errors.As(err, &providerErr):
		logger.Log.Error("payment provider failure", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, providerErr.Message, http.StatusBadGateway)
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrTooManyItems),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidRequest),
		errors.Is(err, models.ErrInvalidPromoCode),
		errors.Is(err, models.ErrAmountMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrPaymentMethodNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrPaymentAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrPaymentUnderReview):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		logger.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Debug("encode response", zap.Error(err))
	}
}
