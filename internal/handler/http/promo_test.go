package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/handler/http/mocks"
	"github.com/rookgm/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoHandler_ValidatePromo(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(svc *mocks.MockPromoService)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "valid_code",
			body: `{"code":"save10"}`,
			setup: func(svc *mocks.MockPromoService) {
				svc.EXPECT().ResolvePromo(gomock.Any(), "save10").
					Return(&models.PromoRule{Code: "SAVE10", Discount: decimal.RequireFromString("0.10"), Label: "10% off"}, true)
			},
			wantStatusCode: http.StatusOK,
			wantBody: `{"valid":true,"code":"SAVE10","discount":0.1,"label":"10% off"}`,
		},
		{
			name: "unknown_code",
			body: `{"code":"NOPE"}`,
			setup: func(svc *mocks.MockPromoService) {
				svc.EXPECT().ResolvePromo(gomock.Any(), "NOPE").Return(nil, false)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"valid":false,"error":"invalid promo code"}`,
		},
		{
			name:           "bad_json",
			body:           `code=SAVE10`,
			setup:          func(svc *mocks.MockPromoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockPromoService(ctrl)
			tt.setup(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/promo/validate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			NewPromoHandler(svc).ValidatePromo()(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestPromoHandler_PutAffiliateCode(t *testing.T) {
	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(svc *mocks.MockPromoService)
		wantStatusCode int
	}{
		{
			name:  "admin_saves_code",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleAdmin},
			body:  `{"affiliateName":"Clinic","discountPercent":20}`,
			setup: func(svc *mocks.MockPromoService) {
				svc.EXPECT().PutAffiliateCode(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ac *models.AffiliateCode) (*models.AffiliateCode, error) {
						assert.Equal(t, "partner", ac.Code)
						assert.True(t, ac.Active)
						saved := *ac
						saved.Code = "PARTNER"
						saved.UpdatedAt = updated
						return &saved, nil
					})
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "customer_is_forbidden",
			token:          &models.TokenPayload{UserID: 2, Role: models.RoleCustomer},
			body:           `{"affiliateName":"Clinic"}`,
			setup:          func(svc *mocks.MockPromoService) {},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "anonymous_is_unauthorized",
			body:           `{"affiliateName":"Clinic"}`,
			setup:          func(svc *mocks.MockPromoService) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:  "invalid_code",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleAdmin},
			body:  `{"affiliateName":""}`,
			setup: func(svc *mocks.MockPromoService) {
				svc.EXPECT().PutAffiliateCode(gomock.Any(), gomock.Any()).Return(nil, models.ErrInvalidPromoCode)
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockPromoService(ctrl)
			tt.setup(svc)

			r := chi.NewRouter()
			r.With(RequireRole(models.RoleAdmin)).Put("/api/admin/affiliate-codes/{code}", NewPromoHandler(svc).PutAffiliateCode())

			req := httptest.NewRequest(http.MethodPut, "/api/admin/affiliate-codes/partner", strings.NewReader(tt.body))
			if tt.token != nil {
				req = req.WithContext(auth.WithPayload(req.Context(), tt.token))
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			if tt.wantStatusCode == http.StatusOK {
				var got affiliateCodeResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, "PARTNER", got.Code)
				assert.Equal(t, "2025-03-01T12:00:00Z", got.UpdatedAt)
			}
		})
	}
}
