package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rookgm/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferReq() models.TransferRequest {
	return models.TransferRequest{
		AccessToken: "access-sandbox-1",
		AccountID:   "acc-1",
		Amount:      decimal.RequireFromString("114.98"),
		UserID:      1,
		OrderNumber: "ORD-100200300",
	}
}

func TestClient_CreateTransfer(t *testing.T) {
	var gotAuth, gotTransfer map[string]any
	var gotClientID string

	mux := http.NewServeMux()
	mux.HandleFunc("/transfer/authorization/create", func(w http.ResponseWriter, r *http.Request) {
		gotClientID = r.Header.Get("PLAID-CLIENT-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotAuth))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authorization":{"id":"auth-1","decision":"approved","decision_rationale":null},"request_id":"req-1"}`))
	})
	mux.HandleFunc("/transfer/create", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotTransfer))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transfer":{"id":"tr-1","status":"pending","expected_settlement_schedule":[{"settlement_date":"2026-10-20","settled_amount":"114.98"}]},"request_id":"req-2"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "secret")
	tr, err := c.CreateTransfer(context.Background(), transferReq())
	require.NoError(t, err)

	assert.Equal(t, &models.Transfer{ID: "tr-1", Status: "pending", ExpectedSettlement: "2026-10-20"}, tr)
	assert.Equal(t, "client-id", gotClientID)
	assert.Equal(t, "114.98", gotAuth["amount"])
	assert.Equal(t, "debit", gotAuth["type"])
	assert.Equal(t, "ach", gotAuth["network"])
	assert.Equal(t, "acc-1", gotAuth["account_id"])
	assert.Equal(t, "auth-1", gotTransfer["authorization_id"])
	assert.Equal(t, "Order ORD-10020", gotTransfer["description"])
	require.IsType(t, map[string]any{}, gotTransfer["metadata"])
	assert.Equal(t, "ORD-100200300", gotTransfer["metadata"].(map[string]any)["order_number"])
}

func TestClient_CreateTransferErrors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantMessage string
		wantRetry   time.Duration
	}{
		{
			name: "declined",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"authorization":{"id":"auth-1","decision":"declined","decision_rationale":{"code":"NSF","description":"insufficient funds"}},"request_id":"req-1"}`))
			},
			wantMessage: declinedMessage,
		},
		{
			name: "display_message_passed_through",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error_type":"ITEM_ERROR","error_code":"ITEM_LOGIN_REQUIRED","error_message":"raw","display_message":"Please relink your bank account","request_id":"req-1"}`))
			},
			wantMessage: "Please relink your bank account",
		},
		{
			name: "raw_error_hidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error_type":"INVALID_REQUEST","error_code":"MISSING_FIELDS","error_message":"access_token is internal","display_message":null,"request_id":"req-1"}`))
			},
			wantMessage: genericFailureMessage,
		},
		{
			name: "server_error_without_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantMessage: genericFailureMessage,
		},
		{
			name: "too_many_requests",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantMessage: busyMessage,
			wantRetry:   7 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, "client-id", "secret")
			_, err := c.CreateTransfer(context.Background(), transferReq())
			require.Error(t, err)

			var perr *models.ProviderError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.wantMessage, perr.Message)

			if tt.wantRetry > 0 {
				var tmr models.TooManyRequestsError
				require.True(t, errors.As(err, &tmr))
				assert.Equal(t, tt.wantRetry, tmr.RetryAfter)
			}
		})
	}
}
