package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payment.go -destination=mocks/payment.go -package=mocks

const maxWebhookBody = 1 << 20

type PaymentService interface {
	// CreatePayment creates ACH transfer for user order
	CreatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
	// ScoreOrderRisk scores fraud risk of paying user order
	ScoreOrderRisk(ctx context.Context, req models.PaymentRequest) (*models.RiskAssessment, error)
	// HandleWebhook applies provider event
	HandleWebhook(ctx context.Context, event models.WebhookEvent) error
}

// PaymentHandler represents HTTP handler for payment-related requests
type PaymentHandler struct {
	svc PaymentService
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type createPaymentRequest struct {
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	PlaidItemID string  `json:"plaid_item_id"`
}

type createPaymentResponse struct {
	Success            bool   `json:"success"`
	TransferID         string `json:"transfer_id"`
	Status             string `json:"status"`
	ExpectedSettlement string `json:"expected_settlement,omitempty"`
}

// CreatePayment creates payment for user order
// 200 — перевод создан;
// 400 — неверный формат запроса или сумма не совпадает с суммой заказа;
// 401 — пользователь не аутентифицирован;
// 403 — платеж требует ручной проверки;
// 404 — заказ или способ оплаты не найден;
// 409 — заказ уже оплачен;
// 429 — превышен лимит запросов;
// 502 — ошибка платежного провайдера;
// 500 — внутренняя ошибка сервера.
func (ph *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var paymentReq createPaymentRequest

		if err := json.NewDecoder(r.Body).Decode(&paymentReq); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		result, err := ph.svc.CreatePayment(r.Context(), models.PaymentRequest{
			UserID:      payload.UserID,
			OrderNumber: paymentReq.OrderID,
			Amount:      decimal.NewFromFloat(paymentReq.Amount),
			PlaidItemID: paymentReq.PlaidItemID,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, createPaymentResponse{
			Success:            true,
			TransferID:         result.TransferID,
			Status:             result.Status,
			ExpectedSettlement: result.ExpectedSettlement,
		})
	}
}

type scoreRiskRequest struct {
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount,omitempty"`
	PlaidItemID string  `json:"plaid_item_id,omitempty"`
}

type scoreRiskResponse struct {
	RiskScore      int                `json:"risk_score"`
	RiskLevel      string             `json:"risk_level"`
	RequiresReview bool               `json:"requires_review"`
	Factors        models.RiskFactors `json:"factors"`
}

// ScoreRisk scores fraud risk of user order
// 200 — оценка рассчитана;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован или не найден;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (ph *PaymentHandler) ScoreRisk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var riskReq scoreRiskRequest

		if err := json.NewDecoder(r.Body).Decode(&riskReq); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		assessment, err := ph.svc.ScoreOrderRisk(r.Context(), models.PaymentRequest{
			UserID:      payload.UserID,
			OrderNumber: riskReq.OrderID,
			Amount:      decimal.NewFromFloat(riskReq.Amount),
			PlaidItemID: riskReq.PlaidItemID,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, scoreRiskResponse{
			RiskScore:      assessment.Score,
			RiskLevel:      assessment.Level,
			Factors:        assessment.Factors,
			RequiresReview: assessment.RequiresReview,
		})
	}
}

type webhookRequest struct {
	WebhookType    string `json:"webhook_type"`
	WebhookCode    string `json:"webhook_code"`
	TransferID     string `json:"transfer_id"`
	TransferStatus string `json:"transfer_status"`
	ItemID         string `json:"item_id"`
	Error          *struct {
		ErrorCode    string `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"error"`
}

type webhookResponse struct {
	Success bool `json:"success"`
}

// Webhook receives payment provider events.
// Provider retries non-2xx deliveries, so every delivery is acknowledged and failures are only logged.
// 200 — событие принято.
func (ph *PaymentHandler) Webhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer writeJSON(w, http.StatusOK, webhookResponse{Success: true})

		var hookReq webhookRequest

		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&hookReq); err != nil {
			logger.Log.Warn("malformed webhook", zap.Error(err))
			return
		}
		defer r.Body.Close()

		event := models.WebhookEvent{
			WebhookType:    hookReq.WebhookType,
			WebhookCode:    hookReq.WebhookCode,
			TransferID:     hookReq.TransferID,
			TransferStatus: hookReq.TransferStatus,
			ItemID:         hookReq.ItemID,
		}
		if hookReq.Error != nil {
			event.Error = hookReq.Error.ErrorCode + ": " + hookReq.Error.ErrorMessage
		}

		if err := ph.svc.HandleWebhook(r.Context(), event); err != nil {
			logger.Log.Error("handle webhook",
				zap.String("type", event.WebhookType),
				zap.String("transfer_id", event.TransferID),
				zap.Error(err))
		}
	}
}
