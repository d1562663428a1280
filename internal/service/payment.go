package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/notify"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payment.go -destination=mocks/payment.go -package=mocks

// AmountTolerance is maximal difference between claimed amount and order total
var AmountTolerance = decimal.RequireFromString("0.01")

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// GetOrderByNumber returns order by number
	GetOrderByNumber(ctx context.Context, num string) (*models.Order, error)
	// GetOrderByPaymentID returns order by provider transfer id
	GetOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	// GetOrdersByUserID gets user orders
	GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error)
	// UpdateOrderPayment updates order status and payment fields
	UpdateOrderPayment(ctx context.Context, order models.Order) error
}

// UserRepository is interface for reading accounts and linked financial items
type UserRepository interface {
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	// GetFinancialItem returns encrypted item by keyed hash
	GetFinancialItem(ctx context.Context, userID uint64, itemHash string) (*models.FinancialItem, error)
}

// AuditRepository is interface for audit records
type AuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	CreateFraudAlert(ctx context.Context, alert *models.FraudAlert) error
	CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error
}

// Notifier queues notification, it never blocks caller
type Notifier interface {
	Notify(n models.Notification)
}

// Vault decrypts financial data and derives lookup hashes
type Vault interface {
	Decrypt(ciphertext string) ([]byte, error)
	KeyedHash(value string) string
}

// TransferClient creates ACH transfers
type TransferClient interface {
	CreateTransfer(ctx context.Context, req models.TransferRequest) (*models.Transfer, error)
}

// RiskScorer scores payment attempt
type RiskScorer interface {
	ScoreRisk(ctx context.Context, req models.RiskRequest) (*models.RiskAssessment, error)
}

// transfer status to order status, statuses not listed leave order status unchanged
var transferOrderStatus = map[string]string{
	models.TransferStatusPending:   models.OrderStatusProcessing,
	models.TransferStatusPosted:    models.OrderStatusProcessing,
	models.TransferStatusSettled:   models.OrderStatusProcessing,
	models.TransferStatusFailed:    models.OrderStatusPending,
	models.TransferStatusCancelled: models.OrderStatusPending,
	models.TransferStatusReturned:  models.OrderStatusPending,
}

// hasActivePayment reports whether order carries transfer that may still move money
func hasActivePayment(order *models.Order) bool {
	if order.PaymentID == nil || *order.PaymentID == "" {
		return false
	}
	if order.PaymentStatus == nil {
		return true
	}

	switch *order.PaymentStatus {
	case models.TransferStatusFailed, models.TransferStatusCancelled, models.TransferStatusReturned:
		return false
	}
	return true
}

// PaymentService creates transfers and reconciles their status
type PaymentService struct {
	orders   OrderRepository
	users    UserRepository
	audit    AuditRepository
	vault    Vault
	client   TransferClient
	risk     RiskScorer
	notifier Notifier
}

// NewPaymentService creates new PaymentService instance
func NewPaymentService(orders OrderRepository, users UserRepository, audit AuditRepository, vault Vault,
	client TransferClient, risk RiskScorer, notifier Notifier) *PaymentService {
	return &PaymentService{
		orders:   orders,
		users:    users,
		audit:    audit,
		vault:    vault,
		client:   client,
		risk:     risk,
		notifier: notifier,
	}
}

// userOrder returns order owned by user
func (ps *PaymentService) userOrder(ctx context.Context, userID uint64, num string) (*models.Order, error) {
	order, err := ps.orders.GetOrderByNumber(ctx, num)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	// order of another user looks the same as missing order
	if order.UserID != userID {
		return nil, models.ErrOrderNotFound
	}

	return order, nil
}

// CreatePayment verifies claimed amount against trusted order total and creates ACH transfer
func (ps *PaymentService) CreatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if req.OrderNumber == "" || req.PlaidItemID == "" {
		return nil, models.ErrInvalidRequest
	}
	if !req.Amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	order, err := ps.userOrder(ctx, req.UserID, req.OrderNumber)
	if err != nil {
		return nil, err
	}

	if hasActivePayment(order) {
		logger.Log.Warn("order already has active payment",
			zap.String("order", order.Number), zap.String("transfer_id", *order.PaymentID))
		return nil, models.ErrPaymentAlreadyExists
	}

	if order.TotalAmount.Sub(req.Amount).Abs().GreaterThan(AmountTolerance) {
		logger.Log.Warn("payment amount mismatch",
			zap.Uint64("user_id", req.UserID),
			zap.String("order", order.Number),
			zap.String("order_total", order.TotalAmount.String()),
			zap.String("claimed", req.Amount.String()))
		return nil, models.ErrAmountMismatch
	}

	account, err := ps.bankAccount(ctx, req.UserID, req.PlaidItemID)
	if err != nil {
		return nil, err
	}

	assessment, err := ps.risk.ScoreRisk(ctx, models.RiskRequest{
		UserID:          req.UserID,
		OrderNumber:     order.Number,
		Amount:          order.TotalAmount,
		PaymentMethodID: req.PlaidItemID,
	})
	switch {
	case err != nil:
		logger.Log.Error("risk scoring failed, payment continues", zap.String("order", order.Number), zap.Error(err))
	case assessment.RequiresReview:
		logger.Log.Warn("payment held for review", zap.String("order", order.Number), zap.Int("risk_score", assessment.Score))
		return nil, models.ErrPaymentUnderReview
	}

	transfer, err := ps.client.CreateTransfer(ctx, models.TransferRequest{
		AccessToken: account.AccessToken,
		AccountID:   account.AccountID,
		Amount:      order.TotalAmount,
		UserID:      req.UserID,
		OrderNumber: order.Number,
	})
	if err != nil {
		logger.Log.Error("create transfer", zap.String("order", order.Number), zap.Error(err))

		var perr *models.ProviderError
		if !errors.As(err, &perr) {
			perr = &models.ProviderError{Message: "payment could not be processed", Err: err}
		}
		ps.recordTransaction(ctx, req.UserID, order, nil, models.TransactionStatusFailed, &perr.Message)
		return nil, perr
	}

	order.Status = models.OrderStatusProcessing
	method := models.PaymentMethodACH
	order.PaymentMethod = &method
	order.PaymentID = &transfer.ID
	order.PaymentStatus = &transfer.Status

	if err := ps.orders.UpdateOrderPayment(ctx, *order); err != nil {
		// transfer exists, webhook lookups depend on payment id being stored
		logger.Log.Error("store transfer on order",
			zap.String("order", order.Number), zap.String("transfer_id", transfer.ID), zap.Error(err))
		return nil, fmt.Errorf("update order: %w", err)
	}

	ps.recordTransaction(ctx, req.UserID, order, &transfer.ID, models.TransactionStatusCreated, nil)

	logger.Log.Info("transfer created",
		zap.String("order", order.Number),
		zap.String("transfer_id", transfer.ID),
		zap.String("status", transfer.Status))

	return &models.PaymentResult{
		TransferID:         transfer.ID,
		Status:             transfer.Status,
		ExpectedSettlement: transfer.ExpectedSettlement,
	}, nil
}

// bankAccount loads and decrypts stored payment method
func (ps *PaymentService) bankAccount(ctx context.Context, userID uint64, itemID string) (*models.BankAccount, error) {
	item, err := ps.users.GetFinancialItem(ctx, userID, ps.vault.KeyedHash(itemID))
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("get financial item: %w", err)
	}

	plaintext, err := ps.vault.Decrypt(item.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("decrypt financial item: %w", err)
	}

	account := models.BankAccount{}
	if err := json.Unmarshal(plaintext, &account); err != nil {
		return nil, fmt.Errorf("decode financial item: %w", err)
	}
	if account.AccessToken == "" || account.AccountID == "" {
		return nil, models.ErrPaymentMethodNotFound
	}

	return &account, nil
}

func (ps *PaymentService) recordTransaction(ctx context.Context, userID uint64, order *models.Order, transferID *string, status string, errMsg *string) {
	tx := &models.PaymentTransaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		OrderNumber:  order.Number,
		TransferID:   transferID,
		Amount:       order.TotalAmount,
		Status:       status,
		ErrorMessage: errMsg,
	}
	if err := ps.audit.CreateTransaction(ctx, tx); err != nil {
		logger.Log.Error("create payment transaction", zap.String("order", order.Number), zap.Error(err))
	}
}

// ScoreOrderRisk scores risk of paying user order with claimed amount
func (ps *PaymentService) ScoreOrderRisk(ctx context.Context, req models.PaymentRequest) (*models.RiskAssessment, error) {
	if req.OrderNumber == "" {
		return nil, models.ErrInvalidRequest
	}

	order, err := ps.userOrder(ctx, req.UserID, req.OrderNumber)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	if !amount.IsPositive() {
		amount = order.TotalAmount
	}

	return ps.risk.ScoreRisk(ctx, models.RiskRequest{
		UserID:          req.UserID,
		OrderNumber:     order.Number,
		Amount:          amount,
		PaymentMethodID: req.PlaidItemID,
	})
}

// HandleWebhook applies provider event to order. Events for unknown transfers are dropped.
func (ps *PaymentService) HandleWebhook(ctx context.Context, event models.WebhookEvent) error {
	switch event.WebhookType {
	case models.WebhookTypeTransfer:
	case models.WebhookTypeItem:
		logger.Log.Warn("item webhook received",
			zap.String("code", event.WebhookCode),
			zap.String("item_id", event.ItemID),
			zap.String("error", event.Error))
		return nil
	default:
		logger.Log.Debug("webhook ignored", zap.String("type", event.WebhookType), zap.String("code", event.WebhookCode))
		return nil
	}

	if event.TransferID == "" || event.TransferStatus == "" {
		logger.Log.Debug("transfer webhook without transfer status ignored", zap.String("code", event.WebhookCode))
		return nil
	}

	order, err := ps.orders.GetOrderByPaymentID(ctx, event.TransferID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			logger.Log.Warn("webhook for unknown transfer dropped", zap.String("transfer_id", event.TransferID))
			return nil
		}
		return fmt.Errorf("get order by payment id: %w", err)
	}

	if status, ok := transferOrderStatus[event.TransferStatus]; ok {
		order.Status = status
	}
	transferStatus := event.TransferStatus
	order.PaymentStatus = &transferStatus

	if err := ps.orders.UpdateOrderPayment(ctx, *order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	logger.Log.Info("order payment status updated",
		zap.String("order", order.Number),
		zap.String("transfer_id", event.TransferID),
		zap.String("transfer_status", transferStatus),
		zap.String("order_status", order.Status))

	switch transferStatus {
	case models.TransferStatusSettled:
		ps.notifyCustomer(ctx, order, func(email string) models.Notification {
			return notify.PaymentConfirmed(email, *order)
		})
	case models.TransferStatusFailed, models.TransferStatusReturned:
		ps.notifyCustomer(ctx, order, func(email string) models.Notification {
			return notify.PaymentFailed(email, *order, transferStatus)
		})
	}

	return nil
}

func (ps *PaymentService) notifyCustomer(ctx context.Context, order *models.Order, build func(email string) models.Notification) {
	user, err := ps.users.GetUserByID(ctx, order.UserID)
	if err != nil {
		logger.Log.Error("get user for notification", zap.String("order", order.Number), zap.Error(err))
		return
	}
	ps.notifier.Notify(build(user.Email))
}
