package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// payment transaction status
const (
	TransactionStatusCreated = "created"
	TransactionStatusFailed  = "failed"
)

// PaymentRequest is request for payment of validated order
type PaymentRequest struct {
	UserID      uint64
	OrderNumber string
	Amount      decimal.Decimal
	PlaidItemID string
}

// PaymentResult is result of transfer creation
type PaymentResult struct {
	TransferID         string
	Status             string
	ExpectedSettlement string
}

// PaymentTransaction is persisted record of payment attempt
type PaymentTransaction struct {
	ID           string
	UserID       uint64
	OrderNumber  string
	TransferID   *string
	Amount       decimal.Decimal
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
}

// FinancialItem is encrypted linked bank item
type FinancialItem struct {
	UserID        uint64
	ItemHash      string
	EncryptedData string
}

// BankAccount is decrypted content of financial item
type BankAccount struct {
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id"`
}

// TransferRequest is request for ACH transfer creation
type TransferRequest struct {
	AccessToken string
	AccountID   string
	Amount      decimal.Decimal
	UserID      uint64
	OrderNumber string
}

// Transfer is transfer created by payment provider
type Transfer struct {
	ID                 string
	Status             string
	ExpectedSettlement string
}

// webhook types
const (
	WebhookTypeTransfer = "TRANSFER"
	WebhookTypeItem     = "ITEM"
)

// WebhookEvent is provider callback about state change
type WebhookEvent struct {
	WebhookType    string
	WebhookCode    string
	TransferID     string
	TransferStatus string
	ItemID         string
	Error          string
}

// notification kind
const (
	NotificationPaymentConfirmed = "payment_confirmed"
	NotificationPaymentFailed    = "payment_failed"
	NotificationFraudAlert       = "fraud_alert"
)

// Notification is email to be sent out of band
type Notification struct {
	Kind    string
	To      string
	Subject string
	Body    string
}
