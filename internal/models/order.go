package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// order status
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
)

// payment method
const (
	PaymentMethodACH = "ach"
)

// transfer status reported by payment provider
const (
	TransferStatusPending   = "pending"
	TransferStatusPosted    = "posted"
	TransferStatusSettled   = "settled"
	TransferStatusFailed    = "failed"
	TransferStatusCancelled = "cancelled"
	TransferStatusReturned  = "returned"
)

// Order is order entity
type Order struct {
	ID            uint64
	UserID        uint64
	Number        string
	TotalAmount   decimal.Decimal
	Status        string
	PaymentMethod *string
	PaymentID     *string
	PaymentStatus *string
	CreatedAt     time.Time
}

// User is customer account
type User struct {
	ID        uint64
	Email     string
	CreatedAt time.Time
}
