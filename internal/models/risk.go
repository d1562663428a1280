package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// risk level
const (
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

// primary risk tag
const (
	PrimaryRiskMultipleFailures  = "multiple_failures"
	PrimaryRiskVelocity          = "velocity"
	PrimaryRiskUnusualAmount     = "unusual_amount"
	PrimaryRiskSyntheticIdentity = "synthetic_identity"
	PrimaryRiskLow               = "low"
)

// fraud alert status
const (
	FraudAlertPending  = "pending"
	FraudAlertApproved = "approved"
)

// RiskFactors are signals used for risk scoring
type RiskFactors struct {
	FailedPayments int    `json:"failedPayments"`
	VelocityScore  int    `json:"velocityScore"`
	AmountAnomaly  int    `json:"amountAnomaly"`
	NewAccount     int    `json:"newAccount"`
	IPChanges      int    `json:"ipChanges"`
	PrimaryRisk    string `json:"primaryRisk"`
}

// RiskRequest is input of risk scoring
type RiskRequest struct {
	UserID          uint64
	OrderNumber     string
	Amount          decimal.Decimal
	PaymentMethodID string
}

// RiskAssessment is result of risk scoring
type RiskAssessment struct {
	Score          int
	Level          string
	Factors        RiskFactors
	RequiresReview bool
}

// FraudAlert is alert raised for risky payment
type FraudAlert struct {
	ID          string
	UserID      uint64
	OrderNumber string
	RiskScore   int
	RiskLevel   string
	Factors     RiskFactors
	Status      string
	CreatedAt   time.Time
}

// AuditLog is audit record
type AuditLog struct {
	ID        string
	UserID    uint64
	Action    string
	Resource  string
	Outcome   string
	Details   map[string]any
	CreatedAt time.Time
}
