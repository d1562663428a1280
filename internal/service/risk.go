package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/notify"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RiskWeights is weight table of risk heuristic
type RiskWeights struct {
	FailedPaymentPoints int
	FailedPaymentCap    int

	VelocityPoints int
	VelocityCap    int
	VelocityWindow time.Duration

	AmountAnomalyPoints int
	// AmountAnomalyRatio is relative deviation from mean order amount treated as anomaly
	AmountAnomalyRatio decimal.Decimal

	NewAccountPoints int
	NewAccountAge    time.Duration

	IPChangePoints int
	IPChangeCap    int

	MediumThreshold   int
	HighThreshold     int
	CriticalThreshold int

	MultipleFailuresCount   int
	VelocityTagCount        int
	SyntheticIdentityAmount decimal.Decimal
}

// DefaultRiskWeights returns production weight table
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		FailedPaymentPoints: 10,
		FailedPaymentCap:    30,

		VelocityPoints: 5,
		VelocityCap:    25,
		VelocityWindow: 24 * time.Hour,

		AmountAnomalyPoints: 20,
		AmountAnomalyRatio:  decimal.NewFromInt(2),

		NewAccountPoints: 15,
		NewAccountAge:    7 * 24 * time.Hour,

		IPChangePoints: 5,
		IPChangeCap:    20,

		MediumThreshold:   25,
		HighThreshold:     50,
		CriticalThreshold: 75,

		MultipleFailuresCount:   3,
		VelocityTagCount:        5,
		SyntheticIdentityAmount: decimal.NewFromInt(500),
	}
}

// ComputeFactors derives risk signals from account and order history.
// The order being scored is excluded from history.
func ComputeFactors(w RiskWeights, user *models.User, history []models.Order, req models.RiskRequest, now time.Time) models.RiskFactors {
	f := models.RiskFactors{}

	past := make([]models.Order, 0, len(history))
	for _, o := range history {
		if o.Number != req.OrderNumber {
			past = append(past, o)
		}
	}

	sum := decimal.Zero
	for _, o := range past {
		if o.PaymentStatus != nil && *o.PaymentStatus == models.TransferStatusFailed {
			f.FailedPayments++
		}
		if now.Sub(o.CreatedAt) < w.VelocityWindow {
			f.VelocityScore++
		}
		sum = sum.Add(o.TotalAmount)
	}

	// mean is undefined without history
	if len(past) > 0 {
		mean := sum.Div(decimal.NewFromInt(int64(len(past))))
		if mean.IsPositive() && req.Amount.Sub(mean).Abs().Div(mean).GreaterThan(w.AmountAnomalyRatio) {
			f.AmountAnomaly = 1
		}
	}

	if user != nil && now.Sub(user.CreatedAt) < w.NewAccountAge {
		f.NewAccount = 1
	}

	switch {
	case f.FailedPayments >= w.MultipleFailuresCount:
		f.PrimaryRisk = models.PrimaryRiskMultipleFailures
	case f.VelocityScore >= w.VelocityTagCount:
		f.PrimaryRisk = models.PrimaryRiskVelocity
	case f.AmountAnomaly == 1:
		f.PrimaryRisk = models.PrimaryRiskUnusualAmount
	case f.NewAccount == 1 && req.Amount.GreaterThan(w.SyntheticIdentityAmount):
		f.PrimaryRisk = models.PrimaryRiskSyntheticIdentity
	default:
		f.PrimaryRisk = models.PrimaryRiskLow
	}

	return f
}

// Score returns weighted score clamped to [0, 100]
func Score(w RiskWeights, f models.RiskFactors) int {
	score := min(f.FailedPayments*w.FailedPaymentPoints, w.FailedPaymentCap) +
		min(f.VelocityScore*w.VelocityPoints, w.VelocityCap) +
		f.AmountAnomaly*w.AmountAnomalyPoints +
		f.NewAccount*w.NewAccountPoints +
		min(f.IPChanges*w.IPChangePoints, w.IPChangeCap)

	return max(0, min(score, 100))
}

// Level maps score to risk level
func Level(w RiskWeights, score int) string {
	switch {
	case score >= w.CriticalThreshold:
		return models.RiskLevelCritical
	case score >= w.HighThreshold:
		return models.RiskLevelHigh
	case score >= w.MediumThreshold:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// RiskService scores payment fraud risk
type RiskService struct {
	orders   OrderRepository
	users    UserRepository
	audit    AuditRepository
	notifier Notifier
	weights  RiskWeights
	opsEmail string
	now      func() time.Time
}

// NewRiskService creates new RiskService instance
func NewRiskService(orders OrderRepository, users UserRepository, audit AuditRepository, notifier Notifier, weights RiskWeights, opsEmail string) *RiskService {
	return &RiskService{
		orders:   orders,
		users:    users,
		audit:    audit,
		notifier: notifier,
		weights:  weights,
		opsEmail: opsEmail,
		now:      time.Now,
	}
}

// ScoreRisk scores payment attempt and records audit log, fraud alert and operator notification
func (rs *RiskService) ScoreRisk(ctx context.Context, req models.RiskRequest) (*models.RiskAssessment, error) {
	var (
		user    *models.User
		history []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := rs.users.GetUserByID(gctx, req.UserID)
		if err != nil {
			// token outlived its account
			if errors.Is(err, models.ErrDataNotFound) {
				return models.ErrUnauthorized
			}
			return fmt.Errorf("get user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		orders, err := rs.orders.GetOrdersByUserID(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("get user orders: %w", err)
		}
		history = orders
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	factors := ComputeFactors(rs.weights, user, history, req, rs.now())
	score := Score(rs.weights, factors)
	assessment := &models.RiskAssessment{
		Score:          score,
		Level:          Level(rs.weights, score),
		Factors:        factors,
		RequiresReview: score >= rs.weights.CriticalThreshold,
	}

	rs.recordAudit(ctx, req, assessment)

	if score >= rs.weights.HighThreshold {
		rs.raiseAlert(ctx, req, assessment)
	}

	return assessment, nil
}

func (rs *RiskService) recordAudit(ctx context.Context, req models.RiskRequest, a *models.RiskAssessment) {
	entry := &models.AuditLog{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		Action:   "risk_score",
		Resource: "order:" + req.OrderNumber,
		Outcome:  a.Level,
		Details: map[string]any{
			"risk_score":      a.Score,
			"requires_review": a.RequiresReview,
			"factors":         a.Factors,
			"amount":          req.Amount.String(),
		},
	}
	if err := rs.audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Log.Error("create audit log", zap.Uint64("user_id", req.UserID), zap.Error(err))
	}
}

func (rs *RiskService) raiseAlert(ctx context.Context, req models.RiskRequest, a *models.RiskAssessment) {
	alert := models.FraudAlert{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		OrderNumber: req.OrderNumber,
		RiskScore:   a.Score,
		RiskLevel:   a.Level,
		Factors:     a.Factors,
		Status:      models.FraudAlertApproved,
	}
	if a.RequiresReview {
		alert.Status = models.FraudAlertPending
	}

	if err := rs.audit.CreateFraudAlert(ctx, &alert); err != nil {
		logger.Log.Error("create fraud alert", zap.Uint64("user_id", req.UserID), zap.Error(err))
	}

	logger.Log.Warn("fraud alert raised",
		zap.Uint64("user_id", req.UserID),
		zap.String("order", req.OrderNumber),
		zap.Int("risk_score", a.Score),
		zap.String("primary_risk", a.Factors.PrimaryRisk))

	if a.RequiresReview {
		rs.notifier.Notify(notify.FraudAlert(rs.opsEmail, alert))
	}
}
