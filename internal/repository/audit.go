package repository

import (
	"context"

	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/repository/postgres"
)

const (
	insertAuditLogQuery = `
						INSERT INTO audit_logs (id, user_id, action, resource, outcome, details)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING created_at
`
	insertFraudAlertQuery = `
						INSERT INTO fraud_alerts (id, user_id, order_number, risk_score, risk_level, factors, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING created_at
`
	insertTransactionQuery = `
						INSERT INTO payment_transactions (id, user_id, order_number, transfer_id, amount, status, error_message)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING created_at
`
)

// AuditRepository stores audit logs, fraud alerts and payment transactions
type AuditRepository struct {
	db *postgres.DB
}

// NewAuditRepository creates new AuditRepository instance
func NewAuditRepository(db *postgres.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog inserts audit record
func (ar *AuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return ar.db.QueryRow(ctx, insertAuditLogQuery, log.ID, log.UserID, log.Action, log.Resource, log.Outcome, log.Details).
		Scan(&log.CreatedAt)
}

// CreateFraudAlert inserts fraud alert
func (ar *AuditRepository) CreateFraudAlert(ctx context.Context, alert *models.FraudAlert) error {
	err := ar.db.QueryRow(ctx, insertFraudAlertQuery, alert.ID, alert.UserID, alert.OrderNumber, alert.RiskScore, alert.RiskLevel, alert.Factors, alert.Status).
		Scan(&alert.CreatedAt)
	if err != nil {
		if errCode := ar.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return err
	}

	return nil
}

// CreateTransaction inserts payment transaction record
func (ar *AuditRepository) CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error {
	err := ar.db.QueryRow(ctx, insertTransactionQuery, tx.ID, tx.UserID, tx.OrderNumber, tx.TransferID, tx.Amount, tx.Status, tx.ErrorMessage).
		Scan(&tx.CreatedAt)
	if err != nil {
		if errCode := ar.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return err
	}

	return nil
}
