package notify

import (
	"fmt"

	"github.com/rookgm/storefront/internal/models"
)

// PaymentConfirmed builds notification about settled payment
func PaymentConfirmed(to string, order models.Order) models.Notification {
	return models.Notification{
		Kind:    models.NotificationPaymentConfirmed,
		To:      to,
		Subject: fmt.Sprintf("Payment received for order %s", order.Number),
		Body: fmt.Sprintf("Your bank payment of $%s for order %s has settled. We are preparing your order for shipment.",
			order.TotalAmount.StringFixed(2), order.Number),
	}
}

// PaymentFailed builds notification about failed or returned payment
func PaymentFailed(to string, order models.Order, status string) models.Notification {
	return models.Notification{
		Kind:    models.NotificationPaymentFailed,
		To:      to,
		Subject: fmt.Sprintf("Payment problem with order %s", order.Number),
		Body: fmt.Sprintf("Your bank payment for order %s was %s. Please check your bank account and retry the payment from your order page.",
			order.Number, status),
	}
}

// FraudAlert builds operator notification about critical risk score
func FraudAlert(to string, alert models.FraudAlert) models.Notification {
	return models.Notification{
		Kind:    models.NotificationFraudAlert,
		To:      to,
		Subject: fmt.Sprintf("[%s] fraud alert for order %s", alert.RiskLevel, alert.OrderNumber),
		Body: fmt.Sprintf("Risk score %d (%s) for user %d, order %s.\nPrimary risk: %s\nFailed payments: %d, orders in 24h: %d, unusual amount: %d, new account: %d\nAlert %s requires review.",
			alert.RiskScore, alert.RiskLevel, alert.UserID, alert.OrderNumber, alert.Factors.PrimaryRisk,
			alert.Factors.FailedPayments, alert.Factors.VelocityScore, alert.Factors.AmountAnomaly, alert.Factors.NewAccount,
			alert.ID),
	}
}
