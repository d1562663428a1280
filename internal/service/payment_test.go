package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentMocks struct {
	orders   *mocks.MockOrderRepository
	users    *mocks.MockUserRepository
	audit    *mocks.MockAuditRepository
	vault    *mocks.MockVault
	client   *mocks.MockTransferClient
	risk     *mocks.MockRiskScorer
	notifier *mocks.MockNotifier
}

func newTestPaymentService(t *testing.T) (*PaymentService, paymentMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := paymentMocks{
		orders:   mocks.NewMockOrderRepository(ctrl),
		users:    mocks.NewMockUserRepository(ctrl),
		audit:    mocks.NewMockAuditRepository(ctrl),
		vault:    mocks.NewMockVault(ctrl),
		client:   mocks.NewMockTransferClient(ctrl),
		risk:     mocks.NewMockRiskScorer(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}

	return NewPaymentService(m.orders, m.users, m.audit, m.vault, m.client, m.risk, m.notifier), m
}

func testOrder() *models.Order {
	return &models.Order{
		ID:          10,
		UserID:      1,
		Number:      "ORD-1001",
		TotalAmount: dec("114.98"),
		Status:      models.OrderStatusPending,
		CreatedAt:   testNow,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func expectBankAccount(t *testing.T, m paymentMocks) {
	t.Helper()

	plaintext, err := json.Marshal(models.BankAccount{AccessToken: "access-sandbox-1", AccountID: "acc-1"})
	require.NoError(t, err)

	m.vault.EXPECT().KeyedHash("item-1").Return("hash-1")
	m.users.EXPECT().GetFinancialItem(gomock.Any(), uint64(1), "hash-1").
		Return(&models.FinancialItem{UserID: 1, ItemHash: "hash-1", EncryptedData: "sealed"}, nil)
	m.vault.EXPECT().Decrypt("sealed").Return(plaintext, nil)
}

func TestPaymentService_CreatePayment(t *testing.T) {
	req := models.PaymentRequest{UserID: 1, OrderNumber: "ORD-1001", Amount: dec("114.98"), PlaidItemID: "item-1"}

	t.Run("transfer_created", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
		expectBankAccount(t, m)
		m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).Return(&models.RiskAssessment{Score: 10, Level: models.RiskLevelLow}, nil)
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr models.TransferRequest) (*models.Transfer, error) {
				assert.Equal(t, "access-sandbox-1", tr.AccessToken)
				assert.Equal(t, "acc-1", tr.AccountID)
				assert.True(t, tr.Amount.Equal(dec("114.98")))
				return &models.Transfer{ID: "tr-1", Status: models.TransferStatusPending, ExpectedSettlement: "2025-03-04"}, nil
			})
		m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o models.Order) error {
				assert.Equal(t, models.OrderStatusProcessing, o.Status)
				require.NotNil(t, o.PaymentID)
				assert.Equal(t, "tr-1", *o.PaymentID)
				assert.Equal(t, models.PaymentMethodACH, *o.PaymentMethod)
				assert.Equal(t, models.TransferStatusPending, *o.PaymentStatus)
				return nil
			})
		m.audit.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *models.PaymentTransaction) error {
				assert.Equal(t, models.TransactionStatusCreated, tx.Status)
				return nil
			})

		got, err := ps.CreatePayment(context.Background(), req)
		require.NoError(t, err)

		want := &models.PaymentResult{TransferID: "tr-1", Status: models.TransferStatusPending, ExpectedSettlement: "2025-03-04"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("payment result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("within_tolerance", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
		expectBankAccount(t, m)
		m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).Return(nil, errors.New("history unavailable"))
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
			Return(&models.Transfer{ID: "tr-2", Status: models.TransferStatusPending}, nil)
		m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).Return(nil)
		m.audit.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		r := req
		r.Amount = dec("114.97")
		got, err := ps.CreatePayment(context.Background(), r)
		require.NoError(t, err)
		assert.Equal(t, "tr-2", got.TransferID)
	})

	t.Run("amount_mismatch_never_calls_provider", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Times(0)
		m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).Times(0)
		m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).Times(0)

		for _, amount := range []string{"100.00", "114.96", "115.00", "0.01"} {
			r := req
			r.Amount = dec(amount)
			_, err := ps.CreatePayment(context.Background(), r)
			assert.ErrorIs(t, err, models.ErrAmountMismatch, amount)
		}
	})

	t.Run("active_payment_is_not_charged_again", func(t *testing.T) {
		for _, status := range []string{models.TransferStatusPending, models.TransferStatusPosted, models.TransferStatusSettled} {
			ps, m := newTestPaymentService(t)
			order := testOrder()
			order.Status = models.OrderStatusProcessing
			order.PaymentID = ptr("tr-first")
			order.PaymentStatus = ptr(status)
			m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(order, nil)
			m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).Times(0)
			m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Times(0)
			m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).Times(0)

			_, err := ps.CreatePayment(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrPaymentAlreadyExists, status)
		}
	})

	t.Run("failed_payment_can_be_retried", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		order := testOrder()
		order.PaymentID = ptr("tr-first")
		order.PaymentStatus = ptr(models.TransferStatusReturned)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(order, nil)
		expectBankAccount(t, m)
		m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).Return(&models.RiskAssessment{}, nil)
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
			Return(&models.Transfer{ID: "tr-second", Status: models.TransferStatusPending}, nil)
		m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o models.Order) error {
				assert.Equal(t, "tr-second", *o.PaymentID)
				return nil
			})
		m.audit.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)

		got, err := ps.CreatePayment(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "tr-second", got.TransferID)
	})

	t.Run("order_of_another_user", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		order := testOrder()
		order.UserID = 2
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(order, nil)
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Times(0)

		_, err := ps.CreatePayment(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrOrderNotFound)
	})

	t.Run("order_not_found", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(nil, models.ErrDataNotFound)

		_, err := ps.CreatePayment(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrOrderNotFound)
	})

	t.Run("payment_method_not_found", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
		m.vault.EXPECT().KeyedHash("item-1").Return("hash-1")
		m.users.EXPECT().GetFinancialItem(gomock.Any(), uint64(1), "hash-1").Return(nil, models.ErrDataNotFound)
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Times(0)

		_, err := ps.CreatePayment(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrPaymentMethodNotFound)
	})

	t.Run("under_review", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
		expectBankAccount(t, m)
		m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).
			Return(&models.RiskAssessment{Score: 80, Level: models.RiskLevelCritical, RequiresReview: true}, nil)
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Times(0)

		_, err := ps.CreatePayment(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrPaymentUnderReview)
	})

	t.Run("provider_failure_recorded", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
		expectBankAccount(t, m)
		m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).Return(&models.RiskAssessment{}, nil)
		providerErr := &models.ProviderError{Message: "insufficient funds", Err: errors.New("INSUFFICIENT_FUNDS")}
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil, providerErr)
		m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).Times(0)
		m.audit.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *models.PaymentTransaction) error {
				assert.Equal(t, models.TransactionStatusFailed, tx.Status)
				assert.Nil(t, tx.TransferID)
				require.NotNil(t, tx.ErrorMessage)
				assert.Equal(t, "insufficient funds", *tx.ErrorMessage)
				return nil
			})

		_, err := ps.CreatePayment(context.Background(), req)
		var perr *models.ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "insufficient funds", perr.Message)
	})

	t.Run("transport_failure_is_sanitized", func(t *testing.T) {
		ps, m := newTestPaymentService(t)
		m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
		expectBankAccount(t, m)
		m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).Return(&models.RiskAssessment{}, nil)
		m.client.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: timeout"))
		m.audit.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)

		_, err := ps.CreatePayment(context.Background(), req)
		var perr *models.ProviderError
		require.ErrorAs(t, err, &perr)
		assert.NotContains(t, perr.Message, "dial")
	})

	t.Run("invalid_request", func(t *testing.T) {
		ps, _ := newTestPaymentService(t)

		_, err := ps.CreatePayment(context.Background(), models.PaymentRequest{UserID: 1, Amount: dec("1"), PlaidItemID: "item-1"})
		assert.ErrorIs(t, err, models.ErrInvalidRequest)

		r := req
		r.Amount = dec("-5")
		_, err = ps.CreatePayment(context.Background(), r)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})
}

func TestPaymentService_HandleWebhook(t *testing.T) {
	processing := func() *models.Order {
		o := testOrder()
		o.Status = models.OrderStatusProcessing
		id := "tr-1"
		o.PaymentID = &id
		return o
	}
	user := &models.User{ID: 1, Email: "buyer@example.com"}

	tests := []struct {
		name       string
		status     string
		wantStatus string
		wantNotify string
	}{
		{name: "pending", status: models.TransferStatusPending, wantStatus: models.OrderStatusProcessing},
		{name: "posted", status: models.TransferStatusPosted, wantStatus: models.OrderStatusProcessing},
		{name: "settled", status: models.TransferStatusSettled, wantStatus: models.OrderStatusProcessing, wantNotify: models.NotificationPaymentConfirmed},
		{name: "failed", status: models.TransferStatusFailed, wantStatus: models.OrderStatusPending, wantNotify: models.NotificationPaymentFailed},
		{name: "cancelled", status: models.TransferStatusCancelled, wantStatus: models.OrderStatusPending},
		{name: "returned", status: models.TransferStatusReturned, wantStatus: models.OrderStatusPending, wantNotify: models.NotificationPaymentFailed},
		{name: "unknown_status_keeps_order_status", status: "swept", wantStatus: models.OrderStatusProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, m := newTestPaymentService(t)
			m.orders.EXPECT().GetOrderByPaymentID(gomock.Any(), "tr-1").Return(processing(), nil)
			m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, o models.Order) error {
					assert.Equal(t, tt.wantStatus, o.Status)
					require.NotNil(t, o.PaymentStatus)
					assert.Equal(t, tt.status, *o.PaymentStatus)
					return nil
				})
			if tt.wantNotify != "" {
				m.users.EXPECT().GetUserByID(gomock.Any(), uint64(1)).Return(user, nil)
				m.notifier.EXPECT().Notify(gomock.Any()).
					Do(func(n models.Notification) {
						assert.Equal(t, tt.wantNotify, n.Kind)
						assert.Equal(t, "buyer@example.com", n.To)
					}).Times(1)
			} else {
				m.notifier.EXPECT().Notify(gomock.Any()).Times(0)
			}

			err := ps.HandleWebhook(context.Background(), models.WebhookEvent{
				WebhookType:    models.WebhookTypeTransfer,
				WebhookCode:    "TRANSFER_EVENTS_UPDATE",
				TransferID:     "tr-1",
				TransferStatus: tt.status,
			})
			require.NoError(t, err)
		})
	}
}

func TestPaymentService_HandleWebhook_Idempotent(t *testing.T) {
	ps, m := newTestPaymentService(t)

	var stored models.Order
	current := testOrder()
	current.Status = models.OrderStatusProcessing

	m.orders.EXPECT().GetOrderByPaymentID(gomock.Any(), "tr-1").
		DoAndReturn(func(context.Context, string) (*models.Order, error) {
			o := *current
			return &o, nil
		}).Times(2)
	m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Order) error {
			stored = o
			*current = o
			return nil
		}).Times(2)
	m.users.EXPECT().GetUserByID(gomock.Any(), uint64(1)).Return(&models.User{ID: 1, Email: "buyer@example.com"}, nil).Times(2)
	// one confirmation per delivered event
	m.notifier.EXPECT().Notify(gomock.Any()).Times(2)

	event := models.WebhookEvent{WebhookType: models.WebhookTypeTransfer, TransferID: "tr-1", TransferStatus: models.TransferStatusSettled}

	require.NoError(t, ps.HandleWebhook(context.Background(), event))
	once := stored.Status
	require.NoError(t, ps.HandleWebhook(context.Background(), event))

	assert.Equal(t, once, stored.Status)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
	assert.Equal(t, models.TransferStatusSettled, *stored.PaymentStatus)
}

func TestPaymentService_HandleWebhook_Ignored(t *testing.T) {
	tests := []struct {
		name  string
		event models.WebhookEvent
		setup func(m paymentMocks)
	}{
		{
			name:  "item_event",
			event: models.WebhookEvent{WebhookType: models.WebhookTypeItem, WebhookCode: "ERROR", ItemID: "item-1"},
		},
		{
			name:  "unknown_type",
			event: models.WebhookEvent{WebhookType: "HOLDINGS"},
		},
		{
			name:  "transfer_without_status",
			event: models.WebhookEvent{WebhookType: models.WebhookTypeTransfer, TransferID: "tr-1"},
		},
		{
			name:  "unknown_transfer",
			event: models.WebhookEvent{WebhookType: models.WebhookTypeTransfer, TransferID: "tr-x", TransferStatus: models.TransferStatusSettled},
			setup: func(m paymentMocks) {
				m.orders.EXPECT().GetOrderByPaymentID(gomock.Any(), "tr-x").Return(nil, models.ErrDataNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, m := newTestPaymentService(t)
			if tt.setup != nil {
				tt.setup(m)
			}
			m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).Times(0)
			m.notifier.EXPECT().Notify(gomock.Any()).Times(0)

			assert.NoError(t, ps.HandleWebhook(context.Background(), tt.event))
		})
	}
}

func TestPaymentService_HandleWebhook_UpdateError(t *testing.T) {
	ps, m := newTestPaymentService(t)
	m.orders.EXPECT().GetOrderByPaymentID(gomock.Any(), "tr-1").Return(testOrder(), nil)
	m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).Return(models.ErrInternalError)
	m.notifier.EXPECT().Notify(gomock.Any()).Times(0)

	err := ps.HandleWebhook(context.Background(), models.WebhookEvent{
		WebhookType:    models.WebhookTypeTransfer,
		TransferID:     "tr-1",
		TransferStatus: models.TransferStatusSettled,
	})
	assert.ErrorIs(t, err, models.ErrInternalError)
}

func TestPaymentService_HandleWebhook_NotificationFailure(t *testing.T) {
	ps, m := newTestPaymentService(t)

	order := testOrder()
	order.Status = models.OrderStatusProcessing
	order.PaymentID = ptr("tr-1")

	var stored *models.Order
	m.orders.EXPECT().GetOrderByPaymentID(gomock.Any(), "tr-1").Return(order, nil)
	m.orders.EXPECT().UpdateOrderPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Order) error {
			stored = &o
			return nil
		})
	m.users.EXPECT().GetUserByID(gomock.Any(), uint64(1)).Return(nil, errors.New("connection reset"))
	m.notifier.EXPECT().Notify(gomock.Any()).Times(0)

	err := ps.HandleWebhook(context.Background(), models.WebhookEvent{
		WebhookType:    models.WebhookTypeTransfer,
		TransferID:     "tr-1",
		TransferStatus: models.TransferStatusSettled,
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
	require.NotNil(t, stored.PaymentStatus)
	assert.Equal(t, models.TransferStatusSettled, *stored.PaymentStatus)
}

func TestPaymentService_ScoreOrderRisk(t *testing.T) {
	ps, m := newTestPaymentService(t)
	m.orders.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-1001").Return(testOrder(), nil)
	m.risk.EXPECT().ScoreRisk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.RiskRequest) (*models.RiskAssessment, error) {
			assert.True(t, req.Amount.Equal(dec("114.98")))
			return &models.RiskAssessment{Score: 5, Level: models.RiskLevelLow}, nil
		})

	got, err := ps.ScoreOrderRisk(context.Background(), models.PaymentRequest{UserID: 1, OrderNumber: "ORD-1001"})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Score)
}
