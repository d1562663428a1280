package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	selectOrderByNumQuery = `
						SELECT id, user_id, number, total_amount, status, payment_method, payment_id, payment_status, created_at FROM orders
						WHERE number = $1
`
	selectOrderByPaymentIDQuery = `
						SELECT id, user_id, number, total_amount, status, payment_method, payment_id, payment_status, created_at FROM orders
						WHERE payment_id = $1
`
	selectOrdersByUserIDQuery = `
						SELECT id, user_id, number, total_amount, status, payment_method, payment_id, payment_status, created_at FROM orders
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	updateOrderPaymentQuery = `
						UPDATE orders
						SET status = $1, payment_method = $2, payment_id = $3, payment_status = $4
						WHERE number = $5
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(&order.ID, &order.UserID, &order.Number, &order.TotalAmount, &order.Status,
		&order.PaymentMethod, &order.PaymentID, &order.PaymentStatus, &order.CreatedAt)
}

// GetOrderByNumber returns order by number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, num string) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, selectOrderByNumQuery, num), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrderByPaymentID returns order by provider transfer id
func (or *OrderRepository) GetOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, selectOrderByPaymentIDQuery, paymentID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrdersByUserID gets user orders
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderPayment updates order status and payment fields
func (or *OrderRepository) UpdateOrderPayment(ctx context.Context, order models.Order) error {
	cmd, err := or.db.Exec(ctx, updateOrderPaymentQuery, order.Status, order.PaymentMethod, order.PaymentID, order.PaymentStatus, order.Number)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
