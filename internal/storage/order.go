package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/ecommerce-api/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrderTx вставляет заказ вместе со строками в рамках переданной
	// транзакции и заполняет CreatedAt/UpdatedAt значениями из БД.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// GetOrderByID возвращает заказ, опционально со строками (с подпагинацией строк).
	GetOrderByID(ctx context.Context, id string, includeItems bool, itemsPage, itemsLimit int) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64, page, limit int) ([]*models.Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	// GetOrderProductIDsTx возвращает product_id строк заказа (для корректировки счетчиков).
	GetOrderProductIDsTx(ctx context.Context, tx *sql.Tx, orderID string) ([]int64, error)
	DeleteOrderTx(ctx context.Context, tx *sql.Tx, id string) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = "id, user_id, total_amount, status, payment_method, shipping_address, shipping_price, invoice_id, invoice_key, reference_number, payment_data, created_at, updated_at"

func scanOrder(scanner interface{ Scan(dest ...any) error }) (*models.Order, error) {
	o := &models.Order{}
	err := scanner.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentMethod,
		&o.ShippingAddress, &o.ShippingPrice,
		&o.InvoiceID, &o.InvoiceKey, &o.ReferenceNumber, &o.PaymentData,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	// Метки времени берем из БД, чтобы ответ и письмо совпадали с записью.
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (id, user_id, total_amount, status, payment_method, shipping_address, shipping_price, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.TotalAmount, order.Status,
		order.PaymentMethod, order.ShippingAddress, order.ShippingPrice,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.OrderItems {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)",
			order.ID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string, includeItems bool, itemsPage, itemsLimit int) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !includeItems {
		return order, nil
	}

	if itemsPage < 1 {
		itemsPage = 1
	}
	if itemsLimit < 1 {
		itemsLimit = 10
	}
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, COALESCE(p.name, '')
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, id, itemsLimit, (itemsPage-1)*itemsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.ProductName); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.OrderItems = append(order.OrderItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64, page, limit int) ([]*models.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	query := "SELECT " + orderColumns + " FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	rows, err := r.db.QueryContext(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, page, limit int) ([]*models.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	query := "SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	rows, err := r.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrder обновляет административные поля заказа.
// Строки заказа и TotalAmount не пересчитываются.
func (r *orderRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, payment_method = $2, shipping_address = $3, shipping_price = $4,
		     invoice_id = $5, invoice_key = $6, reference_number = $7, payment_data = $8, updated_at = NOW()
		 WHERE id = $9`,
		order.Status, order.PaymentMethod, order.ShippingAddress, order.ShippingPrice,
		order.InvoiceID, order.InvoiceKey, order.ReferenceNumber, order.PaymentData,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) GetOrderProductIDsTx(ctx context.Context, tx *sql.Tx, orderID string) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT product_id FROM order_items WHERE order_id = $1", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *orderRepository) DeleteOrderTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
