package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/ecommerce-api/internal/domain/models"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartStorage описывает методы для работы с корзинами.
// Активная корзина пользователя определяется поиском по user_id,
// уникальный констрейнт не используется.
type CartStorage interface {
	// GetCartByUserID возвращает корзину со строками и снапшотами товаров
	// (имя, цена, скидка) через JOIN — только для отображения и расчета цен.
	GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error)
	GetCartIDByUserTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	CreateCartTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	GetCartItemTx(ctx context.Context, tx *sql.Tx, cartID, productID int64) (*models.CartItem, error)
	InsertCartItemTx(ctx context.Context, tx *sql.Tx, cartID, productID int64, quantity int) error
	UpdateCartItemQuantityTx(ctx context.Context, tx *sql.Tx, itemID int64, quantity int) error
	DeleteCartItemTx(ctx context.Context, tx *sql.Tx, itemID int64) error
	// DeleteCart удаляет корзину вместе со строками (ON DELETE CASCADE).
	DeleteCart(ctx context.Context, cartID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	cart := &models.Cart{}
	row := r.db.QueryRowContext(ctx, "SELECT id, user_id FROM carts WHERE user_id = $1", userID)
	if err := row.Scan(&cart.ID, &cart.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, p.name, p.price, p.discount, p.image_url
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`
	rows, err := r.db.QueryContext(ctx, query, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
			&item.ProductName, &item.ProductPrice, &item.ProductDiscount, &item.ProductImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.CartItems = append(cart.CartItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) GetCartIDByUserTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var id int64
	row := tx.QueryRowContext(ctx, "SELECT id FROM carts WHERE user_id = $1", userID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCartNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *cartRepository) CreateCartTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, "INSERT INTO carts (user_id) VALUES ($1) RETURNING id", userID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create cart: %w", err)
	}
	return id, nil
}

func (r *cartRepository) GetCartItemTx(ctx context.Context, tx *sql.Tx, cartID, productID int64) (*models.CartItem, error) {
	item := &models.CartItem{}
	row := tx.QueryRowContext(ctx,
		"SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = $1 AND product_id = $2",
		cartID, productID)
	if err := row.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *cartRepository) InsertCartItemTx(ctx context.Context, tx *sql.Tx, cartID, productID int64, quantity int) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)",
		cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) UpdateCartItemQuantityTx(ctx context.Context, tx *sql.Tx, itemID int64, quantity int) error {
	res, err := tx.ExecContext(ctx, "UPDATE cart_items SET quantity = $1 WHERE id = $2", quantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) DeleteCartItemTx(ctx context.Context, tx *sql.Tx, itemID int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM carts WHERE id = $1", cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
