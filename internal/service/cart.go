package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/storage"
)

// CartService определяет операции над корзиной пользователя.
type CartService interface {
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID int64) error
	RemoveItem(ctx context.Context, userID, productID int64, removeAll bool) error
	DeleteCart(ctx context.Context, cartID int64) error
}

type cartService struct {
	log         *slog.Logger
	db          *sql.DB
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, db *sql.DB, cartRepo storage.CartStorage, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart возвращает корзину со строками и снапшотами товаров для отображения.
func (s *cartService) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	const op = "service.CartService.GetCart"
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

// AddItem добавляет товар в корзину пользователя.
// Корзина создается при первом добавлении. Повторное добавление того же товара
// увеличивает количество; счетчик cart_added_count растет только при появлении
// новой строки. Вся операция выполняется в одной транзакции.
// Конкурентные дубликаты разрешаются изоляцией БД: возможен lost update
// инкремента количества, архитектурно это не устраняется.
func (s *cartService) AddItem(ctx context.Context, userID, productID int64) error {
	const op = "service.CartService.AddItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))
	logger.Info("adding item to cart")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Товар должен существовать, иначе NotFound наружу.
	products, err := s.productRepo.GetProductsByIDsTx(ctx, tx, []int64{productID})
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	if _, ok := products[productID]; !ok {
		s.rollback(tx, logger)
		logger.Warn("product not found")
		return fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}

	cartID, err := s.cartRepo.GetCartIDByUserTx(ctx, tx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrCartNotFound) {
			s.rollback(tx, logger)
			logger.Error("failed to get cart", slog.Any("error", err))
			return fmt.Errorf("%s: failed to get cart: %w", op, err)
		}
		cartID, err = s.cartRepo.CreateCartTx(ctx, tx, userID)
		if err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to create cart", slog.Any("error", err))
			return fmt.Errorf("%s: failed to create cart: %w", op, err)
		}
	}

	item, err := s.cartRepo.GetCartItemTx(ctx, tx, cartID, productID)
	switch {
	case err == nil:
		// Строка уже есть — наращиваем количество, счетчик не трогаем.
		if err := s.cartRepo.UpdateCartItemQuantityTx(ctx, tx, item.ID, item.Quantity+1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to update cart item quantity", slog.Any("error", err))
			return fmt.Errorf("%s: failed to update cart item quantity: %w", op, err)
		}
	case errors.Is(err, storage.ErrCartItemNotFound):
		if err := s.cartRepo.InsertCartItemTx(ctx, tx, cartID, productID, 1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to insert cart item", slog.Any("error", err))
			return fmt.Errorf("%s: failed to insert cart item: %w", op, err)
		}
		if err := s.productRepo.AdjustCartAddedCount(ctx, tx, productID, 1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to adjust cart added count", slog.Any("error", err))
			return fmt.Errorf("%s: failed to adjust cart added count: %w", op, err)
		}
	default:
		s.rollback(tx, logger)
		logger.Error("failed to get cart item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get cart item: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("item added to cart")
	return nil
}

// RemoveItem убирает товар из корзины.
// При removeAll или когда количество опустилось бы до нуля строка удаляется
// целиком и декрементируется cart_added_count; иначе количество уменьшается на 1.
// Отсутствие корзины или строки — не ошибка.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID int64, removeAll bool) error {
	const op = "service.CartService.RemoveItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID), slog.Bool("removeAll", removeAll))
	logger.Info("removing item from cart")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	cartID, err := s.cartRepo.GetCartIDByUserTx(ctx, tx, userID)
	if err != nil {
		s.rollback(tx, logger)
		if errors.Is(err, storage.ErrCartNotFound) {
			logger.Info("cart not found, nothing to remove")
			return nil
		}
		logger.Error("failed to get cart", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	item, err := s.cartRepo.GetCartItemTx(ctx, tx, cartID, productID)
	if err != nil {
		s.rollback(tx, logger)
		if errors.Is(err, storage.ErrCartItemNotFound) {
			logger.Info("cart item not found, nothing to remove")
			return nil
		}
		logger.Error("failed to get cart item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get cart item: %w", op, err)
	}

	if removeAll || item.Quantity <= 1 {
		if err := s.cartRepo.DeleteCartItemTx(ctx, tx, item.ID); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to delete cart item", slog.Any("error", err))
			return fmt.Errorf("%s: failed to delete cart item: %w", op, err)
		}
		if err := s.productRepo.AdjustCartAddedCount(ctx, tx, productID, -1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to adjust cart added count", slog.Any("error", err))
			return fmt.Errorf("%s: failed to adjust cart added count: %w", op, err)
		}
	} else {
		if err := s.cartRepo.UpdateCartItemQuantityTx(ctx, tx, item.ID, item.Quantity-1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to update cart item quantity", slog.Any("error", err))
			return fmt.Errorf("%s: failed to update cart item quantity: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("item removed from cart")
	return nil
}

// DeleteCart удаляет корзину со всеми строками; используется после успешного оформления заказа.
func (s *cartService) DeleteCart(ctx context.Context, cartID int64) error {
	const op = "service.CartService.DeleteCart"
	if err := s.cartRepo.DeleteCart(ctx, cartID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *cartService) rollback(tx *sql.Tx, logger *slog.Logger) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logger.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}
