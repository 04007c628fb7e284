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

// ErrOrderIDMismatch возвращается, когда id заказа в пути не совпадает с телом запроса.
var ErrOrderIDMismatch = errors.New("order id mismatch")

// OrderService — чтение и административные операции над заказами,
// минуя workflow оформления.
type OrderService interface {
	GetOrderByID(ctx context.Context, id string, includeItems bool, itemsPage, itemsLimit int) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64, page, limit int) ([]*models.Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, id string) error
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	orderRepo   storage.OrderStorage
	productRepo storage.ProductStorage
}

func NewOrderService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage, productRepo storage.ProductStorage) OrderService {
	return &orderService{
		log:         log,
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *orderService) GetOrderByID(ctx context.Context, id string, includeItems bool, itemsPage, itemsLimit int) (*models.Order, error) {
	const op = "service.OrderService.GetOrderByID"
	order, err := s.orderRepo.GetOrderByID(ctx, id, includeItems, itemsPage, itemsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *orderService) GetOrdersByUserID(ctx context.Context, userID int64, page, limit int) ([]*models.Order, error) {
	const op = "service.OrderService.GetOrdersByUserID"
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"
	orders, err := s.orderRepo.ListOrders(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// UpdateOrder обновляет административные поля заказа; TotalAmount не пересчитывается.
func (s *orderService) UpdateOrder(ctx context.Context, order *models.Order) error {
	const op = "service.OrderService.UpdateOrder"
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteOrder удаляет заказ со строками (каскадом) и декрементирует
// created_order_count по одному разу на каждый уникальный товар заказа.
// Всё в одной транзакции.
func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	const op = "service.OrderService.DeleteOrder"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id))
	logger.Info("deleting order")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	productIDs, err := s.orderRepo.GetOrderProductIDsTx(ctx, tx, id)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to get order items", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get order items: %w", op, err)
	}

	if err := s.orderRepo.DeleteOrderTx(ctx, tx, id); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to delete order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete order: %w", op, err)
	}

	seen := make(map[int64]struct{}, len(productIDs))
	for _, productID := range productIDs {
		if _, ok := seen[productID]; ok {
			continue
		}
		seen[productID] = struct{}{}
		if err := s.productRepo.AdjustCreatedOrderCount(ctx, tx, productID, -1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to adjust created order count", slog.Any("error", err))
			return fmt.Errorf("%s: failed to adjust created order count: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order deleted")
	return nil
}

func (s *orderService) rollback(tx *sql.Tx, logger *slog.Logger) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logger.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}
