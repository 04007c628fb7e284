package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/storage"
)

// ProductService — CRUD каталога товаров с поддержкой денормализованного
// счетчика items_count у категорий.
type ProductService interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, opts storage.ProductListOptions) ([]*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	log          *slog.Logger
	db           *sql.DB
	productRepo  storage.ProductStorage
	categoryRepo storage.CategoryStorage
}

func NewProductService(log *slog.Logger, db *sql.DB, productRepo storage.ProductStorage, categoryRepo storage.CategoryStorage) ProductService {
	return &productService{
		log:          log,
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.ProductService.GetProduct"
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, opts storage.ProductListOptions) ([]*models.Product, error) {
	const op = "service.ProductService.ListProducts"
	products, err := s.productRepo.ListProducts(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// CreateProduct создает товар и в той же транзакции инкрементирует
// items_count его категории.
func (s *productService) CreateProduct(ctx context.Context, product *models.Product) (int64, error) {
	const op = "service.ProductService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("name", product.Name))
	logger.Info("creating product")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	id, err := s.productRepo.CreateProductTx(ctx, tx, product)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to create product", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	if err := s.categoryRepo.AdjustItemsCount(ctx, tx, product.CategoryID, 1); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to adjust items count", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to adjust items count: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", id))
	return id, nil
}

// UpdateProduct обновляет товар; при смене категории переносит единицу
// items_count из старой категории в новую в той же транзакции.
func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	const op = "service.ProductService.UpdateProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", product.ID))
	logger.Info("updating product")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	existing, err := s.productRepo.GetProductsByIDsTx(ctx, tx, []int64{product.ID})
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	old, ok := existing[product.ID]
	if !ok {
		s.rollback(tx, logger)
		return fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}

	if err := s.productRepo.UpdateProductTx(ctx, tx, product); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to update product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update product: %w", op, err)
	}

	if old.CategoryID != product.CategoryID {
		if err := s.categoryRepo.AdjustItemsCount(ctx, tx, old.CategoryID, -1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to adjust items count", slog.Any("error", err))
			return fmt.Errorf("%s: failed to adjust items count: %w", op, err)
		}
		if err := s.categoryRepo.AdjustItemsCount(ctx, tx, product.CategoryID, 1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to adjust items count", slog.Any("error", err))
			return fmt.Errorf("%s: failed to adjust items count: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("product updated")
	return nil
}

// DeleteProduct удаляет товар и декрементирует items_count его категории.
// Если на товар ссылаются строки корзин, БД вернет ошибку внешнего ключа —
// сначала нужно убрать товар из корзин.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "service.ProductService.DeleteProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))
	logger.Info("deleting product")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	existing, err := s.productRepo.GetProductsByIDsTx(ctx, tx, []int64{id})
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	old, ok := existing[id]
	if !ok {
		s.rollback(tx, logger)
		return fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}

	if err := s.productRepo.DeleteProductTx(ctx, tx, id); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}

	if err := s.categoryRepo.AdjustItemsCount(ctx, tx, old.CategoryID, -1); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to adjust items count", slog.Any("error", err))
		return fmt.Errorf("%s: failed to adjust items count: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("product deleted")
	return nil
}

func (s *productService) rollback(tx *sql.Tx, logger *slog.Logger) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logger.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}
