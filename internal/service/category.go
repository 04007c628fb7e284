package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/storage"
)

// CategoryService — CRUD категорий. Проверка циклов в дереве подкатегорий
// не выполняется, это ответственность вызывающей стороны.
type CategoryService interface {
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context, page, limit int) ([]*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (int64, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	log          *slog.Logger
	categoryRepo storage.CategoryStorage
}

func NewCategoryService(log *slog.Logger, categoryRepo storage.CategoryStorage) CategoryService {
	return &categoryService{
		log:          log,
		categoryRepo: categoryRepo,
	}
}

// GetCategory возвращает категорию вместе с прямыми подкатегориями.
func (s *categoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	const op = "service.CategoryService.GetCategory"
	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.categoryRepo.GetSubCategories(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get sub categories: %w", op, err)
	}
	category.SubCategories = subs
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, page, limit int) ([]*models.Category, error) {
	const op = "service.CategoryService.ListCategories"
	categories, err := s.categoryRepo.ListCategories(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, category *models.Category) (int64, error) {
	const op = "service.CategoryService.CreateCategory"
	id, err := s.categoryRepo.CreateCategory(ctx, category)
	if err != nil {
		s.log.Error("failed to create category", slog.String("op", op), slog.Any("error", err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *models.Category) error {
	const op = "service.CategoryService.UpdateCategory"
	if err := s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	const op = "service.CategoryService.DeleteCategory"
	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
