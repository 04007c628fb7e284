package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/ecommerce-api/internal/domain/models"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryStorage описывает методы для работы с категориями.
type CategoryStorage interface {
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	// GetSubCategories возвращает прямых потомков категории.
	GetSubCategories(ctx context.Context, parentID int64) ([]*models.Category, error)
	ListCategories(ctx context.Context, page, limit int) ([]*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (int64, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	// AdjustItemsCount изменяет денормализованный счетчик товаров категории
	// с отсечкой на нуле; вызывается в транзакции мутации товара.
	AdjustItemsCount(ctx context.Context, tx *sql.Tx, categoryID int64, delta int) error
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryStorage {
	return &categoryRepository{db: db}
}

const categoryColumns = "id, name, description, parent_category_id, items_count, created_at, updated_at"

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*models.Category, error) {
	c := &models.Category{}
	err := scanner.Scan(&c.ID, &c.Name, &c.Description, &c.ParentCategoryID, &c.ItemsCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) GetSubCategories(ctx context.Context, parentID int64) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE parent_category_id = $1 ORDER BY id", parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, page, limit int) ([]*models.Category, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY id LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, description, parent_category_id, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id`,
		category.Name, category.Description, category.ParentCategoryID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	return id, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, description = $2, parent_category_id = $3, updated_at = NOW() WHERE id = $4`,
		category.Name, category.Description, category.ParentCategoryID, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) AdjustItemsCount(ctx context.Context, tx *sql.Tx, categoryID int64, delta int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE categories SET items_count = GREATEST(items_count + $1, 0) WHERE id = $2",
		delta, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust items count: %w", err)
	}
	return nil
}
