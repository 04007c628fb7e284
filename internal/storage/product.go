package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/ecommerce-api/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductListOptions — параметры выборки товаров.
// SortBy сверяется с фиксированным списком разрешенных полей (allow-list),
// произвольные имена полей из запроса никогда не попадают в SQL.
type ProductListOptions struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *int64
	SortBy     string
	Ascending  bool
}

// ProductStorage описывает методы для работы с товарами.
type ProductStorage interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// GetProductsByIDsTx загружает товары одним батч-запросом внутри транзакции.
	GetProductsByIDsTx(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]*models.Product, error)
	ListProducts(ctx context.Context, opts ProductListOptions) ([]*models.Product, error)
	CreateProductTx(ctx context.Context, tx *sql.Tx, product *models.Product) (int64, error)
	UpdateProductTx(ctx context.Context, tx *sql.Tx, product *models.Product) error
	DeleteProductTx(ctx context.Context, tx *sql.Tx, id int64) error
	// AdjustCartAddedCount изменяет счетчик добавлений в корзину с отсечкой на нуле.
	AdjustCartAddedCount(ctx context.Context, tx *sql.Tx, productID int64, delta int) error
	// AdjustCreatedOrderCount изменяет счетчик созданных заказов с отсечкой на нуле.
	AdjustCreatedOrderCount(ctx context.Context, tx *sql.Tx, productID int64, delta int) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "id, name, description, price, category_id, sku, stock_quantity, discount, rating, image_url, cart_added_count, created_order_count, created_at, updated_at"

// Разрешенные поля сортировки: имя из запроса -> имя колонки.
var productSortColumns = map[string]string{
	"id":                  "id",
	"name":                "name",
	"price":               "price",
	"rating":              "rating",
	"created_at":          "created_at",
	"cart_added_count":    "cart_added_count",
	"created_order_count": "created_order_count",
}

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.SKU,
		&p.StockQuantity, &p.Discount, &p.Rating, &p.ImageURL,
		&p.CartAddedCount, &p.CreatedOrderCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepository) GetProductsByIDsTx(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = ANY($1)"
	rows, err := tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]*models.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListProducts(ctx context.Context, opts ProductListOptions) ([]*models.Product, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	query := "SELECT " + productColumns + " FROM products"
	var args []any
	argN := 1

	where := ""
	if opts.Search != "" {
		where = fmt.Sprintf(" WHERE name ILIKE $%d", argN)
		args = append(args, "%"+opts.Search+"%")
		argN++
	}
	if opts.CategoryID != nil {
		if where == "" {
			where = fmt.Sprintf(" WHERE category_id = $%d", argN)
		} else {
			where += fmt.Sprintf(" AND category_id = $%d", argN)
		}
		args = append(args, *opts.CategoryID)
		argN++
	}

	// Сортировка строго по allow-list, иначе — по id.
	column, ok := productSortColumns[opts.SortBy]
	if !ok {
		column = "id"
	}
	direction := "DESC"
	if opts.Ascending {
		direction = "ASC"
	}

	query += where + fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", column, direction, argN, argN+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) CreateProductTx(ctx context.Context, tx *sql.Tx, product *models.Product) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, category_id, sku, stock_quantity, discount, rating, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()) RETURNING id`,
		product.Name, product.Description, product.Price, product.CategoryID,
		product.SKU, product.StockQuantity, product.Discount, product.Rating, product.ImageURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (r *productRepository) UpdateProductTx(ctx context.Context, tx *sql.Tx, product *models.Product) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3, category_id = $4, sku = $5,
		     stock_quantity = $6, discount = $7, rating = $8, image_url = $9, updated_at = NOW()
		 WHERE id = $10`,
		product.Name, product.Description, product.Price, product.CategoryID,
		product.SKU, product.StockQuantity, product.Discount, product.Rating, product.ImageURL,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProductTx(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GREATEST не дает счетчику уйти ниже нуля.
func (r *productRepository) AdjustCartAddedCount(ctx context.Context, tx *sql.Tx, productID int64, delta int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE products SET cart_added_count = GREATEST(cart_added_count + $1, 0) WHERE id = $2",
		delta, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust cart added count: %w", err)
	}
	return nil
}

func (r *productRepository) AdjustCreatedOrderCount(ctx context.Context, tx *sql.Tx, productID int64, delta int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE products SET created_order_count = GREATEST(created_order_count + $1, 0) WHERE id = $2",
		delta, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust created order count: %w", err)
	}
	return nil
}
