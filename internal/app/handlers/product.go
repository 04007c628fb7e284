package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/service"
	"github.com/linemk/ecommerce-api/internal/storage"
	"github.com/shopspring/decimal"
)

// ProductRequest — тело запросов создания/обновления товара.
type ProductRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	CategoryID    int64            `json:"category_id" validate:"required,gt=0"`
	SKU           string           `json:"sku" validate:"required,max=100"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Rating        decimal.Decimal  `json:"rating,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
}

func (req *ProductRequest) toModel() *models.Product {
	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		SKU:           req.SKU,
		StockQuantity: req.StockQuantity,
		Rating:        req.Rating,
		ImageURL:      req.ImageURL,
	}
	if req.Discount != nil {
		product.Discount = decimal.NullDecimal{Decimal: *req.Discount, Valid: true}
	}
	return product
}

func (req *ProductRequest) validatePrices() bool {
	if req.Price.IsNegative() {
		return false
	}
	if req.Discount != nil {
		if req.Discount.IsNegative() || req.Discount.GreaterThan(decimal.NewFromInt(100)) {
			return false
		}
	}
	return true
}

// ListProductsHandler обрабатывает запрос GET /api/v1/products.
// Параметры: page, limit, search, category_id, sort_by, ascending.
// Поле сортировки сверяется с allow-list в хранилище.
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		opts := storage.ProductListOptions{
			Page:      queryInt(r, "page", 1),
			Limit:     queryInt(r, "limit", 10),
			Search:    r.URL.Query().Get("search"),
			SortBy:    r.URL.Query().Get("sort_by"),
			Ascending: r.URL.Query().Get("ascending") == "true",
		}
		if raw := r.URL.Query().Get("category_id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				opts.CategoryID = &id
			}
		}

		products, err := productService.ListProducts(r.Context(), opts)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to list products", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(products); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// GetProductHandler обрабатывает запрос GET /api/v1/products/{id}.
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		product, err := productService.GetProduct(r.Context(), id)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to get product", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// CreateProductHandler обрабатывает запрос POST /api/v1/products.
func CreateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}
		if !req.validatePrices() {
			logger.Error("invalid request: price or discount out of range")
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		product := req.toModel()
		id, err := productService.CreateProduct(r.Context(), product)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to create product", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}
		product.ID = id

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UpdateProductHandler обрабатывает запрос PUT /api/v1/products/{id}.
func UpdateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}
		if !req.validatePrices() {
			logger.Error("invalid request: price or discount out of range")
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		product := req.toModel()
		product.ID = id
		if err := productService.UpdateProduct(r.Context(), product); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to update product", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// DeleteProductHandler обрабатывает запрос DELETE /api/v1/products/{id}.
func DeleteProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		if err := productService.DeleteProduct(r.Context(), id); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to delete product", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
