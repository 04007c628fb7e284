package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/service"
)

// CategoryRequest — тело запросов создания/обновления категории.
type CategoryRequest struct {
	Name             string `json:"name" validate:"required,max=255"`
	Description      string `json:"description,omitempty"`
	ParentCategoryID *int64 `json:"parent_category_id,omitempty"`
}

// ListCategoriesHandler обрабатывает запрос GET /api/v1/categories.
func ListCategoriesHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCategoriesHandler"
		logger := log.With(slog.String("op", op))

		categories, err := categoryService.ListCategories(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", 10))
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to list categories", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(categories); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// GetCategoryHandler обрабатывает запрос GET /api/v1/categories/{id}:
// возвращает категорию с прямыми подкатегориями.
func GetCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid category id", slog.Any("error", err))
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		category, err := categoryService.GetCategory(r.Context(), id)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to get category", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(category); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// CreateCategoryHandler обрабатывает запрос POST /api/v1/categories.
func CreateCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateCategoryHandler"
		logger := log.With(slog.String("op", op))

		var req CategoryRequest
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

		category := &models.Category{
			Name:             req.Name,
			Description:      req.Description,
			ParentCategoryID: req.ParentCategoryID,
		}
		id, err := categoryService.CreateCategory(r.Context(), category)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to create category", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}
		category.ID = id

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(category); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UpdateCategoryHandler обрабатывает запрос PUT /api/v1/categories/{id}.
func UpdateCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid category id", slog.Any("error", err))
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		var req CategoryRequest
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

		category := &models.Category{
			ID:               id,
			Name:             req.Name,
			Description:      req.Description,
			ParentCategoryID: req.ParentCategoryID,
		}
		if err := categoryService.UpdateCategory(r.Context(), category); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to update category", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(category); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// DeleteCategoryHandler обрабатывает запрос DELETE /api/v1/categories/{id}.
func DeleteCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid category id", slog.Any("error", err))
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		if err := categoryService.DeleteCategory(r.Context(), id); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to delete category", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
