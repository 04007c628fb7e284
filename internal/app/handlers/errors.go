package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/linemk/ecommerce-api/internal/service"
	"github.com/linemk/ecommerce-api/internal/storage"
)

// statusFromError отображает ошибки ядра на HTTP-статусы:
// валидация — 400, отсутствующие сущности — 404, конфликт — 409,
// все остальное — 500 с общим сообщением (детали остаются в логах).
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest, "your cart is empty"
	case errors.Is(err, service.ErrOrderIDMismatch):
		return http.StatusConflict, "order id mismatch"
	case errors.Is(err, storage.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, storage.ErrCartNotFound):
		return http.StatusNotFound, "cart not found"
	case errors.Is(err, storage.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, storage.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// queryInt читает целочисленный query-параметр с дефолтом.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
