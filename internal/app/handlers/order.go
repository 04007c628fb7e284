package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/ecommerce-api/internal/service"
)

// ListOrdersHandler обрабатывает запрос GET /api/v1/orders:
// возвращает заказы текущего пользователя с пагинацией.
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)

		orders, err := orderService.GetOrdersByUserID(r.Context(), userID, page, limit)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orders); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// AdminListOrdersHandler обрабатывает запрос GET /api/v1/admin/orders:
// возвращает заказы всех пользователей с пагинацией.
func AdminListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminListOrdersHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.ListOrders(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", 10))
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orders); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// GetOrderHandler обрабатывает запрос GET /api/v1/orders/{id}.
// Параметры: include_items, items_page, items_limit (подпагинация строк заказа).
func GetOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID := chi.URLParam(r, "id")
		if orderID == "" {
			logger.Error("order id parameter is missing")
			http.Error(w, "order id is required", http.StatusBadRequest)
			return
		}

		includeItems := r.URL.Query().Get("include_items") == "true"
		itemsPage := queryInt(r, "items_page", 1)
		itemsLimit := queryInt(r, "items_limit", 10)

		order, err := orderService.GetOrderByID(r.Context(), orderID, includeItems, itemsPage, itemsLimit)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to get order", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(order); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// UpdateOrderHandler обрабатывает запрос PUT /api/v1/orders/{id} —
// административный путь в обход workflow оформления.
// id в пути обязан совпадать с id в теле.
func UpdateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID := chi.URLParam(r, "id")
		if orderID == "" {
			logger.Error("order id parameter is missing")
			http.Error(w, "order id is required", http.StatusBadRequest)
			return
		}

		var order models.Order
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if order.ID != "" && order.ID != orderID {
			status, msg := statusFromError(service.ErrOrderIDMismatch)
			logger.Error("order id mismatch", slog.String("pathID", orderID), slog.String("bodyID", order.ID))
			http.Error(w, msg, status)
			return
		}
		order.ID = orderID

		if err := orderService.UpdateOrder(r.Context(), &order); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to update order", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(order); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// DeleteOrderHandler обрабатывает запрос DELETE /api/v1/orders/{id}.
func DeleteOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID := chi.URLParam(r, "id")
		if orderID == "" {
			logger.Error("order id parameter is missing")
			http.Error(w, "order id is required", http.StatusBadRequest)
			return
		}

		if err := orderService.DeleteOrder(r.Context(), orderID); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to delete order", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
