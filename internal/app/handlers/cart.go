package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/ecommerce-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/ecommerce-api/internal/service"
)

// CartItemRequest — тело запросов добавления/удаления товара из корзины.
type CartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	RemoveAll bool  `json:"remove_all,omitempty"`
}

// CartMessageResponse — ответ на мутации корзины.
type CartMessageResponse struct {
	Message string `json:"message"`
}

// GetCartHandler обрабатывает запрос GET /api/v1/cart.
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		cart, err := cartService.GetCart(r.Context(), userID)
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to get cart", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(cart); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// AddToCartHandler обрабатывает запрос POST /api/v1/cart/add.
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CartItemRequest
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

		if err := cartService.AddItem(r.Context(), userID, req.ProductID); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to add item to cart", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CartMessageResponse{Message: "Item added to cart"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// RemoveFromCartHandler обрабатывает запрос DELETE /api/v1/cart/remove.
func RemoveFromCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveFromCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CartItemRequest
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

		if err := cartService.RemoveItem(r.Context(), userID, req.ProductID, req.RemoveAll); err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to remove item from cart", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CartMessageResponse{Message: "Item removed from cart"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
