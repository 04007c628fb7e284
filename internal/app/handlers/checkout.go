package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/ecommerce-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/ecommerce-api/internal/service"
	"github.com/shopspring/decimal"
)

// CheckoutRequest — тело запроса POST /api/v1/checkout.
// PaymentMethod по умолчанию CashOnDelivery, ShippingPrice — 0.
type CheckoutRequest struct {
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	ShippingPrice   decimal.Decimal `json:"shipping_price,omitempty"`
}

// CheckoutResponse — ответ при успешном оформлении заказа.
type CheckoutResponse struct {
	Code          int             `json:"code"`
	Message       string          `json:"message"`
	OrderID       string          `json:"order_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
}

// CheckoutHandler обрабатывает запрос POST /api/v1/checkout: оформляет заказ
// по текущей корзине аутентифицированного пользователя.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.ShippingPrice.IsNegative() {
			logger.Error("invalid request: negative shipping price")
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		order, err := checkoutService.CreateOrder(r.Context(), userID, service.CheckoutRequest{
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: req.ShippingAddress,
			ShippingPrice:   req.ShippingPrice,
		})
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("checkout failed", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		resp := CheckoutResponse{
			Code:          http.StatusOK,
			Message:       "Order created successfully",
			OrderID:       order.ID,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: order.PaymentMethod,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
