package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/ecommerce-api/internal/app/handlers"
	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/ecommerce-api/internal/service"
	"github.com/linemk/ecommerce-api/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// fakeAuthService — фиктивная реализация для тестирования.
type fakeAuthService struct {
	token string
	user  *models.User
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return f.user, f.err
}

type fakeDashboardService struct {
	stats *models.DashboardStats
	err   error
}

func (f *fakeDashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	return f.stats, f.err
}

type fakeCheckoutService struct {
	order *models.Order
	err   error
}

func (f *fakeCheckoutService) CreateOrder(ctx context.Context, userID int64, req service.CheckoutRequest) (*models.Order, error) {
	return f.order, f.err
}

type fakeCartService struct {
	cart *models.Cart
	err  error
}

func (f *fakeCartService) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	return f.cart, f.err
}

func (f *fakeCartService) AddItem(ctx context.Context, userID, productID int64) error {
	return f.err
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, productID int64, removeAll bool) error {
	return f.err
}

func (f *fakeCartService) DeleteCart(ctx context.Context, cartID int64) error {
	return f.err
}

type fakeOrderService struct {
	order  *models.Order
	orders []*models.Order
	err    error
}

func (f *fakeOrderService) GetOrderByID(ctx context.Context, id string, includeItems bool, itemsPage, itemsLimit int) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) GetOrdersByUserID(ctx context.Context, userID int64, page, limit int) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderService) ListOrders(ctx context.Context, page, limit int) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderService) UpdateOrder(ctx context.Context, order *models.Order) error {
	return f.err
}

func (f *fakeOrderService) DeleteOrder(ctx context.Context, id string) error {
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withUserID эмулирует JWT middleware, устанавливая userID в контекст запроса.
func withUserID(req *http.Request, userID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID))
}

// withURLParam добавляет URL-параметр chi в контекст запроса.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAuthHandler_Success(t *testing.T) {
	// Фиктивный сервис возвращает корректный токен.
	fakeSvc := &fakeAuthService{token: "test-token", err: nil}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/v1/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status 200 OK")

	var resp struct {
		Token string `json:"token"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, "test-token", resp.Token, "Returned token should match fake token")
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	handler := handlers.AuthHandler(testLogger(), &fakeAuthService{})

	reqBody := `{"email": "test@example.com", "password":`
	req := httptest.NewRequest("POST", "/api/v1/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid JSON")
}

func TestAuthHandler_LoginError(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "", err: assert.AnError}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/v1/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 for login error")
}

func TestCheckoutHandler_Success(t *testing.T) {
	order := &models.Order{
		ID:            "a2f1e6f0-0000-4000-8000-000000000001",
		UserID:        1,
		TotalAmount:   decimal.RequireFromString("195.00"),
		Status:        models.OrderStatusPending,
		PaymentMethod: models.DefaultPaymentMethod,
	}
	fakeSvc := &fakeCheckoutService{order: order}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	reqBody := `{"shipping_address": "Main st. 1", "shipping_price": "15"}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.CheckoutResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, resp.OrderID)
	assert.Equal(t, models.DefaultPaymentMethod, resp.PaymentMethod)
	assert.True(t, resp.TotalAmount.Equal(order.TotalAmount))
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	// Сервис возвращает обернутую ошибку пустой корзины — ожидаем 400.
	fakeSvc := &fakeCheckoutService{err: fmt.Errorf("service.CheckoutService.CreateOrder: %w", service.ErrEmptyCart)}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for empty cart")
}

func TestCheckoutHandler_NegativeShippingPrice(t *testing.T) {
	handler := handlers.CheckoutHandler(testLogger(), &fakeCheckoutService{})

	reqBody := `{"shipping_price": "-5"}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for negative shipping price")
}

func TestCheckoutHandler_Unauthorized(t *testing.T) {
	handler := handlers.CheckoutHandler(testLogger(), &fakeCheckoutService{})

	req := httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	// Не добавляем userID в контекст.
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 when userID is missing")
}

func TestGetCartHandler_Success(t *testing.T) {
	cart := &models.Cart{
		ID:     10,
		UserID: 1,
		CartItems: []*models.CartItem{
			{ID: 1, CartID: 10, ProductID: 101, Quantity: 2, ProductName: "keyboard", ProductPrice: decimal.NewFromInt(100)},
		},
	}
	handler := handlers.GetCartHandler(testLogger(), &fakeCartService{cart: cart})

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.Cart
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Len(t, resp.CartItems, 1)
	assert.Equal(t, "keyboard", resp.CartItems[0].ProductName)
}

func TestAddToCartHandler_Success(t *testing.T) {
	handler := handlers.AddToCartHandler(testLogger(), &fakeCartService{})

	reqBody := `{"product_id": 101}`
	req := httptest.NewRequest("POST", "/api/v1/cart/add", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.CartMessageResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "Item added to cart", resp.Message)
}

func TestAddToCartHandler_ValidationError(t *testing.T) {
	handler := handlers.AddToCartHandler(testLogger(), &fakeCartService{})

	// product_id обязателен и должен быть > 0.
	reqBody := `{"product_id": 0}`
	req := httptest.NewRequest("POST", "/api/v1/cart/add", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid product_id")
}

func TestAddToCartHandler_ProductNotFound(t *testing.T) {
	fakeSvc := &fakeCartService{err: fmt.Errorf("service.CartService.AddItem: %w", storage.ErrProductNotFound)}
	handler := handlers.AddToCartHandler(testLogger(), fakeSvc)

	reqBody := `{"product_id": 999}`
	req := httptest.NewRequest("POST", "/api/v1/cart/add", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for missing product")
}

func TestRemoveFromCartHandler_Success(t *testing.T) {
	handler := handlers.RemoveFromCartHandler(testLogger(), &fakeCartService{})

	reqBody := `{"product_id": 101, "remove_all": true}`
	req := httptest.NewRequest("DELETE", "/api/v1/cart/remove", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.CartMessageResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "Item removed from cart", resp.Message)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: fmt.Errorf("service.OrderService.GetOrderByID: %w", storage.ErrOrderNotFound)}
	handler := handlers.GetOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/v1/orders/missing", nil)
	req = withURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for missing order")
}

func TestUpdateOrderHandler_IDMismatch(t *testing.T) {
	handler := handlers.UpdateOrderHandler(testLogger(), &fakeOrderService{})

	// id в теле не совпадает с id в пути — конфликт.
	reqBody := `{"id": "other-id", "status": "Shipped"}`
	req := httptest.NewRequest("PUT", "/api/v1/orders/path-id", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", "path-id")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code, "Expected status 409 for order id mismatch")
}

func TestUpdateOrderHandler_Success(t *testing.T) {
	handler := handlers.UpdateOrderHandler(testLogger(), &fakeOrderService{})

	reqBody := `{"status": "Shipped"}`
	req := httptest.NewRequest("PUT", "/api/v1/orders/path-id", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", "path-id")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.Order
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "path-id", resp.ID, "path id should be applied to the order")
	assert.Equal(t, "Shipped", resp.Status)
}

func TestDeleteOrderHandler_Success(t *testing.T) {
	handler := handlers.DeleteOrderHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("DELETE", "/api/v1/orders/some-id", nil)
	req = withURLParam(req, "id", "some-id")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestGetUserHandler_Success(t *testing.T) {
	user := &models.User{ID: 1, Email: "buyer@example.com", UserName: "buyer", Role: "customer", PassHash: []byte("secret-hash")}
	handler := handlers.GetUserHandler(testLogger(), &fakeAuthService{user: user})

	req := httptest.NewRequest("GET", "/api/v1/user", nil)
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.User
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "buyer@example.com", resp.Email)
	// Хэш пароля не сериализуется в ответ.
	assert.NotContains(t, rr.Body.String(), "secret-hash")
}

func TestGetUserHandler_Unauthorized(t *testing.T) {
	handler := handlers.GetUserHandler(testLogger(), &fakeAuthService{})

	req := httptest.NewRequest("GET", "/api/v1/user", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDashboardStatsHandler_Success(t *testing.T) {
	stats := &models.DashboardStats{
		TotalRevenue:  decimal.RequireFromString("1500.00"),
		TotalOrders:   12,
		TotalProducts: 30,
		ActiveUsers:   8,
		RevenueGrowth: decimal.NewFromInt(25),
		OrdersGrowth:  1,
	}
	handler := handlers.DashboardStatsHandler(testLogger(), &fakeDashboardService{stats: stats})

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard/stats", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.DashboardStats
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, 12, resp.TotalOrders)
	assert.Equal(t, 8, resp.ActiveUsers)
	assert.True(t, resp.TotalRevenue.Equal(stats.TotalRevenue))
	assert.True(t, resp.RevenueGrowth.Equal(stats.RevenueGrowth))
}

func TestDashboardStatsHandler_Error(t *testing.T) {
	handler := handlers.DashboardStatsHandler(testLogger(), &fakeDashboardService{err: assert.AnError})

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard/stats", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestListOrdersHandler_Unauthorized(t *testing.T) {
	handler := handlers.ListOrdersHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
