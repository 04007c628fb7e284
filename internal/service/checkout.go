package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/lib/mailer"
	"github.com/linemk/ecommerce-api/internal/pricing"
	"github.com/linemk/ecommerce-api/internal/storage"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart возвращается при попытке оформить заказ с пустой корзиной.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutRequest — входные данные оформления заказа.
type CheckoutRequest struct {
	PaymentMethod   string
	ShippingAddress string
	ShippingPrice   decimal.Decimal
}

// CheckoutService выполняет переход корзина -> заказ (Pending).
type CheckoutService interface {
	CreateOrder(ctx context.Context, userID int64, req CheckoutRequest) (*models.Order, error)
}

type checkoutService struct {
	log          *slog.Logger
	db           *sql.DB
	userRepo     storage.UserStorage
	cartRepo     storage.CartStorage
	productRepo  storage.ProductStorage
	orderRepo    storage.OrderStorage
	mail         mailer.EmailSender
	orderBaseURL string
}

func NewCheckoutService(
	log *slog.Logger,
	db *sql.DB,
	userRepo storage.UserStorage,
	cartRepo storage.CartStorage,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	mail mailer.EmailSender,
	orderBaseURL string,
) CheckoutService {
	return &checkoutService{
		log:          log,
		db:           db,
		userRepo:     userRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		mail:         mail,
		orderBaseURL: orderBaseURL,
	}
}

// CreateOrder оформляет заказ по текущей корзине пользователя.
// Заказ, его строки и инкременты created_order_count пишутся в одной транзакции;
// при любой ошибке до коммита всё откатывается. Удаление корзины и письмо с
// подтверждением идут после коммита и не влияют на результат: заказ уже создан,
// их сбои только логируются.
func (s *checkoutService) CreateOrder(ctx context.Context, userID int64, req CheckoutRequest) (*models.Order, error) {
	const op = "service.CheckoutService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("starting checkout")

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrCartNotFound) {
			logger.Warn("cart not found")
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
		}
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}
	if len(cart.CartItems) == 0 {
		logger.Warn("cart is empty")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.DefaultPaymentMethod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Батч-загрузка всех товаров корзины одним запросом.
	productIDs := make([]int64, 0, len(cart.CartItems))
	seen := make(map[int64]struct{}, len(cart.CartItems))
	for _, item := range cart.CartItems {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.GetProductsByIDsTx(ctx, tx, productIDs)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to load products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to load products: %w", op, err)
	}

	// Фиксируем цену каждой строки на момент оформления (цена со скидкой).
	orderItems := make([]*models.OrderItem, 0, len(cart.CartItems))
	lines := make([]pricing.Line, 0, len(cart.CartItems))
	for _, item := range cart.CartItems {
		product, ok := products[item.ProductID]
		if !ok {
			s.rollback(tx, logger)
			logger.Warn("cart references missing product", slog.Int64("productID", item.ProductID))
			return nil, fmt.Errorf("%s: product %d: %w", op, item.ProductID, storage.ErrProductNotFound)
		}
		orderItems = append(orderItems, &models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     pricing.UnitSalePrice(product.Price, product.Discount),
		})
		lines = append(lines, pricing.Line{
			Quantity: item.Quantity,
			Price:    product.Price,
			Discount: product.Discount,
		})
	}

	// CreatedAt/UpdatedAt заполняет CreateOrderTx значениями из БД.
	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		TotalAmount:     pricing.OrderTotal(lines, req.ShippingPrice),
		Status:          models.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		ShippingAddress: req.ShippingAddress,
		ShippingPrice:   req.ShippingPrice,
		OrderItems:      orderItems,
	}

	if err := s.orderRepo.CreateOrderTx(ctx, tx, order); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// По одному инкременту на каждую уникальную строку заказа.
	for _, productID := range productIDs {
		if err := s.productRepo.AdjustCreatedOrderCount(ctx, tx, productID, 1); err != nil {
			s.rollback(tx, logger)
			logger.Error("failed to adjust created order count", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to adjust created order count: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order created", slog.String("orderID", order.ID), slog.String("total", order.TotalAmount.StringFixed(2)))

	// Заказ закоммичен; очистка корзины — отдельный шаг, допускается окно
	// несогласованности, клиенту ошибка не возвращается.
	if err := s.cartRepo.DeleteCart(ctx, cart.ID); err != nil {
		logger.Error("failed to delete cart after checkout", slog.Any("error", err), slog.Int64("cartID", cart.ID))
	}

	s.sendConfirmation(ctx, logger, userID, order)

	return order, nil
}

// sendConfirmation отправляет письмо-подтверждение, сбой только логируется.
func (s *checkoutService) sendConfirmation(ctx context.Context, logger *slog.Logger, userID int64, order *models.Order) {
	if s.mail == nil {
		return
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to load user for confirmation email", slog.Any("error", err))
		return
	}
	msg, err := mailer.NewOrderConfirmation(user, order, s.orderBaseURL)
	if err != nil {
		logger.Error("failed to build confirmation email", slog.Any("error", err))
		return
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		logger.Error("failed to send confirmation email", slog.Any("error", err))
	}
}

func (s *checkoutService) rollback(tx *sql.Tx, logger *slog.Logger) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logger.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}
