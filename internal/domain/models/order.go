package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы заказа. Внутри ядра реализован только переход корзина -> Pending.
const (
	OrderStatusPending = "Pending"
)

// DefaultPaymentMethod используется, если способ оплаты не указан при оформлении.
const DefaultPaymentMethod = "CashOnDelivery"

// Order представляет заказ. TotalAmount вычисляется один раз при создании
// и в дальнейшем автоматически не пересчитывается.
type Order struct {
	ID              string          `json:"id"` // UUID
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	ShippingPrice   decimal.Decimal `json:"shipping_price"`
	OrderItems      []*OrderItem    `json:"order_items,omitempty"`

	// Корреляционные поля платежного шлюза, заполняются вне ядра.
	InvoiceID       *string `json:"invoice_id,omitempty"`
	InvoiceKey      *string `json:"invoice_key,omitempty"`
	ReferenceNumber *string `json:"reference_number,omitempty"`
	PaymentData     *string `json:"payment_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem представляет строку заказа. Price — зафиксированная на момент
// создания заказа цена за единицу (с учетом скидки), последующие изменения
// цены товара на нее не влияют.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductName string          `json:"product_name,omitempty"` // заполняется через JOIN при чтении
}
