package models

import "github.com/shopspring/decimal"

// Cart представляет корзину пользователя (одна активная корзина на пользователя).
type Cart struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	CartItems []*CartItem `json:"cart_items"`
}

// CartItem представляет строку корзины.
// Поля ProductName/ProductPrice/ProductDiscount/ProductImageURL заполняются
// через JOIN с таблицей products и нужны только для отображения и расчета цен.
type CartItem struct {
	ID              int64               `json:"id"`
	CartID          int64               `json:"cart_id"`
	ProductID       int64               `json:"product_id"`
	Quantity        int                 `json:"quantity"`
	ProductName     string              `json:"product_name,omitempty"`
	ProductPrice    decimal.Decimal     `json:"product_price"`
	ProductDiscount decimal.NullDecimal `json:"product_discount,omitempty"`
	ProductImageURL string              `json:"product_image_url,omitempty"`
}
