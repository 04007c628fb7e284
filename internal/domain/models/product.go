package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога.
// CartAddedCount и CreatedOrderCount — денормализованные счетчики,
// поддерживаются инкрементами в тех же транзакциях, что и вызвавшая их мутация.
type Product struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	Price             decimal.Decimal     `json:"price"`
	CategoryID        int64               `json:"category_id"`
	SKU               string              `json:"sku"`
	StockQuantity     int                 `json:"stock_quantity"`
	Discount          decimal.NullDecimal `json:"discount,omitempty"` // процент скидки, 0–100
	Rating            decimal.Decimal     `json:"rating"`
	ImageURL          string              `json:"image_url,omitempty"`
	CartAddedCount    int                 `json:"cart_added_count"`
	CreatedOrderCount int                 `json:"created_order_count"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}
