package models

import "time"

// Category представляет категорию товаров.
// ItemsCount — денормализованное количество товаров в категории.
// Дерево подкатегорий строится через ParentCategoryID; проверка циклов —
// ответственность вызывающей стороны.
type Category struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	ParentCategoryID *int64      `json:"parent_category_id,omitempty"`
	ItemsCount       int         `json:"items_count"`
	SubCategories    []*Category `json:"sub_categories,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
