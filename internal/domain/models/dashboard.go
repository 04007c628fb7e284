package models

import "github.com/shopspring/decimal"

// DashboardStats — сводные показатели магазина для админ-панели.
// Рост выручки — в процентах к прошлому месяцу, остальные Growth-поля —
// абсолютный прирост.
type DashboardStats struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalOrders    int             `json:"total_orders"`
	TotalProducts  int             `json:"total_products"`
	ActiveUsers    int             `json:"active_users"`
	RevenueGrowth  decimal.Decimal `json:"revenue_growth"`
	OrdersGrowth   int             `json:"orders_growth"`
	ProductsGrowth int             `json:"products_growth"`
	UsersGrowth    int             `json:"users_growth"`
}
