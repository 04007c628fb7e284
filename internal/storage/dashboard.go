package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/shopspring/decimal"
)

// DashboardStorage считает сводные показатели магазина.
type DashboardStorage interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) DashboardStorage {
	return &dashboardRepository{db: db}
}

// GetDashboardStats собирает показатели тремя агрегирующими запросами:
// заказы (с выручкой), товары, пользователи. Окна роста — месяц и два
// месяца назад от текущего момента; активные пользователи — вход за 30 дней.
func (r *dashboardRepository) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	now := time.Now().UTC()
	monthAgo := now.AddDate(0, -1, 0)
	twoMonthsAgo := now.AddDate(0, -2, 0)
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	stats := &models.DashboardStats{}

	var totalRevenue, revenueThisMonth, revenueLastMonth decimal.Decimal
	var ordersThisMonth, ordersLastMonth int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COUNT(*) FILTER (WHERE created_at >= $1),
		       COUNT(*) FILTER (WHERE created_at >= $2 AND created_at < $1),
		       COALESCE(SUM(total_amount) FILTER (WHERE created_at >= $1), 0),
		       COALESCE(SUM(total_amount) FILTER (WHERE created_at >= $2 AND created_at < $1), 0)
		FROM orders`, monthAgo, twoMonthsAgo).
		Scan(&stats.TotalOrders, &totalRevenue, &ordersThisMonth, &ordersLastMonth, &revenueThisMonth, &revenueLastMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query order stats: %w", err)
	}

	var productsThisMonth, productsLastMonth int
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= $1),
		       COUNT(*) FILTER (WHERE created_at >= $2 AND created_at < $1)
		FROM products`, monthAgo, twoMonthsAgo).
		Scan(&stats.TotalProducts, &productsThisMonth, &productsLastMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query product stats: %w", err)
	}

	var usersThisMonth, usersLastMonth int
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE last_sign_in >= $3),
		       COUNT(*) FILTER (WHERE created_at >= $1),
		       COUNT(*) FILTER (WHERE created_at >= $2 AND created_at < $1)
		FROM users`, monthAgo, twoMonthsAgo, thirtyDaysAgo).
		Scan(&stats.ActiveUsers, &usersThisMonth, &usersLastMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query user stats: %w", err)
	}

	stats.TotalRevenue = totalRevenue.Round(2)
	// Нулевая база прошлого месяца: рост выручки принимается за 100%.
	if revenueLastMonth.IsZero() {
		stats.RevenueGrowth = decimal.NewFromInt(100)
	} else {
		stats.RevenueGrowth = revenueThisMonth.Sub(revenueLastMonth).
			Div(revenueLastMonth).Mul(decimal.NewFromInt(100)).Round(2)
	}
	stats.OrdersGrowth = countGrowth(ordersThisMonth, ordersLastMonth)
	stats.ProductsGrowth = countGrowth(productsThisMonth, productsLastMonth)
	stats.UsersGrowth = countGrowth(usersThisMonth, usersLastMonth)
	return stats, nil
}

// countGrowth — прирост к прошлому месяцу; при пустом прошлом месяце —
// значение текущего.
func countGrowth(thisMonth, lastMonth int) int {
	if lastMonth == 0 {
		return thisMonth
	}
	return thisMonth - lastMonth
}
