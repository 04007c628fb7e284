package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/ecommerce-api/internal/service"
)

// DashboardStatsHandler обрабатывает запрос GET /api/v1/admin/dashboard/stats:
// сводные показатели магазина (выручка, заказы, товары, активные пользователи).
func DashboardStatsHandler(log *slog.Logger, dashboardService service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DashboardStatsHandler"
		logger := log.With(slog.String("op", op))

		stats, err := dashboardService.GetStats(r.Context())
		if err != nil {
			status, msg := statusFromError(err)
			logger.Error("failed to get dashboard stats", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
