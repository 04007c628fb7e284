package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/ecommerce-api/internal/domain/models"
	"github.com/linemk/ecommerce-api/internal/storage"
)

// DashboardService отдает сводные показатели магазина для админ-панели.
type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	log  *slog.Logger
	repo storage.DashboardStorage
}

func NewDashboardService(log *slog.Logger, repo storage.DashboardStorage) DashboardService {
	return &dashboardService{log: log, repo: repo}
}

func (s *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "service.DashboardService.GetStats"
	stats, err := s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
