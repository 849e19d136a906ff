package report

import (
	"context"
	"fmt"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/repository"
)

// Service формирует сводные показатели и отчеты для панели администратора
type Service struct {
	statsRepo repository.StatsRepository
	logger    logger.Logger
}

// NewService создает новый экземпляр ReportService
func NewService(statsRepo repository.StatsRepository, logger logger.Logger) *Service {
	return &Service{
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// Dashboard возвращает сводные показатели панели
func (s *Service) Dashboard(ctx context.Context, actor *domain.User) (*domain.DashboardStats, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	stats, err := s.statsRepo.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return stats, nil
}

// Usage возвращает отчет об использовании парка: брони по дням,
// выручка по месяцам, популярные автомобили, средняя длительность
// аренды и средний пробег
func (s *Service) Usage(ctx context.Context, actor *domain.User) (*domain.UsageReport, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	report, err := s.statsRepo.Usage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build usage report: %w", err)
	}

	return report, nil
}
