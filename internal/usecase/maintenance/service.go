package maintenance

import (
	"context"
	"fmt"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/repository"

	"github.com/google/uuid"
)

// CreateMaintenanceRequest - запрос на планирование окна ТО
type CreateMaintenanceRequest struct {
	CarID       uuid.UUID `json:"car_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description string    `json:"description,omitempty"`
}

// UpdateMaintenanceRequest - запрос на изменение окна ТО
type UpdateMaintenanceRequest struct {
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description string    `json:"description,omitempty"`
}

// GridInvalidator сбрасывает кэш сеток доступности после изменения окон ТО
type GridInvalidator interface {
	InvalidateGrid(ctx context.Context, carID uuid.UUID, start, end time.Time)
}

// Service содержит бизнес-логику планирования ТО
type Service struct {
	maintenanceRepo repository.MaintenanceRepository
	carRepo         repository.CarRepository
	grids           GridInvalidator
	logger          logger.Logger
}

// NewService создает новый экземпляр MaintenanceService
func NewService(
	maintenanceRepo repository.MaintenanceRepository,
	carRepo repository.CarRepository,
	grids GridInvalidator,
	logger logger.Logger,
) *Service {
	return &Service{
		maintenanceRepo: maintenanceRepo,
		carRepo:         carRepo,
		grids:           grids,
		logger:          logger,
	}
}

// CreateMaintenance планирует окно ТО. Окно нельзя наложить на
// неотмененную бронь или другое окно ТО того же автомобиля
func (s *Service) CreateMaintenance(ctx context.Context, actor *domain.User, req *CreateMaintenanceRequest) (*domain.Maintenance, error) {
	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionManage, car) {
		return nil, domain.ErrForbidden
	}

	maintenance := &domain.Maintenance{
		CarID:       car.ID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	}

	if err := maintenance.Validate(); err != nil {
		return nil, err
	}

	conflict, err := s.maintenanceRepo.HasConflict(ctx, car.ID, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if conflict {
		return nil, domain.ErrTimeSlotConflict
	}

	if err := s.maintenanceRepo.Create(ctx, maintenance); err != nil {
		s.logger.Error("Failed to create maintenance", map[string]interface{}{
			"car_id": car.ID,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("failed to create maintenance: %w", err)
	}

	s.logger.Info("Maintenance scheduled", map[string]interface{}{
		"maintenance_id": maintenance.ID,
		"car_id":         car.ID,
	})

	s.grids.InvalidateGrid(ctx, car.ID, maintenance.StartTime, maintenance.EndTime)

	return maintenance, nil
}

// GetMaintenanceByID возвращает окно ТО по ID
func (s *Service) GetMaintenanceByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Maintenance, error) {
	maintenance, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionView, maintenance) {
		return nil, domain.ErrForbidden
	}

	return maintenance, nil
}

// ListMaintenances возвращает окна ТО для панели администратора.
// SHOP_ADMIN видит только окна своего пункта проката
func (s *Service) ListMaintenances(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Maintenance, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	var shopID *uuid.UUID
	if actor.IsShopAdmin() {
		shopID = actor.ShopID
	}

	return s.maintenanceRepo.List(ctx, shopID, limit, offset)
}

// UpdateMaintenance переносит окно ТО с повторной проверкой конфликтов,
// исключая само окно
func (s *Service) UpdateMaintenance(ctx context.Context, actor *domain.User, id uuid.UUID, req *UpdateMaintenanceRequest) (*domain.Maintenance, error) {
	maintenance, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionManage, maintenance) {
		return nil, domain.ErrForbidden
	}

	oldStart, oldEnd := maintenance.StartTime, maintenance.EndTime
	maintenance.StartTime = req.StartTime
	maintenance.EndTime = req.EndTime
	if req.Description != "" {
		maintenance.Description = req.Description
	}

	if err := maintenance.Validate(); err != nil {
		return nil, err
	}

	conflict, err := s.maintenanceRepo.HasConflict(ctx, maintenance.CarID, req.StartTime, req.EndTime, &id)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if conflict {
		return nil, domain.ErrTimeSlotConflict
	}

	if err := s.maintenanceRepo.Update(ctx, maintenance); err != nil {
		return nil, fmt.Errorf("failed to update maintenance: %w", err)
	}

	s.grids.InvalidateGrid(ctx, maintenance.CarID, oldStart, oldEnd)
	s.grids.InvalidateGrid(ctx, maintenance.CarID, maintenance.StartTime, maintenance.EndTime)

	return maintenance, nil
}

// DeleteMaintenance удаляет окно ТО
func (s *Service) DeleteMaintenance(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	maintenance, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !domain.Can(actor, domain.ActionManage, maintenance) {
		return domain.ErrForbidden
	}

	if err := s.maintenanceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}

	s.logger.Info("Maintenance deleted", map[string]interface{}{
		"maintenance_id": id,
		"actor_id":       actor.ID,
	})

	s.grids.InvalidateGrid(ctx, maintenance.CarID, maintenance.StartTime, maintenance.EndTime)

	return nil
}

// get загружает окно ТО вместе с автомобилем для проверки прав
func (s *Service) get(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	maintenance, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, maintenance.CarID)
	if err != nil {
		return nil, err
	}
	maintenance.Car = car

	return maintenance, nil
}
