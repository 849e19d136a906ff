package availability

import (
	"context"
	"fmt"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/repository"

	"github.com/google/uuid"
)

// ScheduleCache определяет кэш почасовых сеток доступности
type ScheduleCache interface {
	Get(ctx context.Context, carID uuid.UUID, date string) (*domain.DaySchedule, error)
	Set(ctx context.Context, schedule *domain.DaySchedule) error
	Invalidate(ctx context.Context, carID uuid.UUID, start, end time.Time) error
}

// Service вычисляет доступность автомобилей по броням и окнам ТО
type Service struct {
	reservationRepo repository.ReservationRepository
	maintenanceRepo repository.MaintenanceRepository
	cache           ScheduleCache
	logger          logger.Logger
}

// NewService создает новый экземпляр AvailabilityService;
// cache может быть nil, тогда сетки считаются на каждый запрос
func NewService(
	reservationRepo repository.ReservationRepository,
	maintenanceRepo repository.MaintenanceRepository,
	cache ScheduleCache,
	logger logger.Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		maintenanceRepo: maintenanceRepo,
		cache:           cache,
		logger:          logger,
	}
}

// IsFree проверяет, свободен ли автомобиль в интервале [start, end).
// excludeID исключает из проверки бронь, которую редактируют
func (s *Service) IsFree(ctx context.Context, carID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	reservations, err := s.reservationRepo.ListBlockingByCar(ctx, carID)
	if err != nil {
		return false, fmt.Errorf("failed to list reservations: %w", err)
	}

	for _, r := range reservations {
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if r.IsCancelled() {
			continue
		}
		if r.Overlaps(start, end) {
			return false, nil
		}
	}

	maintenances, err := s.maintenanceRepo.ListByCar(ctx, carID)
	if err != nil {
		return false, fmt.Errorf("failed to list maintenances: %w", err)
	}

	for _, m := range maintenances {
		if m.Overlaps(start, end) {
			return false, nil
		}
	}

	return true, nil
}

// DayGrid возвращает почасовую сетку доступности автомобиля на сутки.
// Каждый слот покрывает интервал [h:00, h+1:00); бронь имеет приоритет
// над окном ТО при пересечении в одном слоте
func (s *Service) DayGrid(ctx context.Context, carID uuid.UUID, day time.Time) (*domain.DaySchedule, error) {
	date := domain.DayStart(day).Format(domain.ScheduleDateFormat)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, carID, date)
		if err != nil {
			s.logger.Warn("Schedule cache lookup failed", map[string]interface{}{
				"car_id": carID,
				"error":  err.Error(),
			})
		} else if cached != nil {
			return cached, nil
		}
	}

	schedule, err := s.buildGrid(ctx, carID, day)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, schedule); err != nil {
			s.logger.Warn("Failed to cache schedule", map[string]interface{}{
				"car_id": carID,
				"error":  err.Error(),
			})
		}
	}

	return schedule, nil
}

// InvalidateGrid сбрасывает кэшированные сетки автомобиля за дни интервала
func (s *Service) InvalidateGrid(ctx context.Context, carID uuid.UUID, start, end time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, carID, start, end); err != nil {
		s.logger.Warn("Failed to invalidate schedule cache", map[string]interface{}{
			"car_id": carID,
			"error":  err.Error(),
		})
	}
}

func (s *Service) buildGrid(ctx context.Context, carID uuid.UUID, day time.Time) (*domain.DaySchedule, error) {
	reservations, err := s.reservationRepo.ListBlockingByCar(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	maintenances, err := s.maintenanceRepo.ListByCar(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenances: %w", err)
	}

	dayStart := domain.DayStart(day)
	schedule := &domain.DaySchedule{
		CarID: carID,
		Date:  dayStart.Format(domain.ScheduleDateFormat),
		Slots: make([]domain.ScheduleSlot, 24),
	}

	for hour := 0; hour < 24; hour++ {
		slotStart := dayStart.Add(time.Duration(hour) * time.Hour)
		slotEnd := slotStart.Add(time.Hour)

		slot := domain.ScheduleSlot{Hour: hour, State: domain.SlotAvailable}

		for _, r := range reservations {
			if r.IsCancelled() {
				continue
			}
			if r.Overlaps(slotStart, slotEnd) {
				id := r.ID
				slot.State = domain.SlotReserved
				slot.ReservationID = &id
				break
			}
		}

		if slot.State == domain.SlotAvailable {
			for _, m := range maintenances {
				if m.Overlaps(slotStart, slotEnd) {
					id := m.ID
					slot.State = domain.SlotMaintenance
					slot.MaintenanceID = &id
					break
				}
			}
		}

		schedule.Slots[hour] = slot
	}

	return schedule, nil
}
