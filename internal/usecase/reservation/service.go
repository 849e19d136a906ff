package reservation

import (
	"context"
	"fmt"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/pkg/mailer"
	"carfleet/internal/repository"

	"github.com/google/uuid"
)

// CreateReservationRequest - запрос на создание брони
type CreateReservationRequest struct {
	CarID     uuid.UUID  `json:"car_id" validate:"required"`
	StartTime time.Time  `json:"start_time" validate:"required"`
	EndTime   time.Time  `json:"end_time" validate:"required"`
	UserID    *uuid.UUID `json:"user_id,omitempty"` // Только для персонала: бронь от имени клиента
}

// UpdateReservationRequest - запрос на перенос брони
type UpdateReservationRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// GridInvalidator сбрасывает кэш сеток доступности после изменения броней
type GridInvalidator interface {
	InvalidateGrid(ctx context.Context, carID uuid.UUID, start, end time.Time)
}

// Service содержит бизнес-логику работы с бронями
type Service struct {
	reservationRepo repository.ReservationRepository
	carRepo         repository.CarRepository
	userRepo        repository.UserRepository
	grids           GridInvalidator
	mailer          mailer.Mailer
	logger          logger.Logger
}

// NewService создает новый экземпляр ReservationService
func NewService(
	reservationRepo repository.ReservationRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	grids GridInvalidator,
	mailer mailer.Mailer,
	logger logger.Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		carRepo:         carRepo,
		userRepo:        userRepo,
		grids:           grids,
		mailer:          mailer,
		logger:          logger,
	}
}

// CreateReservation создает новую бронь со статусом PENDING.
// Проверка конфликтов и запись выполняются в одной транзакции
func (s *Service) CreateReservation(ctx context.Context, actor *domain.User, req *CreateReservationRequest) (*domain.Reservation, error) {
	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	userID := actor.ID
	if req.UserID != nil && *req.UserID != actor.ID {
		// Бронь от имени другого пользователя доступна только персоналу
		if !actor.IsStaff() {
			return nil, domain.ErrForbidden
		}
		userID = *req.UserID
	}

	reservation := &domain.Reservation{
		CarID:     car.ID,
		UserID:    userID,
		ShopID:    car.ShopID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    domain.StatusPending,
	}

	if !domain.Can(actor, domain.ActionManage, reservation) {
		return nil, domain.ErrForbidden
	}

	if err := reservation.Validate(); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.CreateChecked(ctx, reservation); err != nil {
		if err == domain.ErrTimeSlotConflict {
			s.logger.Warn("Time slot conflict", map[string]interface{}{
				"car_id": car.ID,
				"start":  req.StartTime,
				"end":    req.EndTime,
			})
			return nil, err
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.logger.Info("Reservation created", map[string]interface{}{
		"reservation_id": reservation.ID,
		"car_id":         car.ID,
		"user_id":        userID,
	})

	s.grids.InvalidateGrid(ctx, car.ID, reservation.StartTime, reservation.EndTime)
	s.notify(ctx, userID, car.Name, reservation.Status)

	return reservation, nil
}

// GetReservation возвращает бронь по ID с проверкой прав доступа
func (s *Service) GetReservation(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionView, reservation) {
		return nil, domain.ErrForbidden
	}

	return reservation, nil
}

// ListMyReservations возвращает брони пользователя
func (s *Service) ListMyReservations(ctx context.Context, userID uuid.UUID) ([]*domain.Reservation, error) {
	return s.reservationRepo.ListByUser(ctx, userID)
}

// ListForDay возвращает брони за день для панели администратора.
// SHOP_ADMIN видит только брони своего пункта проката
func (s *Service) ListForDay(ctx context.Context, actor *domain.User, day time.Time) ([]*domain.Reservation, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	var shopID *uuid.UUID
	if actor.IsShopAdmin() {
		shopID = actor.ShopID
	}

	return s.reservationRepo.ListForDay(ctx, day, shopID)
}

// UpdateTimes переносит бронь на новый интервал с транзакционной
// проверкой конфликтов, исключая саму бронь
func (s *Service) UpdateTimes(ctx context.Context, actor *domain.User, id uuid.UUID, req *UpdateReservationRequest) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionManage, reservation) {
		return nil, domain.ErrForbidden
	}

	// Переносить можно только бронь, по которой автомобиль еще не выдан
	if reservation.Status != domain.StatusPending {
		return nil, domain.ErrInvalidStatusTransition
	}

	oldStart, oldEnd := reservation.StartTime, reservation.EndTime
	reservation.StartTime = req.StartTime
	reservation.EndTime = req.EndTime

	if err := reservation.Validate(); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.UpdateChecked(ctx, reservation); err != nil {
		return nil, err
	}

	s.grids.InvalidateGrid(ctx, reservation.CarID, oldStart, oldEnd)
	s.grids.InvalidateGrid(ctx, reservation.CarID, reservation.StartTime, reservation.EndTime)

	return reservation, nil
}

// StartReservation фиксирует выдачу автомобиля: PENDING -> ACTIVE
func (s *Service) StartReservation(ctx context.Context, actor *domain.User, id uuid.UUID, startMileage int) (*domain.Reservation, error) {
	return s.transition(ctx, actor, id, func(r *domain.Reservation) error {
		return r.Start(startMileage)
	})
}

// CompleteReservation фиксирует возврат автомобиля: ACTIVE -> COMPLETED
func (s *Service) CompleteReservation(ctx context.Context, actor *domain.User, id uuid.UUID, endMileage int) (*domain.Reservation, error) {
	return s.transition(ctx, actor, id, func(r *domain.Reservation) error {
		return r.Complete(endMileage)
	})
}

// CancelReservation отменяет бронь; отмененная бронь сразу
// освобождает свои слоты
func (s *Service) CancelReservation(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, actor, id, func(r *domain.Reservation) error {
		return r.Cancel()
	})
}

// DeleteReservation удаляет бронь из истории; доступно только персоналу
func (s *Service) DeleteReservation(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsStaff() || !domain.Can(actor, domain.ActionManage, reservation) {
		return domain.ErrForbidden
	}

	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.logger.Info("Reservation deleted", map[string]interface{}{
		"reservation_id": id,
		"actor_id":       actor.ID,
	})

	s.grids.InvalidateGrid(ctx, reservation.CarID, reservation.StartTime, reservation.EndTime)
	return nil
}

func (s *Service) transition(ctx context.Context, actor *domain.User, id uuid.UUID, apply func(*domain.Reservation) error) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionManage, reservation) {
		return nil, domain.ErrForbidden
	}

	if err := apply(reservation); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.logger.Info("Reservation status changed", map[string]interface{}{
		"reservation_id": reservation.ID,
		"status":         reservation.Status,
	})

	s.grids.InvalidateGrid(ctx, reservation.CarID, reservation.StartTime, reservation.EndTime)

	carName := ""
	if car, err := s.carRepo.GetByID(ctx, reservation.CarID); err == nil {
		carName = car.Name
	}
	s.notify(ctx, reservation.UserID, carName, reservation.Status)

	return reservation, nil
}

// notify отправляет письмо о смене статуса брони; ошибки отправки
// не прерывают операцию
func (s *Service) notify(ctx context.Context, userID uuid.UUID, carName string, status domain.ReservationStatus) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return
	}

	if err := s.mailer.SendReservationStatus(user.Email, user.Name, carName, string(status)); err != nil {
		s.logger.Warn("Failed to send reservation email", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
