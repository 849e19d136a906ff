package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus представляет состояние брони
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"   // Создана, автомобиль еще не выдан
	StatusActive    ReservationStatus = "ACTIVE"    // Автомобиль выдан
	StatusCompleted ReservationStatus = "COMPLETED" // Автомобиль возвращен (терминальное)
	StatusCancelled ReservationStatus = "CANCELLED" // Отменена (терминальное)
)

// Intersects проверяет пересечение полуоткрытых интервалов [s1, e1) и [s2, e2)
// Стандартный тест: интервалы пересекаются тогда и только тогда, когда s1 < e2 и s2 < e1
func Intersects(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Reservation - бронь автомобиля на интервал [StartTime, EndTime)
// Инвариант: для одного автомобиля интервалы неотмененных броней не пересекаются
type Reservation struct {
	ID        uuid.UUID         `json:"id"`
	CarID     uuid.UUID         `json:"car_id"`
	UserID    uuid.UUID         `json:"user_id"`
	ShopID    uuid.UUID         `json:"shop_id"` // Денормализовано из автомобиля
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Status    ReservationStatus `json:"status"`

	// Пробег фиксируется при выдаче и возврате автомобиля
	StartMileage *int `json:"start_mileage,omitempty"`
	EndMileage   *int `json:"end_mileage,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Car  *Car  `json:"car,omitempty"`
	User *User `json:"user,omitempty"`
	Shop *Shop `json:"shop,omitempty"`
}

// IsCancelled проверяет, отменена ли бронь
// Отмененная бронь никогда не участвует в проверке конфликтов
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// Overlaps проверяет пересечение брони с интервалом [start, end)
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return Intersects(r.StartTime, r.EndTime, start, end)
}

// validTransitions - допустимые переходы жизненного цикла
// COMPLETED и CANCELLED терминальны
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending: {StatusActive, StatusCancelled},
	StatusActive:  {StatusCompleted, StatusCancelled},
}

// CanTransitionTo проверяет допустимость перехода в состояние target
func (r *Reservation) CanTransitionTo(target ReservationStatus) bool {
	for _, s := range validTransitions[r.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// Start переводит бронь PENDING -> ACTIVE с фиксацией начального пробега
func (r *Reservation) Start(startMileage int) error {
	if !r.CanTransitionTo(StatusActive) {
		return ErrInvalidStatusTransition
	}
	if startMileage < 0 {
		return ErrInvalidMileage
	}
	r.Status = StatusActive
	r.StartMileage = &startMileage
	return nil
}

// Complete переводит бронь ACTIVE -> COMPLETED с фиксацией конечного пробега
// Конечный пробег должен быть строго больше начального
func (r *Reservation) Complete(endMileage int) error {
	if !r.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	if r.StartMileage == nil || endMileage <= *r.StartMileage {
		return ErrInvalidMileage
	}
	r.Status = StatusCompleted
	r.EndMileage = &endMileage
	return nil
}

// Cancel переводит бронь в терминальное состояние CANCELLED
func (r *Reservation) Cancel() error {
	if !r.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	r.Status = StatusCancelled
	return nil
}

// Validate проверяет корректность данных брони
func (r *Reservation) Validate() error {
	if r.CarID == uuid.Nil || r.UserID == uuid.Nil {
		return ErrInvalidReservationData
	}
	if !r.StartTime.Before(r.EndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}
