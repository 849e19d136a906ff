package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotState - состояние часового слота в сетке доступности
type SlotState string

const (
	SlotAvailable   SlotState = "AVAILABLE"
	SlotReserved    SlotState = "RESERVED"
	SlotMaintenance SlotState = "MAINTENANCE"
)

// ScheduleSlot - один час дня в сетке доступности автомобиля
type ScheduleSlot struct {
	Hour  int       `json:"hour"` // 0..23
	State SlotState `json:"state"`

	// Идентификатор брони или окна ТО, занимающего слот
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	MaintenanceID *uuid.UUID `json:"maintenance_id,omitempty"`
}

// DaySchedule - почасовая сетка доступности автомобиля на один день
type DaySchedule struct {
	CarID uuid.UUID      `json:"car_id"`
	Date  string         `json:"date"` // YYYY-MM-DD, UTC
	Slots []ScheduleSlot `json:"slots"`
}

// ScheduleDateFormat - формат даты в параметрах и ключах кэша сетки
const ScheduleDateFormat = "2006-01-02"

// DayStart возвращает начало дня в UTC
func DayStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
