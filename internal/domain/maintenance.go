package domain

import (
	"time"

	"github.com/google/uuid"
)

// Maintenance - окно технического обслуживания автомобиля
// Инвариант: окно ТО не пересекается с неотмененными бронями того же автомобиля
type Maintenance struct {
	ID          uuid.UUID `json:"id"`
	CarID       uuid.UUID `json:"car_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Car *Car `json:"car,omitempty"`
}

// Overlaps проверяет пересечение окна ТО с интервалом [start, end)
func (m *Maintenance) Overlaps(start, end time.Time) bool {
	return Intersects(m.StartTime, m.EndTime, start, end)
}

// Validate проверяет корректность данных окна ТО
func (m *Maintenance) Validate() error {
	if m.CarID == uuid.Nil {
		return ErrInvalidMaintenanceData
	}
	if m.Description == "" {
		return ErrInvalidMaintenanceData
	}
	if !m.StartTime.Before(m.EndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}
