package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Car - автомобиль парка
// Автомобиль всегда принадлежит пункту проката (ShopID NOT NULL)
type Car struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"license_plate"` // Номер автомобиля (уникальный)
	ShopID       uuid.UUID `json:"shop_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Shop *Shop `json:"shop,omitempty"`
}

// NormalizeLicensePlate нормализует номер автомобиля (убирает пробелы, приводит к верхнему регистру)
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(plate, " ", ""))
}

// Validate проверяет корректность данных автомобиля
func (c *Car) Validate() error {
	if c.Name == "" || c.Model == "" {
		return ErrInvalidCarData
	}
	if c.ShopID == uuid.Nil {
		return ErrInvalidCarData
	}

	c.LicensePlate = NormalizeLicensePlate(c.LicensePlate)
	if len(c.LicensePlate) < 4 || len(c.LicensePlate) > 20 {
		return ErrInvalidLicensePlate
	}
	return nil
}
