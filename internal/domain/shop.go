package domain

import (
	"time"

	"github.com/google/uuid"
)

// Shop - пункт проката, владеющий автомобилями и персоналом
type Shop struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate проверяет корректность данных пункта проката
func (s *Shop) Validate() error {
	if s.Name == "" || s.Address == "" {
		return ErrInvalidShopData
	}
	return nil
}
