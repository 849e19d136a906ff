package car

import (
	"context"
	"fmt"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/repository"

	"github.com/google/uuid"
)

// CreateCarRequest - запрос на добавление автомобиля в парк
type CreateCarRequest struct {
	Name         string    `json:"name" validate:"required"`
	Model        string    `json:"model" validate:"required"`
	LicensePlate string    `json:"license_plate" validate:"required"`
	ShopID       uuid.UUID `json:"shop_id" validate:"required"`
}

// UpdateCarRequest - запрос на изменение данных автомобиля
type UpdateCarRequest struct {
	Name         string `json:"name,omitempty"`
	Model        string `json:"model,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
}

// Service содержит бизнес-логику работы с парком автомобилей
type Service struct {
	carRepo  repository.CarRepository
	shopRepo repository.ShopRepository
	logger   logger.Logger
}

// NewService создает новый экземпляр CarService
func NewService(carRepo repository.CarRepository, shopRepo repository.ShopRepository, logger logger.Logger) *Service {
	return &Service{
		carRepo:  carRepo,
		shopRepo: shopRepo,
		logger:   logger,
	}
}

// CreateCar добавляет автомобиль в парк пункта проката.
// SHOP_ADMIN может добавлять автомобили только в свой пункт
func (s *Service) CreateCar(ctx context.Context, actor *domain.User, req *CreateCarRequest) (*domain.Car, error) {
	if _, err := s.shopRepo.GetByID(ctx, req.ShopID); err != nil {
		return nil, err
	}

	car := &domain.Car{
		Name:         req.Name,
		Model:        req.Model,
		LicensePlate: domain.NormalizeLicensePlate(req.LicensePlate),
		ShopID:       req.ShopID,
	}

	if !domain.Can(actor, domain.ActionManage, car) {
		return nil, domain.ErrForbidden
	}

	if err := car.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.carRepo.GetByLicensePlate(ctx, car.LicensePlate)
	if err != nil && err != domain.ErrCarNotFound {
		return nil, fmt.Errorf("failed to check existing car: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrCarAlreadyExists
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		s.logger.Error("Failed to create car", map[string]interface{}{
			"license_plate": car.LicensePlate,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	s.logger.Info("Car created", map[string]interface{}{
		"car_id":  car.ID,
		"shop_id": car.ShopID,
	})

	return car, nil
}

// GetCarByID возвращает автомобиль по ID
func (s *Service) GetCarByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

// ListCars возвращает автомобили, видимые пользователю.
// SHOP_ADMIN видит парк своего пункта, остальные - весь парк
func (s *Service) ListCars(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Car, error) {
	if actor.IsShopAdmin() && actor.ShopID != nil {
		return s.carRepo.ListByShop(ctx, *actor.ShopID, limit, offset)
	}
	return s.carRepo.List(ctx, limit, offset)
}

// UpdateCar обновляет данные автомобиля
func (s *Service) UpdateCar(ctx context.Context, actor *domain.User, id uuid.UUID, req *UpdateCarRequest) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionManage, car) {
		return nil, domain.ErrForbidden
	}

	if req.Name != "" {
		car.Name = req.Name
	}
	if req.Model != "" {
		car.Model = req.Model
	}
	if req.LicensePlate != "" {
		car.LicensePlate = domain.NormalizeLicensePlate(req.LicensePlate)
	}

	if err := car.Validate(); err != nil {
		return nil, err
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to update car: %w", err)
	}

	return car, nil
}

// DeleteCar удаляет автомобиль из парка
func (s *Service) DeleteCar(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.Can(actor, domain.ActionManage, car) {
		return domain.ErrForbidden
	}

	if err := s.carRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}

	s.logger.Info("Car deleted", map[string]interface{}{
		"car_id":   id,
		"actor_id": actor.ID,
	})

	return nil
}
