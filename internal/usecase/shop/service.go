package shop

import (
	"context"
	"fmt"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/repository"

	"github.com/google/uuid"
)

// CreateShopRequest - запрос на создание пункта проката
type CreateShopRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// UpdateShopRequest - запрос на изменение пункта проката
type UpdateShopRequest struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Service содержит бизнес-логику работы с пунктами проката
// Управление пунктами доступно только ADMIN
type Service struct {
	shopRepo repository.ShopRepository
	logger   logger.Logger
}

// NewService создает новый экземпляр ShopService
func NewService(shopRepo repository.ShopRepository, logger logger.Logger) *Service {
	return &Service{
		shopRepo: shopRepo,
		logger:   logger,
	}
}

// CreateShop создает новый пункт проката
func (s *Service) CreateShop(ctx context.Context, actor *domain.User, req *CreateShopRequest) (*domain.Shop, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	shop := &domain.Shop{
		Name:    req.Name,
		Address: req.Address,
	}

	if err := shop.Validate(); err != nil {
		return nil, err
	}

	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	s.logger.Info("Shop created", map[string]interface{}{
		"shop_id": shop.ID,
		"name":    shop.Name,
	})

	return shop, nil
}

// GetShopByID возвращает пункт проката по ID
func (s *Service) GetShopByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionView, shop) {
		return nil, domain.ErrForbidden
	}

	return shop, nil
}

// ListShops возвращает список пунктов проката
func (s *Service) ListShops(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Shop, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.shopRepo.List(ctx, limit, offset)
}

// UpdateShop обновляет данные пункта проката
func (s *Service) UpdateShop(ctx context.Context, actor *domain.User, id uuid.UUID, req *UpdateShopRequest) (*domain.Shop, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		shop.Name = req.Name
	}
	if req.Address != "" {
		shop.Address = req.Address
	}

	if err := shop.Validate(); err != nil {
		return nil, err
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to update shop: %w", err)
	}

	return shop, nil
}

// DeleteShop удаляет пункт проката
func (s *Service) DeleteShop(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.shopRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}

	s.logger.Info("Shop deleted", map[string]interface{}{
		"shop_id":  id,
		"actor_id": actor.ID,
	})

	return nil
}
