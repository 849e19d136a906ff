package user

import (
	"context"
	"fmt"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/hash"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/repository"

	"github.com/google/uuid"
)

// CreateUserRequest - запрос на создание пользователя персоналом
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     domain.UserRole `json:"role" validate:"required"`
	ShopID   *uuid.UUID      `json:"shop_id,omitempty"`
}

// UpdateUserRequest - запрос на изменение пользователя персоналом
type UpdateUserRequest struct {
	Name     string          `json:"name,omitempty"`
	Email    string          `json:"email,omitempty"`
	Password string          `json:"password,omitempty"`
	Role     domain.UserRole `json:"role,omitempty"`
	ShopID   *uuid.UUID      `json:"shop_id,omitempty"`
}

// Service содержит бизнес-логику администрирования пользователей
type Service struct {
	userRepo repository.UserRepository
	shopRepo repository.ShopRepository
	logger   logger.Logger
}

// NewService создает новый экземпляр UserService
func NewService(userRepo repository.UserRepository, shopRepo repository.ShopRepository, logger logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		shopRepo: shopRepo,
		logger:   logger,
	}
}

// CreateUser создает пользователя с заданной ролью.
// SHOP_ADMIN может создавать пользователей только своего пункта проката
// и не может выдавать роль ADMIN
func (s *Service) CreateUser(ctx context.Context, actor *domain.User, req *CreateUserRequest) (*domain.User, error) {
	if err := s.checkRoleGrant(actor, req.Role, req.ShopID); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	if req.ShopID != nil {
		if _, err := s.shopRepo.GetByID(ctx, *req.ShopID); err != nil {
			return nil, err
		}
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		ShopID:       req.ShopID,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created by staff", map[string]interface{}{
		"user_id":  user.ID,
		"role":     user.Role,
		"actor_id": actor.ID,
	})

	return user, nil
}

// GetUserByID возвращает пользователя с проверкой прав доступа
func (s *Service) GetUserByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionView, user) {
		return nil, domain.ErrForbidden
	}

	return user, nil
}

// ListUsers возвращает пользователей, видимых персоналу.
// SHOP_ADMIN видит только пользователей своего пункта проката
func (s *Service) ListUsers(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.User, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	if actor.IsShopAdmin() && actor.ShopID != nil {
		return s.userRepo.ListByShop(ctx, *actor.ShopID)
	}

	return s.userRepo.List(ctx, limit, offset)
}

// UpdateUser обновляет пользователя от имени персонала
func (s *Service) UpdateUser(ctx context.Context, actor *domain.User, id uuid.UUID, req *UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Can(actor, domain.ActionManage, user) {
		return nil, domain.ErrForbidden
	}

	if req.Role != "" {
		if err := s.checkRoleGrant(actor, req.Role, req.ShopID); err != nil {
			return nil, err
		}
		user.Role = req.Role
	}
	if req.ShopID != nil {
		if _, err := s.shopRepo.GetByID(ctx, *req.ShopID); err != nil {
			return nil, err
		}
		user.ShopID = req.ShopID
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil && err != domain.ErrUserNotFound {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		passwordHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser удаляет пользователя
func (s *Service) DeleteUser(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if id == actor.ID {
		// Удаление собственной учетной записи персоналом запрещено
		return domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.Can(actor, domain.ActionManage, user) {
		return domain.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"actor_id": actor.ID,
	})

	return nil
}

// checkRoleGrant проверяет, что актор вправе выдать роль.
// SHOP_ADMIN не выдает роль ADMIN и привязывает персонал к своему пункту
func (s *Service) checkRoleGrant(actor *domain.User, role domain.UserRole, shopID *uuid.UUID) error {
	switch role {
	case domain.RoleAdmin, domain.RoleShopAdmin, domain.RoleUser:
	default:
		return domain.ErrInvalidRole
	}

	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsShopAdmin() {
		return domain.ErrForbidden
	}
	if role == domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if role == domain.RoleShopAdmin {
		if shopID == nil || actor.ShopID == nil || *shopID != *actor.ShopID {
			return domain.ErrForbidden
		}
	}

	return nil
}
