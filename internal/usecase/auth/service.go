package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/hash"
	"carfleet/internal/pkg/jwt"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/pkg/mailer"
	"carfleet/internal/repository"

	"github.com/google/uuid"
)

// resetTokenTTL - срок действия токена восстановления пароля
const resetTokenTTL = time.Hour

// RegisterRequest - запрос на регистрацию пользователя
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest - запрос на изменение профиля
// Смена email или пароля требует текущий пароль
type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

// LoginResponse - ответ на успешный вход
type LoginResponse struct {
	User   *domain.User   `json:"user"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

// Service содержит бизнес-логику аутентификации
type Service struct {
	userRepo     repository.UserRepository
	tokenService *jwt.TokenService
	mailer       mailer.Mailer
	appURL       string
	logger       logger.Logger
}

// NewService создает новый экземпляр AuthService
func NewService(
	userRepo repository.UserRepository,
	tokenService *jwt.TokenService,
	mailer mailer.Mailer,
	appURL string,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		tokenService: tokenService,
		mailer:       mailer,
		appURL:       appURL,
		logger:       logger,
	}
}

// Register регистрирует нового пользователя с ролью USER
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"email": req.Email,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user, nil
}

// Login проверяет учетные данные и выдает пару токенов
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !hash.CheckPassword(req.Password, user.PasswordHash) {
		s.logger.Warn("Invalid login attempt", map[string]interface{}{
			"email": req.Email,
		})
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	return &LoginResponse{User: user, Tokens: tokens}, nil
}

// GetUserByID возвращает пользователя по ID
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile обновляет имя, email и пароль пользователя.
// Смена email или пароля требует подтверждения текущим паролем
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" && req.Email != user.Email || req.NewPassword != "" {
		if !hash.CheckPassword(req.CurrentPassword, user.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
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

	if req.NewPassword != "" {
		passwordHash, err := hash.HashPassword(req.NewPassword)
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

// ForgotPassword генерирует токен восстановления и отправляет письмо.
// Несуществующий email не раскрывается: операция завершается успешно
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	if err := s.mailer.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		s.logger.Error("Failed to send reset email", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.logger.Info("Password reset requested", map[string]interface{}{
		"user_id": user.ID,
	})

	return nil
}

// ResetPassword меняет пароль по действующему токену восстановления
// и сбрасывает токен
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.ErrInvalidUserData
	}

	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.userRepo.ClearResetToken(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}

	s.logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})

	return nil
}

// PurgeExpiredResetTokens очищает истекшие токены восстановления;
// вызывается по расписанию
func (s *Service) PurgeExpiredResetTokens(ctx context.Context) {
	n, err := s.userRepo.DeleteExpiredResetTokens(ctx)
	if err != nil {
		s.logger.Error("Failed to purge reset tokens", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if n > 0 {
		s.logger.Info("Expired reset tokens purged", map[string]interface{}{
			"count": n,
		})
	}
}

// generateResetToken генерирует криптографически стойкий токен
func generateResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
