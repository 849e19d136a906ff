package auth

import (
	"context"
	"testing"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/hash"
	"carfleet/internal/pkg/jwt"
	"carfleet/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository - мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.User, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	args := m.Called(ctx, id, token, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteExpiredResetTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMailer - мок отправителя писем
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(toEmail, toName, resetURL string) error {
	args := m.Called(toEmail, toName, resetURL)
	return args.Error(0)
}

func (m *MockMailer) SendReservationStatus(toEmail, toName, carName, status string) error {
	args := m.Called(toEmail, toName, carName, status)
	return args.Error(0)
}

func newTestService() (*Service, *MockUserRepository, *MockMailer) {
	userRepo := new(MockUserRepository)
	mailClient := new(MockMailer)
	tokenService := jwt.NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour)
	service := NewService(userRepo, tokenService, mailClient, "http://localhost:3000", logger.NewNoop())
	return service, userRepo, mailClient
}

// TestService_Register тестирует регистрацию пользователя
func TestService_Register(t *testing.T) {
	t.Run("успешная регистрация", func(t *testing.T) {
		service, userRepo, _ := newTestService()
		userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := service.Register(context.Background(), &RegisterRequest{
			Name:     "Иван Петров",
			Email:    "new@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.True(t, hash.CheckPassword("password123", user.PasswordHash))
	})

	t.Run("дублирующийся email", func(t *testing.T) {
		service, userRepo, _ := newTestService()
		userRepo.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&domain.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

		_, err := service.Register(context.Background(), &RegisterRequest{
			Name:     "Иван",
			Email:    "taken@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})
}

// TestService_Login тестирует вход
func TestService_Login(t *testing.T) {
	passwordHash, err := hash.HashPassword("password123")
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Иван",
		Email:        "ivan@example.com",
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
	}

	t.Run("успешный вход", func(t *testing.T) {
		service, userRepo, _ := newTestService()
		userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		resp, err := service.Login(context.Background(), &LoginRequest{
			Email:    user.Email,
			Password: "password123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		service, userRepo, _ := newTestService()
		userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err := service.Login(context.Background(), &LoginRequest{
			Email:    user.Email,
			Password: "wrong-password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("несуществующий пользователь не раскрывается", func(t *testing.T) {
		service, userRepo, _ := newTestService()
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrUserNotFound)

		_, err := service.Login(context.Background(), &LoginRequest{
			Email:    "ghost@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

// TestService_ForgotPassword тестирует запрос восстановления пароля
func TestService_ForgotPassword(t *testing.T) {
	user := &domain.User{
		ID:    uuid.New(),
		Name:  "Иван",
		Email: "ivan@example.com",
	}

	t.Run("токен сохраняется и письмо уходит", func(t *testing.T) {
		service, userRepo, mailClient := newTestService()
		userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		var savedToken string
		userRepo.On("SetResetToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) {
				savedToken = args.String(2)
			}).
			Return(nil)
		mailClient.On("SendPasswordReset", user.Email, user.Name, mock.AnythingOfType("string")).Return(nil)

		err := service.ForgotPassword(context.Background(), user.Email)
		require.NoError(t, err)

		// 20 байт в hex-кодировке
		assert.Len(t, savedToken, 40)
		mailClient.AssertExpectations(t)
	})

	t.Run("несуществующий email не раскрывается", func(t *testing.T) {
		service, userRepo, mailClient := newTestService()
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrUserNotFound)

		err := service.ForgotPassword(context.Background(), "ghost@example.com")
		assert.NoError(t, err)
		mailClient.AssertNotCalled(t, "SendPasswordReset")
	})
}

// TestService_ResetPassword тестирует смену пароля по токену
func TestService_ResetPassword(t *testing.T) {
	user := &domain.User{
		ID:    uuid.New(),
		Name:  "Иван",
		Email: "ivan@example.com",
	}

	t.Run("успешная смена пароля", func(t *testing.T) {
		service, userRepo, _ := newTestService()
		userRepo.On("GetByResetToken", mock.Anything, "valid-token").Return(user, nil)
		userRepo.On("Update", mock.Anything, user).Return(nil)
		userRepo.On("ClearResetToken", mock.Anything, user.ID).Return(nil)

		err := service.ResetPassword(context.Background(), "valid-token", "new-password-1")
		require.NoError(t, err)
		assert.True(t, hash.CheckPassword("new-password-1", user.PasswordHash))
		userRepo.AssertCalled(t, "ClearResetToken", mock.Anything, user.ID)
	})

	t.Run("истекший токен", func(t *testing.T) {
		service, userRepo, _ := newTestService()
		userRepo.On("GetByResetToken", mock.Anything, "expired-token").
			Return(nil, domain.ErrResetTokenInvalid)

		err := service.ResetPassword(context.Background(), "expired-token", "new-password-1")
		assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
	})

	t.Run("короткий пароль", func(t *testing.T) {
		service, _, _ := newTestService()

		err := service.ResetPassword(context.Background(), "valid-token", "short")
		assert.ErrorIs(t, err, domain.ErrInvalidUserData)
	})
}
