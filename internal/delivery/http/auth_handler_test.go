package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/jwt"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService - мок сервиса аутентификации
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *auth.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

// TestAuthHandler_Register тестирует регистрацию
func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
	}{
		{
			name: "успешная регистрация",
			requestBody: auth.RegisterRequest{
				Name:     "Иван Петров",
				Email:    "ivan@example.com",
				Password: "password123",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(&domain.User{
						ID:    uuid.New(),
						Name:  "Иван Петров",
						Email: "ivan@example.com",
						Role:  domain.RoleUser,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "дублирующийся email",
			requestBody: auth.RegisterRequest{
				Name:     "Иван",
				Email:    "taken@example.com",
				Password: "password123",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(nil, domain.ErrUserAlreadyExists)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "короткий пароль",
			requestBody: auth.RegisterRequest{
				Name:     "Иван",
				Email:    "ivan@example.com",
				Password: "short",
			},
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "невалидный JSON",
			requestBody:    "invalid",
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_Login тестирует вход
func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(*MockAuthService)
		expectedStatus int
	}{
		{
			name: "успешный вход",
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(&auth.LoginResponse{
						User:   &domain.User{ID: uuid.New(), Email: "ivan@example.com"},
						Tokens: &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "неверные учетные данные",
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(nil, domain.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			body, _ := json.Marshal(auth.LoginRequest{Email: "ivan@example.com", Password: "password123"})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_ResetPassword тестирует смену пароля по токену
func TestAuthHandler_ResetPassword(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockSetup      func(*MockAuthService)
		expectedStatus int
	}{
		{
			name:        "успешная смена",
			requestBody: `{"token": "valid-token", "password": "new-password-1"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("ResetPassword", mock.Anything, "valid-token", "new-password-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "истекший токен",
			requestBody: `{"token": "expired", "password": "new-password-1"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("ResetPassword", mock.Anything, "expired", "new-password-1").
					Return(domain.ErrResetTokenInvalid)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "пустой токен",
			requestBody:    `{"password": "new-password-1"}`,
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", bytes.NewReader([]byte(tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ResetPassword(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_GetMe тестирует получение текущего пользователя
func TestAuthHandler_GetMe(t *testing.T) {
	userID := uuid.New()

	t.Run("успешное получение", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("GetUserByID", mock.Anything, userID).
			Return(&domain.User{ID: userID, Email: "ivan@example.com"}, nil)

		handler := NewAuthHandler(mockService, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(CreateAuthContext(t, userID, "ivan@example.com", domain.RoleUser, nil))
		w := httptest.NewRecorder()

		handler.GetMe(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("без аутентификации", func(t *testing.T) {
		handler := NewAuthHandler(new(MockAuthService), logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		w := httptest.NewRecorder()

		handler.GetMe(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
