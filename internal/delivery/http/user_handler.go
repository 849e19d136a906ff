package http

import (
	"context"
	"encoding/json"
	"net/http"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/user"

	"github.com/google/uuid"
)

// UserService определяет интерфейс для сервиса администрирования пользователей
type UserService interface {
	CreateUser(ctx context.Context, actor *domain.User, req *user.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.User, error)
	UpdateUser(ctx context.Context, actor *domain.User, id uuid.UUID, req *user.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// UserHandler обрабатывает запросы администрирования пользователей
type UserHandler struct {
	userService UserService
	logger      logger.Logger
}

// NewUserHandler создает новый handler
func NewUserHandler(userService UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser создает пользователя с заданной ролью
// POST /api/admin/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Name, email and password of at least 8 characters are required")
		return
	}

	u, err := h.userService.CreateUser(r.Context(), claims.User(), &req)
	if err != nil {
		h.respondUserError(w, err, "Failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    u,
	})
}

// ListUsers возвращает пользователей, видимых персоналу
// GET /api/admin/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := parsePagination(r)
	users, err := h.userService.ListUsers(r.Context(), claims.User(), limit, offset)
	if err != nil {
		h.respondUserError(w, err, "Failed to get users")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    users,
	})
}

// GetUserByID возвращает пользователя по ID
// GET /api/admin/users/{id}
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	u, err := h.userService.GetUserByID(r.Context(), claims.User(), id)
	if err != nil {
		h.respondUserError(w, err, "Failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    u,
	})
}

// UpdateUser обновляет пользователя
// PUT /api/admin/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.UpdateUser(r.Context(), claims.User(), id, &req)
	if err != nil {
		h.respondUserError(w, err, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    u,
	})
}

// DeleteUser удаляет пользователя
// DELETE /api/admin/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), claims.User(), id); err != nil {
		h.respondUserError(w, err, "Failed to delete user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *UserHandler) respondUserError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case domain.ErrUserNotFound:
		respondError(w, http.StatusNotFound, "User not found")
	case domain.ErrShopNotFound:
		respondError(w, http.StatusNotFound, "Shop not found")
	case domain.ErrForbidden:
		respondError(w, http.StatusForbidden, "Insufficient permissions")
	case domain.ErrUserAlreadyExists:
		respondError(w, http.StatusBadRequest, "User with this email already exists")
	case domain.ErrInvalidRole, domain.ErrInvalidEmail, domain.ErrInvalidUserData, domain.ErrShopRequired:
		respondError(w, http.StatusBadRequest, "Invalid user data")
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
