package http

import (
	"context"
	"encoding/json"
	"net/http"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/car"

	"github.com/google/uuid"
)

// CarService определяет интерфейс для сервиса автомобилей
type CarService interface {
	CreateCar(ctx context.Context, actor *domain.User, req *car.CreateCarRequest) (*domain.Car, error)
	GetCarByID(ctx context.Context, id uuid.UUID) (*domain.Car, error)
	ListCars(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Car, error)
	UpdateCar(ctx context.Context, actor *domain.User, id uuid.UUID, req *car.UpdateCarRequest) (*domain.Car, error)
	DeleteCar(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// CarHandler обрабатывает запросы связанные с парком автомобилей
type CarHandler struct {
	carService CarService
	logger     logger.Logger
}

// NewCarHandler создает новый handler
func NewCarHandler(carService CarService, logger logger.Logger) *CarHandler {
	return &CarHandler{
		carService: carService,
		logger:     logger,
	}
}

// CreateCar добавляет автомобиль в парк
// POST /api/admin/cars
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req car.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.carService.CreateCar(r.Context(), claims.User(), &req)
	if err != nil {
		h.respondCarError(w, err, "Failed to create car")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}

// ListCars возвращает автомобили, видимые пользователю
// GET /api/admin/cars
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := parsePagination(r)
	cars, err := h.carService.ListCars(r.Context(), claims.User(), limit, offset)
	if err != nil {
		h.respondCarError(w, err, "Failed to get cars")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    cars,
	})
}

// GetCarByID возвращает автомобиль по ID
// GET /api/admin/cars/{id}
func (h *CarHandler) GetCarByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	c, err := h.carService.GetCarByID(r.Context(), id)
	if err != nil {
		h.respondCarError(w, err, "Failed to get car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}

// UpdateCar обновляет данные автомобиля
// PUT /api/admin/cars/{id}
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	var req car.UpdateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.carService.UpdateCar(r.Context(), claims.User(), id, &req)
	if err != nil {
		h.respondCarError(w, err, "Failed to update car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}

// DeleteCar удаляет автомобиль из парка
// DELETE /api/admin/cars/{id}
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	if err := h.carService.DeleteCar(r.Context(), claims.User(), id); err != nil {
		h.respondCarError(w, err, "Failed to delete car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *CarHandler) respondCarError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case domain.ErrCarNotFound:
		respondError(w, http.StatusNotFound, "Car not found")
	case domain.ErrShopNotFound:
		respondError(w, http.StatusNotFound, "Shop not found")
	case domain.ErrForbidden:
		respondError(w, http.StatusForbidden, "Insufficient permissions")
	case domain.ErrCarAlreadyExists:
		respondError(w, http.StatusBadRequest, "Car with this license plate already exists")
	case domain.ErrInvalidLicensePlate, domain.ErrInvalidCarData:
		respondError(w, http.StatusBadRequest, "Invalid car data")
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
