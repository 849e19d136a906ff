package http

import (
	"context"
	"net/http"
	"time"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"

	"github.com/google/uuid"
)

// AvailabilityService определяет интерфейс для движка доступности
type AvailabilityService interface {
	DayGrid(ctx context.Context, carID uuid.UUID, day time.Time) (*domain.DaySchedule, error)
}

// CarSchedule - сетка доступности вместе с данными автомобиля
type CarSchedule struct {
	Car      *domain.Car         `json:"car"`
	Schedule *domain.DaySchedule `json:"schedule"`
}

// ScheduleHandler обрабатывает запросы на сетки доступности
// Сетка строится на сервере, чтобы клиенты не пересчитывали пересечения
type ScheduleHandler struct {
	availabilityService AvailabilityService
	carService          CarService
	logger              logger.Logger
}

// NewScheduleHandler создает новый handler
func NewScheduleHandler(
	availabilityService AvailabilityService,
	carService CarService,
	logger logger.Logger,
) *ScheduleHandler {
	return &ScheduleHandler{
		availabilityService: availabilityService,
		carService:          carService,
		logger:              logger,
	}
}

// GetCarSchedule возвращает почасовую сетку автомобиля на день
// GET /api/cars/{id}/schedule?date=YYYY-MM-DD
func (h *ScheduleHandler) GetCarSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	day, err := parseDateQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if _, err := h.carService.GetCarByID(r.Context(), id); err != nil {
		if err == domain.ErrCarNotFound {
			respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.logger.Error("Failed to get car", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get car")
		return
	}

	schedule, err := h.availabilityService.DayGrid(r.Context(), id, day)
	if err != nil {
		h.logger.Error("Failed to build schedule", map[string]interface{}{
			"car_id": id,
			"error":  err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to build schedule")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    schedule,
	})
}

// GetFleetSchedule возвращает сетки всех видимых автомобилей на день
// GET /api/admin/schedule?date=YYYY-MM-DD
func (h *ScheduleHandler) GetFleetSchedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	day, err := parseDateQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	// Сетка строится по всему видимому парку, страницами
	var cars []*domain.Car
	for offset := 0; ; offset += maxPageLimit {
		page, err := h.carService.ListCars(r.Context(), claims.User(), maxPageLimit, offset)
		if err != nil {
			if err == domain.ErrForbidden {
				respondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			h.logger.Error("Failed to list cars", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to get cars")
			return
		}

		cars = append(cars, page...)
		if len(page) < maxPageLimit {
			break
		}
	}

	schedules := make([]*CarSchedule, 0, len(cars))
	for _, c := range cars {
		schedule, err := h.availabilityService.DayGrid(r.Context(), c.ID, day)
		if err != nil {
			h.logger.Error("Failed to build schedule", map[string]interface{}{
				"car_id": c.ID,
				"error":  err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to build schedule")
			return
		}
		schedules = append(schedules, &CarSchedule{Car: c, Schedule: schedule})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"date":      domain.DayStart(day).Format(domain.ScheduleDateFormat),
			"schedules": schedules,
		},
	})
}
