package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/reservation"

	"github.com/google/uuid"
)

// ReservationService определяет интерфейс для сервиса броней
type ReservationService interface {
	CreateReservation(ctx context.Context, actor *domain.User, req *reservation.CreateReservationRequest) (*domain.Reservation, error)
	GetReservation(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Reservation, error)
	ListMyReservations(ctx context.Context, userID uuid.UUID) ([]*domain.Reservation, error)
	ListForDay(ctx context.Context, actor *domain.User, day time.Time) ([]*domain.Reservation, error)
	UpdateTimes(ctx context.Context, actor *domain.User, id uuid.UUID, req *reservation.UpdateReservationRequest) (*domain.Reservation, error)
	StartReservation(ctx context.Context, actor *domain.User, id uuid.UUID, startMileage int) (*domain.Reservation, error)
	CompleteReservation(ctx context.Context, actor *domain.User, id uuid.UUID, endMileage int) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Reservation, error)
	DeleteReservation(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// ReservationHandler обрабатывает запросы связанные с бронями
type ReservationHandler struct {
	reservationService ReservationService
	logger             logger.Logger
}

// NewReservationHandler создает новый handler
func NewReservationHandler(reservationService ReservationService, logger logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		logger:             logger,
	}
}

// CreateReservation создает новую бронь
// POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req reservation.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.reservationService.CreateReservation(r.Context(), claims.User(), &req)
	if err != nil {
		h.respondReservationError(w, err, "Failed to create reservation")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// GetMyReservations возвращает брони текущего пользователя
// GET /api/reservations
func (h *ReservationHandler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reservations, err := h.reservationService.ListMyReservations(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to list reservations", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get reservations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    reservations,
	})
}

// GetReservationByID возвращает бронь по ID
// GET /api/reservations/{id}
func (h *ReservationHandler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	res, err := h.reservationService.GetReservation(r.Context(), claims.User(), id)
	if err != nil {
		h.respondReservationError(w, err, "Failed to get reservation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// UpdateReservation переносит бронь на другой интервал
// PUT /api/reservations/{id}
func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var req reservation.UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.reservationService.UpdateTimes(r.Context(), claims.User(), id, &req)
	if err != nil {
		h.respondReservationError(w, err, "Failed to update reservation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// StartReservation фиксирует выдачу автомобиля
// POST /api/reservations/{id}/start
func (h *ReservationHandler) StartReservation(w http.ResponseWriter, r *http.Request) {
	h.mileageTransition(w, r, h.reservationService.StartReservation)
}

// CompleteReservation фиксирует возврат автомобиля
// POST /api/reservations/{id}/complete
func (h *ReservationHandler) CompleteReservation(w http.ResponseWriter, r *http.Request) {
	h.mileageTransition(w, r, h.reservationService.CompleteReservation)
}

// CancelReservation отменяет бронь текущего пользователя
// DELETE /api/reservations/{id}
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	res, err := h.reservationService.CancelReservation(r.Context(), claims.User(), id)
	if err != nil {
		h.respondReservationError(w, err, "Failed to cancel reservation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// GetReservationsForDay возвращает брони за день для панели администратора
// GET /api/admin/reservations?date=YYYY-MM-DD
func (h *ReservationHandler) GetReservationsForDay(w http.ResponseWriter, r *http.Request) {
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

	reservations, err := h.reservationService.ListForDay(r.Context(), claims.User(), day)
	if err != nil {
		h.respondReservationError(w, err, "Failed to get reservations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    reservations,
	})
}

// DeleteReservation удаляет бронь из истории
// DELETE /api/admin/reservations/{id}
func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	if err := h.reservationService.DeleteReservation(r.Context(), claims.User(), id); err != nil {
		h.respondReservationError(w, err, "Failed to delete reservation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// mileageTransition обрабатывает переходы статуса с фиксацией пробега
func (h *ReservationHandler) mileageTransition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, actor *domain.User, id uuid.UUID, mileage int) (*domain.Reservation, error),
) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var req struct {
		Mileage int `json:"mileage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := apply(r.Context(), claims.User(), id, req.Mileage)
	if err != nil {
		h.respondReservationError(w, err, "Failed to change reservation status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// respondReservationError сопоставляет ошибки домена с HTTP статусами
func (h *ReservationHandler) respondReservationError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case domain.ErrReservationNotFound:
		respondError(w, http.StatusNotFound, "Reservation not found")
	case domain.ErrCarNotFound:
		respondError(w, http.StatusNotFound, "Car not found")
	case domain.ErrForbidden:
		respondError(w, http.StatusForbidden, "Insufficient permissions")
	case domain.ErrTimeSlotConflict:
		respondError(w, http.StatusBadRequest, "Time slot is already taken")
	case domain.ErrInvalidTimeRange:
		respondError(w, http.StatusBadRequest, "Start time must be before end time")
	case domain.ErrInvalidStatusTransition:
		respondError(w, http.StatusBadRequest, "Invalid reservation status transition")
	case domain.ErrInvalidMileage:
		respondError(w, http.StatusBadRequest, "Invalid mileage value")
	case domain.ErrInvalidReservationData:
		respondError(w, http.StatusBadRequest, "Invalid reservation data")
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
