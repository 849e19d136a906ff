package http

import (
	"context"
	"encoding/json"
	"net/http"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/maintenance"

	"github.com/google/uuid"
)

// MaintenanceService определяет интерфейс для сервиса ТО
type MaintenanceService interface {
	CreateMaintenance(ctx context.Context, actor *domain.User, req *maintenance.CreateMaintenanceRequest) (*domain.Maintenance, error)
	GetMaintenanceByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Maintenance, error)
	ListMaintenances(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Maintenance, error)
	UpdateMaintenance(ctx context.Context, actor *domain.User, id uuid.UUID, req *maintenance.UpdateMaintenanceRequest) (*domain.Maintenance, error)
	DeleteMaintenance(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// MaintenanceHandler обрабатывает запросы связанные с окнами ТО
type MaintenanceHandler struct {
	maintenanceService MaintenanceService
	logger             logger.Logger
}

// NewMaintenanceHandler создает новый handler
func NewMaintenanceHandler(maintenanceService MaintenanceService, logger logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// CreateMaintenance планирует окно ТО
// POST /api/admin/maintenance
func (h *MaintenanceHandler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req maintenance.CreateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.maintenanceService.CreateMaintenance(r.Context(), claims.User(), &req)
	if err != nil {
		h.respondMaintenanceError(w, err, "Failed to create maintenance")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    m,
	})
}

// ListMaintenances возвращает окна ТО
// GET /api/admin/maintenance
func (h *MaintenanceHandler) ListMaintenances(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := parsePagination(r)
	maintenances, err := h.maintenanceService.ListMaintenances(r.Context(), claims.User(), limit, offset)
	if err != nil {
		h.respondMaintenanceError(w, err, "Failed to get maintenances")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    maintenances,
	})
}

// GetMaintenanceByID возвращает окно ТО по ID
// GET /api/admin/maintenance/{id}
func (h *MaintenanceHandler) GetMaintenanceByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid maintenance ID")
		return
	}

	m, err := h.maintenanceService.GetMaintenanceByID(r.Context(), claims.User(), id)
	if err != nil {
		h.respondMaintenanceError(w, err, "Failed to get maintenance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    m,
	})
}

// UpdateMaintenance переносит окно ТО
// PUT /api/admin/maintenance/{id}
func (h *MaintenanceHandler) UpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid maintenance ID")
		return
	}

	var req maintenance.UpdateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.maintenanceService.UpdateMaintenance(r.Context(), claims.User(), id, &req)
	if err != nil {
		h.respondMaintenanceError(w, err, "Failed to update maintenance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    m,
	})
}

// DeleteMaintenance удаляет окно ТО
// DELETE /api/admin/maintenance/{id}
func (h *MaintenanceHandler) DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid maintenance ID")
		return
	}

	if err := h.maintenanceService.DeleteMaintenance(r.Context(), claims.User(), id); err != nil {
		h.respondMaintenanceError(w, err, "Failed to delete maintenance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *MaintenanceHandler) respondMaintenanceError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case domain.ErrMaintenanceNotFound:
		respondError(w, http.StatusNotFound, "Maintenance not found")
	case domain.ErrCarNotFound:
		respondError(w, http.StatusNotFound, "Car not found")
	case domain.ErrForbidden:
		respondError(w, http.StatusForbidden, "Insufficient permissions")
	case domain.ErrTimeSlotConflict:
		respondError(w, http.StatusBadRequest, "Maintenance window overlaps an existing booking")
	case domain.ErrInvalidTimeRange, domain.ErrInvalidMaintenanceData:
		respondError(w, http.StatusBadRequest, "Invalid maintenance data")
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
