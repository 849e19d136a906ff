package http

import (
	"context"
	"encoding/json"
	"net/http"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/shop"

	"github.com/google/uuid"
)

// ShopService определяет интерфейс для сервиса пунктов проката
type ShopService interface {
	CreateShop(ctx context.Context, actor *domain.User, req *shop.CreateShopRequest) (*domain.Shop, error)
	GetShopByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Shop, error)
	ListShops(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Shop, error)
	UpdateShop(ctx context.Context, actor *domain.User, id uuid.UUID, req *shop.UpdateShopRequest) (*domain.Shop, error)
	DeleteShop(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// ShopHandler обрабатывает запросы связанные с пунктами проката
type ShopHandler struct {
	shopService ShopService
	logger      logger.Logger
}

// NewShopHandler создает новый handler
func NewShopHandler(shopService ShopService, logger logger.Logger) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		logger:      logger,
	}
}

// CreateShop создает пункт проката
// POST /api/admin/shops
func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req shop.CreateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, err := h.shopService.CreateShop(r.Context(), claims.User(), &req)
	if err != nil {
		h.respondShopError(w, err, "Failed to create shop")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    s,
	})
}

// ListShops возвращает пункты проката
// GET /api/admin/shops
func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := parsePagination(r)
	shops, err := h.shopService.ListShops(r.Context(), claims.User(), limit, offset)
	if err != nil {
		h.respondShopError(w, err, "Failed to get shops")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    shops,
	})
}

// GetShopByID возвращает пункт проката по ID
// GET /api/admin/shops/{id}
func (h *ShopHandler) GetShopByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	s, err := h.shopService.GetShopByID(r.Context(), claims.User(), id)
	if err != nil {
		h.respondShopError(w, err, "Failed to get shop")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    s,
	})
}

// UpdateShop обновляет пункт проката
// PUT /api/admin/shops/{id}
func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	var req shop.UpdateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, err := h.shopService.UpdateShop(r.Context(), claims.User(), id, &req)
	if err != nil {
		h.respondShopError(w, err, "Failed to update shop")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    s,
	})
}

// DeleteShop удаляет пункт проката
// DELETE /api/admin/shops/{id}
func (h *ShopHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	if err := h.shopService.DeleteShop(r.Context(), claims.User(), id); err != nil {
		h.respondShopError(w, err, "Failed to delete shop")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *ShopHandler) respondShopError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case domain.ErrShopNotFound:
		respondError(w, http.StatusNotFound, "Shop not found")
	case domain.ErrForbidden:
		respondError(w, http.StatusForbidden, "Insufficient permissions")
	case domain.ErrInvalidShopData:
		respondError(w, http.StatusBadRequest, "Invalid shop data")
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
