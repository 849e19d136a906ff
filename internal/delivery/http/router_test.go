package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/config"
	"carfleet/internal/pkg/jwt"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestRouter собирает полный роутер с моком сервиса броней и
// возвращает access token администратора
func newTestRouter(t *testing.T, reservationService ReservationService) (http.Handler, string) {
	t.Helper()

	log := logger.NewNoop()
	tokenService := jwt.NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour)

	router := NewRouter(
		NewAuthHandler(nil, log),
		NewReservationHandler(reservationService, log),
		NewCarHandler(nil, log),
		NewMaintenanceHandler(nil, log),
		NewUserHandler(nil, log),
		NewShopHandler(nil, log),
		NewScheduleHandler(nil, nil, log),
		NewReportHandler(nil, log),
		tokenService,
		&config.Config{},
		log,
	)

	admin := &domain.User{
		ID:    uuid.New(),
		Email: "admin@example.com",
		Role:  domain.RoleAdmin,
	}
	tokens, err := tokenService.GenerateTokenPair(admin)
	require.NoError(t, err)

	return router.Setup(), tokens.AccessToken
}

// TestRouter_AdminReservationRoutes тестирует панель броней администратора
func TestRouter_AdminReservationRoutes(t *testing.T) {
	reservationID := uuid.New()
	res := CreateTestReservation(uuid.New(), uuid.New(), domain.StatusPending)
	res.ID = reservationID

	t.Run("создание брони от имени клиента", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CreateReservation", mock.Anything, mock.AnythingOfType("*domain.User"), mock.AnythingOfType("*reservation.CreateReservationRequest")).
			Return(res, nil)

		handler, token := newTestRouter(t, mockService)

		body, _ := json.Marshal(reservation.CreateReservationRequest{
			CarID:     res.CarID,
			StartTime: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/admin/reservations", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("получение брони по ID", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("GetReservation", mock.Anything, mock.AnythingOfType("*domain.User"), reservationID).
			Return(res, nil)

		handler, token := newTestRouter(t, mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/reservations/"+reservationID.String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("перенос брони", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("UpdateTimes", mock.Anything, mock.AnythingOfType("*domain.User"), reservationID, mock.AnythingOfType("*reservation.UpdateReservationRequest")).
			Return(res, nil)

		handler, token := newTestRouter(t, mockService)

		body, _ := json.Marshal(reservation.UpdateReservationRequest{
			StartTime: time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2025, 6, 15, 16, 0, 0, 0, time.UTC),
		})
		req := httptest.NewRequest(http.MethodPut, "/api/admin/reservations/"+reservationID.String(), bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("без токена маршрут отвечает 401", func(t *testing.T) {
		handler, _ := newTestRouter(t, new(MockReservationService))

		req := httptest.NewRequest(http.MethodPost, "/api/admin/reservations", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestRouter_MethodNotAllowed тестирует ответ 405 с заголовком Allow
func TestRouter_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestRouter(t, new(MockReservationService))

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/signup", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Header().Get("Allow"), http.MethodPost)
	assert.JSONEq(t, `{"message": "Method not allowed"}`, w.Body.String())
}
