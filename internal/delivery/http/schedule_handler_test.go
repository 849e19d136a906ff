package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/usecase/car"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCarService - мок сервиса автомобилей
type MockCarService struct {
	mock.Mock
}

func (m *MockCarService) CreateCar(ctx context.Context, actor *domain.User, req *car.CreateCarRequest) (*domain.Car, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarService) GetCarByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarService) ListCars(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Car, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}

func (m *MockCarService) UpdateCar(ctx context.Context, actor *domain.User, id uuid.UUID, req *car.UpdateCarRequest) (*domain.Car, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarService) DeleteCar(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// MockAvailabilityService - мок движка доступности
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) DayGrid(ctx context.Context, carID uuid.UUID, day time.Time) (*domain.DaySchedule, error) {
	args := m.Called(ctx, carID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySchedule), args.Error(1)
}

func emptySchedule(carID uuid.UUID, date string) *domain.DaySchedule {
	schedule := &domain.DaySchedule{CarID: carID, Date: date, Slots: make([]domain.ScheduleSlot, 24)}
	for h := 0; h < 24; h++ {
		schedule.Slots[h] = domain.ScheduleSlot{Hour: h, State: domain.SlotAvailable}
	}
	return schedule
}

// TestScheduleHandler_GetCarSchedule тестирует сетку одного автомобиля
func TestScheduleHandler_GetCarSchedule(t *testing.T) {
	carID := uuid.New()

	t.Run("успешное получение", func(t *testing.T) {
		mockCars := new(MockCarService)
		mockAvailability := new(MockAvailabilityService)
		mockCars.On("GetCarByID", mock.Anything, carID).Return(CreateTestCar(uuid.New()), nil)
		mockAvailability.On("DayGrid", mock.Anything, carID, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)).
			Return(emptySchedule(carID, "2025-06-15"), nil)

		handler := NewScheduleHandler(mockAvailability, mockCars, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/cars/"+carID.String()+"/schedule?date=2025-06-15", nil)
		req = req.WithContext(WithURLParam(CreateAuthContext(t, uuid.New(), "user@example.com", domain.RoleUser, nil), "id", carID.String()))
		w := httptest.NewRecorder()

		handler.GetCarSchedule(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockAvailability.AssertExpectations(t)
	})

	t.Run("несуществующий автомобиль", func(t *testing.T) {
		mockCars := new(MockCarService)
		mockCars.On("GetCarByID", mock.Anything, carID).Return(nil, domain.ErrCarNotFound)

		handler := NewScheduleHandler(new(MockAvailabilityService), mockCars, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/cars/"+carID.String()+"/schedule", nil)
		req = req.WithContext(WithURLParam(CreateAuthContext(t, uuid.New(), "user@example.com", domain.RoleUser, nil), "id", carID.String()))
		w := httptest.NewRecorder()

		handler.GetCarSchedule(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestScheduleHandler_GetFleetSchedule тестирует сводную сетку парка
func TestScheduleHandler_GetFleetSchedule(t *testing.T) {
	adminID := uuid.New()
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("парк больше одной страницы собирается целиком", func(t *testing.T) {
		shopID := uuid.New()
		firstPage := make([]*domain.Car, maxPageLimit)
		for i := range firstPage {
			c := CreateTestCar(shopID)
			c.Name = fmt.Sprintf("Car %d", i)
			firstPage[i] = c
		}
		secondPage := []*domain.Car{CreateTestCar(shopID)}

		mockCars := new(MockCarService)
		mockCars.On("ListCars", mock.Anything, mock.AnythingOfType("*domain.User"), maxPageLimit, 0).
			Return(firstPage, nil)
		mockCars.On("ListCars", mock.Anything, mock.AnythingOfType("*domain.User"), maxPageLimit, maxPageLimit).
			Return(secondPage, nil)

		mockAvailability := new(MockAvailabilityService)
		mockAvailability.On("DayGrid", mock.Anything, mock.AnythingOfType("uuid.UUID"), day).
			Return(emptySchedule(uuid.New(), "2025-06-15"), nil)

		handler := NewScheduleHandler(mockAvailability, mockCars, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/admin/schedule?date=2025-06-15", nil)
		req = req.WithContext(CreateAuthContext(t, adminID, "admin@example.com", domain.RoleAdmin, nil))
		w := httptest.NewRecorder()

		handler.GetFleetSchedule(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		mockCars.AssertExpectations(t)

		var resp struct {
			Data struct {
				Date      string         `json:"date"`
				Schedules []*CarSchedule `json:"schedules"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2025-06-15", resp.Data.Date)
		assert.Len(t, resp.Data.Schedules, maxPageLimit+1)
	})

	t.Run("невалидная дата", func(t *testing.T) {
		handler := NewScheduleHandler(new(MockAvailabilityService), new(MockCarService), logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/admin/schedule?date=15-06-2025", nil)
		req = req.WithContext(CreateAuthContext(t, adminID, "admin@example.com", domain.RoleAdmin, nil))
		w := httptest.NewRecorder()

		handler.GetFleetSchedule(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
