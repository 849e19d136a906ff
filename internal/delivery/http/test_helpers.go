package http

import (
	"context"
	"testing"
	"time"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/jwt"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateAuthContext создает контекст с claims пользователя для тестов
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, role domain.UserRole, shopID *uuid.UUID) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		ShopID: shopID,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// WithURLParam добавляет chi параметр пути в контекст запроса
func WithURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

// CreateTestReservation создает тестовую бронь
func CreateTestReservation(userID, carID uuid.UUID, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:        uuid.New(),
		CarID:     carID,
		UserID:    userID,
		ShopID:    uuid.New(),
		StartTime: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

// CreateTestCar создает тестовый автомобиль
func CreateTestCar(shopID uuid.UUID) *domain.Car {
	return &domain.Car{
		ID:           uuid.New(),
		Name:         "Camry",
		Model:        "Toyota Camry",
		LicensePlate: "А123ВС777",
		ShopID:       shopID,
	}
}
