package repository

import (
	"context"
	"time"

	"carfleet/internal/domain"

	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает список пользователей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// ListByShop возвращает пользователей одного пункта проката
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.User, error)

	// SetResetToken сохраняет токен восстановления пароля
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error

	// GetByResetToken возвращает пользователя по действующему токену восстановления
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)

	// ClearResetToken сбрасывает токен восстановления
	ClearResetToken(ctx context.Context, id uuid.UUID) error

	// DeleteExpiredResetTokens очищает истекшие токены восстановления
	DeleteExpiredResetTokens(ctx context.Context) (int64, error)
}

// ShopRepository определяет методы для работы с пунктами проката
type ShopRepository interface {
	Create(ctx context.Context, shop *domain.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	Update(ctx context.Context, shop *domain.Shop) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*domain.Shop, error)
}

// CarRepository определяет методы для работы с автомобилями
type CarRepository interface {
	// Create создает новый автомобиль
	Create(ctx context.Context, car *domain.Car) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error)

	// GetByLicensePlate возвращает автомобиль по номеру
	GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Car, error)

	// Update обновляет данные автомобиля
	Update(ctx context.Context, car *domain.Car) error

	// Delete удаляет автомобиль
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает список автомобилей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Car, error)

	// ListByShop возвращает автомобили одного пункта проката с пагинацией
	ListByShop(ctx context.Context, shopID uuid.UUID, limit, offset int) ([]*domain.Car, error)
}

// ReservationRepository определяет методы для работы с бронями
type ReservationRepository interface {
	// CreateChecked создает бронь, проверяя конфликты в одной транзакции
	// с блокировкой строки автомобиля. Возвращает domain.ErrTimeSlotConflict,
	// если интервал пересекается с неотмененной бронью или окном ТО
	CreateChecked(ctx context.Context, reservation *domain.Reservation) error

	// UpdateChecked обновляет бронь с той же транзакционной проверкой конфликтов,
	// исключая из проверки саму бронь
	UpdateChecked(ctx context.Context, reservation *domain.Reservation) error

	// Update обновляет бронь без проверки конфликтов (статус, пробег)
	Update(ctx context.Context, reservation *domain.Reservation) error

	// GetByID возвращает бронь по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)

	// Delete удаляет бронь
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser возвращает брони пользователя, отсортированные по времени начала
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reservation, error)

	// ListForDay возвращает брони, пересекающиеся с указанным днем,
	// с заполненными Car и User; shopID ограничивает выборку пунктом проката
	ListForDay(ctx context.Context, day time.Time, shopID *uuid.UUID) ([]*domain.Reservation, error)

	// ListBlockingByCar возвращает все неотмененные брони автомобиля
	ListBlockingByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Reservation, error)
}

// MaintenanceRepository определяет методы для работы с окнами ТО
type MaintenanceRepository interface {
	Create(ctx context.Context, maintenance *domain.Maintenance) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error)
	Update(ctx context.Context, maintenance *domain.Maintenance) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает окна ТО с заполненным Car;
	// shopID ограничивает выборку пунктом проката
	List(ctx context.Context, shopID *uuid.UUID, limit, offset int) ([]*domain.Maintenance, error)

	// ListByCar возвращает все окна ТО автомобиля
	ListByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Maintenance, error)

	// HasConflict проверяет пересечение интервала с неотмененными бронями автомобиля
	HasConflict(ctx context.Context, carID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
}

// StatsRepository определяет агрегирующие запросы для панели и отчетов
type StatsRepository interface {
	// Dashboard возвращает сводные показатели
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)

	// Usage возвращает отчет об использовании парка
	Usage(ctx context.Context) (*domain.UsageReport, error)
}
