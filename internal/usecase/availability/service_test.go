package availability

import (
	"context"
	"testing"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReservationRepository - мок репозитория броней
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreateChecked(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateChecked(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) Update(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListForDay(ctx context.Context, day time.Time, shopID *uuid.UUID) ([]*domain.Reservation, error) {
	args := m.Called(ctx, day, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListBlockingByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Reservation, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

// MockMaintenanceRepository - мок репозитория окон ТО
type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) Create(ctx context.Context, mt *domain.Maintenance) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Maintenance), args.Error(1)
}

func (m *MockMaintenanceRepository) Update(ctx context.Context, mt *domain.Maintenance) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) List(ctx context.Context, shopID *uuid.UUID, limit, offset int) ([]*domain.Maintenance, error) {
	args := m.Called(ctx, shopID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Maintenance), args.Error(1)
}

func (m *MockMaintenanceRepository) ListByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Maintenance, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Maintenance), args.Error(1)
}

func (m *MockMaintenanceRepository) HasConflict(ctx context.Context, carID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, carID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func at(hour int) time.Time {
	return time.Date(2025, 6, 15, hour, 0, 0, 0, time.UTC)
}

// TestService_IsFree тестирует проверку доступности автомобиля
func TestService_IsFree(t *testing.T) {
	carID := uuid.New()
	reservationID := uuid.New()

	tests := []struct {
		name         string
		reservations []*domain.Reservation
		maintenances []*domain.Maintenance
		start, end   time.Time
		excludeID    *uuid.UUID
		expected     bool
	}{
		{
			name:         "свободен без броней и ТО",
			reservations: []*domain.Reservation{},
			maintenances: []*domain.Maintenance{},
			start:        at(10), end: at(12),
			expected: true,
		},
		{
			name: "занят пересекающейся бронью",
			reservations: []*domain.Reservation{
				{ID: reservationID, CarID: carID, StartTime: at(11), EndTime: at(13), Status: domain.StatusPending},
			},
			maintenances: []*domain.Maintenance{},
			start:        at(10), end: at(12),
			expected: false,
		},
		{
			name: "смежная бронь не блокирует",
			reservations: []*domain.Reservation{
				{ID: reservationID, CarID: carID, StartTime: at(11), EndTime: at(12), Status: domain.StatusPending},
			},
			maintenances: []*domain.Maintenance{},
			start:        at(10), end: at(11),
			expected: true,
		},
		{
			name: "собственная бронь исключается при переносе",
			reservations: []*domain.Reservation{
				{ID: reservationID, CarID: carID, StartTime: at(10), EndTime: at(12), Status: domain.StatusPending},
			},
			maintenances: []*domain.Maintenance{},
			start:        at(10), end: at(12),
			excludeID: &reservationID,
			expected:  true,
		},
		{
			name: "отмененная бронь не блокирует",
			reservations: []*domain.Reservation{
				{ID: reservationID, CarID: carID, StartTime: at(10), EndTime: at(12), Status: domain.StatusCancelled},
			},
			maintenances: []*domain.Maintenance{},
			start:        at(10), end: at(12),
			expected: true,
		},
		{
			name:         "занят окном ТО",
			reservations: []*domain.Reservation{},
			maintenances: []*domain.Maintenance{
				{ID: uuid.New(), CarID: carID, StartTime: at(9), EndTime: at(11)},
			},
			start: at(10), end: at(12),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservationRepo := new(MockReservationRepository)
			maintenanceRepo := new(MockMaintenanceRepository)

			reservationRepo.On("ListBlockingByCar", mock.Anything, carID).Return(tt.reservations, nil)
			maintenanceRepo.On("ListByCar", mock.Anything, carID).Return(tt.maintenances, nil).Maybe()

			service := NewService(reservationRepo, maintenanceRepo, nil, logger.NewNoop())

			free, err := service.IsFree(context.Background(), carID, tt.start, tt.end, tt.excludeID)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, free)
		})
	}
}

// TestService_DayGrid тестирует построение почасовой сетки
func TestService_DayGrid(t *testing.T) {
	carID := uuid.New()
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("пустой день полностью свободен", func(t *testing.T) {
		reservationRepo := new(MockReservationRepository)
		maintenanceRepo := new(MockMaintenanceRepository)
		reservationRepo.On("ListBlockingByCar", mock.Anything, carID).Return([]*domain.Reservation{}, nil)
		maintenanceRepo.On("ListByCar", mock.Anything, carID).Return([]*domain.Maintenance{}, nil)

		service := NewService(reservationRepo, maintenanceRepo, nil, logger.NewNoop())

		schedule, err := service.DayGrid(context.Background(), carID, day)
		assert.NoError(t, err)
		assert.Len(t, schedule.Slots, 24)
		assert.Equal(t, "2025-06-15", schedule.Date)
		for _, slot := range schedule.Slots {
			assert.Equal(t, domain.SlotAvailable, slot.State)
		}
	})

	t.Run("бронь занимает свои часы", func(t *testing.T) {
		reservationID := uuid.New()
		reservationRepo := new(MockReservationRepository)
		maintenanceRepo := new(MockMaintenanceRepository)
		reservationRepo.On("ListBlockingByCar", mock.Anything, carID).Return([]*domain.Reservation{
			{ID: reservationID, CarID: carID, StartTime: at(10), EndTime: at(12), Status: domain.StatusPending},
		}, nil)
		maintenanceRepo.On("ListByCar", mock.Anything, carID).Return([]*domain.Maintenance{}, nil)

		service := NewService(reservationRepo, maintenanceRepo, nil, logger.NewNoop())

		schedule, err := service.DayGrid(context.Background(), carID, day)
		assert.NoError(t, err)

		for hour, slot := range schedule.Slots {
			if hour == 10 || hour == 11 {
				assert.Equal(t, domain.SlotReserved, slot.State, "hour %d", hour)
				assert.Equal(t, reservationID, *slot.ReservationID)
			} else {
				assert.Equal(t, domain.SlotAvailable, slot.State, "hour %d", hour)
			}
		}
	})

	t.Run("окно ТО занимает свои часы", func(t *testing.T) {
		maintenanceID := uuid.New()
		reservationRepo := new(MockReservationRepository)
		maintenanceRepo := new(MockMaintenanceRepository)
		reservationRepo.On("ListBlockingByCar", mock.Anything, carID).Return([]*domain.Reservation{}, nil)
		maintenanceRepo.On("ListByCar", mock.Anything, carID).Return([]*domain.Maintenance{
			{ID: maintenanceID, CarID: carID, StartTime: at(14), EndTime: at(16)},
		}, nil)

		service := NewService(reservationRepo, maintenanceRepo, nil, logger.NewNoop())

		schedule, err := service.DayGrid(context.Background(), carID, day)
		assert.NoError(t, err)

		for hour, slot := range schedule.Slots {
			if hour == 14 || hour == 15 {
				assert.Equal(t, domain.SlotMaintenance, slot.State, "hour %d", hour)
				assert.Equal(t, maintenanceID, *slot.MaintenanceID)
			} else {
				assert.Equal(t, domain.SlotAvailable, slot.State, "hour %d", hour)
			}
		}
	})

	t.Run("бронь имеет приоритет над окном ТО", func(t *testing.T) {
		reservationID := uuid.New()
		reservationRepo := new(MockReservationRepository)
		maintenanceRepo := new(MockMaintenanceRepository)
		reservationRepo.On("ListBlockingByCar", mock.Anything, carID).Return([]*domain.Reservation{
			{ID: reservationID, CarID: carID, StartTime: at(10), EndTime: at(11), Status: domain.StatusActive},
		}, nil)
		maintenanceRepo.On("ListByCar", mock.Anything, carID).Return([]*domain.Maintenance{
			{ID: uuid.New(), CarID: carID, StartTime: at(10), EndTime: at(12)},
		}, nil)

		service := NewService(reservationRepo, maintenanceRepo, nil, logger.NewNoop())

		schedule, err := service.DayGrid(context.Background(), carID, day)
		assert.NoError(t, err)

		assert.Equal(t, domain.SlotReserved, schedule.Slots[10].State)
		assert.Equal(t, domain.SlotMaintenance, schedule.Slots[11].State)
	})

	t.Run("бронь через границу дня видна в обоих днях", func(t *testing.T) {
		reservationRepo := new(MockReservationRepository)
		maintenanceRepo := new(MockMaintenanceRepository)
		reservationRepo.On("ListBlockingByCar", mock.Anything, carID).Return([]*domain.Reservation{
			{
				ID:        uuid.New(),
				CarID:     carID,
				StartTime: time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2025, 6, 16, 2, 0, 0, 0, time.UTC),
				Status:    domain.StatusPending,
			},
		}, nil)
		maintenanceRepo.On("ListByCar", mock.Anything, carID).Return([]*domain.Maintenance{}, nil)

		service := NewService(reservationRepo, maintenanceRepo, nil, logger.NewNoop())

		first, err := service.DayGrid(context.Background(), carID, day)
		assert.NoError(t, err)
		assert.Equal(t, domain.SlotReserved, first.Slots[22].State)
		assert.Equal(t, domain.SlotReserved, first.Slots[23].State)
		assert.Equal(t, domain.SlotAvailable, first.Slots[21].State)

		second, err := service.DayGrid(context.Background(), carID, day.Add(24*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, domain.SlotReserved, second.Slots[0].State)
		assert.Equal(t, domain.SlotReserved, second.Slots[1].State)
		assert.Equal(t, domain.SlotAvailable, second.Slots[2].State)
	})
}
