package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ts(hour int) time.Time {
	return time.Date(2025, 6, 15, hour, 0, 0, 0, time.UTC)
}

// TestIntersects тестирует пересечение полуоткрытых интервалов
func TestIntersects(t *testing.T) {
	tests := []struct {
		name     string
		s1, e1   time.Time
		s2, e2   time.Time
		expected bool
	}{
		{
			name: "частичное пересечение",
			s1:   ts(10), e1: ts(12),
			s2: ts(11), e2: ts(13),
			expected: true,
		},
		{
			name: "вложенный интервал",
			s1:   ts(10), e1: ts(18),
			s2: ts(12), e2: ts(14),
			expected: true,
		},
		{
			name: "соприкосновение границами не пересекается",
			s1:   ts(10), e1: ts(11),
			s2: ts(11), e2: ts(12),
			expected: false,
		},
		{
			name: "сдвиг на полчаса пересекает соседний час",
			s1:   ts(10).Add(30 * time.Minute), e1: ts(11).Add(30 * time.Minute),
			s2: ts(10), e2: ts(11),
			expected: true,
		},
		{
			name: "полностью раздельные интервалы",
			s1:   ts(8), e1: ts(9),
			s2: ts(15), e2: ts(16),
			expected: false,
		},
		{
			name: "одинаковые интервалы",
			s1:   ts(10), e1: ts(12),
			s2: ts(10), e2: ts(12),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Intersects(tt.s1, tt.e1, tt.s2, tt.e2))

			// Пересечение симметрично относительно порядка аргументов
			assert.Equal(t, tt.expected, Intersects(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

// TestReservation_Lifecycle тестирует переходы жизненного цикла брони
func TestReservation_Lifecycle(t *testing.T) {
	newReservation := func(status ReservationStatus) *Reservation {
		return &Reservation{
			ID:        uuid.New(),
			CarID:     uuid.New(),
			UserID:    uuid.New(),
			StartTime: ts(10),
			EndTime:   ts(12),
			Status:    status,
		}
	}

	t.Run("выдача автомобиля фиксирует пробег", func(t *testing.T) {
		r := newReservation(StatusPending)

		err := r.Start(15000)
		assert.NoError(t, err)
		assert.Equal(t, StatusActive, r.Status)
		assert.Equal(t, 15000, *r.StartMileage)
	})

	t.Run("отрицательный пробег при выдаче", func(t *testing.T) {
		r := newReservation(StatusPending)

		err := r.Start(-1)
		assert.ErrorIs(t, err, ErrInvalidMileage)
		assert.Equal(t, StatusPending, r.Status)
	})

	t.Run("возврат требует пробег больше начального", func(t *testing.T) {
		r := newReservation(StatusPending)
		assert.NoError(t, r.Start(15000))

		err := r.Complete(15000)
		assert.ErrorIs(t, err, ErrInvalidMileage)
		assert.Equal(t, StatusActive, r.Status)

		err = r.Complete(15120)
		assert.NoError(t, err)
		assert.Equal(t, StatusCompleted, r.Status)
		assert.Equal(t, 15120, *r.EndMileage)
	})

	t.Run("возврат без выдачи невозможен", func(t *testing.T) {
		r := newReservation(StatusPending)

		err := r.Complete(100)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("отмена из PENDING и ACTIVE", func(t *testing.T) {
		r := newReservation(StatusPending)
		assert.NoError(t, r.Cancel())
		assert.Equal(t, StatusCancelled, r.Status)

		r = newReservation(StatusActive)
		assert.NoError(t, r.Cancel())
		assert.Equal(t, StatusCancelled, r.Status)
	})

	t.Run("терминальные состояния неизменны", func(t *testing.T) {
		completed := newReservation(StatusCompleted)
		assert.ErrorIs(t, completed.Cancel(), ErrInvalidStatusTransition)
		assert.ErrorIs(t, completed.Start(100), ErrInvalidStatusTransition)

		cancelled := newReservation(StatusCancelled)
		assert.ErrorIs(t, cancelled.Cancel(), ErrInvalidStatusTransition)
		assert.ErrorIs(t, cancelled.Start(100), ErrInvalidStatusTransition)
	})
}

// TestReservation_Validate тестирует валидацию брони
func TestReservation_Validate(t *testing.T) {
	t.Run("начало должно быть раньше конца", func(t *testing.T) {
		r := &Reservation{
			CarID:     uuid.New(),
			UserID:    uuid.New(),
			StartTime: ts(12),
			EndTime:   ts(10),
		}
		assert.ErrorIs(t, r.Validate(), ErrInvalidTimeRange)

		r.StartTime, r.EndTime = ts(12), ts(12)
		assert.ErrorIs(t, r.Validate(), ErrInvalidTimeRange)
	})

	t.Run("валидная бронь", func(t *testing.T) {
		r := &Reservation{
			CarID:     uuid.New(),
			UserID:    uuid.New(),
			StartTime: ts(10),
			EndTime:   ts(12),
		}
		assert.NoError(t, r.Validate())
	})
}
