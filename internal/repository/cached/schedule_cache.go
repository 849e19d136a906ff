package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/redis"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	scheduleCachePrefix = "schedule:"
	scheduleCacheTTL    = 5 * time.Minute
)

// ScheduleCache кэширует почасовые сетки доступности в Redis
// Ключ - пара (автомобиль, день); запись инвалидируется при любом
// изменении броней или окон ТО автомобиля
type ScheduleCache struct {
	cache *redis.Client
}

// NewScheduleCache создает новый кэш сеток доступности
func NewScheduleCache(cache *redis.Client) *ScheduleCache {
	return &ScheduleCache{cache: cache}
}

func scheduleKey(carID uuid.UUID, date string) string {
	return fmt.Sprintf("%s%s:%s", scheduleCachePrefix, carID, date)
}

// Get возвращает сетку из кэша; (nil, nil) при промахе
func (c *ScheduleCache) Get(ctx context.Context, carID uuid.UUID, date string) (*domain.DaySchedule, error) {
	raw, err := c.cache.Get(ctx, scheduleKey(carID, date))
	if err != nil {
		if err == redisv9.Nil {
			return nil, nil
		}
		return nil, err
	}

	schedule := &domain.DaySchedule{}
	if err := json.Unmarshal([]byte(raw), schedule); err != nil {
		// Испорченная запись эквивалентна промаху
		return nil, nil
	}

	return schedule, nil
}

// Set сохраняет сетку в кэш
func (c *ScheduleCache) Set(ctx context.Context, schedule *domain.DaySchedule) error {
	raw, err := json.Marshal(schedule)
	if err != nil {
		return err
	}

	return c.cache.Set(ctx, scheduleKey(schedule.CarID, schedule.Date), raw, scheduleCacheTTL)
}

// Invalidate удаляет кэшированные сетки автомобиля за затронутые дни
// интервала [start, end)
func (c *ScheduleCache) Invalidate(ctx context.Context, carID uuid.UUID, start, end time.Time) error {
	var keys []string
	for day := domain.DayStart(start); day.Before(end); day = day.Add(24 * time.Hour) {
		keys = append(keys, scheduleKey(carID, day.Format(domain.ScheduleDateFormat)))
	}

	if len(keys) == 0 {
		return nil
	}

	return c.cache.Del(ctx, keys...)
}
