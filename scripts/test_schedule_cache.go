package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/pkg/redis"
	"carfleet/internal/repository/cached"

	"github.com/google/uuid"
)

func main() {
	fmt.Println("=========================================")
	fmt.Println("Schedule Cache Test")
	fmt.Println("=========================================")
	fmt.Println()

	// Создаем Redis клиент
	client, err := redis.NewClient(redis.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("✅ Connected to Redis")
	fmt.Println()

	ctx := context.Background()
	cache := cached.NewScheduleCache(client)

	carID := uuid.New()
	day := domain.DayStart(time.Now().UTC())
	date := day.Format(domain.ScheduleDateFormat)

	// Test 1: промах на пустом кэше
	fmt.Println("Test 1: GET on empty cache")
	schedule, err := cache.Get(ctx, carID, date)
	if err != nil {
		fmt.Printf("❌ GET failed: %v\n", err)
		os.Exit(1)
	}
	if schedule != nil {
		fmt.Println("❌ Expected a miss, got a schedule")
		os.Exit(1)
	}
	fmt.Println("✅ Cache miss as expected")
	fmt.Println()

	// Test 2: SET/GET round trip
	fmt.Println("Test 2: SET/GET round trip")
	stored := &domain.DaySchedule{
		CarID: carID,
		Date:  date,
		Slots: make([]domain.ScheduleSlot, 24),
	}
	for h := 0; h < 24; h++ {
		stored.Slots[h] = domain.ScheduleSlot{Hour: h, State: domain.SlotAvailable}
	}
	stored.Slots[10].State = domain.SlotReserved

	if err := cache.Set(ctx, stored); err != nil {
		fmt.Printf("❌ SET failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ SET schedule for car %s date %s\n", carID, date)

	schedule, err = cache.Get(ctx, carID, date)
	if err != nil {
		fmt.Printf("❌ GET failed: %v\n", err)
		os.Exit(1)
	}
	if schedule == nil {
		fmt.Println("❌ Expected a hit, got a miss")
		os.Exit(1)
	}
	if len(schedule.Slots) != 24 || schedule.Slots[10].State != domain.SlotReserved {
		fmt.Println("❌ GET returned wrong schedule")
		os.Exit(1)
	}
	fmt.Println("✅ GET returned the stored schedule")
	fmt.Println()

	// Test 3: инвалидация по интервалу
	fmt.Println("Test 3: Invalidate by interval")
	if err := cache.Invalidate(ctx, carID, day.Add(10*time.Hour), day.Add(12*time.Hour)); err != nil {
		fmt.Printf("❌ Invalidate failed: %v\n", err)
		os.Exit(1)
	}

	schedule, err = cache.Get(ctx, carID, date)
	if err != nil {
		fmt.Printf("❌ GET failed: %v\n", err)
		os.Exit(1)
	}
	if schedule != nil {
		fmt.Println("❌ Schedule should be invalidated but is still cached")
		os.Exit(1)
	}
	fmt.Println("✅ Schedule invalidated")
	fmt.Println()

	// Test 4: инвалидация интервала через полночь задевает оба дня
	fmt.Println("Test 4: Cross-midnight invalidation")
	nextDay := day.Add(24 * time.Hour)
	nextDate := nextDay.Format(domain.ScheduleDateFormat)

	if err := cache.Set(ctx, stored); err != nil {
		fmt.Printf("❌ SET failed: %v\n", err)
		os.Exit(1)
	}
	second := &domain.DaySchedule{CarID: carID, Date: nextDate, Slots: stored.Slots}
	if err := cache.Set(ctx, second); err != nil {
		fmt.Printf("❌ SET failed: %v\n", err)
		os.Exit(1)
	}

	if err := cache.Invalidate(ctx, carID, day.Add(22*time.Hour), nextDay.Add(2*time.Hour)); err != nil {
		fmt.Printf("❌ Invalidate failed: %v\n", err)
		os.Exit(1)
	}

	for _, d := range []string{date, nextDate} {
		schedule, err = cache.Get(ctx, carID, d)
		if err != nil {
			fmt.Printf("❌ GET failed: %v\n", err)
			os.Exit(1)
		}
		if schedule != nil {
			fmt.Printf("❌ Schedule for %s should be invalidated\n", d)
			os.Exit(1)
		}
	}
	fmt.Println("✅ Both days invalidated")
	fmt.Println()

	fmt.Println("=========================================")
	fmt.Println("✅ All schedule cache tests passed!")
	fmt.Println("=========================================")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
