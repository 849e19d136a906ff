package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "carfleet/internal/delivery/http"
	"carfleet/internal/pkg/config"
	"carfleet/internal/pkg/database"
	"carfleet/internal/pkg/jwt"
	"carfleet/internal/pkg/logger"
	"carfleet/internal/pkg/mailer"
	"carfleet/internal/pkg/redis"
	"carfleet/internal/repository/cached"
	"carfleet/internal/repository/postgres"
	"carfleet/internal/usecase/auth"
	"carfleet/internal/usecase/availability"
	"carfleet/internal/usecase/car"
	"carfleet/internal/usecase/maintenance"
	"carfleet/internal/usecase/report"
	"carfleet/internal/usecase/reservation"
	"carfleet/internal/usecase/shop"
	"carfleet/internal/usecase/user"

	"github.com/robfig/cron/v3"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting CarFleet API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Подключение к Redis
	// =========================================================================

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redisClient.Close()

	log.Info("Connected to Redis", map[string]interface{}{
		"address": cfg.Redis.Address(),
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	shopRepo := postgres.NewShopRepository(db)
	carRepo := postgres.NewCarRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	maintenanceRepo := postgres.NewMaintenanceRepository(db)
	statsRepo := postgres.NewStatsRepository(db)
	scheduleCache := cached.NewScheduleCache(redisClient)

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание JWT token service и mailer
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	mailClient := mailer.New(mailer.Config{
		APIKey:    cfg.Mail.APIKey,
		FromEmail: cfg.Mail.FromEmail,
		FromName:  cfg.Mail.FromName,
	})

	if cfg.Mail.APIKey == "" {
		log.Warn("SendGrid API key is empty, emails will not be sent")
	}

	// =========================================================================
	// Создание use case services
	// =========================================================================

	availabilityService := availability.NewService(reservationRepo, maintenanceRepo, scheduleCache, log)
	authService := auth.NewService(userRepo, tokenService, mailClient, cfg.Mail.AppURL, log)
	reservationService := reservation.NewService(reservationRepo, carRepo, userRepo, availabilityService, mailClient, log)
	carService := car.NewService(carRepo, shopRepo, log)
	maintenanceService := maintenance.NewService(maintenanceRepo, carRepo, availabilityService, log)
	userService := user.NewService(userRepo, shopRepo, log)
	shopService := shop.NewService(shopRepo, log)
	reportService := report.NewService(statsRepo, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	reservationHandler := deliveryHTTP.NewReservationHandler(reservationService, log)
	carHandler := deliveryHTTP.NewCarHandler(carService, log)
	maintenanceHandler := deliveryHTTP.NewMaintenanceHandler(maintenanceService, log)
	userHandler := deliveryHTTP.NewUserHandler(userService, log)
	shopHandler := deliveryHTTP.NewShopHandler(shopService, log)
	scheduleHandler := deliveryHTTP.NewScheduleHandler(availabilityService, carService, log)
	reportHandler := deliveryHTTP.NewReportHandler(reportService, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		authHandler,
		reservationHandler,
		carHandler,
		maintenanceHandler,
		userHandler,
		shopHandler,
		scheduleHandler,
		reportHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Фоновые задачи
	// =========================================================================

	scheduler := cron.New()
	// Ежечасная очистка истекших токенов восстановления пароля
	if _, err := scheduler.AddFunc("@hourly", func() {
		authService.PurgeExpiredResetTokens(context.Background())
	}); err != nil {
		log.Fatal("Failed to schedule reset token purge", map[string]interface{}{
			"error": err.Error(),
		})
	}
	scheduler.Start()
	defer scheduler.Stop()

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
