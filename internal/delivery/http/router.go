package http

import (
	"net/http"
	"strings"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/config"
	"carfleet/internal/pkg/jwt"
	"carfleet/internal/pkg/logger"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler        *AuthHandler
	reservationHandler *ReservationHandler
	carHandler         *CarHandler
	maintenanceHandler *MaintenanceHandler
	userHandler        *UserHandler
	shopHandler        *ShopHandler
	scheduleHandler    *ScheduleHandler
	reportHandler      *ReportHandler
	tokenService       *jwt.TokenService
	config             *config.Config
	logger             logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	reservationHandler *ReservationHandler,
	carHandler *CarHandler,
	maintenanceHandler *MaintenanceHandler,
	userHandler *UserHandler,
	shopHandler *ShopHandler,
	scheduleHandler *ScheduleHandler,
	reportHandler *ReportHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:        authHandler,
		reservationHandler: reservationHandler,
		carHandler:         carHandler,
		maintenanceHandler: maintenanceHandler,
		userHandler:        userHandler,
		shopHandler:        shopHandler,
		scheduleHandler:    scheduleHandler,
		reportHandler:      reportHandler,
		tokenService:       tokenService,
		config:             config,
		logger:             logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if allowed := allowedMethods(r, req.URL.Path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.Post("/forgot-password", rt.authHandler.ForgotPassword)
			r.Post("/reset-password", rt.authHandler.ResetPassword)

			// Protected
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(rt.tokenService))
				r.Get("/me", rt.authHandler.GetMe)
			})
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			r.Route("/user/profile", func(r chi.Router) {
				r.Get("/", rt.authHandler.GetMe)
				r.Put("/", rt.authHandler.UpdateProfile)
			})

			// Reservation endpoints
			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", rt.reservationHandler.GetMyReservations)
				r.Post("/", rt.reservationHandler.CreateReservation)
				r.Get("/{id}", rt.reservationHandler.GetReservationByID)
				r.Put("/{id}", rt.reservationHandler.UpdateReservation)
				r.Delete("/{id}", rt.reservationHandler.CancelReservation)
				r.Post("/{id}/start", rt.reservationHandler.StartReservation)
				r.Post("/{id}/complete", rt.reservationHandler.CompleteReservation)
			})

			// Почасовая сетка доступности автомобиля
			r.Get("/cars/{id}/schedule", rt.scheduleHandler.GetCarSchedule)

			// Admin endpoints
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleShopAdmin))

				r.Get("/stats", rt.reportHandler.GetStats)
				r.Get("/reports", rt.reportHandler.GetUsageReport)
				r.Get("/schedule", rt.scheduleHandler.GetFleetSchedule)

				r.Route("/cars", func(r chi.Router) {
					r.Get("/", rt.carHandler.ListCars)
					r.Post("/", rt.carHandler.CreateCar)
					r.Get("/{id}", rt.carHandler.GetCarByID)
					r.Put("/{id}", rt.carHandler.UpdateCar)
					r.Delete("/{id}", rt.carHandler.DeleteCar)
				})

				r.Route("/maintenance", func(r chi.Router) {
					r.Get("/", rt.maintenanceHandler.ListMaintenances)
					r.Post("/", rt.maintenanceHandler.CreateMaintenance)
					r.Get("/{id}", rt.maintenanceHandler.GetMaintenanceByID)
					r.Put("/{id}", rt.maintenanceHandler.UpdateMaintenance)
					r.Delete("/{id}", rt.maintenanceHandler.DeleteMaintenance)
				})

				r.Route("/reservations", func(r chi.Router) {
					r.Get("/", rt.reservationHandler.GetReservationsForDay)
					r.Post("/", rt.reservationHandler.CreateReservation)
					r.Get("/{id}", rt.reservationHandler.GetReservationByID)
					r.Put("/{id}", rt.reservationHandler.UpdateReservation)
					r.Delete("/{id}", rt.reservationHandler.DeleteReservation)
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", rt.userHandler.ListUsers)
					r.Post("/", rt.userHandler.CreateUser)
					r.Get("/{id}", rt.userHandler.GetUserByID)
					r.Put("/{id}", rt.userHandler.UpdateUser)
					r.Delete("/{id}", rt.userHandler.DeleteUser)
				})

				r.Route("/shops", func(r chi.Router) {
					r.Get("/", rt.shopHandler.ListShops)
					r.Get("/{id}", rt.shopHandler.GetShopByID)

					// Управление пунктами проката доступно только ADMIN
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(domain.RoleAdmin))
						r.Post("/", rt.shopHandler.CreateShop)
						r.Put("/{id}", rt.shopHandler.UpdateShop)
						r.Delete("/{id}", rt.shopHandler.DeleteShop)
					})
				})
			})
		})
	})

	return r
}

// allowedMethods перечисляет методы, зарегистрированные для пути
func allowedMethods(routes chi.Routes, path string) []string {
	var allowed []string
	for _, method := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete,
	} {
		if routes.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
