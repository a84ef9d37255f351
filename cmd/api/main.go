package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kwesiamoo/travelhub-backend/internal/booking"
	"github.com/kwesiamoo/travelhub-backend/internal/database"
	"github.com/kwesiamoo/travelhub-backend/internal/handlers"
	"github.com/kwesiamoo/travelhub-backend/internal/middleware"
	"github.com/kwesiamoo/travelhub-backend/internal/services"
)

func main() {
	// .env is optional in containers; env vars take precedence either way.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.InitDB()
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database instance", zap.Error(err))
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis backs the check-in rate limiter and the event feed. Both degrade
	// gracefully, so startup continues without it.
	rdb, err := services.NewRedisClient()
	if err != nil {
		logger.Warn("redis unavailable, rate limiting falls back to in-process buckets", zap.Error(err))
		rdb = nil
	}

	storage, err := services.NewStorage(logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	hub := services.NewHub(logger)
	go hub.Run()

	notifier := services.NewEventNotifier(hub, rdb, logger)

	store := booking.NewGormStore(db)
	bookingSvc := booking.NewService(store, notifier, logger)
	hotelSvc := booking.NewHotelService(store, notifier, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads (license documents) when S3 is not configured.
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		api.GET("/schedules", handlers.GetSchedules(db))
		api.GET("/hotels", handlers.GetHotels(db))
		api.GET("/hotels/:id", handlers.GetHotel(db))
		api.GET("/rentals/cars", handlers.GetRentalCars(db))
		api.GET("/rentals/cars/:id", handlers.GetRentalCar(db))

		// Unauthenticated check-in kiosk endpoint, rate limited per client IP.
		api.POST("/bookings/checkin",
			middleware.RateLimiter(middleware.DefaultCheckInRateLimit(rdb)),
			handlers.CheckIn(bookingSvc))

		// WebSocket connection (token passed as query param)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.PUT("/users/profile", handlers.UpdateProfile(db))

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(bookingSvc))
				bookings.GET("/my", handlers.GetMyBookings(bookingSvc))
				bookings.POST("/:id/cancel", handlers.RequestCancellation(bookingSvc))
				bookings.GET("/:id/ticket", handlers.GetBookingTicket(bookingSvc))

				bookings.GET("/pending", middleware.RequireAdmin(), handlers.GetPendingBookings(bookingSvc))
				bookings.POST("/:id/approve", middleware.RequireAdmin(), handlers.ApproveBooking(bookingSvc))
				bookings.POST("/:id/reject", middleware.RequireAdmin(), handlers.RejectBooking(bookingSvc))
			}

			hotelBookings := protected.Group("/hotel-bookings")
			{
				hotelBookings.POST("", handlers.CreateHotelBooking(hotelSvc))
				hotelBookings.GET("/my", handlers.GetMyHotelBookings(hotelSvc))

				hotelBookings.GET("/pending", middleware.RequireAdmin(), handlers.GetPendingHotelBookings(hotelSvc))
				hotelBookings.POST("/:id/approve", middleware.RequireAdmin(), handlers.ApproveHotelBooking(hotelSvc))
				hotelBookings.POST("/:id/reject", middleware.RequireAdmin(), handlers.RejectHotelBooking(hotelSvc))
			}

			rentals := protected.Group("/rentals")
			{
				rentals.POST("/book", handlers.CreateRentalBooking(db))
				rentals.GET("/bookings", handlers.GetMyRentalBookings(db))
				rentals.POST("/bookings/:id/cancel", handlers.CancelRentalBooking(db))
			}

			protected.POST("/uploads/license", handlers.UploadLicense(storage))

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/schedules", handlers.CreateSchedule(db))
				admin.DELETE("/schedules/:id", handlers.DeleteSchedule(db))

				admin.GET("/stats", handlers.GetAdminStats(db))
				admin.GET("/logs", handlers.GetActivityLogs(db))

				admin.GET("/users", handlers.GetAllUsers(db))
				admin.PUT("/users/:id/role", handlers.UpdateUserRole(db))
				admin.DELETE("/users/:id", handlers.DeleteUser(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
