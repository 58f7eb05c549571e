package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bustrak/reservation-backend/internal/config"
	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/bustrak/reservation-backend/internal/handlers"
	"github.com/bustrak/reservation-backend/internal/middleware"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/bustrak/reservation-backend/internal/services"
	"github.com/bustrak/reservation-backend/pkg/jwt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting BusTrak Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := database.ApplySchema(db.DB); err != nil {
		logger.Fatalf("Failed to apply database schema: %v", err)
	}
	logger.Info("Database schema applied")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	userRepository := database.NewUserRepository(db)
	cityRepository := database.NewCityRepository(db)
	routeRepository := database.NewRouteRepository(db)
	busRepository := database.NewBusRepository(db)
	bookingRepository := database.NewBookingRepository(db.DB)

	seatMapService := services.NewSeatMapService(busRepository, bookingRepository, cfg.Booking, logger)
	bookingService := services.NewBookingService(bookingRepository, busRepository, seatMapService, cfg.Booking, logger)

	authHandler := handlers.NewAuthHandler(userRepository, jwtService, cfg.Security, cfg.JWT, logger)
	cityHandler := handlers.NewCityHandler(cityRepository)
	routeHandler := handlers.NewRouteHandler(routeRepository)
	busHandler := handlers.NewBusHandler(busRepository, seatMapService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	userHandler := handlers.NewUserHandler(userRepository, logger)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Public catalog reads
		v1.GET("/cities", cityHandler.GetCities)
		v1.GET("/routes", routeHandler.GetRoutes)
		v1.GET("/routes/:id", routeHandler.GetRouteByID)
		v1.GET("/buses/search", busHandler.SearchBuses)
		v1.GET("/buses/:id", busHandler.GetBusByID)
		v1.GET("/buses/:id/seat-map", busHandler.GetSeatMap)
		v1.POST("/fare/quote", busHandler.QuoteFare)

		// Booking lifecycle (authenticated)
		bookings := v1.Group("/bookings", middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.GetMyBookings)
			bookings.GET("/reference/:ref", bookingHandler.GetBookingByReference)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
		}

		// Catalog management (operator only)
		operator := v1.Group("", middleware.AuthMiddleware(jwtService), middleware.RequireRole(string(models.RoleOperator)))
		{
			operator.POST("/cities", cityHandler.CreateCity)
			operator.POST("/routes", routeHandler.CreateRoute)
			operator.PUT("/routes/:id", routeHandler.UpdateRoute)
			operator.DELETE("/routes/:id", routeHandler.DeleteRoute)
			operator.POST("/buses", busHandler.CreateBus)
			operator.PUT("/buses/:id", busHandler.UpdateBus)
			operator.DELETE("/buses/:id", busHandler.DeleteBus)
			operator.GET("/users", userHandler.GetUsers)
			operator.PUT("/users/:id/role", userHandler.UpdateUserRole)
			operator.DELETE("/users/:id", userHandler.DeleteUser)
			operator.GET("/bookings/all", bookingHandler.GetAllBookings)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
