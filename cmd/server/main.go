package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/cache"
	"github.com/smarttransit/seat-admin/internal/config"
	"github.com/smarttransit/seat-admin/internal/database"
	"github.com/smarttransit/seat-admin/internal/handlers"
	"github.com/smarttransit/seat-admin/internal/logger"
	"github.com/smarttransit/seat-admin/internal/middleware"
	"github.com/smarttransit/seat-admin/internal/services"
	"github.com/smarttransit/seat-admin/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Server)
	log.Info("Starting SmartTransit seat administration service")
	log.Infof("Version: %s, Build Time: %s", version, buildTime)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Bus cache is optional
	var busCache services.BusCache
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		busCache = cache.NewBusCache(client, cfg.Redis.CacheTTL)
		log.WithField("ttl", cfg.Redis.CacheTTL.String()).Info("Bus cache enabled")
	}

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)

	busService := services.NewBusService(database.NewBusRepository(db), busCache, log)
	tripService := services.NewTripService(database.NewTripRepository(db), busService, log)

	busHandler := handlers.NewBusHandler(busService, log)
	tripHandler := handlers.NewTripHandler(tripService, log)
	seatGridHandler := handlers.NewSeatGridHandler(busService, log)

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.EnableRequestLog {
		router.Use(middleware.RequestLogger(log))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db))
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtService, log))
	{
		seatGrid := v1.Group("")
		seatGrid.Use(middleware.RequirePermission(middleware.PermissionManageBuses, middleware.PermissionManageTrips))
		{
			seatGrid.GET("/seat-grid/preview", seatGridHandler.Preview)
			seatGrid.GET("/seat-labels/:label", seatGridHandler.DecodeLabel)
		}

		buses := v1.Group("/buses")
		buses.Use(middleware.RequirePermission(middleware.PermissionManageBuses))
		{
			buses.POST("", busHandler.CreateBus)
			buses.GET("", busHandler.ListBuses)
			buses.POST("/seats", busHandler.UpdateSeats)
			buses.GET("/:id", busHandler.GetBus)
			buses.PUT("/:id", busHandler.UpdateBus)
			buses.DELETE("/:id", busHandler.DeleteBus)
			buses.GET("/:id/layout", busHandler.GetLayout)
			buses.GET("/:id/seats/:row/:column", busHandler.OpenSeat)
			buses.PUT("/:id/seats/:row/:column", busHandler.SaveSeat)
		}

		trips := v1.Group("/trips")
		trips.Use(middleware.RequirePermission(middleware.PermissionManageTrips))
		{
			trips.POST("", tripHandler.CreateTrip)
			trips.GET("", tripHandler.ListTrips)
			trips.POST("/seat-prices", tripHandler.SaveSeatPrices)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.PUT("/:id", tripHandler.UpdateTrip)
			trips.PUT("/:id/seat-prices/:seat_number", tripHandler.EditSeatPrice)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited successfully")
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
