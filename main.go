package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"visbridge/clients/bookboost"
	"visbridge/clients/visbook"
	"visbridge/config"
	"visbridge/cron"
	"visbridge/handlers"
	"visbridge/middleware"
	"visbridge/routes"
	"visbridge/services/reservation"
	"visbridge/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitAuditCache()

	httpTimeout := time.Duration(config.AppConfig.HTTPTimeoutSeconds) * time.Second

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// External collaborators.
	visbookClient := visbook.NewClient(config.AppConfig.VisbookBaseURL, httpTimeout, logger)
	bookboostClient := bookboost.NewClient(
		config.AppConfig.BookboostBaseURL,
		config.AppConfig.BookboostToken,
		httpTimeout,
		logger,
	)

	// Core orchestrator.
	store := reservation.NewStore()
	pinger := reservation.NewPinger(store, visbookClient, logger)

	var audit reservation.AuditTrail = reservation.NopAuditTrail{}
	if client := utils.GetAuditCacheClient(); client != nil {
		audit = reservation.NewRedisAuditTrail(client, logger)
	}

	reservationService := &reservation.DefaultReservationService{
		Provider:       visbookClient,
		Profiles:       bookboostClient,
		Store:          store,
		Pinger:         pinger,
		Audit:          audit,
		Logger:         logger,
		SuccessURL:     config.AppConfig.VisbookSuccessURL,
		ErrorURL:       config.AppConfig.VisbookErrorURL,
		WelcomeMessage: config.AppConfig.BookboostWelcomeMessage,
	}

	reservationHandler := handlers.NewReservationHandler(reservationService, audit, logger)
	handlerBundle := handlers.NewHandlerBundle(reservationHandler)

	routes.RegisterRoutes(router, handlerBundle)

	// Maintenance sweeps: expiry cleanup and ping health check.
	maintenance := cron.StartMaintenance(reservationService, logger)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	maintenance.Stop()
	pinger.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
