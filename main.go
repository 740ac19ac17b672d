package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawsit/config"
	"pawsit/cron"
	"pawsit/database"
	availabilityRepo "pawsit/database/repository/availability"
	bookingRepoPkg "pawsit/database/repository/booking"
	notificationRepoPkg "pawsit/database/repository/notification"
	sitterRepoPkg "pawsit/database/repository/sitter"
	"pawsit/handlers"
	"pawsit/middleware"
	"pawsit/routes"
	"pawsit/services/availability"
	"pawsit/services/booking"
	"pawsit/services/messaging"
	"pawsit/services/notification"
	"pawsit/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	sitRepo := sitterRepoPkg.NewMongoSitterRepo()
	notifRepo := notificationRepoPkg.NewMongoNotificationRepo()

	for _, ensure := range []func() error{availRepo.EnsureIndexes, bookRepo.EnsureIndexes} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:       notifRepo,
		SitterRepo: sitRepo,
		Logger:     logger,
	}

	collabTimeout := time.Duration(config.AppConfig.CollaboratorTimeoutSecs) * time.Second
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:               availRepo,
		BookingRepo:        bookRepo,
		Cache:              utils.GetCacheClient(),
		CacheTTL:           time.Duration(config.AppConfig.CalendarCacheTTL) * time.Second,
		Logger:             logger,
		Loc:                utils.ReferenceLocation(),
		DefaultLeadTime:    config.AppConfig.DefaultLeadTimeMinutes,
		DefaultGranularity: config.AppConfig.DefaultSlotGranularity,
		MaxRangeDays:       config.AppConfig.MaxCalendarRangeDays,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:         bookRepo,
		SitterRepo:   sitRepo,
		Availability: availabilityService,
		Payments:     booking.NewStripePaymentProcessor(logger),
		Messaging:    messaging.NewMessagingService(),
		Events: &booking.EventDispatcher{
			Notifier: notificationService,
			Logger:   logger,
			Timeout:  collabTimeout,
		},
		Logger:         logger,
		Loc:            utils.ReferenceLocation(),
		Currency:       config.AppConfig.Currency,
		CommissionRate: config.AppConfig.CommissionRate,
		MinAmount:      config.AppConfig.MinBookingAmountCents,
		CancelDeadline: time.Duration(config.AppConfig.CancelDeadlineHours) * time.Hour,
		CollabTimeout:  collabTimeout,
	}

	// handlers.
	handlers.AvailabilityService = availabilityService
	handlers.BookingService = bookingService
	handlers.SitterRepo = sitRepo
	handlers.NotificationRepo = notifRepo

	routes.RegisterRoutes(router)

	// Background reminder worker and booking scans.
	cron.InitReminderWorker(bookRepo, notificationService)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
