package routes

import (
	"net/http"
	"time"

	"pawsit/handlers"
	"pawsit/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes sets up calendar reads and the sitter's
// rule, exception and config management endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine) {
	// Public calendar reads: owners browse sitters before booking.
	public := r.Group("/api/sitters")
	{
		public.GET("/:sitterId/slots", handlers.GetDaySlots)
		public.GET("/:sitterId/calendar", handlers.GetCalendar)
		public.GET("/:sitterId/pricing", handlers.GetSitterPricing)
	}

	// Sitter-managed schedule configuration.
	manage := r.Group("/api/availability")
	{
		manage.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("sitter"))
		manage.PUT("/rules/:dayOfWeek", handlers.SetRules)
		manage.POST("/exceptions", handlers.CreateException)
		manage.DELETE("/exceptions/:id", handlers.DeleteException)
		manage.PUT("/config", handlers.UpsertServiceConfig)
	}

	sitter := r.Group("/api/sitter")
	{
		sitter.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("sitter"))
		sitter.PUT("/pricing", handlers.UpsertSitterPricing)
	}
}

// RegisterBookingRoutes sets up the booking gate and lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.CreateBooking)
		api.GET("", handlers.ListBookings)
		api.GET("/:id", handlers.GetBooking)
		api.POST("/:id/payment-intent", handlers.AttachPaymentIntent)
		api.POST("/:id/accept", handlers.TransitionBooking("accept"))
		api.POST("/:id/decline", handlers.TransitionBooking("decline"))
		api.POST("/:id/cancel", handlers.TransitionBooking("cancel"))
		api.POST("/:id/archive", handlers.TransitionBooking("archive"))
		api.POST("/:id/unarchive", handlers.TransitionBooking("unarchive"))
		api.DELETE("/:id", handlers.DeleteBooking)
	}
}

// RegisterNotificationRoutes sets up the in-app notification feed.
func RegisterNotificationRoutes(r *gin.Engine) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", handlers.ListNotifications)
		api.POST("/:id/read", handlers.MarkNotificationRead)
	}
}

// RegisterWebhookRoutes sets up payment-processor callbacks. These are
// authenticated by signature, not by bearer token.
func RegisterWebhookRoutes(r *gin.Engine) {
	r.POST("/webhooks/stripe", handlers.StripeWebhook)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Pawsit"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r)
	RegisterBookingRoutes(r)
	RegisterNotificationRoutes(r)
	RegisterWebhookRoutes(r)
}
