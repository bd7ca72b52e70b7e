package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"visbridge/handlers"
	"visbridge/middleware"
)

// RegisterReservationRoutes sets up the two-phase reservation flow and the
// read-only monitoring endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/visbook")
	{
		api.POST("/initiate-reservation", hb.InitiateReservation)
		api.POST("/complete-checkout", hb.CompleteCheckout)
		api.POST("/register-and-sync", hb.RegisterAndSync)
		api.PUT("/reservations/:reservationID", hb.UpdateReservation)

		api.GET("/reservations", hb.GetActiveReservations)
		api.GET("/reservations/:reservationID", hb.GetReservation)
		api.GET("/ping-stats", hb.GetPingStatistics)
	}
}

// RegisterOperatorRoutes sets up the admin-protected operator endpoints.
func RegisterOperatorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	ops := r.Group("/api/visbook")
	{
		ops.Use(middleware.JWTAuthAdminMiddleware())
		ops.POST("/reservations/:reservationID/cancel", hb.CancelReservation)
		ops.DELETE("/reservations/:reservationID", hb.PurgeReservation)
		ops.GET("/audit", hb.GetAuditTrail)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm visbridge"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterReservationRoutes(r, hb)
	RegisterOperatorRoutes(r, hb)
}
