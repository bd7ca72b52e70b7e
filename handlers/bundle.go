package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates every endpoint handler for route registration.
type HandlerBundle struct {
	// Reservation flow endpoints.
	InitiateReservation gin.HandlerFunc
	CompleteCheckout    gin.HandlerFunc
	UpdateReservation   gin.HandlerFunc
	RegisterAndSync     gin.HandlerFunc

	// Read-only monitoring endpoints.
	GetReservation        gin.HandlerFunc
	GetActiveReservations gin.HandlerFunc
	GetPingStatistics     gin.HandlerFunc

	// Operator endpoints.
	CancelReservation gin.HandlerFunc
	PurgeReservation  gin.HandlerFunc
	GetAuditTrail     gin.HandlerFunc
}

// NewHandlerBundle wires the reservation handler into a bundle.
func NewHandlerBundle(rh *ReservationHandler) *HandlerBundle {
	return &HandlerBundle{
		InitiateReservation:   rh.InitiateReservation,
		CompleteCheckout:      rh.CompleteCheckout,
		UpdateReservation:     rh.UpdateReservation,
		RegisterAndSync:       rh.RegisterAndSync,
		GetReservation:        rh.GetReservation,
		GetActiveReservations: rh.GetActiveReservations,
		GetPingStatistics:     rh.GetPingStatistics,
		CancelReservation:     rh.CancelReservation,
		PurgeReservation:      rh.PurgeReservation,
		GetAuditTrail:         rh.GetAuditTrail,
	}
}
