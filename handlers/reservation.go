package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visbridge/clients/bookboost"
	"visbridge/clients/visbook"
	"visbridge/models"
	"visbridge/services/reservation"
)

// ReservationHandler exposes the two-phase reservation flow and the read-only
// monitoring endpoints. Typed service errors never cross the boundary raw;
// they are translated into success/failure envelopes.
type ReservationHandler struct {
	Service reservation.ReservationService
	Audit   reservation.AuditTrail
	Logger  *zap.Logger
}

func NewReservationHandler(svc reservation.ReservationService, audit reservation.AuditTrail, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Service: svc, Audit: audit, Logger: logger}
}

type initiateReservationInput struct {
	WebEntity        int                       `json:"webentity" binding:"required"`
	LoginMethod      models.LoginMethod        `json:"loginMethod" binding:"required"`
	LoginCredentials models.LoginCredentials   `json:"loginCredentials"`
	ReservationData  models.ReservationRequest `json:"reservationData" binding:"required"`
}

type completeCheckoutInput struct {
	ReservationID   string             `json:"reservationId" binding:"required"`
	WebEntity       int                `json:"webentity" binding:"required"`
	ValidationToken string             `json:"validationToken" binding:"required"`
	LoginMethod     models.LoginMethod `json:"loginMethod" binding:"required"`
	CustomerData    models.Customer    `json:"customerData" binding:"required"`
	PaymentType     models.PaymentType `json:"paymentType"`
	Amount          float64            `json:"amount"`
	SuccessURL      string             `json:"successUrl"`
	ErrorURL        string             `json:"errorUrl"`
}

// InitiateReservation creates a reservation and sends a login token via email
// or SMS.
func (h *ReservationHandler) InitiateReservation(c *gin.Context) {
	var input initiateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to initiate reservation",
		})
		return
	}

	result, err := h.Service.InitiateReservationAndLogin(
		c.Request.Context(),
		input.WebEntity,
		input.LoginMethod,
		input.LoginCredentials,
		input.ReservationData,
	)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to initiate reservation",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": "Reservation initiated successfully. Please check your email/SMS for validation code.",
	})
}

// CompleteCheckout completes the checkout with a validation token and
// synchronizes the guest with the CDP.
func (h *ReservationHandler) CompleteCheckout(c *gin.Context) {
	var input completeCheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to complete checkout",
		})
		return
	}

	err := h.Service.CompleteCheckout(c.Request.Context(), reservation.CompleteCheckoutParams{
		ReservationID:   input.ReservationID,
		WebEntity:       input.WebEntity,
		ValidationToken: input.ValidationToken,
		LoginMethod:     input.LoginMethod,
		Customer:        input.CustomerData,
		PaymentType:     input.PaymentType,
		Amount:          input.Amount,
		SuccessURL:      input.SuccessURL,
		ErrorURL:        input.ErrorURL,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to complete checkout",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Checkout completed and guest synchronized with Bookboost successfully",
	})
}

// UpdateReservation replaces the details of a held reservation.
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	reservationID := c.Param("reservationID")
	var input models.ReservationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.Service.UpdateReservation(c.Request.Context(), reservationID, input); err != nil {
		c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reservation updated"})
}

// RegisterAndSync is the combined compatibility endpoint: phase one plus a
// reminder that the validation token must follow.
func (h *ReservationHandler) RegisterAndSync(c *gin.Context) {
	var input initiateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.Service.RegisterAndSync(
		c.Request.Context(),
		input.WebEntity,
		input.LoginMethod,
		input.LoginCredentials,
		input.ReservationData,
	)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GetReservation returns the tracked record for one reservation.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	reservationID := c.Param("reservationID")
	rec, ok := h.Service.ReservationData(reservationID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "reservation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

// GetActiveReservations returns every tracked record.
func (h *ReservationHandler) GetActiveReservations(c *gin.Context) {
	records := h.Service.ActiveReservations()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}

// GetPingStatistics summarizes the keep-alive machinery.
func (h *ReservationHandler) GetPingStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.Service.PingStatistics()})
}

// CancelReservation cancels a reservation and stops its keep-alive job.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	reservationID := c.Param("reservationID")
	h.Service.CancelReservation(reservationID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reservation cancelled"})
}

// PurgeReservation removes a reservation record entirely.
func (h *ReservationHandler) PurgeReservation(c *gin.Context) {
	reservationID := c.Param("reservationID")
	h.Service.PurgeReservation(reservationID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reservation purged"})
}

// GetAuditTrail returns recent lifecycle events.
func (h *ReservationHandler) GetAuditTrail(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	events, err := h.Audit.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(events), "data": events})
}

// statusForError maps the service's typed errors onto HTTP statuses for the
// failure envelope.
func statusForError(err error) int {
	var (
		validationErr  *reservation.ValidationError
		notFoundErr    *reservation.NotFoundError
		stateErr       *reservation.InvalidStateError
		authErr        *reservation.AuthenticationError
		expiredErr     *reservation.CheckoutExpiredError
		checkoutErr    *reservation.CheckoutFailedError
		providerErr    *visbook.Error
		profileSyncErr *bookboost.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &stateErr):
		return http.StatusConflict
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &expiredErr):
		return http.StatusGone
	case errors.As(err, &checkoutErr):
		return http.StatusBadGateway
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	case errors.As(err, &profileSyncErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
