package reservation

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"visbridge/models"
)

// ProviderAPI is the slice of the Visbook API the orchestrator consumes.
type ProviderAPI interface {
	Login(ctx context.Context, webEntity int, method models.LoginMethod, creds models.LoginCredentials) error
	Validate(ctx context.Context, webEntity int, token string, method models.LoginMethod) (json.RawMessage, error)
	CreateReservation(ctx context.Context, webEntity int, req models.ReservationRequest) (models.CreateReservationResult, error)
	UpdateReservation(ctx context.Context, webEntity int, encryptedCompanyID, reservationID string, req models.ReservationRequest) error
	PingReservation(ctx context.Context, webEntity int) error
	Checkout(ctx context.Context, webEntity int, req models.CheckoutRequest) (models.CheckoutResult, error)
}

// ProfileAPI is the slice of the Bookboost CDP API the orchestrator consumes.
type ProfileAPI interface {
	UpsertUser(ctx context.Context, payload models.BookboostUserPayload) (models.BookboostUser, error)
	LinkExternalRef(ctx context.Context, userID, externalID string) error
	TagUser(ctx context.Context, userID string, tags []string) error
	SendMessage(ctx context.Context, userID string, channel models.MessageChannel, message string) error
}

// InitiateResult is returned to the caller after phase one of the flow.
type InitiateResult struct {
	ReservationID string `json:"reservationId"`
	Message       string `json:"message"`
}

// CompleteCheckoutParams carries everything phase two needs. Zero values for
// PaymentType, SuccessURL and ErrorURL fall back to service defaults.
type CompleteCheckoutParams struct {
	ReservationID   string
	WebEntity       int
	ValidationToken string
	LoginMethod     models.LoginMethod
	Customer        models.Customer
	PaymentType     models.PaymentType
	Amount          float64
	SuccessURL      string
	ErrorURL        string
}

// ReservationService drives the two-phase reservation flow and the
// keep-alive/maintenance machinery around it.
type ReservationService interface {
	InitiateReservationAndLogin(ctx context.Context, webEntity int, method models.LoginMethod, creds models.LoginCredentials, req models.ReservationRequest) (*InitiateResult, error)
	CompleteCheckout(ctx context.Context, params CompleteCheckoutParams) error
	UpdateReservation(ctx context.Context, reservationID string, req models.ReservationRequest) error
	RegisterAndSync(ctx context.Context, webEntity int, method models.LoginMethod, creds models.LoginCredentials, req models.ReservationRequest) (*InitiateResult, error)

	CancelReservation(reservationID string)
	PurgeReservation(reservationID string)

	ReservationData(reservationID string) (models.ReservationRecord, bool)
	ActiveReservations() []models.ReservationRecord
	PingStatistics() models.PingStatistics

	CleanupExpiredReservations()
	PingHealthCheck()
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Provider ProviderAPI
	Profiles ProfileAPI
	Store    *Store
	Pinger   *Pinger
	Audit    AuditTrail
	Logger   *zap.Logger

	// SuccessURL and ErrorURL are the checkout redirect defaults.
	SuccessURL string
	ErrorURL   string
	// WelcomeMessage, when set, is mailed to the guest after a completed
	// checkout (best effort).
	WelcomeMessage string

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
