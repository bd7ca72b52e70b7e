package reservation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"visbridge/models"
)

// InitiateReservationAndLogin is phase one of the flow: create the product
// reservation with Visbook, start its keep-alive job, then trigger delivery
// of the one-time login code. The record is stored before the ping job starts
// so a tick can never observe a missing record for a live job.
func (s *DefaultReservationService) InitiateReservationAndLogin(
	ctx context.Context,
	webEntity int,
	method models.LoginMethod,
	creds models.LoginCredentials,
	req models.ReservationRequest,
) (*InitiateResult, error) {
	if err := validateLoginCredentials(method, creds); err != nil {
		return nil, err
	}

	s.Logger.Info("creating reservation in visbook", zap.Int("webentity", webEntity))
	created, err := s.Provider.CreateReservation(ctx, webEntity, req)
	if err != nil {
		return nil, err
	}
	if created.ReservationID == "" {
		return nil, fmt.Errorf("failed to get reservation ID from visbook response")
	}

	now := s.now()
	s.Store.Put(models.ReservationRecord{
		ReservationID:      created.ReservationID,
		EncryptedCompanyID: created.EncryptedCompanyID,
		WebEntity:          webEntity,
		Status:             models.ReservationCreated,
		CreatedAt:          now,
		LastPingAt:         now,
	})
	s.Logger.Info("reservation created", zap.String("reservationId", created.ReservationID))

	s.Pinger.Start(created.ReservationID, webEntity)

	s.Logger.Info("requesting login code", zap.String("method", string(method)))
	if err := s.Provider.Login(ctx, webEntity, method, creds); err != nil {
		// A failed login must not leave an orphaned ping job behind.
		s.Store.Update(created.ReservationID, func(r *models.ReservationRecord) {
			r.Status = models.ReservationFailed
		})
		s.Pinger.Stop(created.ReservationID)
		s.recordAudit(created.ReservationID, "login_failed", models.ReservationFailed, err.Error())
		return nil, err
	}

	s.recordAudit(created.ReservationID, "initiated", models.ReservationCreated, "")
	return &InitiateResult{
		ReservationID: created.ReservationID,
		Message:       fmt.Sprintf("Login code sent via %s. Please complete the checkout with the received code.", method),
	}, nil
}

// CompleteCheckout is phase two: exchange the one-time code for a provider
// credential, finalize the checkout, and synchronize the guest profile with
// the CDP. Any failure past the state guard marks the reservation failed
// before the error is returned.
func (s *DefaultReservationService) CompleteCheckout(ctx context.Context, params CompleteCheckoutParams) error {
	if params.PaymentType == "" {
		params.PaymentType = models.PaymentNoOnlinePayment
	}
	if params.SuccessURL == "" {
		params.SuccessURL = s.SuccessURL
	}
	if params.ErrorURL == "" {
		params.ErrorURL = s.ErrorURL
	}

	rec, err := s.Store.ClaimCheckout(params.ReservationID)
	if err != nil {
		return err
	}

	fail := func(event string, err error) error {
		s.Logger.Error("error completing checkout",
			zap.String("reservationId", params.ReservationID),
			zap.Error(err))
		s.Store.Update(params.ReservationID, func(r *models.ReservationRecord) {
			r.Status = models.ReservationFailed
		})
		s.Store.ReleaseCheckout(params.ReservationID)
		s.recordAudit(params.ReservationID, event, models.ReservationFailed, err.Error())
		return err
	}

	s.Logger.Info("validating authentication token", zap.String("reservationId", params.ReservationID))
	credential, err := s.Provider.Validate(ctx, params.WebEntity, params.ValidationToken, params.LoginMethod)
	if err != nil {
		return fail("validation_failed", err)
	}
	if !validatedCredential(credential) {
		return fail("validation_failed", &AuthenticationError{
			Message: "guest validation failed - no authentication cookie received",
		})
	}

	s.Logger.Info("processing checkout", zap.String("reservationId", params.ReservationID))
	result, err := s.Provider.Checkout(ctx, params.WebEntity, models.CheckoutRequest{
		Reservations: []models.CheckoutReservationRef{
			{
				ReservationID:      params.ReservationID,
				EncryptedCompanyID: rec.EncryptedCompanyID,
			},
		},
		SuccessURL:        params.SuccessURL,
		ErrorURL:          params.ErrorURL,
		PaymentType:       params.PaymentType,
		Amount:            params.Amount,
		Customer:          params.Customer,
		AcceptedTerms:     true,
		ExternalReference: "visbook-" + params.ReservationID,
	})
	if err != nil {
		return fail("checkout_failed", err)
	}
	if result.CheckoutStatus == models.CheckoutSomeReservationsExpired {
		s.Logger.Warn("some reservations expired during checkout",
			zap.String("reservationId", params.ReservationID))
		return fail("checkout_expired", &CheckoutExpiredError{Expired: result.ExpiredReservations})
	}
	if result.CheckoutStatus != models.CheckoutOK {
		return fail("checkout_failed", &CheckoutFailedError{Status: result.CheckoutStatus})
	}

	s.Store.Update(params.ReservationID, func(r *models.ReservationRecord) {
		r.Status = models.ReservationCompleted
	})
	s.Logger.Info("checkout completed", zap.String("reservationId", params.ReservationID))

	guest := s.extractGuestData(params.Customer, result)

	s.Logger.Info("synchronizing guest profile with bookboost",
		zap.String("reservationId", params.ReservationID))
	user, err := s.Profiles.UpsertUser(ctx, models.BookboostUserPayload{
		Email:      guest.Email,
		Phone:      guest.Phone,
		FirstName:  guest.FirstName,
		LastName:   guest.LastName,
		Address:    guest.Address,
		City:       guest.City,
		Country:    guest.Country,
		ZipCode:    guest.ZipCode,
		Company:    guest.Company,
		Source:     "visbook",
		ExternalID: guest.VisbookID,
	})
	if err != nil {
		return fail("profile_sync_failed", err)
	}

	if user.ID != "" && guest.VisbookID != "" {
		if err := s.Profiles.LinkExternalRef(ctx, user.ID, guest.VisbookID); err != nil {
			return fail("profile_sync_failed", err)
		}
	}

	if err := s.Profiles.TagUser(ctx, user.ID, []string{"visbook-guest", "recent-checkout"}); err != nil {
		return fail("profile_sync_failed", err)
	}

	if s.WelcomeMessage != "" && user.ID != "" {
		// Welcome delivery is best effort; the checkout outcome stands.
		if err := s.Profiles.SendMessage(ctx, user.ID, models.MessageChannelEmail, s.WelcomeMessage); err != nil {
			s.Logger.Warn("failed to send welcome message",
				zap.String("reservationId", params.ReservationID),
				zap.Error(err))
		}
	}

	s.Logger.Info("guest profile synchronized", zap.String("userId", user.ID))

	s.Pinger.Stop(params.ReservationID)
	s.Store.ReleaseCheckout(params.ReservationID)
	s.recordAudit(params.ReservationID, "completed", models.ReservationCompleted, "")
	return nil
}

// UpdateReservation replaces the details of a held reservation with the
// provider.
func (s *DefaultReservationService) UpdateReservation(ctx context.Context, reservationID string, req models.ReservationRequest) error {
	rec, ok := s.Store.Get(reservationID)
	if !ok {
		return &NotFoundError{ReservationID: reservationID}
	}
	if rec.Status != models.ReservationCreated {
		return &InvalidStateError{ReservationID: reservationID, Status: rec.Status}
	}
	return s.Provider.UpdateReservation(ctx, rec.WebEntity, rec.EncryptedCompanyID, reservationID, req)
}

// RegisterAndSync is the combined compatibility entry point: it runs phase one
// and reminds the operator that the validation token must follow out of band.
func (s *DefaultReservationService) RegisterAndSync(
	ctx context.Context,
	webEntity int,
	method models.LoginMethod,
	creds models.LoginCredentials,
	req models.ReservationRequest,
) (*InitiateResult, error) {
	result, err := s.InitiateReservationAndLogin(ctx, webEntity, method, creds, req)
	if err != nil {
		return nil, err
	}
	s.Logger.Warn("manual intervention required: guest must provide validation token to complete checkout",
		zap.String("reservationId", result.ReservationID))
	return result, nil
}

// CancelReservation marks the reservation cancelled and stops its keep-alive
// job. No-op when the record is absent or already in a terminal state other
// than cancelled.
func (s *DefaultReservationService) CancelReservation(reservationID string) {
	cancelled := false
	s.Store.Update(reservationID, func(r *models.ReservationRecord) {
		if !r.Status.Terminal() {
			r.Status = models.ReservationCancelled
			cancelled = true
		}
	})
	s.Pinger.Stop(reservationID)
	if cancelled {
		s.Logger.Info("reservation cancelled", zap.String("reservationId", reservationID))
		s.recordAudit(reservationID, "cancelled", models.ReservationCancelled, "")
	}
}

// PurgeReservation removes the record entirely and stops any keep-alive job.
// Completed reservations are never removed automatically; this is the explicit
// operator path.
func (s *DefaultReservationService) PurgeReservation(reservationID string) {
	s.Store.Delete(reservationID)
	s.Pinger.Stop(reservationID)
	s.recordAudit(reservationID, "purged", "", "")
}

// ReservationData returns a copy of the record for the reservation.
func (s *DefaultReservationService) ReservationData(reservationID string) (models.ReservationRecord, bool) {
	return s.Store.Get(reservationID)
}

// ActiveReservations returns copies of every tracked record.
func (s *DefaultReservationService) ActiveReservations() []models.ReservationRecord {
	return s.Store.List()
}

// PingStatistics summarizes the store and the keep-alive machinery.
func (s *DefaultReservationService) PingStatistics() models.PingStatistics {
	active := 0
	for _, rec := range s.Store.List() {
		if rec.Status == models.ReservationCreated {
			active++
		}
	}
	return models.PingStatistics{
		TotalReservations:  s.Store.Len(),
		ActiveReservations: active,
		ScheduledPingJobs:  s.Pinger.Count(),
	}
}

type guestData struct {
	Email     string
	Phone     string
	FirstName string
	LastName  string
	Address   string
	City      string
	Country   string
	ZipCode   string
	Company   string
	VisbookID string
}

// extractGuestData merges the checkout customer with the provider-side
// identifier from the checkout response. When the provider returns neither a
// customer nor a guest id, a timestamp-derived synthetic id keeps the CDP
// external reference unique.
func (s *DefaultReservationService) extractGuestData(customer models.Customer, result models.CheckoutResult) guestData {
	phone := customer.Phone
	if phone == "" {
		phone = customer.Mobile
	}
	visbookID := result.CustomerID
	if visbookID == "" {
		visbookID = result.GuestID
	}
	if visbookID == "" {
		visbookID = fmt.Sprintf("visbook-%d", s.now().UnixMilli())
	}
	return guestData{
		Email:     customer.Email,
		Phone:     phone,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Address:   customer.Address,
		City:      customer.City,
		Country:   customer.Country,
		ZipCode:   customer.ZipCode,
		Company:   customer.Company,
		VisbookID: visbookID,
	}
}

// validatedCredential reports whether the provider returned a usable
// credential payload.
func validatedCredential(raw []byte) bool {
	switch string(raw) {
	case "", "null", "false", "{}":
		return false
	}
	return true
}

func validateLoginCredentials(method models.LoginMethod, creds models.LoginCredentials) error {
	switch method {
	case models.LoginMethodEmail:
		if creds.Email == "" {
			return &ValidationError{Message: "email is required for email login method"}
		}
	case models.LoginMethodSMS:
		if creds.PhoneNumber == "" || creds.CountryCode == "" {
			return &ValidationError{Message: "phone number and country code are required for SMS login method"}
		}
	default:
		return &ValidationError{Message: fmt.Sprintf("unsupported login method: %s", method)}
	}
	return nil
}
