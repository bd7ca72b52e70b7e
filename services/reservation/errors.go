package reservation

import (
	"fmt"

	"visbridge/models"
)

// ValidationError reports bad caller input. It fails fast, before any network
// call, and leaves no side effects.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports an unknown reservation id.
type NotFoundError struct {
	ReservationID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reservation %s not found", e.ReservationID)
}

// InvalidStateError reports a reservation in the wrong status for the
// requested transition. The message always names the actual status.
type InvalidStateError struct {
	ReservationID string
	Status        models.ReservationStatus
	Detail        string
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("reservation %s is not in a valid state for checkout. Status: %s", e.ReservationID, e.Status)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// AuthenticationError reports that the validation step returned no credential.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// CheckoutExpiredError reports a checkout rejected because the provider had
// already expired one or more of the held reservations.
type CheckoutExpiredError struct {
	Expired []models.CheckoutReservationRef
}

func (e *CheckoutExpiredError) Error() string {
	return "some reservations expired during checkout"
}

// CheckoutFailedError reports any non-ok terminal checkout status other than
// the expired case.
type CheckoutFailedError struct {
	Status models.CheckoutStatus
}

func (e *CheckoutFailedError) Error() string {
	return fmt.Sprintf("checkout failed with status: %s", e.Status)
}
