package models

import "time"

// ReservationStatus tracks a reservation through its lifecycle. Values use the
// original wire spellings so they can be surfaced to callers unchanged.
type ReservationStatus string

const (
	ReservationCreated    ReservationStatus = "created"
	ReservationPingFailed ReservationStatus = "ping_failed"
	ReservationCompleted  ReservationStatus = "completed"
	ReservationFailed     ReservationStatus = "failed"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// Terminal reports whether no further provider calls may be issued for a
// reservation in this status.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCompleted, ReservationFailed, ReservationCancelled:
		return true
	}
	return false
}

// ReservationRecord is the in-memory record for one provider-side reservation.
// ReservationID, EncryptedCompanyID and WebEntity are immutable after creation.
type ReservationRecord struct {
	ReservationID      string            `json:"reservationId"`
	EncryptedCompanyID string            `json:"encryptedCompanyId,omitempty"`
	WebEntity          int               `json:"webentity"`
	Status             ReservationStatus `json:"status"`
	CreatedAt          time.Time         `json:"createdAt"`
	// LastPingAt is the zero value until the first successful keep-alive ping.
	LastPingAt time.Time `json:"lastPingAt,omitempty"`
}

// PingStatistics summarizes the keep-alive machinery for monitoring.
type PingStatistics struct {
	TotalReservations  int `json:"totalReservations"`
	ActiveReservations int `json:"activeReservations"`
	ScheduledPingJobs  int `json:"scheduledPingJobs"`
}
