package reservation

import (
	"time"

	"go.uber.org/zap"

	"visbridge/models"
)

const (
	// reservationTTL is how long a non-terminal reservation may live before
	// the cleanup sweep cancels it. Matches the provider's own expiry window
	// with headroom.
	reservationTTL = 30 * time.Minute
	// pingStaleAfter is the health-check threshold: a created reservation not
	// pinged for this long gets its keep-alive job restarted.
	pingStaleAfter = 2 * time.Minute
)

// CleanupExpiredReservations cancels created/ping_failed reservations older
// than the staleness threshold. Terminal records are left untouched; purging
// is an explicit operator action. A single record's fault never aborts the
// sweep.
func (s *DefaultReservationService) CleanupExpiredReservations() {
	now := s.now()
	var expired []string
	for _, rec := range s.Store.List() {
		if rec.Status != models.ReservationCreated && rec.Status != models.ReservationPingFailed {
			continue
		}
		if now.Sub(rec.CreatedAt) > reservationTTL {
			expired = append(expired, rec.ReservationID)
		}
	}

	if len(expired) == 0 {
		return
	}

	s.Logger.Info("cleaning up expired reservations", zap.Int("count", len(expired)))
	for _, id := range expired {
		s.CancelReservation(id)
		s.recordAudit(id, "expired", models.ReservationCancelled, "")
	}
}

// PingHealthCheck restarts the keep-alive job for any created reservation
// whose last successful ping is absent or stale. It never changes a record's
// status; a restart replaces the job and nothing else.
func (s *DefaultReservationService) PingHealthCheck() {
	now := s.now()
	healthy := 0
	stale := 0

	for _, rec := range s.Store.List() {
		if rec.Status != models.ReservationCreated {
			continue
		}
		if rec.LastPingAt.IsZero() || now.Sub(rec.LastPingAt) > pingStaleAfter {
			stale++
			s.Logger.Warn("reservation has stale ping, restarting job",
				zap.String("reservationId", rec.ReservationID),
				zap.Time("lastPingAt", rec.LastPingAt))
			s.Pinger.Stop(rec.ReservationID)
			s.Pinger.Start(rec.ReservationID, rec.WebEntity)
			continue
		}
		healthy++
	}

	if healthy > 0 || stale > 0 {
		s.Logger.Debug("ping health check",
			zap.Int("healthy", healthy),
			zap.Int("stale", stale))
	}
}
