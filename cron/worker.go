package cron

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"visbridge/services/reservation"
)

// StartMaintenance registers the two process-wide sweeps: expiry cleanup every
// five minutes and the ping health check every minute. Each sweep body carries
// its own per-record error boundary inside the service, so a single bad record
// never aborts a run. The returned cron must be stopped on shutdown.
func StartMaintenance(svc reservation.ReservationService, logger *zap.Logger) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@every 5m", svc.CleanupExpiredReservations); err != nil {
		logger.Fatal("failed to register cleanup sweep", zap.Error(err))
	}
	if _, err := c.AddFunc("@every 1m", svc.PingHealthCheck); err != nil {
		logger.Fatal("failed to register ping health check", zap.Error(err))
	}

	c.Start()
	logger.Info("maintenance sweeps started")
	return c
}
