package reservation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"visbridge/models"
)

const (
	// pingInterval matches the provider's keep-alive expectations: one ping
	// well inside its reservation expiry window.
	pingInterval = 35 * time.Second
	// pingTimeout bounds a single keep-alive call. A tick that times out
	// counts as a ping failure.
	pingTimeout = 20 * time.Second
)

// Pinger runs one repeating keep-alive job per reservation. At most one job is
// active per reservation id; a tick still running when the next is due is
// skipped, not queued (time.Ticker drops ticks for slow receivers), so pings
// never overlap for the same reservation.
type Pinger struct {
	store    *Store
	provider ProviderAPI
	logger   *zap.Logger

	interval time.Duration
	timeout  time.Duration

	mu   sync.Mutex
	jobs map[string]*pingJob
}

type pingJob struct {
	reservationID string
	webEntity     int
	stop          chan struct{}
}

func NewPinger(store *Store, provider ProviderAPI, logger *zap.Logger) *Pinger {
	return &Pinger{
		store:    store,
		provider: provider,
		logger:   logger,
		interval: pingInterval,
		timeout:  pingTimeout,
		jobs:     make(map[string]*pingJob),
	}
}

// Start schedules a repeating keep-alive job for the reservation. Starting
// twice for the same id stops the previous job first.
func (p *Pinger) Start(reservationID string, webEntity int) {
	job := &pingJob{
		reservationID: reservationID,
		webEntity:     webEntity,
		stop:          make(chan struct{}),
	}

	p.mu.Lock()
	if prev, ok := p.jobs[reservationID]; ok {
		close(prev.stop)
	}
	p.jobs[reservationID] = job
	p.mu.Unlock()

	go p.run(job)
	p.logger.Debug("scheduled ping job", zap.String("reservationId", reservationID))
}

// Stop cancels the job for the reservation if present. Idempotent no-op
// otherwise.
func (p *Pinger) Stop(reservationID string) {
	p.mu.Lock()
	job, ok := p.jobs[reservationID]
	if ok {
		delete(p.jobs, reservationID)
		close(job.stop)
	}
	p.mu.Unlock()
	if ok {
		p.logger.Debug("unscheduled ping job", zap.String("reservationId", reservationID))
	}
}

// Exists reports whether a job is currently scheduled for the reservation.
func (p *Pinger) Exists(reservationID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.jobs[reservationID]
	return ok
}

// Count returns the number of scheduled jobs.
func (p *Pinger) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

// StopAll cancels every job. Used on shutdown.
func (p *Pinger) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, job := range p.jobs {
		close(job.stop)
		delete(p.jobs, id)
	}
}

func (p *Pinger) run(job *pingJob) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-job.stop:
			return
		case <-ticker.C:
			if !p.tick(job) {
				p.removeSelf(job)
				return
			}
		}
	}
}

// tick performs one keep-alive call. It returns false when the job should
// stop itself: record gone, record no longer created, or the ping failed.
func (p *Pinger) tick(job *pingJob) bool {
	rec, ok := p.store.Get(job.reservationID)
	if !ok {
		p.logger.Warn("reservation not found, stopping pings",
			zap.String("reservationId", job.reservationID))
		return false
	}
	if rec.Status != models.ReservationCreated {
		p.logger.Debug("reservation no longer active, stopping pings",
			zap.String("reservationId", job.reservationID),
			zap.String("status", string(rec.Status)))
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	err := p.provider.PingReservation(ctx, job.webEntity)
	cancel()

	if err != nil {
		p.logger.Error("failed to ping reservation",
			zap.String("reservationId", job.reservationID),
			zap.Error(err))
		p.store.Update(job.reservationID, func(r *models.ReservationRecord) {
			r.Status = models.ReservationPingFailed
		})
		return false
	}

	p.store.Update(job.reservationID, func(r *models.ReservationRecord) {
		r.LastPingAt = time.Now()
	})
	p.logger.Debug("pinged reservation", zap.String("reservationId", job.reservationID))
	return true
}

// removeSelf deregisters the job after a self-stop, but only if it is still
// the registered job: a health-check restart may already have replaced it.
func (p *Pinger) removeSelf(job *pingJob) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if current, ok := p.jobs[job.reservationID]; ok && current == job {
		delete(p.jobs, job.reservationID)
	}
}
