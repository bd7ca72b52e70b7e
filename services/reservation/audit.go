package reservation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"visbridge/models"
)

// AuditEvent is one entry in the reservation lifecycle trail.
type AuditEvent struct {
	ID            string                   `json:"id"`
	ReservationID string                   `json:"reservationId"`
	Event         string                   `json:"event"`
	Status        models.ReservationStatus `json:"status,omitempty"`
	Detail        string                   `json:"detail,omitempty"`
	At            time.Time                `json:"at"`
}

// AuditTrail records lifecycle events for operators. Writes are best effort:
// the trail is observability, never authoritative state, and a failing trail
// must not fail a reservation operation.
type AuditTrail interface {
	Record(ctx context.Context, event AuditEvent)
	Recent(ctx context.Context, n int64) ([]AuditEvent, error)
}

const (
	auditKey       = "visbridge:reservation-audit"
	auditMaxEvents = 500
	auditTTL       = 24 * time.Hour
)

// RedisAuditTrail keeps a capped list of recent events in Redis.
type RedisAuditTrail struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisAuditTrail(client *redis.Client, logger *zap.Logger) *RedisAuditTrail {
	return &RedisAuditTrail{client: client, logger: logger}
}

func (t *RedisAuditTrail) Record(ctx context.Context, event AuditEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		t.logger.Warn("failed to encode audit event", zap.Error(err))
		return
	}

	pipe := t.client.Pipeline()
	pipe.LPush(ctx, auditKey, data)
	pipe.LTrim(ctx, auditKey, 0, auditMaxEvents-1)
	pipe.Expire(ctx, auditKey, auditTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("failed to record audit event",
			zap.String("reservationId", event.ReservationID),
			zap.Error(err))
	}
}

func (t *RedisAuditTrail) Recent(ctx context.Context, n int64) ([]AuditEvent, error) {
	if n <= 0 || n > auditMaxEvents {
		n = auditMaxEvents
	}
	raw, err := t.client.LRange(ctx, auditKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]AuditEvent, 0, len(raw))
	for _, item := range raw {
		var event AuditEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// NopAuditTrail discards events. Used when Redis is not configured and in
// tests.
type NopAuditTrail struct{}

func (NopAuditTrail) Record(context.Context, AuditEvent) {}

func (NopAuditTrail) Recent(context.Context, int64) ([]AuditEvent, error) {
	return nil, nil
}

// recordAudit is the orchestrator-side helper; it never blocks an operation
// on the trail.
func (s *DefaultReservationService) recordAudit(reservationID, event string, status models.ReservationStatus, detail string) {
	if s.Audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Audit.Record(ctx, AuditEvent{
		ID:            uuid.New().String(),
		ReservationID: reservationID,
		Event:         event,
		Status:        status,
		Detail:        detail,
		At:            s.now(),
	})
}
