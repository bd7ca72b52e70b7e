package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"visbridge/config"
)

// AuditCacheClient is the Redis client backing the reservation audit trail.
var AuditCacheClient *redis.Client

// InitAuditCache initializes the Redis client for the audit trail.
func InitAuditCache() {
	AuditCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuditDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AuditCacheClient.Ping(ctx).Result(); err != nil {
		log.Printf("Redis (audit) unavailable, audit trail disabled: %v", err)
		AuditCacheClient = nil
	}
}

// GetAuditCacheClient returns the audit trail client, or nil when Redis is
// unavailable.
func GetAuditCacheClient() *redis.Client {
	return AuditCacheClient
}
