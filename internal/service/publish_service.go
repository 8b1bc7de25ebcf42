// Package service contains the service layer for the Petition API
package service

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/repository"
	"github.com/saveourgreen/petitionapi/pkg/utils/zaplogger"
	"gorm.io/gorm"
)

// RedisSignatureChannel is the Redis channel live count consumers subscribe to
var RedisSignatureChannel = "CH:PETITION:SIGNATURES"

// PublishService relays Postgres NOTIFY payloads from signature inserts to
// a Redis channel, so the page can push the running count without polling.
type PublishService struct {
	db          *gorm.DB
	redisClient *redis.Client
	pgConnStr   string
}

// NewPublishService creates a new PublishService
func NewPublishService(db *gorm.DB, redisClient *redis.Client, pgConnStr string) *PublishService {
	return &PublishService{
		db:          db,
		redisClient: redisClient,
		pgConnStr:   pgConnStr,
	}
}

// PublishSignaturesToRedisChannel listens on the signature NOTIFY channel
// and republishes every payload to Redis. Runs until the process exits.
func (s *PublishService) PublishSignaturesToRedisChannel() {
	listener := pq.NewListener(s.pgConnStr, 10*time.Second, time.Minute, nil)
	err := listener.Listen(repository.SignatureNotifyChannel)
	if err != nil {
		zaplogger.Error("failed to listen on signature channel", zaplogger.Fields{"error": err.Error()})
		return
	}

	zaplogger.Info("publishing signature events", zaplogger.Fields{
		"pg_channel":    repository.SignatureNotifyChannel,
		"redis_channel": RedisSignatureChannel,
	})

	ctx := context.Background()

	for {
		select {
		case n := <-listener.Notify:
			if n == nil {
				// Reconnect notification from the listener.
				continue
			}
			err := s.redisClient.Publish(ctx, RedisSignatureChannel, n.Extra).Err()
			if err != nil {
				zaplogger.Error("failed to publish to Redis", zaplogger.Fields{"error": err.Error()})
			}
		case <-time.After(90 * time.Second):
			go func() {
				err := listener.Ping()
				if err != nil {
					zaplogger.Error("error pinging PostgreSQL", zaplogger.Fields{"error": err.Error()})
				}
			}()
		}
	}
}
