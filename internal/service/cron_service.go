// Package service contains the service layer for the Petition API
package service

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/saveourgreen/petitionapi/pkg/utils/zaplogger"
	"gorm.io/gorm"
)

// CronService is the service for the maintenance jobs
type CronService struct {
	c                *cron.Cron
	authService      *AuthService
	signatureService *SignatureService
}

// NewCronService creates a new CronService
func NewCronService(db *gorm.DB, redisClient *redis.Client) *CronService {
	return &CronService{
		c:                cron.New(),
		authService:      NewAuthService(db, redisClient),
		signatureService: NewSignatureService(db, redisClient),
	}
}

// Start starts the cron service
func (cs *CronService) Start() {
	zaplogger.Info("Initializing CronService")

	// ------------------------------------------------------------
	// SCHEDULED jobs
	// ------------------------------------------------------------
	cs.addScheduledJob("Session CLEANUP Job", cs.sessionCleanupJob, "0 * * * *")         // Hourly
	cs.addScheduledJob("Signature Count REFRESH Job", cs.countRefreshJob, "*/5 * * * *") // Every 5 minutes

	// ------------------------------------------------------------
	// STARTUP jobs
	// ------------------------------------------------------------
	cs.addStartupJob("Signature Count REFRESH Job", cs.countRefreshJob, 2*time.Second)
	cs.addStartupJob("Session CLEANUP Job", cs.sessionCleanupJob, 5*time.Second)

	cs.c.Start()
}

// addStartupJob adds a startup job to the cron service
func (cs *CronService) addStartupJob(name string, job func(), delay time.Duration) {
	go func() {
		time.Sleep(delay)
		zaplogger.Info("STARTED STARTUP job", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED STARTUP job", zaplogger.Fields{
			"job": name,
		})
	}()
	zaplogger.Info("QUEUED STARTUP job", zaplogger.Fields{
		"job": name,
	})
}

// addScheduledJob adds a scheduled job to the cron service
func (cs *CronService) addScheduledJob(name string, job func(), schedule string) {
	_, err := cs.c.AddFunc(schedule, func() {
		zaplogger.Info("STARTED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
	})
	if err != nil {
		zaplogger.Error("FAILED TO QUEUE SCHEDULED JOB", zaplogger.Fields{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info("QUEUED SCHEDULED job", zaplogger.Fields{
		"job": name,
	})
}

// sessionCleanupJob removes expired admin sessions out-of-band so the
// request path never pays for the sweep
func (cs *CronService) sessionCleanupJob() {
	cs.authService.CleanupExpiredSessions()
}

// countRefreshJob recounts signatures into the Redis cache
func (cs *CronService) countRefreshJob() {
	count, err := cs.signatureService.RefreshSignatureCount()
	if err != nil {
		zaplogger.Error("failed to refresh signature count", zaplogger.Fields{"error": err.Error()})
		return
	}
	zaplogger.Info("signature count refreshed", zaplogger.Fields{"count": count})
}
