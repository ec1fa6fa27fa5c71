// File: internal/jobs/session_purge.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/session"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionPurgeJob periodically deletes expired session rows. Session expiry
// is enforced lazily at resolve time; this just keeps the table from growing
// without bound.
type SessionPurgeJob struct {
	sessions      *session.Manager
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewSessionPurgeJob creates a new SessionPurgeJob.
func NewSessionPurgeJob(sessions *session.Manager, logger *zap.Logger, cfg *config.Config) *SessionPurgeJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))
	return &SessionPurgeJob{
		sessions:      sessions,
		logger:        logger.Named("SessionPurgeJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *SessionPurgeJob) SetupAndStart() error {
	jobSpec := j.cfg.SessionPurgeSchedule
	if jobSpec == "" {
		j.logger.Warn("Session purge schedule not defined (SESSION_PURGE_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule session purge job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Session purge job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *SessionPurgeJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("Session purge run failed", zap.Error(err))
		return
	}
	j.logger.Info("Session purge run completed", zap.Int64("sessions_purged", purged))
}

// Stop gracefully stops the cron scheduler.
func (j *SessionPurgeJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping session purge scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Session purge scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Session purge scheduler stop timed out.")
	}
}

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
