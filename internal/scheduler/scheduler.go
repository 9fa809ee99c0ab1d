package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RetryBatchSize caps how many pending contact messages one run re-sends
const RetryBatchSize = 50

// runTimeout bounds a single retry run
const runTimeout = 2 * time.Minute

// Retrier re-sends contact notifications that failed on submission
type Retrier interface {
	RetryPendingNotifications(ctx context.Context, limit int) (int, error)
}

// Scheduler runs the notification retry job on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	retrier Retrier
	logger  *logrus.Logger
}

// NewScheduler registers the retry job. schedule accepts standard cron
// expressions as well as descriptors like "@every 5m".
func NewScheduler(schedule string, retrier Retrier, logger *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		retrier: retrier,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid retry schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Notification retry scheduler started")
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Notification retry scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Notification retry job still running at shutdown")
	}
}

// RunOnce performs a single retry pass
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	sent, err := s.retrier.RetryPendingNotifications(ctx, RetryBatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Notification retry failed")
		return
	}
	if sent > 0 {
		s.logger.Infof("Re-sent %d pending contact notifications", sent)
	}
}
