package scheduler

import (
	"context"
	"time"

	"caseflow_backend/platform/config"
	"caseflow_backend/platform/logger"
)

const (
	defaultSweepInterval = time.Hour
	defaultStaleAge      = 72 * time.Hour
)

// StaleQuerySweeper periodically enqueues a stale query sweep. It runs inside
// the API process; the worker process picks the task up from the queue.
type StaleQuerySweeper struct {
	client   *Client
	log      *logger.Logger
	interval time.Duration
	staleAge time.Duration
}

func NewStaleQuerySweeper(client *Client, cfg config.SchedulerConfig, log *logger.Logger) *StaleQuerySweeper {
	interval := cfg.GetStaleSweepInterval()
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	staleAge := cfg.GetStaleQueryAge()
	if staleAge <= 0 {
		staleAge = defaultStaleAge
	}

	return &StaleQuerySweeper{
		client:   client,
		log:      log,
		interval: interval,
		staleAge: staleAge,
	}
}

func (s *StaleQuerySweeper) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	s.enqueue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueue(ctx)
		}
	}
}

func (s *StaleQuerySweeper) enqueue(ctx context.Context) {
	cutoff := time.Now().Add(-s.staleAge)
	if err := s.client.EnqueueStaleQuerySweep(ctx, cutoff); err != nil {
		s.log.Warn("stale query sweep enqueue failed", "error", err)
	}
}
