package scheduler

import (
	"context"
	"errors"
	"time"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

const DefaultInterval = 6 * time.Second

// Scheduler turns timer ticks, the startup signal and manual triggers into
// poller wakes. Wakes are delivered one at a time; a trigger that arrives
// while one is pending is merged into it.
type Scheduler struct {
	poller   input.Poller
	interval time.Duration
	logger   output.LoggerPort
	trigger  chan string
}

func New(poller input.Poller, interval time.Duration, logger output.LoggerPort) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		poller:   poller,
		interval: interval,
		logger:   logger,
		trigger:  make(chan string, 1),
	}
}

// Trigger requests a wake without blocking.
func (s *Scheduler) Trigger(reason string) {
	select {
	case s.trigger <- reason:
	default:
		s.logger.Debug("Wake already pending", "reason", reason)
	}
}

// Run wakes the poller immediately and then on every tick until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler started", "interval", s.interval.String())
	s.wake(ctx, "start")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return nil
		case <-ticker.C:
			s.wake(ctx, "timer")
		case reason := <-s.trigger:
			s.wake(ctx, reason)
		}
	}
}

func (s *Scheduler) wake(ctx context.Context, reason string) {
	err := s.poller.Wake(ctx, reason)
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrCycleInProgress),
		errors.Is(err, entity.ErrIncompleteSettings),
		errors.Is(err, entity.ErrNotRegistered),
		errors.Is(err, context.Canceled):
		// logged by the poller
	default:
		s.logger.Warn("Poll cycle failed", "reason", reason, "error", err)
	}
}
