package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"

	"golang.org/x/sync/semaphore"
)

var _ input.Poller = (*UseCase)(nil)

// reportTimeout bounds a report sent after the cycle's context is gone.
const reportTimeout = 10 * time.Second

// UseCase runs poll cycles: fetch the queue, then dispatch and report each
// envelope strictly in order. At most one cycle runs at a time.
type UseCase struct {
	store      output.SettingsStore
	server     output.CommandServer
	dispatcher input.Dispatcher
	reporter   input.Reporter
	logger     output.LoggerPort

	cycle *semaphore.Weighted
}

func New(
	store output.SettingsStore,
	server output.CommandServer,
	dispatcher input.Dispatcher,
	reporter input.Reporter,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		store:      store,
		server:     server,
		dispatcher: dispatcher,
		reporter:   reporter,
		logger:     logger,
		cycle:      semaphore.NewWeighted(1),
	}
}

// Wake runs a cycle unless one is in flight. A coalesced wake returns
// entity.ErrCycleInProgress immediately.
func (uc *UseCase) Wake(ctx context.Context, reason string) error {
	if !uc.cycle.TryAcquire(1) {
		uc.logger.Debug("Poll cycle already running, wake coalesced", "reason", reason)
		return entity.ErrCycleInProgress
	}
	defer uc.cycle.Release(1)

	uc.logger.Debug("Wake", "reason", reason)
	_, err := uc.run(ctx)
	return err
}

// PollOnce waits for any running cycle to finish and then runs one.
func (uc *UseCase) PollOnce(ctx context.Context) (input.CycleStats, error) {
	if err := uc.cycle.Acquire(ctx, 1); err != nil {
		return input.CycleStats{}, err
	}
	defer uc.cycle.Release(1)

	return uc.run(ctx)
}

func (uc *UseCase) run(ctx context.Context) (input.CycleStats, error) {
	var stats input.CycleStats

	settings, err := uc.store.Get(ctx)
	if err != nil {
		return stats, fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Ready(); err != nil {
		uc.logger.Debug("Skipping poll cycle", "reason", err)
		return stats, err
	}

	start := time.Now()
	envelopes, err := uc.server.Poll(ctx, settings)
	if err != nil {
		uc.logger.Warn("Poll failed", "error", err)
		return stats, fmt.Errorf("poll: %w", err)
	}
	stats.Fetched = len(envelopes)
	if len(envelopes) == 0 {
		return stats, nil
	}
	uc.logger.Info("Fetched commands", "count", len(envelopes))

	for i, env := range envelopes {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("Cycle cancelled, leaving commands for redelivery", "remaining", len(envelopes)-i)
			return stats, err
		}

		outcome := uc.dispatcher.Dispatch(ctx, env)
		if outcome.OK() {
			stats.Executed++
		} else {
			stats.Failed++
		}
		// The command may already have taken effect in the page, so its
		// outcome is reported even if the cycle was cancelled meanwhile.
		reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
		uc.reporter.Report(reportCtx, settings, env.ID, outcome)
		cancel()
	}

	uc.logger.Info("Poll cycle finished",
		"executed", stats.Executed,
		"failed", stats.Failed,
		"duration", time.Since(start).String(),
	)
	return stats, nil
}

// Skipped reports whether err means a cycle did not run for a benign reason.
func Skipped(err error) bool {
	return errors.Is(err, entity.ErrCycleInProgress) ||
		errors.Is(err, entity.ErrIncompleteSettings) ||
		errors.Is(err, entity.ErrNotRegistered)
}
