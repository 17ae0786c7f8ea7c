package input

import "context"

type CycleStats struct {
	Fetched  int
	Executed int
	Failed   int
}

type Poller interface {
	// PollOnce fetches the queue and dispatches every envelope in order.
	PollOnce(ctx context.Context) (CycleStats, error)
	// Wake runs PollOnce unless a cycle is already running, in which case it
	// returns entity.ErrCycleInProgress without waiting.
	Wake(ctx context.Context, reason string) error
}
