package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/domain/entity"
	"brc-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePoller struct {
	mu      sync.Mutex
	reasons []string
	err     error
}

func (p *fakePoller) PollOnce(context.Context) (input.CycleStats, error) {
	return input.CycleStats{}, nil
}

func (p *fakePoller) Wake(_ context.Context, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reasons = append(p.reasons, reason)
	return p.err
}

func (p *fakePoller) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.reasons...)
}

func count(reasons []string, want string) int {
	n := 0
	for _, r := range reasons {
		if r == want {
			n++
		}
	}
	return n
}

func startScheduler(t *testing.T, s *Scheduler) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	}
}

func TestScheduler_WakesOnStartAndTick(t *testing.T) {
	p := &fakePoller{}
	stop := startScheduler(t, New(p, 20*time.Millisecond, logger.NewNop()))

	require.Eventually(t, func() bool {
		return count(p.seen(), "timer") >= 2
	}, 2*time.Second, 5*time.Millisecond)
	stop()

	reasons := p.seen()
	assert.Equal(t, "start", reasons[0])
}

func TestScheduler_Trigger(t *testing.T) {
	p := &fakePoller{}
	s := New(p, time.Hour, logger.NewNop())
	stop := startScheduler(t, s)
	defer stop()

	require.Eventually(t, func() bool { return count(p.seen(), "start") == 1 }, time.Second, 5*time.Millisecond)

	s.Trigger("registered")

	require.Eventually(t, func() bool { return count(p.seen(), "registered") == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, count(p.seen(), "timer"))
}

func TestScheduler_TriggerDoesNotBlock(t *testing.T) {
	s := New(&fakePoller{}, time.Hour, logger.NewNop())

	done := make(chan struct{})
	go func() {
		s.Trigger("a")
		s.Trigger("b")
		s.Trigger("c")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Trigger blocked without a running scheduler")
	}
	assert.Len(t, s.trigger, 1)
}

func TestScheduler_SurvivesPollErrors(t *testing.T) {
	p := &fakePoller{err: errors.New("connection refused")}
	stop := startScheduler(t, New(p, 10*time.Millisecond, logger.NewNop()))

	require.Eventually(t, func() bool { return len(p.seen()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	stop()
}

func TestScheduler_IgnoresCoalescedWakes(t *testing.T) {
	p := &fakePoller{err: entity.ErrCycleInProgress}
	stop := startScheduler(t, New(p, 10*time.Millisecond, logger.NewNop()))

	require.Eventually(t, func() bool { return len(p.seen()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	stop()
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(&fakePoller{}, 0, logger.NewNop())

	assert.Equal(t, DefaultInterval, s.interval)
}
