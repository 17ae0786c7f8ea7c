package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
	"brc-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	target entity.TargetContext
	err    error
	calls  int
}

func (r *fakeResolver) Resolve(context.Context, entity.Command) (entity.TargetContext, error) {
	r.calls++
	return r.target, r.err
}

type fakeHost struct {
	err error
	ran []entity.TargetContext
}

func (h *fakeHost) ListContexts(context.Context, entity.ContextFilter) ([]entity.TargetContext, error) {
	return nil, nil
}

func (h *fakeHost) RunInContext(ctx context.Context, target entity.TargetContext, proc output.Procedure) (any, error) {
	if h.err != nil {
		return nil, h.err
	}
	h.ran = append(h.ran, target)
	return proc(ctx, nil)
}

type executorFunc func(cmd entity.Command) any

func (f executorFunc) Run(_ context.Context, _ output.Page, cmd entity.Command) any {
	return f(cmd)
}

func returning(v any) executorFunc {
	return func(entity.Command) any { return v }
}

func envelope(cmd entity.Command) entity.CommandEnvelope {
	return entity.CommandEnvelope{ID: 7, Command: cmd}
}

func newUseCase(r *fakeResolver, h *fakeHost, e Executor) *UseCase {
	return New(r, h, e, logger.NewNop())
}

func TestDispatch_Success(t *testing.T) {
	host := &fakeHost{}
	tab := entity.TargetContext{ID: "t1"}
	uc := newUseCase(&fakeResolver{target: tab}, host, returning(map[string]string{"clicked": "#go"}))

	out := uc.Dispatch(context.Background(), envelope(entity.ClickCommand{Selector: "#go"}))

	assert.Equal(t, entity.Executed(`{"clicked":"#go"}`), out)
	assert.Equal(t, []entity.TargetContext{tab}, host.ran)
}

func TestDispatch_NilResultIsOK(t *testing.T) {
	uc := newUseCase(&fakeResolver{}, &fakeHost{}, returning(nil))

	out := uc.Dispatch(context.Background(), envelope(entity.NavigateCommand{URL: "https://a.test/"}))

	assert.Equal(t, entity.ExecutionOutcome{Status: entity.StatusExecuted, Result: "ok"}, out)
}

func TestDispatch_Failures(t *testing.T) {
	tests := []struct {
		name     string
		env      entity.CommandEnvelope
		resolver *fakeResolver
		host     *fakeHost
		exec     Executor
		want     string
	}{
		{
			name:     "no matching tab",
			env:      envelope(entity.ClickCommand{Selector: "#go"}),
			resolver: &fakeResolver{err: entity.ErrNoMatchingTarget},
			host:     &fakeHost{},
			exec:     returning(nil),
			want:     "No matching tab found.",
		},
		{
			name:     "host failure",
			env:      envelope(entity.ClickCommand{Selector: "#go"}),
			resolver: &fakeResolver{},
			host:     &fakeHost{err: errors.New("target closed")},
			exec:     returning(nil),
			want:     "target closed",
		},
		{
			name:     "error as data",
			env:      envelope(entity.SelectCommand{Selector: "#s", Value: "x"}),
			resolver: &fakeResolver{},
			host:     &fakeHost{},
			exec:     returning(entity.ErrorValue{Error: `option not found: "x" in #s`}),
			want:     `option not found: "x" in #s`,
		},
		{
			name:     "error as data pointer",
			env:      envelope(entity.EvalCommand{Code: "x"}),
			resolver: &fakeResolver{},
			host:     &fakeHost{},
			exec:     returning(&entity.ErrorValue{Error: "boom"}),
			want:     "boom",
		},
		{
			name:     "undecodable command",
			env:      entity.CommandEnvelope{ID: 3, Err: fmt.Errorf("%w: click requires selector", entity.ErrInvalidCommand)},
			resolver: &fakeResolver{},
			host:     &fakeHost{},
			exec:     returning(nil),
			want:     "invalid command: click requires selector",
		},
		{
			name:     "unserializable result",
			env:      envelope(entity.EvalCommand{Code: "x"}),
			resolver: &fakeResolver{},
			host:     &fakeHost{},
			exec:     returning(func() {}),
			want:     "encode result: json: unsupported type: func()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(tt.resolver, tt.host, tt.exec)

			out := uc.Dispatch(context.Background(), tt.env)

			assert.Equal(t, entity.StatusError, out.Status)
			assert.Equal(t, tt.want, out.Result)
		})
	}
}

func TestDispatch_DecodeErrorSkipsResolution(t *testing.T) {
	r := &fakeResolver{}
	uc := newUseCase(r, &fakeHost{}, returning(nil))

	uc.Dispatch(context.Background(), entity.CommandEnvelope{ID: 1, Err: entity.ErrInvalidCommand})

	assert.Zero(t, r.calls)
}

func TestDispatch_RecoversPanics(t *testing.T) {
	uc := newUseCase(&fakeResolver{}, &fakeHost{}, executorFunc(func(entity.Command) any {
		panic("kaboom")
	}))

	var out entity.ExecutionOutcome
	require.NotPanics(t, func() {
		out = uc.Dispatch(context.Background(), envelope(entity.EvalCommand{Code: "x"}))
	})

	assert.Equal(t, entity.StatusError, out.Status)
	assert.Contains(t, out.Result, "kaboom")
}
