package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

var _ input.Dispatcher = (*UseCase)(nil)

// TargetResolver picks the tab a command runs in.
type TargetResolver interface {
	Resolve(ctx context.Context, cmd entity.Command) (entity.TargetContext, error)
}

// Executor runs one command against a page. It returns entity.ErrorValue
// instead of failing.
type Executor interface {
	Run(ctx context.Context, page output.Page, cmd entity.Command) any
}

type UseCase struct {
	resolver TargetResolver
	host     output.ContextHost
	executor Executor
	logger   output.LoggerPort
}

func New(resolver TargetResolver, host output.ContextHost, executor Executor, logger output.LoggerPort) *UseCase {
	return &UseCase{
		resolver: resolver,
		host:     host,
		executor: executor,
		logger:   logger,
	}
}

// Dispatch turns an envelope into exactly one outcome. It never panics.
func (uc *UseCase) Dispatch(ctx context.Context, env entity.CommandEnvelope) (outcome entity.ExecutionOutcome) {
	log := uc.logger.WithFields(map[string]any{"command_id": env.ID, "type": env.TypeName()})

	defer func() {
		if r := recover(); r != nil {
			log.Error("Dispatch panicked", "panic", r, "stack", string(debug.Stack()))
			outcome = entity.Failed(fmt.Errorf("internal error: %v", r))
		}
	}()

	if env.Err != nil {
		log.Warn("Rejecting undecodable command", "error", env.Err)
		return entity.Failed(env.Err)
	}
	if env.Command == nil {
		return entity.Failed(entity.ErrInvalidCommand)
	}

	target, err := uc.resolver.Resolve(ctx, env.Command)
	if err != nil {
		log.Warn("Target resolution failed", "error", err)
		return entity.Failed(err)
	}
	log = log.WithField("tab", target.ID)

	v, err := uc.host.RunInContext(ctx, target, func(ctx context.Context, page output.Page) (any, error) {
		return uc.executor.Run(ctx, page, env.Command), nil
	})
	if err != nil {
		log.Warn("Execution in tab failed", "error", err)
		return entity.Failed(err)
	}

	var ev entity.ErrorValue
	switch r := v.(type) {
	case entity.ErrorValue:
		ev = r
	case *entity.ErrorValue:
		if r != nil {
			ev = *r
		}
	}
	if ev.Error != "" {
		log.Info("Command failed", "error", ev.Error)
		return entity.Failed(errors.New(ev.Error))
	}

	result, err := encodeResult(v)
	if err != nil {
		log.Warn("Result not serializable", "error", err)
		return entity.Failed(err)
	}
	log.Info("Command executed")
	return entity.Executed(result)
}

func encodeResult(v any) (string, error) {
	if v == nil {
		return "ok", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data), nil
}
