package interpreter

import (
	"context"
	"fmt"
	"runtime/debug"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

type handlerFunc func(ctx context.Context, page output.Page, cmd entity.Command) (any, error)

// Interpreter executes one command against a live page. It only talks to the
// page through output.Page, so it does not know which browser hosts it.
type Interpreter struct {
	handlers map[entity.CommandType]handlerFunc
	logger   output.LoggerPort
}

func New(logger output.LoggerPort) *Interpreter {
	i := &Interpreter{
		handlers: make(map[entity.CommandType]handlerFunc),
		logger:   logger,
	}

	i.register(entity.CommandClick, i.click)
	i.register(entity.CommandClickCoords, i.clickCoords)
	i.register(entity.CommandScroll, i.scroll)
	i.register(entity.CommandTypeText, i.typeText)
	i.register(entity.CommandTypeNth, i.typeNth)
	i.register(entity.CommandCheckbox, i.checkbox)
	i.register(entity.CommandRadio, i.radio)
	i.register(entity.CommandSelect, i.selectOption)
	i.register(entity.CommandNavigate, i.navigate)
	i.register(entity.CommandEval, i.eval)
	i.register(entity.CommandExtract, i.extract)
	i.register(entity.CommandScreenshot, i.screenshot)

	return i
}

func (i *Interpreter) register(t entity.CommandType, h handlerFunc) {
	i.handlers[t] = h
}

// Supports reports whether t has a handler.
func (i *Interpreter) Supports(t entity.CommandType) bool {
	_, ok := i.handlers[t]
	return ok
}

// Run never fails: handler errors and panics come back as entity.ErrorValue.
func (i *Interpreter) Run(ctx context.Context, page output.Page, cmd entity.Command) (result any) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Command handler panicked", "panic", r, "stack", string(debug.Stack()))
			result = entity.ErrorValue{Error: fmt.Sprint(r)}
		}
	}()

	if cmd == nil {
		return entity.ErrorValue{Error: entity.ErrInvalidCommand.Error()}
	}

	h, ok := i.handlers[cmd.Type()]
	if !ok {
		return entity.ErrorValue{Error: fmt.Sprintf("%s: %s", entity.ErrUnsupportedCommand, cmd.Type())}
	}

	v, err := h(ctx, page, cmd)
	if err != nil {
		return entity.ErrorValue{Error: err.Error()}
	}
	return v
}

// as narrows cmd to the concrete variant a handler was registered for.
func as[T entity.Command](cmd entity.Command) (T, error) {
	c, ok := cmd.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s handler got %T", entity.ErrInvalidCommand, zero.Type(), cmd)
	}
	return c, nil
}
