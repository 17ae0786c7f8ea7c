package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

// VisibleInputSelector lists the text-like controls type_nth counts. Hidden
// controls are filtered afterwards by bounding box.
const VisibleInputSelector = "input:not([type=hidden]):not([type=submit]):not([type=button])" +
	":not([type=reset]):not([type=checkbox]):not([type=radio]):not([type=file]), textarea"

type typingState int

const (
	stateLocated typingState = iota
	stateValidated
	stateCleared
	statePrimarySet
	stateVerified
	stateFallbackSet
	stateDone
)

func (s typingState) String() string {
	switch s {
	case stateLocated:
		return "located"
	case stateValidated:
		return "validated"
	case stateCleared:
		return "cleared"
	case statePrimarySet:
		return "primary_set"
	case stateVerified:
		return "verified"
	case stateFallbackSet:
		return "fallback_set"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// typing sets the value of one located input. Many UI frameworks intercept
// the instance value setter, so a plain assignment can be silently dropped;
// the primary set goes through the prototype setter and, if the value still
// does not stick, falls back to inserting text as if typed.
type typing struct {
	page  output.Page
	el    output.Element
	value string
	clear bool

	state  typingState
	debug  TypeDebug
	logger output.LoggerPort
}

func (i *Interpreter) typeText(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.TypeCommand](cmd)
	if err != nil {
		return nil, err
	}

	el, err := page.Query(ctx, c.Selector)
	if err != nil {
		return nil, err
	}

	t := &typing{page: page, el: el, value: c.Value, clear: c.Clear, logger: i.logger}
	if err := t.run(ctx, false); err != nil {
		return nil, err
	}

	return TypeResult{
		OK:       t.debug.OK,
		Typed:    typedChars(c.Value),
		Selector: c.Selector,
		Debug:    t.debug,
	}, nil
}

func (i *Interpreter) typeNth(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.TypeNthCommand](cmd)
	if err != nil {
		return nil, err
	}

	visible, err := visibleInputs(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(visible) < c.Nth {
		return nil, &entity.InputCountError{Found: len(visible), Requested: c.Nth}
	}

	t := &typing{page: page, el: visible[c.Nth-1], value: c.Value, clear: c.Clear, logger: i.logger}
	t.debug.NthFound = c.Nth
	t.debug.TotalInputs = len(visible)
	if err := t.run(ctx, true); err != nil {
		return nil, err
	}

	return TypeResult{
		OK:    t.debug.OK,
		Typed: typedChars(c.Value),
		Nth:   c.Nth,
		Debug: t.debug,
	}, nil
}

func visibleInputs(ctx context.Context, page output.Page) ([]output.Element, error) {
	all, err := page.QueryAll(ctx, VisibleInputSelector)
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}

	visible := make([]output.Element, 0, len(all))
	for _, el := range all {
		info, err := el.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("inspect input: %w", err)
		}
		if info.Visible() {
			visible = append(visible, el)
		}
	}
	return visible, nil
}

// run walks Located → Validated → Cleared → PrimarySet → Verified and, when
// verification fails, FallbackSet. The fallback result is not re-verified:
// debug.OK reflects the primary set only.
func (t *typing) run(ctx context.Context, scrollFirst bool) error {
	for t.state != stateDone {
		next, err := t.step(ctx, scrollFirst)
		if err != nil {
			return err
		}
		t.logger.Debug("Typing state", "from", t.state.String(), "to", next.String())
		t.state = next
	}
	return nil
}

func (t *typing) step(ctx context.Context, scrollFirst bool) (typingState, error) {
	switch t.state {
	case stateLocated:
		info, err := t.el.Info(ctx)
		if err != nil {
			return 0, fmt.Errorf("inspect element: %w", err)
		}
		url, _ := t.page.URL(ctx)
		t.debug.Tag = info.Tag
		t.debug.Type = info.Type
		if t.debug.Type == "" {
			t.debug.Type = "no-type"
		}
		t.debug.Name = info.Name
		t.debug.ID = info.ID
		t.debug.ReadOnly = info.ReadOnly
		t.debug.Disabled = info.Disabled
		t.debug.ValueBefore = info.Value
		t.debug.URL = url

		switch {
		case info.ReadOnly:
			return 0, t.notEditable("readOnly")
		case info.Disabled:
			return 0, t.notEditable("disabled")
		case strings.EqualFold(info.Type, "file"):
			return 0, t.notEditable("file input")
		}
		return stateValidated, nil

	case stateValidated:
		if scrollFirst {
			if err := t.el.ScrollIntoView(ctx); err != nil {
				return 0, fmt.Errorf("scroll into view: %w", err)
			}
		}
		if err := t.el.Focus(ctx); err != nil {
			return 0, fmt.Errorf("focus: %w", err)
		}
		if t.clear {
			if err := t.el.SetValue(ctx, ""); err != nil {
				return 0, fmt.Errorf("clear: %w", err)
			}
			if err := fire(ctx, t.el, entity.EventInput); err != nil {
				return 0, err
			}
		}
		return stateCleared, nil

	case stateCleared:
		if err := t.el.SetNativeValue(ctx, t.value); err != nil {
			return 0, fmt.Errorf("set value: %w", err)
		}
		if err := fire(ctx, t.el, entity.EventInput, entity.EventChange, entity.EventKeyUp); err != nil {
			return 0, err
		}
		return statePrimarySet, nil

	case statePrimarySet:
		after, err := t.el.Value(ctx)
		if err != nil {
			return 0, fmt.Errorf("read value: %w", err)
		}
		t.debug.ValueAfter = after
		t.debug.OK = after == t.value
		return stateVerified, nil

	case stateVerified:
		if t.debug.OK {
			return stateDone, nil
		}
		if err := t.el.Focus(ctx); err != nil {
			return 0, fmt.Errorf("refocus: %w", err)
		}
		if err := t.el.SelectAll(ctx); err != nil {
			return 0, fmt.Errorf("select all: %w", err)
		}
		if err := t.page.InsertText(ctx, t.value); err != nil {
			return 0, fmt.Errorf("insert text: %w", err)
		}
		return stateFallbackSet, nil

	case stateFallbackSet:
		if after, err := t.el.Value(ctx); err == nil {
			t.debug.ValueAfter = after
		}
		return stateDone, nil
	}

	return 0, fmt.Errorf("typing: unexpected state %s", t.state)
}

func (t *typing) notEditable(reason string) error {
	data, _ := json.Marshal(t.debug)
	return fmt.Errorf("%w: element is %s. Debug: %s", entity.ErrNotEditable, reason, data)
}

func typedChars(value string) string {
	return fmt.Sprintf("%d chars", utf8.RuneCountInString(value))
}
