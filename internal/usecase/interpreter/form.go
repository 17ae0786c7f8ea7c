package interpreter

import (
	"context"
	"fmt"
	"strings"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

// checkbox toggles through a real click so framework listeners fire; the
// checked property is never written directly.
func (i *Interpreter) checkbox(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.CheckboxCommand](cmd)
	if err != nil {
		return nil, err
	}

	el, err := queryKind(ctx, page, c.Selector, "checkbox")
	if err != nil {
		return nil, err
	}

	current, err := el.Checked(ctx)
	if err != nil {
		return nil, fmt.Errorf("read checked: %w", err)
	}
	desired := !current
	if c.Checked != nil {
		desired = *c.Checked
	}
	if current != desired {
		if err := el.Click(ctx); err != nil {
			return nil, fmt.Errorf("click: %w", err)
		}
	}

	checked, err := el.Checked(ctx)
	if err != nil {
		return nil, fmt.Errorf("read checked: %w", err)
	}
	return CheckboxResult{Checkbox: c.Selector, Checked: checked}, nil
}

// radio is idempotent: a checked radio is left alone.
func (i *Interpreter) radio(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.RadioCommand](cmd)
	if err != nil {
		return nil, err
	}

	el, err := queryKind(ctx, page, c.Selector, "radio")
	if err != nil {
		return nil, err
	}

	checked, err := el.Checked(ctx)
	if err != nil {
		return nil, fmt.Errorf("read checked: %w", err)
	}
	if !checked {
		if err := el.Click(ctx); err != nil {
			return nil, fmt.Errorf("click: %w", err)
		}
		if checked, err = el.Checked(ctx); err != nil {
			return nil, fmt.Errorf("read checked: %w", err)
		}
	}
	return RadioResult{Radio: c.Selector, Checked: checked}, nil
}

// selectOption matches on option value first and on visible text second.
func (i *Interpreter) selectOption(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.SelectCommand](cmd)
	if err != nil {
		return nil, err
	}

	el, err := page.Query(ctx, c.Selector)
	if err != nil {
		return nil, err
	}
	info, err := el.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect element: %w", err)
	}
	if !strings.EqualFold(info.Tag, "select") {
		return nil, fmt.Errorf("%w: element is not a <select>", entity.ErrWrongElementKind)
	}

	options, err := el.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	index := matchOption(options, c.Value)
	if index < 0 {
		return nil, fmt.Errorf("%w: %q in %s", entity.ErrOptionNotFound, c.Value, c.Selector)
	}

	if err := el.SelectOption(ctx, index); err != nil {
		return nil, fmt.Errorf("select option: %w", err)
	}
	if err := fire(ctx, el, entity.EventChange); err != nil {
		return nil, err
	}
	return SelectResult{Selected: c.Value, Selector: c.Selector}, nil
}

func matchOption(options []entity.SelectOption, want string) int {
	for i, o := range options {
		if o.Value == want {
			return i
		}
	}
	for i, o := range options {
		if o.Text == want {
			return i
		}
	}
	return -1
}

func queryKind(ctx context.Context, page output.Page, selector, kind string) (output.Element, error) {
	el, err := page.Query(ctx, selector)
	if err != nil {
		return nil, err
	}
	info, err := el.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect element: %w", err)
	}
	if !strings.EqualFold(info.Type, kind) {
		article := "a"
		if kind == "radio" {
			kind = "radio button"
		}
		return nil, fmt.Errorf("%w: element is not %s %s", entity.ErrWrongElementKind, article, kind)
	}
	return el, nil
}
