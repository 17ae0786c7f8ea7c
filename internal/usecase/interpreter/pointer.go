package interpreter

import (
	"context"
	"fmt"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

// click emulates a full pointer interaction; some pages listen only to a
// subset of these events.
func (i *Interpreter) click(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.ClickCommand](cmd)
	if err != nil {
		return nil, err
	}

	el, err := page.Query(ctx, c.Selector)
	if err != nil {
		return nil, err
	}
	if err := el.ScrollIntoView(ctx); err != nil {
		return nil, fmt.Errorf("scroll into view: %w", err)
	}
	if err := fire(ctx, el, entity.EventMouseOver, entity.EventMouseDown); err != nil {
		return nil, err
	}
	if err := el.Click(ctx); err != nil {
		return nil, fmt.Errorf("click: %w", err)
	}
	if err := fire(ctx, el, entity.EventMouseUp); err != nil {
		return nil, err
	}

	return ClickResult{Clicked: c.Selector}, nil
}

func (i *Interpreter) clickCoords(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.ClickCoordsCommand](cmd)
	if err != nil {
		return nil, err
	}

	el, err := page.ElementAt(ctx, c.X, c.Y)
	if err != nil {
		return nil, err
	}
	info, err := el.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect element at (%d, %d): %w", c.X, c.Y, err)
	}

	if err := fire(ctx, el, entity.EventMouseDown); err != nil {
		return nil, err
	}
	if err := el.Click(ctx); err != nil {
		return nil, fmt.Errorf("click: %w", err)
	}
	if err := fire(ctx, el, entity.EventMouseUp); err != nil {
		return nil, err
	}

	return ClickCoordsResult{ClickedAt: Point{X: c.X, Y: c.Y}, Tag: info.Tag}, nil
}

// scroll is smooth; the page animates rather than jumps.
func (i *Interpreter) scroll(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.ScrollCommand](cmd)
	if err != nil {
		return nil, err
	}

	if c.Selector != "" {
		el, err := page.Query(ctx, c.Selector)
		if err != nil {
			return nil, err
		}
		if err := el.ScrollBy(ctx, c.Delta()); err != nil {
			return nil, fmt.Errorf("scroll element: %w", err)
		}
	} else if err := page.ScrollBy(ctx, c.Delta()); err != nil {
		return nil, fmt.Errorf("scroll page: %w", err)
	}

	return ScrollResult{Scrolled: ScrollInfo{Direction: string(c.Direction), Amount: c.Amount}}, nil
}

func fire(ctx context.Context, el output.Element, events ...entity.DOMEvent) error {
	for _, ev := range events {
		if err := el.Dispatch(ctx, ev); err != nil {
			return fmt.Errorf("dispatch %s: %w", ev.Name, err)
		}
	}
	return nil
}
