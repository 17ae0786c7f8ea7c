package interpreter

import (
	"context"
	"encoding/base64"
	"fmt"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
	"brc-agent/internal/infrastructure/browser/rodwrapper"
)

// navigate does not wait for the load: the navigation may tear the context down.
func (i *Interpreter) navigate(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.NavigateCommand](cmd)
	if err != nil {
		return nil, err
	}
	if err := page.Navigate(ctx, c.URL); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	return NavigateResult{NavigatingTo: c.URL}, nil
}

// eval runs caller-supplied code in the page. Anyone who can queue commands
// for this agent is trusted with the user's browser session.
func (i *Interpreter) eval(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.EvalCommand](cmd)
	if err != nil {
		return nil, err
	}
	out, err := page.Evaluate(ctx, c.Code)
	if err != nil {
		return nil, err
	}
	return EvalResult{EvalResult: out}, nil
}

func (i *Interpreter) extract(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.ExtractCommand](cmd)
	if err != nil {
		return nil, err
	}

	var raw string
	if c.Selector != "" {
		el, err := page.Query(ctx, c.Selector)
		if err != nil {
			return nil, err
		}
		if raw, err = el.HTML(ctx); err != nil {
			return nil, fmt.Errorf("read element html: %w", err)
		}
	} else if raw, err = page.HTML(ctx); err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}

	cfg := rodwrapper.DefaultCleanConfig
	cfg.MaxOutputSize = c.MaxChars
	cleaned := rodwrapper.CleanHTML(raw, &cfg)
	url, _ := page.URL(ctx)

	return ExtractResult{
		URL:       url,
		Selector:  c.Selector,
		HTML:      cleaned.HTML,
		Truncated: cleaned.Truncated,
	}, nil
}

func (i *Interpreter) screenshot(ctx context.Context, page output.Page, cmd entity.Command) (any, error) {
	c, err := as[entity.ScreenshotCommand](cmd)
	if err != nil {
		return nil, err
	}
	shot, err := page.Screenshot(ctx, c.MaxWidth, c.Quality)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return ScreenshotResult{
		Format: shot.Format,
		Width:  shot.Width,
		Height: shot.Height,
		Data:   base64.StdEncoding.EncodeToString(shot.Data),
	}, nil
}
