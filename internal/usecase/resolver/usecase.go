package resolver

import (
	"context"
	"fmt"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

// UseCase picks the tab a command runs in. Tabs are listed fresh on every
// call; nothing is cached between envelopes.
type UseCase struct {
	host   output.ContextHost
	logger output.LoggerPort
}

func New(host output.ContextHost, logger output.LoggerPort) *UseCase {
	return &UseCase{host: host, logger: logger}
}

// Resolve applies the locators in order of precedence: tab_url, then
// tab_index, then the active tab. The first match wins.
func (uc *UseCase) Resolve(ctx context.Context, cmd entity.Command) (entity.TargetContext, error) {
	loc := cmd.Locator()

	switch {
	case loc.TabURL != "":
		contexts, err := uc.host.ListContexts(ctx, entity.ContextFilter{URLPattern: loc.TabURL})
		if err != nil {
			return entity.TargetContext{}, fmt.Errorf("list tabs matching %q: %w", loc.TabURL, err)
		}
		return uc.first(contexts, "tab_url", loc.TabURL)

	case loc.TabIndex != nil:
		contexts, err := uc.host.ListContexts(ctx, entity.ContextFilter{})
		if err != nil {
			return entity.TargetContext{}, fmt.Errorf("list tabs: %w", err)
		}
		for _, c := range contexts {
			if c.Index == *loc.TabIndex {
				return uc.first([]entity.TargetContext{c}, "tab_index", *loc.TabIndex)
			}
		}
		return uc.first(nil, "tab_index", *loc.TabIndex)

	default:
		contexts, err := uc.host.ListContexts(ctx, entity.ContextFilter{ActiveOnly: true})
		if err != nil {
			return entity.TargetContext{}, fmt.Errorf("list active tab: %w", err)
		}
		return uc.first(contexts, "active", true)
	}
}

func (uc *UseCase) first(contexts []entity.TargetContext, by string, value any) (entity.TargetContext, error) {
	if len(contexts) == 0 {
		uc.logger.Debug("No tab matched", "by", by, "value", value)
		return entity.TargetContext{}, entity.ErrNoMatchingTarget
	}
	uc.logger.Debug("Resolved tab", "by", by, "value", value, "tab", contexts[0].ID, "url", contexts[0].URL)
	return contexts[0], nil
}
