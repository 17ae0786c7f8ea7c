package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.ContextHost = (*BrowserAdapter)(nil)

const (
	defaultTimeout = 30 * time.Second
	defaultLoad    = 10 * time.Second
)

// BrowserAdapter exposes the tabs of one Chrome instance as execution
// contexts. It either attaches to a running browser or launches its own.
type BrowserAdapter struct {
	browser  *rod.Browser
	ws       *cdp.WebSocket
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   output.LoggerPort

	mu     sync.Mutex
	closed bool
}

type BrowserConfig struct {
	// ControlURL attaches to a running browser: a DevTools websocket URL or a
	// host:port with remote debugging enabled. Empty launches a new browser.
	ControlURL string
	Headless   bool
	NoSandbox  bool
	// StartURL is opened when a launched browser has no tabs.
	StartURL string
	// Timeout bounds each procedure run inside a tab.
	Timeout time.Duration
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless: false,
		StartURL: "about:blank",
		Timeout:  defaultTimeout,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig, logger output.LoggerPort) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	var (
		l          *launcher.Launcher
		controlURL string
		err        error
	)
	if cfg.ControlURL != "" {
		controlURL, err = launcher.ResolveURL(cfg.ControlURL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve browser at %s: %w", cfg.ControlURL, err)
		}
		logger.Info("Attaching to running browser", "url", controlURL)
	} else {
		l = launcher.New().
			Context(ctx).
			Headless(cfg.Headless).
			NoSandbox(cfg.NoSandbox).
			Delete("use-mock-keychain")
		controlURL, err = l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		logger.Info("Launched browser", "headless", cfg.Headless)
	}

	ws := &cdp.WebSocket{}
	if err := ws.Connect(ctx, controlURL, nil); err != nil {
		if l != nil {
			l.Kill()
			l.Cleanup()
		}
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	browser := rod.New().Client(cdp.New().Start(ws))
	if err := browser.Connect(); err != nil {
		_ = ws.Close()
		if l != nil {
			l.Kill()
			l.Cleanup()
		}
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	b := &BrowserAdapter{
		browser:  browser,
		ws:       ws,
		launcher: l,
		timeout:  cfg.Timeout,
		logger:   logger,
	}

	if l != nil {
		if err := b.ensureTab(cfg.StartURL); err != nil {
			b.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *BrowserAdapter) ensureTab(url string) error {
	pages, err := b.browser.Pages()
	if err != nil {
		return fmt.Errorf("failed to list tabs: %w", err)
	}
	if len(pages) > 0 {
		return nil
	}
	if url == "" {
		url = "about:blank"
	}
	if _, err := b.browser.Page(proto.TargetCreateTarget{URL: url}); err != nil {
		return fmt.Errorf("failed to open tab: %w", err)
	}
	return nil
}

// OpenTab opens url in a new tab and waits for it to load.
func (b *BrowserAdapter) OpenTab(ctx context.Context, url string) (entity.TargetContext, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return entity.TargetContext{}, fmt.Errorf("failed to open tab: %w", err)
	}
	if err := page.Timeout(defaultLoad).WaitLoad(); err != nil {
		return entity.TargetContext{}, fmt.Errorf("failed to load %s: %w", url, err)
	}
	info, err := page.Info()
	if err != nil {
		return entity.TargetContext{}, fmt.Errorf("failed to read tab info: %w", err)
	}
	return entity.TargetContext{ID: string(info.TargetID), URL: info.URL, Title: info.Title}, nil
}

// ListContexts returns the open tabs in the browser's target order. The
// active flag is only computed when the filter asks for it, since it needs a
// round trip into every tab.
func (b *BrowserAdapter) ListContexts(ctx context.Context, filter entity.ContextFilter) ([]entity.TargetContext, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	targets, err := proto.TargetGetTargets{}.Call(b.browser.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}

	contexts := make([]entity.TargetContext, 0, len(targets.TargetInfos))
	for _, t := range targets.TargetInfos {
		if t.Type != proto.TargetTargetInfoTypePage {
			continue
		}
		contexts = append(contexts, entity.TargetContext{
			ID:    string(t.TargetID),
			Index: len(contexts),
			URL:   t.URL,
			Title: t.Title,
		})
	}

	if filter.ActiveOnly {
		b.markActive(ctx, contexts)
	}
	return filter.Apply(contexts)
}

// markActive flags one tab as active: the focused one, else the first
// visible one, else the first tab.
func (b *BrowserAdapter) markActive(ctx context.Context, contexts []entity.TargetContext) {
	if len(contexts) == 0 {
		return
	}

	visible := -1
	for i, c := range contexts {
		page, err := b.browser.PageFromTarget(proto.TargetTargetID(c.ID))
		if err != nil {
			b.logger.Debug("Skipping unreachable tab", "tab", c.ID, "error", err)
			continue
		}
		page = page.Context(ctx).Timeout(time.Second)

		if focused, err := page.Eval(jsFocused); err == nil && focused.Value.Bool() {
			contexts[i].Active = true
			return
		}
		if visible < 0 {
			if vis, err := page.Eval(jsVisible); err == nil && vis.Value.Bool() {
				visible = i
			}
		}
	}

	if visible < 0 {
		visible = 0
	}
	contexts[visible].Active = true
}

// RunInContext runs proc against the tab's live document, bounded by the
// adapter timeout.
func (b *BrowserAdapter) RunInContext(ctx context.Context, target entity.TargetContext, proc output.Procedure) (any, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	page, err := b.browser.PageFromTarget(proto.TargetTargetID(target.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to attach to tab %s: %w", target.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return proc(ctx, &Page{page: page})
}

func (b *BrowserAdapter) checkOpen() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("browser adapter is closed")
	}
	return nil
}

// Close disconnects from the browser. A launched browser is killed, an
// attached one is left running.
func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.launcher != nil {
		_ = b.browser.Close()
		b.launcher.Kill()
		b.launcher.Cleanup()
		return
	}
	_ = b.ws.Close()
}
