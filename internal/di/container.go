package di

import (
	"context"
	"fmt"

	"brc-agent/internal/adapter/control"
	"brc-agent/internal/infrastructure/browser/rod"
	"brc-agent/internal/infrastructure/identity"
	"brc-agent/internal/infrastructure/logger"
	"brc-agent/internal/infrastructure/scheduler"
	"brc-agent/internal/infrastructure/serverapi"
	"brc-agent/internal/infrastructure/settings"
	"brc-agent/internal/usecase/dispatcher"
	"brc-agent/internal/usecase/interpreter"
	"brc-agent/internal/usecase/poller"
	"brc-agent/internal/usecase/registration"
	"brc-agent/internal/usecase/reporter"
	"brc-agent/internal/usecase/resolver"
)

// Container holds the wired agent. The browser half is built separately by
// StartBrowser so that commands which only touch settings or the server
// never launch Chrome.
type Container struct {
	Config    Config
	Logger    *logger.LoggerAdapter
	Store     *settings.FileStore
	Server    *serverapi.Client
	Registrar *registration.UseCase

	Browser   *rod.BrowserAdapter
	Poller    *poller.UseCase
	Scheduler *scheduler.Scheduler
	Control   *control.Server
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store := settings.NewFileStore(cfg.SettingsFile)

	serverCfg := serverapi.DefaultConfig()
	serverCfg.APIPrefix = cfg.APIPrefix
	serverCfg.Timeout = cfg.HTTPTimeout
	serverCfg.Logger = log.WithField("component", "serverapi")
	server := serverapi.NewClient(serverCfg)

	registrar := registration.New(store, server, identity.NewGenerator(), log.WithField("component", "registration"))

	return &Container{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		Server:    server,
		Registrar: registrar,
	}, nil
}

// StartBrowser launches or attaches to Chrome and wires the command
// pipeline, the scheduler and the control API on top of it.
func (c *Container) StartBrowser(ctx context.Context) error {
	browser, err := rod.NewBrowserAdapter(ctx, c.Config.Browser, c.Logger.WithField("component", "browser"))
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	c.Browser = browser

	interp := interpreter.New(c.Logger.WithField("component", "interpreter"))
	targets := resolver.New(browser, c.Logger.WithField("component", "resolver"))
	dispatch := dispatcher.New(targets, browser, interp, c.Logger.WithField("component", "dispatcher"))
	report := reporter.New(c.Server, c.Logger.WithField("component", "reporter"))

	c.Poller = poller.New(c.Store, c.Server, dispatch, report, c.Logger.WithField("component", "poller"))
	c.Scheduler = scheduler.New(c.Poller, c.Config.PollInterval, c.Logger.WithField("component", "scheduler"))
	c.Registrar.SetWaker(c.Scheduler)

	if c.Config.ControlAddr != control.Disabled {
		handlers := control.NewHandlers(c.Store, c.Registrar, c.Scheduler, c.Logger.WithField("component", "control"))
		c.Control = control.NewServer(c.Config.ControlAddr, handlers, c.Logger.WithField("component", "control"))
	}
	return nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
