package registration

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

var _ input.Registrar = (*UseCase)(nil)

// Waker asks for a poll cycle without waiting for it.
type Waker interface {
	Trigger(reason string)
}

type UseCase struct {
	store     output.SettingsStore
	server    output.CommandServer
	generator output.IdentityGenerator
	waker     Waker
	logger    output.LoggerPort
}

func New(
	store output.SettingsStore,
	server output.CommandServer,
	generator output.IdentityGenerator,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		store:     store,
		server:    server,
		generator: generator,
		logger:    logger,
	}
}

// SetWaker sets who gets poked after a successful registration. The scheduler
// depends on the poller, so it is attached after construction.
func (uc *UseCase) SetWaker(w Waker) {
	uc.waker = w
}

// EnsureIdentity generates and persists the agent ID the first time it is
// needed. An existing ID is never replaced.
func (uc *UseCase) EnsureIdentity(ctx context.Context) (entity.Settings, error) {
	settings, err := uc.store.Get(ctx)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if settings.Identity.ID != "" {
		return settings, nil
	}

	id, err := uc.generator.Generate()
	if err != nil {
		return entity.Settings{}, fmt.Errorf("generate browser id: %w", err)
	}
	settings = settings.WithIdentity(id)
	if err := uc.store.Save(ctx, settings); err != nil {
		return entity.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	uc.logger.Info("Generated browser id", "browser_id", id)
	return settings, nil
}

// Register announces the agent to the server. Registered is only set after a
// 2xx response, and only if the binding was not edited in the meantime.
func (uc *UseCase) Register(ctx context.Context) (entity.Settings, error) {
	settings, err := uc.EnsureIdentity(ctx)
	if err != nil {
		return entity.Settings{}, err
	}
	if err := settings.Complete(); err != nil {
		return settings, err
	}

	uc.logger.Info("Registering",
		"server_url", settings.Binding.Endpoint,
		"browser_id", settings.Identity.ID,
		"label", settings.Label(),
	)
	status, err := uc.server.Register(ctx, settings)
	if err != nil {
		return settings, fmt.Errorf("register: %w", err)
	}

	current, err := uc.store.Get(ctx)
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	if current.Binding.Endpoint != settings.Binding.Endpoint || current.Binding.Credential != settings.Binding.Credential {
		uc.logger.Warn("Server binding changed during registration, not marking registered")
		return current, nil
	}
	current = current.MarkRegistered()
	if err := uc.store.Save(ctx, current); err != nil {
		return current, fmt.Errorf("save settings: %w", err)
	}
	uc.logger.Info("Registered", "status", status)

	if uc.waker != nil {
		uc.waker.Trigger("registered")
	}
	return current, nil
}

// AutoRegister registers on startup when the settings allow it. Failures are
// only logged; the user can register manually later.
func (uc *UseCase) AutoRegister(ctx context.Context) {
	settings, err := uc.EnsureIdentity(ctx)
	if err != nil {
		uc.logger.Error("Auto-register failed", "error", err)
		return
	}
	if err := settings.Complete(); err != nil {
		uc.logger.Info("Auto-register skipped", "reason", err)
		return
	}
	if _, err := uc.Register(ctx); err != nil {
		uc.logger.Warn("Auto-register failed", "error", err)
	}
}

// Configure stores a new server binding and label. Empty arguments leave the
// corresponding field unchanged. Changing endpoint or credential clears the
// registration.
func (uc *UseCase) Configure(ctx context.Context, endpoint, credential, label string) (entity.Settings, error) {
	settings, err := uc.EnsureIdentity(ctx)
	if err != nil {
		return entity.Settings{}, err
	}

	if endpoint == "" {
		endpoint = settings.Binding.Endpoint
	} else if err := validateEndpoint(endpoint); err != nil {
		return settings, err
	}
	if credential == "" {
		credential = settings.Binding.Credential
	}

	updated := settings.WithBinding(endpoint, credential)
	if label != "" {
		updated = updated.WithLabel(label)
	}
	if updated == settings {
		return settings, nil
	}

	if err := uc.store.Save(ctx, updated); err != nil {
		return settings, fmt.Errorf("save settings: %w", err)
	}
	if settings.Binding.Registered && !updated.Binding.Registered {
		uc.logger.Info("Server binding changed, registration cleared")
	}
	return updated, nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return fmt.Errorf("%w: server_url: %v", entity.ErrInvalidSettings, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server_url must be an absolute http(s) URL", entity.ErrInvalidSettings)
	}
	return nil
}
