package input

import (
	"context"

	"brc-agent/internal/domain/entity"
)

type Registrar interface {
	EnsureIdentity(ctx context.Context) (entity.Settings, error)
	Register(ctx context.Context) (entity.Settings, error)
	AutoRegister(ctx context.Context)
	Configure(ctx context.Context, endpoint, credential, label string) (entity.Settings, error)
}
