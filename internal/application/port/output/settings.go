package output

import (
	"context"

	"brc-agent/internal/domain/entity"
)

// SettingsStore is the single source of configuration truth. Get is called
// at the start of every cycle; snapshots are never cached across cycles.
type SettingsStore interface {
	Get(ctx context.Context) (entity.Settings, error)
	Save(ctx context.Context, settings entity.Settings) error
}

type IdentityGenerator interface {
	Generate() (string, error)
}
