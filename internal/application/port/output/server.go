package output

import (
	"context"

	"brc-agent/internal/domain/entity"
)

// CommandServer is the remote command queue.
type CommandServer interface {
	Register(ctx context.Context, settings entity.Settings) (status string, err error)
	Poll(ctx context.Context, settings entity.Settings) ([]entity.CommandEnvelope, error)
	Report(ctx context.Context, settings entity.Settings, envelopeID int64, outcome entity.ExecutionOutcome) error
}
