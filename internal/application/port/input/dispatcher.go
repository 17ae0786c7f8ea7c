package input

import (
	"context"

	"brc-agent/internal/domain/entity"
)

// Dispatcher turns one envelope into exactly one outcome. It never panics.
type Dispatcher interface {
	Dispatch(ctx context.Context, env entity.CommandEnvelope) entity.ExecutionOutcome
}

// Reporter posts an outcome back to the server, best effort.
type Reporter interface {
	Report(ctx context.Context, settings entity.Settings, envelopeID int64, outcome entity.ExecutionOutcome)
}
