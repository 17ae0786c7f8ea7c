package reporter

import (
	"context"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

var _ input.Reporter = (*UseCase)(nil)

// UseCase posts outcomes back to the server. Delivery is best effort: a failed
// report is logged and dropped, and the server decides whether to redeliver.
type UseCase struct {
	server output.CommandServer
	logger output.LoggerPort
}

func New(server output.CommandServer, logger output.LoggerPort) *UseCase {
	return &UseCase{server: server, logger: logger}
}

func (uc *UseCase) Report(ctx context.Context, settings entity.Settings, envelopeID int64, outcome entity.ExecutionOutcome) {
	if err := uc.server.Report(ctx, settings, envelopeID, outcome); err != nil {
		uc.logger.Error("Failed to report result",
			"command_id", envelopeID,
			"status", outcome.Status,
			"error", err,
		)
		return
	}
	uc.logger.Debug("Reported result", "command_id", envelopeID, "status", outcome.Status)
}
