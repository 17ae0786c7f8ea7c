package reporter

import (
	"context"
	"errors"
	"testing"

	"brc-agent/internal/domain/entity"
	"brc-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
)

type report struct {
	settings entity.Settings
	id       int64
	outcome  entity.ExecutionOutcome
}

type fakeServer struct {
	err     error
	reports []report
}

func (s *fakeServer) Register(context.Context, entity.Settings) (string, error) { return "", nil }

func (s *fakeServer) Poll(context.Context, entity.Settings) ([]entity.CommandEnvelope, error) {
	return nil, nil
}

func (s *fakeServer) Report(_ context.Context, settings entity.Settings, id int64, outcome entity.ExecutionOutcome) error {
	s.reports = append(s.reports, report{settings, id, outcome})
	return s.err
}

func TestReport_Delivers(t *testing.T) {
	srv := &fakeServer{}
	settings := entity.Settings{Identity: entity.AgentIdentity{ID: "brc1"}}

	New(srv, logger.NewNop()).Report(context.Background(), settings, 42, entity.Executed("ok"))

	assert.Equal(t, []report{{settings, 42, entity.Executed("ok")}}, srv.reports)
}

func TestReport_SwallowsFailures(t *testing.T) {
	srv := &fakeServer{err: errors.New("connection refused")}
	uc := New(srv, logger.NewNop())

	assert.NotPanics(t, func() {
		uc.Report(context.Background(), entity.Settings{}, 1, entity.Failed(entity.ErrNoMatchingTarget))
	})
	assert.Len(t, srv.reports, 1, "a failed report is not retried")
}
