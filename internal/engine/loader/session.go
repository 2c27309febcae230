package loader

import (
	"context"

	"github.com/google/uuid"
	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
)

// Report summarizes the load of one phase.
type Report struct {
	Phase      domain.Phase
	Candidates []domain.SharedObject
	Failures   []domain.LoadFailure
}

// Session loads phases one after another, sharing a single LoadSet so that
// no path is opened twice.
type Session struct {
	ID     uuid.UUID
	Loaded *domain.LoadSet

	loader *Loader
	lister ports.Lister
	logger ports.Logger
}

// NewSession creates a Session with an empty LoadSet.
func NewSession(loader *Loader, lister ports.Lister, logger ports.Logger) *Session {
	return &Session{
		ID:     uuid.New(),
		Loaded: domain.NewLoadSet(),
		loader: loader,
		lister: lister,
		logger: logger,
	}
}

// Run lists and loads each phase in the given order. Listing errors stop the
// run; per-object failures are collected in the reports.
func (s *Session) Run(ctx context.Context, phases ...domain.Phase) ([]Report, error) {
	reports := make([]Report, 0, len(phases))
	for _, phase := range phases {
		candidates, err := s.lister.List(phase)
		if err != nil {
			return reports, err
		}

		s.logger.Info("loading phase",
			"session", s.ID.String(), "phase", phase.String(), "candidates", len(candidates))

		failures, err := s.loader.LoadBatch(ctx, candidates, phase, s.Loaded)
		reports = append(reports, Report{Phase: phase, Candidates: candidates, Failures: failures})
		if len(failures) > 0 {
			s.logger.Warn("phase finished with failures",
				"session", s.ID.String(), "phase", phase.String(), "failed", domain.FailedObjects(failures))
		}
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// Failed reports whether any object of any report failed to load.
func Failed(reports []Report) bool {
	for _, r := range reports {
		if len(r.Failures) > 0 {
			return true
		}
	}
	return false
}
