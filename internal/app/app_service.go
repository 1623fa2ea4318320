package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/progami/ecom-os-sub001/internal/core"
)

type planningService struct {
	store  SnapshotStore
	engine *core.Engine
}

// NewPlanningService constructs a planningService that satisfies
// PlanningService. store may be nil when only snapshot-driven builds are
// needed; engine nil falls back to the default configuration.
func NewPlanningService(store SnapshotStore, engine *core.Engine) PlanningService {
	if engine == nil {
		engine = core.NewEngine(core.DefaultEngineConfig())
	}
	return &planningService{store: store, engine: engine}
}

func (s *planningService) BuildPlan(ctx context.Context) (*PlanResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}
	snapshot, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return s.BuildPlanFromSnapshot(snapshot)
}

func (s *planningService) BuildPlanFromSnapshot(snapshot *core.Snapshot) (*PlanResult, error) {
	plan, err := s.engine.BuildPlan(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan: %w", err)
	}
	return &PlanResult{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Plan:        plan,
	}, nil
}

func (s *planningService) SavePlan(ctx context.Context, plan *core.Plan) error {
	if s.store == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	if plan == nil {
		return fmt.Errorf("nothing to save: nil plan")
	}
	if err := s.store.ReplaceDerived(ctx, plan); err != nil {
		return fmt.Errorf("failed to save derived plan: %w", err)
	}
	return nil
}
