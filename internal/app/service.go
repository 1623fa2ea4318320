package app

import (
	"context"

	"github.com/progami/ecom-os-sub001/internal/core"
)

// SnapshotStore is the persistence collaborator seam: it assembles the
// engine's input snapshot and replaces derived rows after a run. The
// reference Postgres implementation lives in internal/store; tests use stubs.
type SnapshotStore interface {
	// LoadSnapshot reads one consistent input snapshot.
	LoadSnapshot(ctx context.Context) (*core.Snapshot, error)

	// ReplaceDerived swaps the stored derived rows for the plan's, atomically.
	ReplaceDerived(ctx context.Context, plan *core.Plan) error
}

// PlanningService is the single interface presentation adapters call. It
// decouples rendering from the calculation engine. Implementations contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type PlanningService interface {
	// BuildPlan loads the current snapshot from the store and derives a
	// complete plan from it.
	BuildPlan(ctx context.Context) (*PlanResult, error)

	// BuildPlanFromSnapshot derives a plan from an already assembled
	// snapshot, bypassing the store. Used by file-driven runs and tests.
	BuildPlanFromSnapshot(snapshot *core.Snapshot) (*PlanResult, error)

	// SavePlan persists a previously derived plan through the store.
	SavePlan(ctx context.Context, plan *core.Plan) error

	// SnapshotSchema returns the JSON Schema describing the snapshot input
	// contract, for upstream payload validation.
	SnapshotSchema() (string, error)

	// PlanSchema returns the JSON Schema describing the derived plan output.
	PlanSchema() (string, error)
}
