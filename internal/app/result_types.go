package app

import (
	"time"

	"github.com/progami/ecom-os-sub001/internal/core"
)

// PlanResult is the envelope returned by plan builds. RunID identifies one
// derivation run end to end; consumers stamp persisted rows with it.
type PlanResult struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Plan        *core.Plan `json:"plan"`
}
