package app

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/progami/ecom-os-sub001/internal/core"
)

// SnapshotSchema returns the JSON Schema of the snapshot input contract.
func (s *planningService) SnapshotSchema() (string, error) {
	return marshalSchema(&core.Snapshot{})
}

// PlanSchema returns the JSON Schema of the derived plan output contract.
func (s *planningService) PlanSchema() (string, error) {
	return marshalSchema(&core.Plan{})
}

// marshalSchema reflects a contract struct into an inlined, closed JSON
// Schema document.
func marshalSchema(v any) (string, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(v)
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return string(out), nil
}
