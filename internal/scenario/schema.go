package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID is the $id of the generated scenario schema.
const SchemaID = "https://smew.dev/schemas/scenario.schema.json"

// GenerateSchema returns the JSON Schema for scenario files, for editor
// completion in YAML language servers.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		FieldNameTag:   "yaml",
	}
	schema := r.Reflect(&Scenario{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "smew scenario"
	schema.Description = "Initial cast, relationships and script for a smew story"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
