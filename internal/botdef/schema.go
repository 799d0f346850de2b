package botdef

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// BuildSchema reflects the definition document into a JSON Schema for the
// external generation pipeline.
func BuildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(Definition))
	schema.Title = "Bot Definition"
	schema.Description = "Generator-authored bot document consumed by the match server."
	return schema
}

// SchemaJSON renders the definition schema as indented JSON, the form served
// over HTTP and written by the schema command.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(BuildSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("botdef: marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
