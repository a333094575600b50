package registry

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// JSONSchema reflects the registry document format into a JSON Schema so
// consumers can validate registry.json without the Go types.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{Mapper: mapOrderedMaps}

	schema := r.Reflect(&Registry{})
	schema.Title = "Component registry"
	schema.Description = "Generated description of every component and block, format " + FormatVersion

	// The ordered maps are mapped to $refs by hand, so their value types
	// never get reflected on their own.
	if schema.Definitions == nil {
		schema.Definitions = jsonschema.Definitions{}
	}
	for _, v := range []any{&PropSchema{}, &SubComponentSchema{}} {
		for name, def := range r.Reflect(v).Definitions {
			if _, ok := schema.Definitions[name]; !ok {
				schema.Definitions[name] = def
			}
		}
	}
	return schema
}

func mapOrderedMaps(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeFor[Props]():
		return &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: &jsonschema.Schema{Ref: "#/$defs/PropSchema"},
		}
	case reflect.TypeFor[SubComponents]():
		return &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: &jsonschema.Schema{Ref: "#/$defs/SubComponentSchema"},
		}
	}
	return nil
}
