package variants

import (
	"slices"

	"github.com/gnana997/uireg/pkg/registry"
)

// Enrich merges a variant table into props and returns a new map. Props
// that name a variant become enums over the option keys. Per-option maps
// are attached only when at least one option fills them. Defaults are
// attached only when they are one of the option keys.
//
// Props that exist only in the table are not added. Use Fallback for that.
// Enrich(Enrich(p)) equals Enrich(p).
func Enrich(props *registry.Props, table *Table, defaults map[string]string) *registry.Props {
	out := registry.CloneProps(props)
	if table == nil {
		return out
	}
	if defaults == nil {
		defaults = table.Defaults
	}
	for _, v := range table.Variants {
		prop, ok := out.Get(v.Name)
		if !ok || len(v.Options) == 0 {
			continue
		}
		applyVariant(prop, &v, defaults[v.Name])
	}
	return out
}

func applyVariant(prop *registry.PropSchema, v *Variant, def string) {
	prop.Type = "enum"
	prop.Values = v.Keys()

	descriptions := make(map[string]string)
	classes := make(map[string]string)
	stateClasses := make(map[string]map[string]string)
	for _, o := range v.Options {
		if o.Description != "" {
			descriptions[o.Key] = o.Description
		}
		if o.Classes != "" {
			classes[o.Key] = o.Classes
		}
		if len(o.StateClasses) > 0 {
			sc := make(map[string]string, len(o.StateClasses))
			for state, cls := range o.StateClasses {
				sc[state] = cls
			}
			stateClasses[o.Key] = sc
		}
	}
	prop.Descriptions = nilIfEmpty(descriptions)
	prop.Classes = nilIfEmpty(classes)
	if len(stateClasses) > 0 {
		prop.StateClasses = stateClasses
	} else {
		prop.StateClasses = nil
	}

	if def != "" && slices.Contains(prop.Values, def) {
		prop.Default = def
	} else if s, ok := prop.Default.(string); !ok || !slices.Contains(prop.Values, s) {
		prop.Default = nil
	}
}

// Fallback synthesises props from a variant table alone: one optional enum
// per variant plus className and children. Used when the declared props
// type cannot be resolved.
func Fallback(table *Table) *registry.Props {
	props := registry.NewProps()
	if table != nil {
		for _, v := range table.Variants {
			if len(v.Options) == 0 {
				continue
			}
			props.Set(v.Name, &registry.PropSchema{Type: "string"})
		}
	}
	props.Set("className", &registry.PropSchema{
		Type:        "string",
		Description: "Additional CSS classes",
	})
	props.Set("children", &registry.PropSchema{
		Type:        "ReactNode",
		Description: "Content rendered inside the component",
	})
	if table == nil {
		return props
	}
	return Enrich(props, table, table.Defaults)
}

// ApplyDefaults fills missing prop defaults from a component's
// destructuring pattern. Enum defaults outside the value set are dropped.
func ApplyDefaults(props *registry.Props, defaults map[string]any) {
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		def, ok := defaults[pair.Key]
		if !ok || def == nil {
			continue
		}
		prop := pair.Value
		if prop.Default != nil {
			continue
		}
		if prop.Type == "enum" {
			s, isString := def.(string)
			if !isString || !slices.Contains(prop.Values, s) {
				continue
			}
		}
		prop.Default = def
	}
}

func nilIfEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}
