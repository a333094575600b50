package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
)

// Unit is one processed component or block handed to Assemble.
type Unit struct {
	Schema       *ComponentSchema
	Files        []string
	Dependencies []string
}

// Assemble builds a complete registry snapshot from processed units.
//
// Units are sorted by name, split into components and blocks, and indexed.
// Block dependencies are narrowed to names that exist in the registry.
// demo maps component name to extra examples; they are merged into copies
// so the inputs (which may be cache entries) are never mutated.
func Assemble(units []Unit, demo map[string][]string) *Registry {
	sorted := make([]Unit, 0, len(units))
	for _, u := range units {
		if u.Schema != nil && u.Schema.Name != "" {
			sorted = append(sorted, u)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Schema.Name < sorted[j].Schema.Name })

	known := make(map[string]bool, len(sorted))
	for _, u := range sorted {
		known[u.Schema.Name] = true
	}

	reg := &Registry{
		Version:    FormatVersion,
		Components: make(map[string]*ComponentSchema),
		Blocks:     make(map[string]*BlockSchema),
		Index: Index{
			ByCategory: make(map[string][]string),
			ByName:     []string{},
			ByKind:     KindIndex{Components: []string{}, Blocks: []string{}},
		},
	}

	for _, u := range sorted {
		schema := normalize(u.Schema, demo[u.Schema.Name])
		name := schema.Name

		if _, dup := reg.Lookup(name); dup {
			continue
		}

		if schema.Kind == KindBlock {
			reg.Blocks[name] = &BlockSchema{
				ComponentSchema: *schema,
				Files:           sortedUnique(u.Files, nil),
				Dependencies: sortedUnique(u.Dependencies, func(dep string) bool {
					return dep != name && known[dep]
				}),
			}
			reg.Index.ByKind.Blocks = append(reg.Index.ByKind.Blocks, name)
		} else {
			reg.Components[name] = schema
			reg.Index.ByKind.Components = append(reg.Index.ByKind.Components, name)
		}

		reg.Index.ByName = append(reg.Index.ByName, name)
		reg.Index.ByCategory[schema.Category] = append(reg.Index.ByCategory[schema.Category], name)
	}

	return reg
}

// normalize returns a copy with every list and map field non-nil where the
// document requires it, and demo examples appended.
func normalize(in *ComponentSchema, demo []string) *ComponentSchema {
	out := *in
	if out.Kind == "" {
		out.Kind = KindComponent
	}
	if out.Category == "" {
		out.Category = "components"
	}
	if out.Props == nil {
		out.Props = NewProps()
	}

	out.Examples = append([]string{}, in.Examples...)
	for _, ex := range demo {
		if !slices.Contains(out.Examples, ex) {
			out.Examples = append(out.Examples, ex)
		}
	}

	if out.Colors == nil {
		out.Colors = []string{}
	}
	if out.SubComponents != nil && out.SubComponents.Len() == 0 {
		out.SubComponents = nil
	}
	return &out
}

func sortedUnique(in []string, keep func(string) bool) []string {
	out := []string{}
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if s == "" || seen[s] || (keep != nil && !keep(s)) {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Validate checks the registry for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (r *Registry) Validate() []error {
	var errs []error

	if r.Version == "" {
		errs = append(errs, fmt.Errorf("registry version is required"))
	}

	var names []string
	for key, comp := range r.Components {
		errs = append(errs, validateSchema(key, comp)...)
		names = append(names, key)
	}
	for key, block := range r.Blocks {
		errs = append(errs, validateSchema(key, &block.ComponentSchema)...)
		if _, clash := r.Components[key]; clash {
			errs = append(errs, fmt.Errorf("block %q: name collides with a component", key))
		}
		names = append(names, key)
	}

	sort.Strings(names)
	if !slices.Equal(names, r.Index.ByName) {
		errs = append(errs, fmt.Errorf("index byName does not match registry contents"))
	}

	return errs
}

func validateSchema(key string, c *ComponentSchema) []error {
	var errs []error
	if c == nil {
		return []error{fmt.Errorf("component %q: schema is missing", key)}
	}
	if c.Name != key {
		errs = append(errs, fmt.Errorf("component %q: name field is %q", key, c.Name))
	}
	errs = append(errs, validateProps(fmt.Sprintf("component %q", key), c.Props)...)

	if c.SubComponents != nil {
		for pair := c.SubComponents.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil {
				errs = append(errs, fmt.Errorf("component %q sub-component %q: schema is missing", key, pair.Key))
				continue
			}
			errs = append(errs, validateProps(fmt.Sprintf("component %q sub-component %q", key, pair.Key), pair.Value.Props)...)
		}
	}
	return errs
}

func validateProps(where string, props *Props) []error {
	if props == nil {
		return []error{fmt.Errorf("%s: props are missing", where)}
	}
	var errs []error
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		if err := ValidateProp(pair.Value); err != nil {
			errs = append(errs, fmt.Errorf("%s prop %q: %w", where, pair.Key, err))
		}
	}
	return errs
}

// ValidateProp checks the invariants of a single prop schema.
func ValidateProp(p *PropSchema) error {
	switch {
	case p == nil:
		return errors.New("schema is missing")
	case p.Type == "":
		return errors.New("type is required")
	case p.Type != "enum":
		return nil
	case len(p.Values) == 0:
		return errors.New("enum must list its values")
	case !p.AllowsDefault(p.Default):
		return fmt.Errorf("default %v is not one of %v", p.Default, p.Values)
	}
	return nil
}

// AllowsDefault reports whether def can be attached to p. Enum defaults must
// print as one of Values.
func (p *PropSchema) AllowsDefault(def any) bool {
	return def == nil || p.Type != "enum" || slices.Contains(p.Values, fmt.Sprint(def))
}

// LoadFromFile reads and validates a registry document.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a registry document.
func LoadFromBytes(data []byte) (*Registry, error) {
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if errs := reg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid registry: %w", errors.Join(errs...))
	}
	return &reg, nil
}
