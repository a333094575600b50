// Package registry defines the generated registry document and everything
// derived from it: validation, assembly, indexes and the output writers.
package registry

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FormatVersion is the registry document format. Bumping it invalidates
// every cache entry written by an older build.
const FormatVersion = "1.2.0"

// Kind separates leaf components from composite blocks.
type Kind string

const (
	KindComponent Kind = "component"
	KindBlock     Kind = "block"
)

// PropSchema describes one property of a component's public interface.
//
// When Type is "enum", Values is non-empty and Default, if set, is one of
// Values.
type PropSchema struct {
	Type         string                       `json:"type"`
	Required     bool                         `json:"required"`
	Description  string                       `json:"description,omitempty"`
	Values       []string                     `json:"values,omitempty"`
	Descriptions map[string]string            `json:"descriptions,omitempty"`
	Classes      map[string]string            `json:"classes,omitempty"`
	StateClasses map[string]map[string]string `json:"stateClasses,omitempty"`
	Default      any                          `json:"default,omitempty"`
	Deprecated   bool                         `json:"deprecated,omitempty"`
}

// Clone returns a deep copy.
func (p *PropSchema) Clone() *PropSchema {
	if p == nil {
		return nil
	}
	out := *p
	if p.Values != nil {
		out.Values = append([]string(nil), p.Values...)
	}
	out.Descriptions = cloneStrings(p.Descriptions)
	out.Classes = cloneStrings(p.Classes)
	if p.StateClasses != nil {
		out.StateClasses = make(map[string]map[string]string, len(p.StateClasses))
		for k, v := range p.StateClasses {
			out.StateClasses[k] = cloneStrings(v)
		}
	}
	return &out
}

// Props maps prop name to schema in declaration order.
type Props = orderedmap.OrderedMap[string, *PropSchema]

// NewProps returns an empty prop map.
func NewProps() *Props {
	return orderedmap.New[string, *PropSchema]()
}

// CloneProps deep-copies a prop map. A nil map clones to an empty one.
func CloneProps(p *Props) *Props {
	out := NewProps()
	if p == nil {
		return out
	}
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.Clone())
	}
	return out
}

// SubComponents maps member name to schema in export order.
type SubComponents = orderedmap.OrderedMap[string, *SubComponentSchema]

// NewSubComponents returns an empty member map.
func NewSubComponents() *SubComponents {
	return orderedmap.New[string, *SubComponentSchema]()
}

// ComponentSchema is the unit persisted in the registry and in the cache.
type ComponentSchema struct {
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Kind          Kind           `json:"kind"`
	Description   string         `json:"description,omitempty"`
	Props         *Props         `json:"props"`
	Examples      []string       `json:"examples"`
	Colors        []string       `json:"colors"`
	SubComponents *SubComponents `json:"subComponents,omitempty"`
	Styling       map[string]any `json:"styling,omitempty"`
	BaseClasses   []string       `json:"baseClasses,omitempty"`
}

// SubComponentSchema documents one member of a compound export such as
// Dialog.Trigger. Pass-through members wrap an external primitive and carry
// its canonical documentation instead of anything derived from source.
type SubComponentSchema struct {
	Description string   `json:"description,omitempty"`
	Props       *Props   `json:"props"`
	Examples    []string `json:"examples"`
	Passthrough bool     `json:"passthrough"`
	Primitive   string   `json:"primitive,omitempty"`
	Element     string   `json:"element,omitempty"`
}

// BlockSchema is a composite unit with its file manifest.
type BlockSchema struct {
	ComponentSchema
	Files        []string `json:"files"`
	Dependencies []string `json:"dependencies"`
}

// Registry is the complete generated document.
type Registry struct {
	Version    string                      `json:"version"`
	Components map[string]*ComponentSchema `json:"components"`
	Blocks     map[string]*BlockSchema     `json:"blocks"`
	Index      Index                       `json:"index"`
}

// Index holds the derived search indexes.
type Index struct {
	ByCategory map[string][]string `json:"byCategory"`
	ByName     []string            `json:"byName"`
	ByKind     KindIndex           `json:"byKind"`
}

// KindIndex lists names per kind.
type KindIndex struct {
	Components []string `json:"components"`
	Blocks     []string `json:"blocks"`
}

// Lookup returns the schema for a component or block name.
func (r *Registry) Lookup(name string) (*ComponentSchema, bool) {
	if c, ok := r.Components[name]; ok {
		return c, true
	}
	if b, ok := r.Blocks[name]; ok {
		return &b.ComponentSchema, true
	}
	return nil, false
}

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
