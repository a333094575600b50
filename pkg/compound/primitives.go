package compound

import (
	_ "embed"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uireg/pkg/registry"
)

//go:embed primitives.yaml
var primitivesYAML []byte

// Primitive is the canonical documentation of an external primitive.
type Primitive struct {
	Description string          `yaml:"description"`
	Element     string          `yaml:"element"`
	Props       []PrimitiveProp `yaml:"props"`
	Examples    []string        `yaml:"examples"`
}

// PrimitiveProp is one documented prop of a primitive.
type PrimitiveProp struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Values      []string `yaml:"values"`
	Description string   `yaml:"description"`
	Default     any      `yaml:"default"`
}

// Primitives is the lookup table for pass-through members.
type Primitives struct {
	entries map[string]Primitive
}

// DefaultPrimitives returns the built-in table.
func DefaultPrimitives() *Primitives {
	p, err := parsePrimitives(primitivesYAML)
	if err != nil {
		panic(fmt.Sprintf("compound: invalid primitives.yaml: %v", err))
	}
	return p
}

// LoadPrimitives returns the built-in table extended by the YAML file at
// path. File entries replace built-in ones with the same key. Enum
// defaults outside their values are reported and later dropped by Schema.
func LoadPrimitives(path string, logger *slog.Logger) (*Primitives, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base := DefaultPrimitives()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read primitives: %w", err)
	}
	extra, err := parsePrimitives(data)
	if err != nil {
		return nil, fmt.Errorf("parse primitives %s: %w", path, err)
	}
	for ref, e := range extra.entries {
		for _, pp := range e.Props {
			if !pp.schema().AllowsDefault(pp.Default) {
				logger.Warn("primitive default is not one of its values, ignoring",
					"primitive", ref, "prop", pp.Name, "default", pp.Default, "values", pp.Values)
			}
		}
	}
	maps.Copy(base.entries, extra.entries)
	return base, nil
}

func parsePrimitives(data []byte) (*Primitives, error) {
	entries := make(map[string]Primitive)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return &Primitives{entries: entries}, nil
}

// Len returns the number of entries.
func (p *Primitives) Len() int { return len(p.entries) }

// Lookup finds the entry for ref. Refs into the combined "radix-ui"
// package ("radix-ui#Dialog.Trigger") also match the per-primitive
// package key ("@radix-ui/react-dialog#Trigger").
func (p *Primitives) Lookup(ref string) (Primitive, bool) {
	if p == nil {
		return Primitive{}, false
	}
	if e, ok := p.entries[ref]; ok {
		return e, true
	}
	pkg, export, _ := strings.Cut(ref, "#")
	if pkg == "radix-ui" {
		if ns, member, ok := strings.Cut(export, "."); ok {
			e, found := p.entries["@radix-ui/react-"+kebab(ns)+"#"+member]
			return e, found
		}
	}
	return Primitive{}, false
}

// Schema renders the entry as a pass-through member schema.
func (e Primitive) Schema(ref string) *registry.SubComponentSchema {
	props := registry.NewProps()
	for _, pp := range e.Props {
		props.Set(pp.Name, pp.schema())
	}
	return &registry.SubComponentSchema{
		Description: e.Description,
		Props:       props,
		Examples:    append([]string{}, e.Examples...),
		Passthrough: true,
		Primitive:   ref,
		Element:     e.Element,
	}
}

func (pp PrimitiveProp) schema() *registry.PropSchema {
	s := &registry.PropSchema{
		Type:        pp.Type,
		Required:    pp.Required,
		Values:      append([]string(nil), pp.Values...),
		Description: pp.Description,
	}
	if s.AllowsDefault(pp.Default) {
		s.Default = pp.Default
	}
	return s
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
