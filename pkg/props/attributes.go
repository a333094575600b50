package props

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/source"
	"github.com/gnana997/uireg/pkg/tsutil"
)

//go:embed attributes.yaml
var attributesYAML []byte

var attributes = mustLoadAttributes(attributesYAML)

type attribute struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Values      []string `yaml:"values"`
	Description string   `yaml:"description"`
}

func (a attribute) schema() *registry.PropSchema {
	return &registry.PropSchema{
		Type:        a.Type,
		Description: a.Description,
		Values:      append([]string(nil), a.Values...),
	}
}

type attributeTable struct {
	Global   []attribute            `yaml:"global"`
	Elements map[string][]attribute `yaml:"elements"`
	Types    map[string]string      `yaml:"types"`
}

func mustLoadAttributes(data []byte) *attributeTable {
	var t attributeTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		panic(fmt.Sprintf("props: invalid attributes.yaml: %v", err))
	}
	return &t
}

// forElement returns the global attributes followed by the element's own.
// An element attribute replaces a global one of the same name.
func (t *attributeTable) forElement(element string) []attribute {
	own := t.Elements[element]
	out := make([]attribute, 0, len(t.Global)+len(own))
	for _, g := range t.Global {
		shadowed := false
		for _, o := range own {
			if o.Name == g.Name {
				shadowed = true
				break
			}
		}
		if !shadowed {
			out = append(out, g)
		}
	}
	return append(out, own...)
}

// attributeElement reports whether te names a platform attribute type and
// which element it describes. DetailedHTMLProps<ButtonHTMLAttributes<..>, ..>
// unwraps to its first argument.
func attributeElement(te *source.TypeExpr) (string, bool) {
	name := lastSegment(te.Name)
	if name == "DetailedHTMLProps" && len(te.Args) > 0 && te.Args[0] != nil {
		return attributeElement(te.Args[0])
	}
	element, ok := attributes.Types[name]
	return tsutil.Unquote(element), ok
}
