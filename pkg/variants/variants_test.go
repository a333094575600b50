package variants

import (
	"encoding/json"
	"testing"

	ts "github.com/tree-sitter/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uireg/pkg/parser"
	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/util"
)

func parse(t *testing.T, source string) (*ts.Node, []byte) {
	t.Helper()
	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })

	src := []byte(source)
	tree, err := pm.Parse(src, parser.LanguageTypeScript, true)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.RootNode(), src
}

const buttonSource = `
import { cva, type VariantProps } from "class-variance-authority"

const buttonVariants = cva(
  "inline-flex items-center rounded-md",
  {
    variants: {
      variant: {
        default: "bg-primary text-primary-foreground hover:bg-primary/90",
        outline: ["border", "border-input bg-background"],
      },
      size: {
        sm: "h-8 px-3",
        lg: "h-10 px-8",
      },
    },
    defaultVariants: {
      variant: "default",
      size: "sm",
    },
  }
)

export const badgeVariants = {
  tone: {
    info: { classes: "bg-muted text-muted-foreground", description: "Neutral notice" },
    danger: {
      classes: ["bg-destructive", "text-white"],
      stateClasses: { hover: "bg-destructive/80" },
    },
  },
} as const

const spacingVariants = { sm: "p-2", lg: "p-4" }
`

func TestParseTables(t *testing.T) {
	root, src := parse(t, buttonSource)
	tables := ParseTables(root, src)
	require.Len(t, tables, 2)

	button := tables[0]
	assert.Equal(t, "buttonVariants", button.Name)
	assert.Equal(t, "inline-flex items-center rounded-md", button.Base)
	require.Len(t, button.Variants, 2)
	assert.Equal(t, []string{"default", "outline"}, button.Lookup("variant").Keys())
	assert.Equal(t, "border border-input bg-background", button.Lookup("variant").Options[1].Classes)
	assert.Equal(t, []string{"sm", "lg"}, button.Lookup("size").Keys())
	assert.Equal(t, map[string]string{"variant": "default", "size": "sm"}, button.Defaults)

	badge := tables[1]
	assert.Equal(t, "badgeVariants", badge.Name)
	tone := badge.Lookup("tone")
	require.NotNil(t, tone)
	assert.Equal(t, "Neutral notice", tone.Options[0].Description)
	assert.Equal(t, "bg-destructive text-white", tone.Options[1].Classes)
	assert.Equal(t, map[string]string{"hover": "bg-destructive/80"}, tone.Options[1].StateClasses)
	assert.Nil(t, badge.Lookup("missing"))

	assert.Equal(t, []string{"background", "input", "primary", "primary-foreground"}, ColorTokens(button.Classes()))
	assert.Equal(t, []string{"destructive", "muted", "muted-foreground"}, ColorTokens(badge.Classes()))
	assert.Nil(t, (*Table)(nil).Classes())
}

func TestParseTablesTV(t *testing.T) {
	root, src := parse(t, `
const card = tv({
  base: "rounded-lg border",
  variants: { padding: { none: "", md: "p-4" } },
  defaultVariants: { padding: "md" },
})
`)
	tables := ParseTables(root, src)
	require.Len(t, tables, 1)
	assert.Equal(t, "card", tables[0].Name)
	assert.Equal(t, "rounded-lg border", tables[0].Base)
	assert.Equal(t, []string{"none", "md"}, tables[0].Lookup("padding").Keys())
	assert.Equal(t, "md", tables[0].Defaults["padding"])
}

func sizeTable() *Table {
	return &Table{
		Name: "widgetVariants",
		Variants: []Variant{{
			Name: "size",
			Options: []Option{
				{Key: "sm", Classes: "h-8"},
				{Key: "lg", Classes: "h-10", Description: "Large"},
			},
		}},
		Defaults: map[string]string{"size": "sm"},
	}
}

func TestEnrich(t *testing.T) {
	props := registry.NewProps()
	props.Set("size", &registry.PropSchema{Type: "string"})
	props.Set("label", &registry.PropSchema{Type: "string", Required: true})

	out := Enrich(props, sizeTable(), nil)

	size, _ := out.Get("size")
	assert.Equal(t, "enum", size.Type)
	assert.Equal(t, []string{"sm", "lg"}, size.Values)
	assert.Equal(t, "sm", size.Default)
	assert.Equal(t, map[string]string{"sm": "h-8", "lg": "h-10"}, size.Classes)
	assert.Equal(t, map[string]string{"lg": "Large"}, size.Descriptions)
	assert.Nil(t, size.StateClasses)

	label, _ := out.Get("label")
	assert.Equal(t, "string", label.Type)

	// input untouched
	orig, _ := props.Get("size")
	assert.Equal(t, "string", orig.Type)
}

func TestEnrichIdempotent(t *testing.T) {
	props := registry.NewProps()
	props.Set("size", &registry.PropSchema{Type: "string"})

	once := Enrich(props, sizeTable(), nil)
	twice := Enrich(once, sizeTable(), nil)

	a, err := json.Marshal(once)
	require.NoError(t, err)
	b, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestEnrichDropsForeignDefault(t *testing.T) {
	props := registry.NewProps()
	props.Set("size", &registry.PropSchema{Type: "string"})

	out := Enrich(props, sizeTable(), map[string]string{"size": "xl"})
	size, _ := out.Get("size")
	assert.Nil(t, size.Default)
}

func TestFallback(t *testing.T) {
	props := Fallback(sizeTable())
	var keys []string
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
		assert.False(t, pair.Value.Required)
	}
	assert.Equal(t, []string{"size", "className", "children"}, keys)

	size, _ := props.Get("size")
	assert.Equal(t, "enum", size.Type)
	assert.Equal(t, "sm", size.Default)

	bare := Fallback(nil)
	assert.Equal(t, 2, bare.Len())
}

func TestApplyDefaults(t *testing.T) {
	props := registry.NewProps()
	props.Set("size", &registry.PropSchema{Type: "enum", Values: []string{"sm", "lg"}})
	props.Set("disabled", &registry.PropSchema{Type: "boolean"})
	props.Set("tone", &registry.PropSchema{Type: "string", Default: "info"})

	ApplyDefaults(props, map[string]any{"size": "xl", "disabled": false, "tone": "danger", "other": 1})

	size, _ := props.Get("size")
	assert.Nil(t, size.Default)
	disabled, _ := props.Get("disabled")
	assert.Equal(t, false, disabled.Default)
	tone, _ := props.Get("tone")
	assert.Equal(t, "info", tone.Default, "existing defaults win")
}

func TestSelect(t *testing.T) {
	a := &Table{Name: "aVariants"}
	widget := &Table{Name: "widgetVariants"}

	assert.Same(t, a, Select([]*Table{a, widget}, "Widget", []string{"aVariants"}))
	assert.Same(t, widget, Select([]*Table{a, widget}, "Widget", nil))
	assert.Same(t, a, Select([]*Table{a}, "Widget", nil))
	assert.Nil(t, Select([]*Table{a, {Name: "b"}}, "Widget", nil))
	assert.Nil(t, Select(nil, "Widget", nil))
}

func TestColorTokens(t *testing.T) {
	tokens := ColorTokens([]string{
		"bg-primary text-primary-foreground hover:bg-primary/90",
		"border-input ring-offset-background text-sm",
		"dark:data-[state=open]:bg-muted shadow-lg bg-red-500 border-t-destructive",
	})
	assert.Equal(t, []string{
		"background", "destructive", "input", "muted", "primary", "primary-foreground",
	}, tokens)
	assert.Empty(t, ColorTokens(nil))
}

func TestStyling(t *testing.T) {
	root, src := parse(t, `
export const buttonStyling = {
  radius: "md",
  focusRing: true,
  slots: ["root", "icon"],
}
`)
	assert.Equal(t, map[string]any{
		"radius":    "md",
		"focusRing": true,
		"slots":     []any{"root", "icon"},
	}, Styling(root, src))

	root, src = parse(t, `export const x = 1`)
	assert.Nil(t, Styling(root, src))
}
