package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uireg/pkg/parser"
	"github.com/gnana997/uireg/pkg/util"
)

func buildSource(t *testing.T, source string) *File {
	t.Helper()
	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })

	src := []byte(source)
	tree, err := pm.ParseFile(src, "widget.tsx")
	require.NoError(t, err)
	defer tree.Close()
	return Build(tree.RootNode(), src, "widget.tsx")
}

const widgetSource = `
import * as React from "react"
import { Slot } from "@radix-ui/react-slot"
import type { Size } from "./types"

/** Visual tone. */
export enum Tone {
  Info = "info",
  Danger = "danger",
}

interface BaseProps {
  /** Extra classes */
  className?: string
}

export interface WidgetProps extends BaseProps, React.HTMLAttributes<HTMLDivElement> {
  /**
   * Widget size.
   * @default "sm"
   */
  size?: "sm" | "lg"
  label: string
  items: string[]
  onSelect?(value: string): void
}

interface WidgetProps {
  tone?: Tone
}

export type CardProps = BaseProps & { padded: boolean } | null

const widgetVariants = cva("rounded", {
  variants: { size: { sm: "h-8 bg-primary", lg: "h-10" } },
  defaultVariants: { size: "sm" },
})

/** Renders a widget. */
export function Widget({ size = "sm", label, count: c = 3, ...rest }: WidgetProps) {
  return <Slot className="text-muted-foreground"><Card.Header /></Slot>
}

const Card = React.forwardRef<HTMLDivElement, CardProps>(({ padded = true }, ref) => (
  <div ref={ref} />
))

const Plain: React.FC<BaseProps> = (props) => <span {...props} />

export { Card }
`

func TestBuildDecls(t *testing.T) {
	f := buildSource(t, widgetSource)
	assert.False(t, f.HasErrors)

	tone := f.Decls["Tone"]
	require.NotNil(t, tone)
	assert.Equal(t, DeclEnum, tone.Kind)
	assert.Equal(t, []string{"info", "danger"}, tone.EnumValues)
	assert.Equal(t, "Visual tone.", tone.Doc.Description)
	assert.True(t, tone.Exported)

	widget := f.Decls["WidgetProps"]
	require.NotNil(t, widget)
	assert.Equal(t, DeclInterface, widget.Kind)
	require.Len(t, widget.Extends, 2)
	assert.Equal(t, "BaseProps", widget.Extends[0].Name)
	assert.Equal(t, "React.HTMLAttributes", widget.Extends[1].Name)
	require.Len(t, widget.Extends[1].Args, 1)

	var names []string
	for _, m := range widget.Type.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"size", "label", "items", "onSelect", "tone"}, names)

	size := widget.Type.Members[0]
	assert.True(t, size.Optional)
	assert.Equal(t, TypeUnion, size.Type.Kind)
	require.Len(t, size.Type.Args, 2)
	assert.Equal(t, TypeLiteral, size.Type.Args[0].Kind)
	assert.Equal(t, `"sm"`, size.Type.Args[0].Name)
	assert.Equal(t, "Widget size.", size.Doc.Description)
	assert.Equal(t, `"sm"`, size.Doc.Default)

	assert.False(t, widget.Type.Members[1].Optional)
	assert.Equal(t, TypeArray, widget.Type.Members[2].Type.Kind)
	assert.Equal(t, TypeFunction, widget.Type.Members[3].Type.Kind)
	assert.Equal(t, TypeRef, widget.Type.Members[4].Type.Kind)

	card := f.Decls["CardProps"]
	require.NotNil(t, card)
	assert.Equal(t, DeclAlias, card.Kind)
	assert.Equal(t, TypeUnion, card.Type.Kind)
	require.Len(t, card.Type.Args, 2)
	assert.Equal(t, TypeIntersection, card.Type.Args[0].Kind)
	assert.Equal(t, TypePrimitive, card.Type.Args[1].Kind)
}

func TestBuildFunctions(t *testing.T) {
	f := buildSource(t, widgetSource)

	widget := f.Functions["Widget"]
	require.NotNil(t, widget)
	assert.True(t, widget.Exported)
	assert.Equal(t, "Renders a widget.", widget.Doc.Description)
	require.NotNil(t, widget.Params)
	assert.Equal(t, "WidgetProps", widget.Params.Name)
	assert.Equal(t, map[string]any{"size": "sm", "count": int64(3)}, widget.Defaults)

	card := f.Functions["Card"]
	require.NotNil(t, card)
	assert.True(t, card.Exported, "exported through export clause")
	require.NotNil(t, card.Params)
	assert.Equal(t, "CardProps", card.Params.Name)
	assert.Equal(t, map[string]any{"padded": true}, card.Defaults)

	plain := f.Functions["Plain"]
	require.NotNil(t, plain)
	require.NotNil(t, plain.Params)
	assert.Equal(t, "BaseProps", plain.Params.Name)

	assert.NotContains(t, f.Functions, "widgetVariants")
}

func TestBuildImportsAndLiterals(t *testing.T) {
	f := buildSource(t, widgetSource)

	assert.Equal(t, "@radix-ui/react-slot", f.Imports["Slot"].Source)
	assert.Equal(t, "*", f.Imports["React"].Imported)
	assert.True(t, f.Imports["Size"].TypeOnly)

	require.Len(t, f.Tables, 1)
	assert.Equal(t, "widgetVariants", f.Tables[0].Name)
	assert.NotNil(t, f.Table("widgetVariants"))
	assert.Nil(t, f.Table("nope"))

	assert.Contains(t, f.Strings, "h-8 bg-primary")
	assert.Contains(t, f.Strings, "text-muted-foreground")
	assert.Equal(t, []string{"Card", "Slot"}, f.JSXNames)
}

func TestLoaderResolveAndLoad(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) string {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	button := write("components/button.tsx", `import { Size } from "./types"`)
	types := write("components/types.ts", `export type Size = "sm" | "lg"`)
	index := write("lib/index.ts", `export * from "./types"`)

	pm := parser.NewParserManager(util.Discard())
	defer pm.Close()
	cache, err := NewModuleCache(8, util.Discard())
	require.NoError(t, err)
	loader := NewLoader(root, pm, cache, nil)

	got, ok := loader.Resolve(button, "./types")
	require.True(t, ok)
	assert.Equal(t, types, got)

	got, ok = loader.Resolve(button, "@/lib")
	require.True(t, ok)
	assert.Equal(t, index, got)

	_, ok = loader.Resolve(button, "react")
	assert.False(t, ok)
	_, ok = loader.Resolve(button, "./missing")
	assert.False(t, ok)

	f, err := loader.Load(types)
	require.NoError(t, err)
	assert.Contains(t, f.Decls, "Size")

	again, err := loader.Load(types)
	require.NoError(t, err)
	assert.Same(t, f, again)
	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	_, err = loader.Load(filepath.Join(root, "nope.ts"))
	assert.Error(t, err)
}
