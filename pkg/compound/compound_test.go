package compound

import (
	"os"
	"path/filepath"
	"testing"

	ts "github.com/tree-sitter/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uireg/pkg/parser"
	"github.com/gnana997/uireg/pkg/props"
	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/source"
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

const dialogSource = `
import * as React from "react"
import * as DialogPrimitive from "@radix-ui/react-dialog"
import { Slot } from "@radix-ui/react-slot"
import { cn } from "@/lib/utils"

function DialogRoot(props: DialogPrimitive.DialogProps) {
  return <DialogPrimitive.Root {...props} />
}

const DialogTrigger = DialogPrimitive.Trigger

const DialogClose = React.forwardRef<HTMLButtonElement, DialogCloseProps>((props, ref) => (
  <DialogPrimitive.Close ref={ref} {...props} />
))

export interface DialogContentProps {
  /** Hide the close button */
  hideClose?: boolean
}

/** The dialog panel. */
function DialogContent({ hideClose = false, ...props }: DialogContentProps) {
  return (
    <DialogPrimitive.Content className={cn("fixed")} {...props}>
      {props.children}
    </DialogPrimitive.Content>
  )
}

interface DialogFooterProps { align?: "start" | "end" }

const DialogFooter = ({ align = "end" }) => <div className="flex" />

export const Dialog = Object.assign(DialogRoot, {
  Trigger: DialogTrigger,
  Close: DialogClose,
  /** Main content */
  Content: DialogContent,
  Footer: DialogFooter,
  Portal: DialogPrimitive.Portal,
  displayName: "Dialog",
})
`

func TestDetectObjectAssign(t *testing.T) {
	root, src := parse(t, dialogSource)
	members := Detect(root, src, "Dialog")
	require.Len(t, members, 5)

	byName := make(map[string]Member)
	var names []string
	for _, m := range members {
		byName[m.Name] = m
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Trigger", "Close", "Content", "Footer", "Portal"}, names)

	assert.Equal(t, KindPassthrough, byName["Trigger"].Kind)
	assert.Equal(t, "@radix-ui/react-dialog#Trigger", byName["Trigger"].Ref)

	assert.Equal(t, KindPassthrough, byName["Close"].Kind, "thin forwardRef wrapper")
	assert.Equal(t, "@radix-ui/react-dialog#Close", byName["Close"].Ref)

	assert.Equal(t, KindOwned, byName["Content"].Kind, "adds className")
	assert.Equal(t, "Main content", byName["Content"].Description)
	assert.Equal(t, "DialogContent", byName["Content"].Target)

	assert.Equal(t, KindOwned, byName["Footer"].Kind)
	assert.Equal(t, KindPassthrough, byName["Portal"].Kind)
	assert.Equal(t, "@radix-ui/react-dialog#Portal", byName["Portal"].Ref)
}

func TestDetectAssignments(t *testing.T) {
	root, src := parse(t, `
import { Tabs as TabsPrimitive } from "radix-ui"

/** Tab strip */
export function TabsList(props) {
  return <TabsPrimitive.List {...props} />
}

export function Tabs(props) { return null }
Tabs.List = TabsList
Tabs.displayName = "Tabs"
Other.Item = TabsList
`)
	members := Detect(root, src, "Tabs")
	require.Len(t, members, 1)
	assert.Equal(t, "List", members[0].Name)
	assert.Equal(t, KindPassthrough, members[0].Kind)
	assert.Equal(t, "radix-ui#Tabs.List", members[0].Ref)
	assert.Equal(t, "Tab strip", members[0].Description)
}

func TestDetectNothing(t *testing.T) {
	root, src := parse(t, `export function Button() { return <button /> }`)
	assert.Empty(t, Detect(root, src, "Button"))

	root, src = parse(t, `export const Broken = Object.assign(`)
	assert.Empty(t, Detect(root, src, "Broken"))

	assert.Nil(t, Detect(nil, nil, "X"))
}

func TestPrimitivesLookup(t *testing.T) {
	p := DefaultPrimitives()
	assert.Positive(t, p.Len())

	e, ok := p.Lookup("@radix-ui/react-dialog#Trigger")
	require.True(t, ok)
	assert.Equal(t, "button", e.Element)

	e, ok = p.Lookup("radix-ui#DropdownMenu.Trigger")
	require.True(t, ok)
	assert.Equal(t, "Button that toggles the menu.", e.Description)

	_, ok = p.Lookup("radix-ui#Nope.Trigger")
	assert.False(t, ok)

	schema := e.Schema("radix-ui#DropdownMenu.Trigger")
	assert.True(t, schema.Passthrough)
	asChild, ok := schema.Props.Get("asChild")
	require.True(t, ok)
	assert.Equal(t, false, asChild.Default)
}

func TestLoadPrimitives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primitives.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
"@acme/ui#Handle":
  description: Drag handle.
  element: span
  props:
    - name: axis
      type: enum
      values: [x, y]
      default: z
    - name: side
      type: enum
      values: [start, end]
      default: end
  examples: ["<Handle />"]
`), 0o644))

	p, err := LoadPrimitives(path, util.Discard())
	require.NoError(t, err)
	e, ok := p.Lookup("@acme/ui#Handle")
	require.True(t, ok)
	assert.Equal(t, []string{"<Handle />"}, e.Examples)

	schema := e.Schema("@acme/ui#Handle")
	axis, ok := schema.Props.Get("axis")
	require.True(t, ok)
	assert.Nil(t, axis.Default, "default outside values is dropped")
	assert.NoError(t, registry.ValidateProp(axis))
	side, ok := schema.Props.Get("side")
	require.True(t, ok)
	assert.Equal(t, "end", side.Default)
	_, ok = p.Lookup("@radix-ui/react-dialog#Trigger")
	assert.True(t, ok, "built-ins kept")

	_, err = LoadPrimitives(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialog.tsx")
	require.NoError(t, os.WriteFile(path, []byte(dialogSource), 0o644))

	pm := parser.NewParserManager(util.Discard())
	defer pm.Close()
	loader := source.NewLoader(dir, pm, nil, nil)
	file, err := loader.Load(path)
	require.NoError(t, err)

	src := []byte(dialogSource)
	tree, err := pm.ParseFile(src, path)
	require.NoError(t, err)
	defer tree.Close()

	members := Detect(tree.RootNode(), src, "Dialog")
	reader := props.NewReader(loader, props.Options{Logger: util.Discard()})
	subs := Document(members, file, reader, "Dialog", DefaultPrimitives())
	require.NotNil(t, subs)
	assert.Equal(t, 5, subs.Len())

	trigger, _ := subs.Get("Trigger")
	assert.True(t, trigger.Passthrough)
	assert.Equal(t, "Button that opens the dialog.", trigger.Description)
	assert.Equal(t, "button", trigger.Element)

	content, _ := subs.Get("Content")
	assert.False(t, content.Passthrough)
	assert.Equal(t, "Main content", content.Description)
	hide, ok := content.Props.Get("hideClose")
	require.True(t, ok)
	assert.Equal(t, "boolean", hide.Type)
	assert.Equal(t, false, hide.Default)

	footer, _ := subs.Get("Footer")
	align, ok := footer.Props.Get("align")
	require.True(t, ok, "falls back to DialogFooterProps")
	assert.Equal(t, []string{"start", "end"}, align.Values)
	assert.Equal(t, "end", align.Default)

	portal, _ := subs.Get("Portal")
	assert.True(t, portal.Passthrough)
	assert.Equal(t, "@radix-ui/react-dialog#Portal", portal.Primitive)

	assert.Nil(t, Document(nil, file, reader, "Dialog", DefaultPrimitives()))
}
