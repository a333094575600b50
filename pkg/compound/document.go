package compound

import (
	"github.com/gnana997/uireg/pkg/props"
	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/source"
	"github.com/gnana997/uireg/pkg/variants"
)

// Document builds the schema of every member. Owned members resolve their
// props from the target function's parameter type, else from
// `<Root><Member>Props`. Pass-through members copy their documentation from
// the primitives table. Returns nil when members is empty.
func Document(members []Member, file *source.File, reader *props.Reader, root string, primitives *Primitives) *registry.SubComponents {
	if len(members) == 0 {
		return nil
	}
	out := registry.NewSubComponents()
	for _, m := range members {
		if m.Kind == KindPassthrough {
			out.Set(m.Name, passthroughSchema(m, primitives))
			continue
		}
		out.Set(m.Name, ownedSchema(m, file, reader, root))
	}
	return out
}

func passthroughSchema(m Member, primitives *Primitives) *registry.SubComponentSchema {
	if entry, ok := primitives.Lookup(m.Ref); ok {
		return entry.Schema(m.Ref)
	}
	return &registry.SubComponentSchema{
		Description: m.Description,
		Props:       registry.NewProps(),
		Examples:    []string{},
		Passthrough: true,
		Primitive:   m.Ref,
	}
}

func ownedSchema(m Member, file *source.File, reader *props.Reader, root string) *registry.SubComponentSchema {
	schema := &registry.SubComponentSchema{
		Description: m.Description,
		Examples:    []string{},
	}

	fn := file.Functions[m.Target]
	var res props.Result
	if fn != nil && fn.Params != nil {
		res = reader.ReadExpr(file, fn.Params)
	}
	if !res.OK() || res.Props == nil {
		res = reader.Read(file, root+m.Name+"Props")
	}
	if res.OK() {
		schema.Props = res.Props
	} else {
		schema.Props = registry.NewProps()
	}

	if fn != nil {
		variants.ApplyDefaults(schema.Props, fn.Defaults)
		if schema.Description == "" {
			schema.Description = fn.Doc.Description
		}
	}
	return schema
}
