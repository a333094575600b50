// Package props resolves a component's declared props type into a flat,
// ordered property map.
//
// Resolution follows aliases, interface heritage, intersections, unions,
// the common utility types (Omit, Pick, Partial, Required, Readonly,
// PropsWithChildren), VariantProps<typeof table> and relative imports.
// Every anticipated failure is reported through Result.Fallback rather
// than an error.
package props

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/source"
)

// Reason tags why a read fell back.
type Reason string

const (
	ReasonParseFailed  Reason = "parse-failed"
	ReasonTypeNotFound Reason = "type-not-found"
	ReasonNotAnObject  Reason = "not-an-object"
	ReasonPanic        Reason = "panic"
)

// Fallback explains a failed read. Callers synthesise props from the
// variant table instead.
type Fallback struct {
	Reason Reason
	Detail string
}

func (f *Fallback) String() string {
	if f.Detail == "" {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Reason, f.Detail)
}

// Result is the outcome of a read: either Props or a Fallback.
type Result struct {
	Props    *registry.Props
	Fallback *Fallback
	// VariantRefs names the variant tables referenced via
	// VariantProps<typeof x>, in order of appearance.
	VariantRefs []string
}

// OK reports whether the read produced props.
func (r Result) OK() bool { return r.Fallback == nil }

// Options configures a Reader.
type Options struct {
	// InheritedProps expands platform attribute types such as
	// React.ButtonHTMLAttributes into their attributes. Off, they
	// contribute nothing.
	InheritedProps bool
	Logger         *slog.Logger
}

// Reader resolves props types. Safe for concurrent use.
type Reader struct {
	loader *source.Loader
	opts   Options
	logger *slog.Logger
}

// NewReader creates a reader. A nil loader disables cross-file resolution.
func NewReader(loader *source.Loader, opts Options) *Reader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{loader: loader, opts: opts, logger: logger}
}

// Read resolves the type named typeName as seen from file.
func (r *Reader) Read(file *source.File, typeName string) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Fallback: &Fallback{Reason: ReasonPanic, Detail: fmt.Sprint(p)}}
		}
	}()
	if file == nil {
		return Result{Fallback: &Fallback{Reason: ReasonParseFailed, Detail: "no source"}}
	}

	rs := r.newResolver()
	declFile, decl := rs.lookup(file, typeName, 0)
	if decl == nil {
		if file.HasErrors {
			return Result{Fallback: &Fallback{Reason: ReasonParseFailed, Detail: file.Path + " has syntax errors"}}
		}
		return Result{Fallback: &Fallback{Reason: ReasonTypeNotFound, Detail: typeName}}
	}

	props, ok := rs.declProps(declFile, decl, 0)
	if !ok {
		return Result{Fallback: &Fallback{Reason: ReasonNotAnObject, Detail: typeName}}
	}
	return Result{Props: props, VariantRefs: rs.refs}
}

// ReadExpr resolves an inline type expression, such as the parameter type
// of a component function.
func (r *Reader) ReadExpr(file *source.File, te *source.TypeExpr) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Fallback: &Fallback{Reason: ReasonPanic, Detail: fmt.Sprint(p)}}
		}
	}()
	if file == nil {
		return Result{Fallback: &Fallback{Reason: ReasonParseFailed, Detail: "no source"}}
	}
	if te == nil {
		return Result{Fallback: &Fallback{Reason: ReasonTypeNotFound, Detail: "untyped parameter"}}
	}

	rs := r.newResolver()
	props, ok := rs.objectProps(file, te, 0)
	if !ok {
		return Result{Fallback: &Fallback{Reason: ReasonNotAnObject, Detail: te.Text}}
	}
	return Result{Props: props, VariantRefs: rs.refs}
}

func (r *Reader) newResolver() *resolver {
	return &resolver{
		reader:    r,
		visiting:  make(map[string]bool),
		inherited: make(map[*registry.PropSchema]bool),
	}
}
