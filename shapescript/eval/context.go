// Package eval implements the ShapeScript tree-walking evaluator (spec.md
// §4.I): statement dispatch, scene assembly, deterministic RNG plumbing,
// import resolution, and the recursion guard. Grounded on the teacher's
// tunascript/interpreter.go (a single-pass tree-walking Eval over the
// tunascript AST, threading a Target/variable-store analog), generalized
// to ShapeScript's nested-scope, children-collecting evaluation model.
package eval

import (
	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/parse"
	"github.com/dekarrin/tunaq/shapescript/srange"
	"github.com/dekarrin/tunaq/shapescript/symbols"
	"github.com/dekarrin/tunaq/shapescript/value"
)

// maxRecursionDepth is the call-depth limit from spec.md §4.I.
const maxRecursionDepth = 1000

// Delegate is the host-provided callback surface required by the evaluator
// (spec.md §6).
type Delegate interface {
	ResolveURL(path string) (string, error)
	ImportGeometry(url string) (value.Value, error)
	DebugLog(values []value.Value)

	// ReadSource fetches the text of a resolved .shape import so the
	// evaluator can parse and evaluate it in a nested context. Not part of
	// spec.md §6's minimal three-method list, added because nothing else
	// in that list can supply the text of an imported ShapeScript file;
	// see DESIGN.md's Open Question decisions.
	ReadSource(url string) (string, error)
}

// GeometryBuilder constructs opaque geometry handles from evaluated
// primitive/builder/CSG invocations (spec.md §6).
type GeometryBuilder interface {
	Build(tag string, args value.Value, transform Transform, material Material, children []value.Value) (any, error)
}

// Transform is the cumulative position/orientation/size state composed
// down the context chain as primitive/group blocks are entered.
type Transform struct {
	Position    [3]float64
	Orientation [3]float64 // roll, pitch, yaw
	Size        [3]float64
}

// Compose returns the transform of a child pushed under t: child's position
// and orientation are added to t's as a local offset (a simplified,
// additive composition, not a matrix composition), and child's size is
// taken as-is.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Position: [3]float64{
			t.Position[0] + child.Position[0],
			t.Position[1] + child.Position[1],
			t.Position[2] + child.Position[2],
		},
		Orientation: [3]float64{
			t.Orientation[0] + child.Orientation[0],
			t.Orientation[1] + child.Orientation[1],
			t.Orientation[2] + child.Orientation[2],
		},
		Size: child.Size,
	}
}

// DefaultTransform is the identity transform with unit size.
func DefaultTransform() Transform {
	return Transform{Size: [3]float64{1, 1, 1}}
}

// Material is the cumulative color/texture/detail/font state.
type Material struct {
	Color   value.Value // Color kind, or zero value meaning "unset"
	Texture value.Value
	Detail  float64
	Font    string

	// Twist is a builder-only parameter (radians of rotation applied along
	// an extrude's sweep axis); it has no meaning outside a Builder block
	// but is carried here alongside Detail for the same reason, see
	// commands.go's "twist" property. Added for the OpenSCAD-lowering
	// linear_extrude() translation (spec.md §4.F), which has no primary-
	// dialect equivalent of its own.
	Twist float64
}

// DefaultMaterial is white, untextured, default detail.
func DefaultMaterial() Material {
	return Material{Color: value.ColorOf(1, 1, 1, 1), Detail: 16}
}

// Context is one evaluation scope: a symbol layer, the children collected
// so far, and the cumulative transform/material/RNG/import-cache state
// inherited (by sharing or forking, see RNG) from its parent.
type Context struct {
	Scope    *symbols.Scope
	Children []value.Value

	Transform Transform
	Material  Material

	RNG RNG

	Delegate  Delegate
	Builder   GeometryBuilder
	Cancel    func() bool
	ImportCache *ImportCache

	Source string
	depth  *int
}

// ImportCache is shared across every nested context within one program
// evaluation (spec.md §5 "Shared resources"): a .shape file is parsed at
// most once per evaluation, keyed by its resolved absolute URL.
type ImportCache struct {
	programs map[string]*parse.Program
}

func NewImportCache() *ImportCache {
	return &ImportCache{programs: make(map[string]*parse.Program)}
}

func (c *ImportCache) Get(url string) (*parse.Program, bool) {
	p, ok := c.programs[url]
	return p, ok
}

func (c *ImportCache) Put(url string, p *parse.Program) {
	c.programs[url] = p
}

// NewRoot returns the top-level context for evaluating program against
// delegate and builder, with seed determining the initial RNG state.
func NewRoot(delegate Delegate, builder GeometryBuilder, seed uint64, cancel func() bool) *Context {
	depth := 0
	ctx := &Context{
		Scope:       symbols.NewRoot(),
		Transform:   DefaultTransform(),
		Material:    DefaultMaterial(),
		RNG:         NewRNG(seed),
		Delegate:    delegate,
		Builder:     builder,
		Cancel:      cancel,
		ImportCache: NewImportCache(),
		depth:       &depth,
	}
	registerBuiltins(ctx)
	return ctx
}

// pushScope returns a child context sharing this context's RNG (so child
// consumption is visible to the parent), per spec.md §5's normal-context
// write-back rule.
func (c *Context) pushScope(bt symbols.BlockType) *Context {
	return &Context{
		Scope:       c.Scope.Push(bt),
		Transform:   c.Transform,
		Material:    c.Material,
		RNG:         c.RNG,
		Delegate:    c.Delegate,
		Builder:     c.Builder,
		Cancel:      c.Cancel,
		ImportCache: c.ImportCache,
		Source:      c.Source,
		depth:       c.depth,
	}
}

// pushDefinition returns a child context with a forked RNG, per spec.md
// §5: "Definition contexts do not write back the RNG on exit."
func (c *Context) pushDefinition() *Context {
	child := c.pushScope(symbols.CustomDefinition)
	child.RNG = c.RNG.Fork()
	return child
}

// enter increments the recursion guard and returns a function to undo it;
// it returns an error if the limit is exceeded.
func (c *Context) enter(r srange.Range) (func(), error) {
	*c.depth++
	if *c.depth > maxRecursionDepth {
		return func() { *c.depth-- }, diag.AssertionFailureError(r, "Too much recursion")
	}
	return func() { *c.depth-- }, nil
}

// checkCancel polls the embedder's cancellation callback, if any.
func (c *Context) checkCancel(r srange.Range) error {
	if c.Cancel != nil && c.Cancel() {
		return diag.AssertionFailureError(r, "Cancelled")
	}
	return nil
}

// addChild appends v to this context's children, enforcing nothing itself;
// unusedValue checking happens at the statement-dispatch call site, which
// knows whether the enclosing construct can consume a value.
func (c *Context) addChild(v value.Value) {
	c.Children = append(c.Children, v)
}

// allows reports whether ck may appear as a child of this context's block
// type, per spec.md §4.H's closed allowed-children table. A LoopBody scope
// defers to its enclosing scope's block type, per the table's "loop-body:
// inherits from enclosing block type" row.
func (c *Context) allows(ck symbols.ChildKind) bool {
	enclosing := symbols.Root
	if c.Scope.Outer != nil {
		enclosing = c.Scope.Outer.BlockType
	}
	return symbols.Allows(c.Scope.BlockType, enclosing, ck)
}
