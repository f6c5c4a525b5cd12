// Package symbols implements ShapeScript's layered symbol table and the
// closed block-type/allowed-children enumeration from spec.md §4.H.
// Grounded on the teacher's tunascript function/variable registration
// tables (tunascript/interpreter.go's built-in function map), generalized
// to four symbol kinds and a block-type-scoped allowed-children check.
package symbols

import (
	"github.com/dekarrin/tunaq/shapescript/value"
)

// Kind is the closed set of symbol entry kinds.
type Kind int

const (
	ConstantKind Kind = iota
	CommandKind
	PropertyKind
	BlockKind
)

func (k Kind) String() string {
	switch k {
	case ConstantKind:
		return "constant"
	case CommandKind:
		return "command"
	case PropertyKind:
		return "property"
	case BlockKind:
		return "block"
	default:
		return "unknown"
	}
}

// BlockType is the closed set of block contexts a block body may push,
// each with its own allowed-child-statement set.
type BlockType int

const (
	Root BlockType = iota
	Group
	Primitive
	Builder
	CSG
	CustomDefinition
	PathBlock
	LoopBody
)

func (t BlockType) String() string {
	switch t {
	case Root:
		return "root"
	case Group:
		return "group"
	case Primitive:
		return "primitive"
	case Builder:
		return "builder"
	case CSG:
		return "csg"
	case CustomDefinition:
		return "custom-block definition"
	case PathBlock:
		return "path"
	case LoopBody:
		return "loop-body"
	default:
		return "unknown"
	}
}

// childKind classifies the kind of child construct an allowed-children set
// is checked against; statement-level dispatch maps each construct it sees
// to one of these before calling Allows.
type ChildKind int

const (
	ChildDefine ChildKind = iota
	ChildCommand
	ChildFor
	ChildIf
	ChildImport
	ChildPrimitive
	ChildGroup
	ChildCSG
	ChildName
	ChildPosition
	ChildOrientation
	ChildSize
	ChildColor
	ChildTexture
	ChildDetail
	ChildOption
	ChildPathChild
	ChildAlong
)

// allowedSets enumerates, per spec.md §4.H's table, which ChildKinds a
// block_type allows. LoopBody inherits from its enclosing block type at
// runtime (see Allows) rather than appearing in this table.
var allowedSets = map[BlockType]map[ChildKind]bool{
	Root: setOf(ChildDefine, ChildCommand, ChildFor, ChildIf, ChildImport,
		ChildPrimitive, ChildGroup, ChildCSG, ChildColor, ChildTexture, ChildDetail),
	Group: setOf(ChildDefine, ChildCommand, ChildFor, ChildIf, ChildImport,
		ChildPrimitive, ChildGroup, ChildCSG, ChildColor, ChildTexture, ChildDetail,
		ChildName, ChildPosition, ChildOrientation, ChildSize),
	Primitive: setOf(ChildName, ChildPosition, ChildOrientation, ChildSize,
		ChildColor, ChildTexture, ChildDetail),
	Builder: setOf(ChildName, ChildPosition, ChildOrientation, ChildSize,
		ChildColor, ChildTexture, ChildDetail, ChildPathChild, ChildAlong),
	CSG: setOf(ChildDefine, ChildCommand, ChildFor, ChildIf, ChildImport,
		ChildPrimitive, ChildGroup, ChildCSG, ChildColor, ChildTexture, ChildDetail,
		ChildName, ChildPosition, ChildOrientation, ChildSize),
	CustomDefinition: setOf(ChildOption, ChildDefine, ChildCommand, ChildFor,
		ChildIf, ChildImport, ChildPrimitive, ChildGroup, ChildCSG, ChildColor,
		ChildTexture, ChildDetail),
	PathBlock: setOf(ChildPathChild),
}

func setOf(ks ...ChildKind) map[ChildKind]bool {
	m := make(map[ChildKind]bool, len(ks))
	for _, k := range ks {
		m[k] = true
	}
	return m
}

// Allows reports whether blockType permits a child of kind ck. LoopBody
// defers to enclosing, the block_type of the scope the loop is nested in.
func Allows(blockType BlockType, enclosing BlockType, ck ChildKind) bool {
	if blockType == LoopBody {
		blockType = enclosing
	}
	return allowedSets[blockType][ck]
}

// Entry is one symbol table slot. Exactly one of the kind-specific fields
// is meaningful, selected by Kind.
type Entry struct {
	Kind Kind

	// ConstantKind
	Value value.Value

	// CommandKind
	Expected value.Kind
	Command  func(args value.Value) (value.Value, error)

	// PropertyKind
	PropType value.Kind
	Get      func() value.Value
	Set      func(value.Value)

	// BlockKind
	Block     BlockType
	IsBuiltin bool
	// Builder is present for built-in blocks (cube, sphere, ...); for custom
	// blocks defined via `define name { ... }` it instead holds
	// shapescript/eval's customBlock value (the body and the defining
	// context), set at define-time.
	Builder any
}

// Scope is one layer of the symbol chain: a context's local bindings plus
// a pointer to the next-outer layer. The root Scope's Outer is nil and its
// Entries holds the built-in table.
type Scope struct {
	BlockType BlockType
	Entries   map[string]Entry
	Outer     *Scope
}

// NewRoot returns the root scope, seeded with the built-in table.
func NewRoot() *Scope {
	return &Scope{BlockType: Root, Entries: Builtins()}
}

// Push returns a new child scope of the given block type, nested under s.
func (s *Scope) Push(bt BlockType) *Scope {
	return &Scope{BlockType: bt, Entries: make(map[string]Entry), Outer: s}
}

// Define adds name to the local layer only, per spec.md §4.H: "define
// inside a block adds only to the local layer."
func (s *Scope) Define(name string, e Entry) {
	s.Entries[name] = e
}

// Lookup resolves name against the local layer, then each outer layer in
// turn, finally the root built-ins.
func (s *Scope) Lookup(name string) (Entry, bool) {
	for sc := s; sc != nil; sc = sc.Outer {
		if e, ok := sc.Entries[name]; ok {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns every name visible from s, used to build "did you mean"
// candidate lists for unknownSymbol errors.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for sc := s; sc != nil; sc = sc.Outer {
		for name := range sc.Entries {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
