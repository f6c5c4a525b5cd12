// Package value implements the ShapeScript value model (spec.md §4.G): a
// tagged-union Value type, tuple-to-specific-type coercion, member lookup
// tables, and structural equality. Modeled on the teacher's
// tunascript/syntax.Value (a private-field tagged union with a ValueOf
// constructor and typed accessor methods), generalized from tunascript's
// four scalar kinds to ShapeScript's full geometry-oriented value algebra.
package value

import (
	"fmt"
	"math"
)

// Kind is the closed set of ShapeScript value kinds.
type Kind int

const (
	Number Kind = iota
	Boolean
	String
	Color
	Vector
	Size
	Rotation
	Texture
	Path
	Mesh
	Range
	Tuple
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Color:
		return "color"
	case Vector:
		return "vector"
	case Size:
		return "size"
	case Rotation:
		return "rotation"
	case Texture:
		return "texture"
	case Path:
		return "path"
	case Mesh:
		return "mesh"
	case Range:
		return "range"
	case Tuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Value is a ShapeScript runtime value. The zero value is the number 0.
type Value struct {
	kind Kind

	num float64
	b   bool
	str string

	// comps holds up to 4 numeric components for vector/color/size/rotation.
	comps [4]float64

	rangeFrom, rangeTo, rangeStep float64

	tuple []Value

	// handle is an opaque geometry/texture/path handle produced by a
	// GeometryBuilder; shared by reference per spec.md §4 "Ownership model".
	handle any
}

func NumberOf(f float64) Value   { return Value{kind: Number, num: f} }
func BooleanOf(b bool) Value     { return Value{kind: Boolean, b: b} }
func StringOf(s string) Value    { return Value{kind: String, str: s} }
func ColorOf(r, g, b, a float64) Value {
	return Value{kind: Color, comps: [4]float64{r, g, b, a}}
}
func VectorOf(x, y, z float64) Value {
	return Value{kind: Vector, comps: [4]float64{x, y, z, 0}}
}
func SizeOf(w, h float64) Value {
	return Value{kind: Size, comps: [4]float64{w, h, 0, 0}}
}
func RotationOf(roll, pitch, yaw float64) Value {
	return Value{kind: Rotation, comps: [4]float64{roll, pitch, yaw, 0}}
}
func RangeOf(from, to, step float64) Value {
	return Value{kind: Range, rangeFrom: from, rangeTo: to, rangeStep: step}
}
func TupleOf(vs ...Value) Value { return Value{kind: Tuple, tuple: vs} }
func MeshOf(handle any) Value   { return Value{kind: Mesh, handle: handle} }
func TextureOf(handle any) Value { return Value{kind: Texture, handle: handle} }
func PathOf(handle any) Value   { return Value{kind: Path, handle: handle} }

func (v Value) Kind() Kind { return v.kind }

// Num panics if v is not a Number; callers must check Kind first, matching
// the teacher's ValueOf/accessor convention of trusting the call site.
func (v Value) Num() float64 {
	if v.kind != Number {
		panic(fmt.Sprintf("value: Num() called on %s", v.kind))
	}
	return v.num
}

func (v Value) Bool() bool {
	if v.kind != Boolean {
		panic(fmt.Sprintf("value: Bool() called on %s", v.kind))
	}
	return v.b
}

func (v Value) Str() string {
	if v.kind != String {
		panic(fmt.Sprintf("value: Str() called on %s", v.kind))
	}
	return v.str
}

// Components returns the up-to-4 numeric components of a vector, color,
// size, or rotation value.
func (v Value) Components() [4]float64 {
	switch v.kind {
	case Vector, Color, Size, Rotation:
		return v.comps
	default:
		panic(fmt.Sprintf("value: Components() called on %s", v.kind))
	}
}

func (v Value) RangeBounds() (from, to, step float64) {
	if v.kind != Range {
		panic(fmt.Sprintf("value: RangeBounds() called on %s", v.kind))
	}
	return v.rangeFrom, v.rangeTo, v.rangeStep
}

func (v Value) Elems() []Value {
	if v.kind != Tuple {
		panic(fmt.Sprintf("value: Elems() called on %s", v.kind))
	}
	return v.tuple
}

func (v Value) Handle() any { return v.handle }

// Truthy implements the evaluator's boolean-coercion rule for if/for
// conditions: only Boolean has a defined truthiness; anything else is a
// type mismatch the caller must check for via Kind().
func (v Value) Truthy() (bool, bool) {
	if v.kind != Boolean {
		return false, false
	}
	return v.b, true
}

// Equal is ShapeScript's "=" comparator: structural equality, with tuples
// compared as a whole (element-wise, requiring equal length) rather than
// producing a new tuple — the documented "interleaved" comparison behavior
// (spec.md §4.G, §8 scenario 5) is an artifact of how adjacent juxtaposed
// expressions parse, not of Value-level tuple comparison.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Number:
		return a.num == b.num
	case Boolean:
		return a.b == b.b
	case String:
		return a.str == b.str
	case Color, Vector, Size, Rotation:
		return a.comps == b.comps
	case Range:
		return a.rangeFrom == b.rangeFrom && a.rangeTo == b.rangeTo && a.rangeStep == b.rangeStep
	case Tuple:
		if len(a.tuple) != len(b.tuple) {
			return false
		}
		for i := range a.tuple {
			if !Equal(a.tuple[i], b.tuple[i]) {
				return false
			}
		}
		return true
	case Mesh, Texture, Path:
		return a.handle == b.handle
	default:
		return false
	}
}

// CoerceError is returned by CoerceTo when a value's shape doesn't fit the
// requested Kind.
type CoerceError struct {
	From, To Kind
	Len      int
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot coerce %s (length %d) to %s", e.From, e.Len, e.To)
}

// asSlice returns v's components as a flat []float64 for coercion purposes:
// a bare Number is length 1, a Tuple of Numbers is its length, a
// already-dimensional value (Color/Vector/Size/Rotation) is its own
// components. A Tuple with any non-Number element, a hex-color-headed one
// included, is rejected (coercion callers special-case Color in element 0
// before calling this).
func asSlice(v Value) ([]float64, bool) {
	switch v.kind {
	case Number:
		return []float64{v.num}, true
	case Tuple:
		out := make([]float64, 0, len(v.tuple))
		for _, e := range v.tuple {
			if e.kind != Number {
				return nil, false
			}
			out = append(out, e.num)
		}
		return out, true
	case Color:
		return v.comps[:4], true
	case Vector:
		return v.comps[:3], true
	case Size:
		return v.comps[:2], true
	case Rotation:
		return v.comps[:3], true
	default:
		return nil, false
	}
}

// CoerceTo interprets v, a scalar or tuple, as target per spec.md §4.G's
// length-based coercion table. A value that is already of the target Kind
// passes through unchanged.
func CoerceTo(v Value, target Kind) (Value, error) {
	if v.kind == target {
		return v, nil
	}

	// A leading hex color in a 2-4 length tuple is (color, alpha); callers
	// needing that specific shape should detect it themselves before
	// falling back to CoerceTo, since Value carries no hex-literal tag once
	// constructed (hex colors become plain Color values at parse-evaluation
	// time, see shapescript/eval).

	nums, ok := asSlice(v)
	if !ok {
		return Value{}, &CoerceError{From: v.kind, To: target, Len: -1}
	}

	switch target {
	case Number:
		if len(nums) == 1 {
			return NumberOf(nums[0]), nil
		}
	case Color:
		switch len(nums) {
		case 1:
			return ColorOf(nums[0], nums[0], nums[0], 1), nil
		case 2:
			return ColorOf(nums[0], nums[0], nums[0], nums[1]), nil
		case 3:
			return ColorOf(nums[0], nums[1], nums[2], 1), nil
		case 4:
			return ColorOf(nums[0], nums[1], nums[2], nums[3]), nil
		}
	case Vector:
		if len(nums) == 3 {
			return VectorOf(nums[0], nums[1], nums[2]), nil
		}
	case Size:
		if len(nums) == 2 {
			return SizeOf(nums[0], nums[1]), nil
		}
	case Rotation:
		if len(nums) == 3 {
			return RotationOf(nums[0], nums[1], nums[2]), nil
		}
	}

	return Value{}, &CoerceError{From: v.kind, To: target, Len: len(nums)}
}

// ordinalWords supports the "first".."ninetyninth" ordinal member names;
// ordinals past "tenth" are generated from it: index 1 is "first" and index
// 0 is unused.
var ordinalWords = [...]string{
	"", "first", "second", "third", "fourth", "fifth", "sixth", "seventh",
	"eighth", "ninth", "tenth",
}

var tensWords = [...]string{
	"", "ten", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

var tensOrdinalWords = [...]string{
	"", "tenth", "twentieth", "thirtieth", "fortieth", "fiftieth",
	"sixtieth", "seventieth", "eightieth", "ninetieth",
}

// OrdinalName returns the ordinal member name for a 1-based index (1 ->
// "first", 21 -> "twentyfirst", 99 -> "ninetynine" -> "ninetyninth"), or ""
// if n is out of the supported 1..99 range.
func OrdinalName(n int) string {
	if n < 1 || n > 99 {
		return ""
	}
	if n <= 10 {
		return ordinalWords[n]
	}
	tens, ones := n/10, n%10
	if ones == 0 {
		return tensOrdinalWords[tens]
	}
	return tensWords[tens] + ordinalWords[ones]
}

// OrdinalIndex is the inverse of OrdinalName, returning the 1-based index
// for a recognized ordinal name, or 0 if name isn't one.
func OrdinalIndex(name string) int {
	for n := 1; n <= 99; n++ {
		if OrdinalName(n) == name {
			return n
		}
	}
	return 0
}

var vectorAliasMembers = map[string]int{
	"x": 0, "width": 0, "roll": 0, "red": 0,
	"y": 1, "height": 1, "pitch": 1, "green": 1,
	"z": 2, "depth": 2, "yaw": 2, "blue": 2,
	"alpha": 3,
}

// Member resolves a member access on v, per the per-Kind tables in
// spec.md §4.G. ok is false if name is not a valid member of v's Kind.
func Member(v Value, name string) (Value, bool) {
	switch v.kind {
	case Vector:
		if ix, known := vectorAliasMembers[name]; known {
			if name == "alpha" {
				return NumberOf(1), true // vectors have no alpha; alias defaults to 1
			}
			return NumberOf(v.comps[ix]), true
		}
		if ix := OrdinalIndex(name); ix >= 1 && ix <= 3 {
			return NumberOf(v.comps[ix-1]), true
		}
	case Tuple:
		// An un-coerced Tuple of length <= 4 is addressed with the same
		// vector/color member table as spec.md §4.G's "vector/tuple-as-
		// vector" row, e.g. `define v (1,2,3)` then `v.y`.
		elems := v.Elems()
		if ix, known := vectorAliasMembers[name]; known {
			if ix < len(elems) {
				return elems[ix], true
			}
			if name == "alpha" {
				return NumberOf(1), true
			}
		}
		if ix := OrdinalIndex(name); ix >= 1 && ix <= len(elems) {
			return elems[ix-1], true
		}
		if name == "first" && len(elems) > 0 {
			return elems[0], true
		}
	case Color:
		switch name {
		case "red":
			return NumberOf(v.comps[0]), true
		case "green":
			return NumberOf(v.comps[1]), true
		case "blue":
			return NumberOf(v.comps[2]), true
		case "alpha":
			return NumberOf(v.comps[3]), true
		}
		if ix := OrdinalIndex(name); ix >= 1 && ix <= 4 {
			return NumberOf(v.comps[ix-1]), true
		}
	case Rotation:
		switch name {
		case "roll":
			return NumberOf(v.comps[0]), true
		case "pitch":
			return NumberOf(v.comps[1]), true
		case "yaw":
			return NumberOf(v.comps[2]), true
		}
	case Range:
		switch name {
		case "start":
			return NumberOf(v.rangeFrom), true
		case "end":
			return NumberOf(v.rangeTo), true
		case "step":
			return NumberOf(v.rangeStep), true
		}
	case Number:
		if name == "first" || name == "x" {
			return v, true
		}
	default:
		if name == "first" {
			return v, true
		}
	}
	return Value{}, false
}

// MemberOptions lists the valid member names for v's Kind, used to build
// unknownMember suggestion candidates.
func MemberOptions(k Kind) []string {
	switch k {
	case Vector:
		return []string{
			"x", "y", "z", "width", "height", "depth", "roll", "pitch", "yaw",
			"red", "green", "blue", "alpha", "first", "second", "third",
		}
	case Color:
		return []string{"red", "green", "blue", "alpha", "first", "second", "third", "fourth"}
	case Rotation:
		return []string{"roll", "pitch", "yaw"}
	case Range:
		return []string{"start", "end", "step"}
	default:
		return []string{"first"}
	}
}

// RangeLen returns the number of iterations a range(from,to,step) produces,
// per spec.md §8's loop-semantics testable property.
func RangeLen(from, to, step float64) int {
	if step == 0 {
		return 0
	}
	if (to-from)*step < 0 {
		return 0
	}
	return int(math.Floor((to-from)/step)) + 1
}
