package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CoerceTo(t *testing.T) {
	testCases := []struct {
		name      string
		v         Value
		target    Kind
		expect    Value
		expectErr bool
	}{
		{name: "number to number is passthrough", v: NumberOf(4), target: Number, expect: NumberOf(4)},
		{name: "single number to color is grayscale", v: NumberOf(0.5), target: Color, expect: ColorOf(0.5, 0.5, 0.5, 1)},
		{name: "2-tuple to color is gray+alpha", v: TupleOf(NumberOf(0.5), NumberOf(0.2)), target: Color, expect: ColorOf(0.5, 0.5, 0.5, 0.2)},
		{name: "3-tuple to color is rgb+opaque", v: TupleOf(NumberOf(1), NumberOf(0), NumberOf(0)), target: Color, expect: ColorOf(1, 0, 0, 1)},
		{name: "4-tuple to color is rgba", v: TupleOf(NumberOf(1), NumberOf(0), NumberOf(0), NumberOf(0.5)), target: Color, expect: ColorOf(1, 0, 0, 0.5)},
		{name: "3-tuple to vector", v: TupleOf(NumberOf(1), NumberOf(2), NumberOf(3)), target: Vector, expect: VectorOf(1, 2, 3)},
		{name: "2-tuple to size", v: TupleOf(NumberOf(4), NumberOf(5)), target: Size, expect: SizeOf(4, 5)},
		{name: "3-tuple to rotation", v: TupleOf(NumberOf(1), NumberOf(2), NumberOf(3)), target: Rotation, expect: RotationOf(1, 2, 3)},
		{name: "wrong length to vector errors", v: TupleOf(NumberOf(1), NumberOf(2)), target: Vector, expectErr: true},
		{name: "tuple with non-number element errors", v: TupleOf(NumberOf(1), StringOf("x")), target: Vector, expectErr: true},
		{name: "boolean cannot coerce", v: BooleanOf(true), target: Number, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CoerceTo(tc.v, tc.target)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(tc.expect, got))
		})
	}
}

func Test_Equal(t *testing.T) {
	testCases := []struct {
		name   string
		a, b   Value
		expect bool
	}{
		{name: "equal numbers", a: NumberOf(3), b: NumberOf(3), expect: true},
		{name: "unequal numbers", a: NumberOf(3), b: NumberOf(4), expect: false},
		{name: "different kinds never equal", a: NumberOf(3), b: StringOf("3"), expect: false},
		{name: "equal vectors", a: VectorOf(1, 2, 3), b: VectorOf(1, 2, 3), expect: true},
		{name: "equal tuples element-wise", a: TupleOf(NumberOf(1), NumberOf(2)), b: TupleOf(NumberOf(1), NumberOf(2)), expect: true},
		{name: "tuples of different length", a: TupleOf(NumberOf(1)), b: TupleOf(NumberOf(1), NumberOf(2)), expect: false},
		{name: "mesh handles compared by identity", a: MeshOf(1), b: MeshOf(1), expect: true},
		{name: "different mesh handles", a: MeshOf(1), b: MeshOf(2), expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Equal(tc.a, tc.b))
		})
	}
}

func Test_Member(t *testing.T) {
	v := VectorOf(1, 2, 3)

	testCases := []struct {
		name   string
		member string
		expect float64
		ok     bool
	}{
		{name: "x alias", member: "x", expect: 1, ok: true},
		{name: "width alias", member: "width", expect: 1, ok: true},
		{name: "y alias", member: "y", expect: 2, ok: true},
		{name: "z alias", member: "z", expect: 3, ok: true},
		{name: "ordinal alias", member: "second", expect: 2, ok: true},
		{name: "unknown member", member: "nonexistent", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Member(v, tc.member)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.expect, got.Num())
			}
		})
	}
}

func Test_Member_tupleUsesVectorAliasTable(t *testing.T) {
	v := TupleOf(NumberOf(1), NumberOf(2), NumberOf(3))

	testCases := []struct {
		name   string
		member string
		expect float64
		ok     bool
	}{
		{name: "x alias", member: "x", expect: 1, ok: true},
		{name: "y alias", member: "y", expect: 2, ok: true},
		{name: "z alias", member: "z", expect: 3, ok: true},
		{name: "ordinal alias", member: "second", expect: 2, ok: true},
		{name: "alpha defaults when out of range, like Vector", member: "alpha", expect: 1, ok: true},
		{name: "unknown member", member: "nonexistent", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Member(v, tc.member)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.expect, got.Num())
			}
		})
	}
}

func Test_OrdinalName_and_OrdinalIndex_roundTrip(t *testing.T) {
	for n := 1; n <= 99; n++ {
		name := OrdinalName(n)
		require.NotEmpty(t, name, "n=%d", n)
		assert.Equal(t, n, OrdinalIndex(name), "round trip for n=%d (%s)", n, name)
	}

	assert.Equal(t, "", OrdinalName(0))
	assert.Equal(t, "", OrdinalName(100))
	assert.Equal(t, 0, OrdinalIndex("not-an-ordinal"))
}

func Test_RangeLen(t *testing.T) {
	testCases := []struct {
		name                 string
		from, to, step       float64
		expect               int
	}{
		{name: "ascending inclusive", from: 1, to: 5, step: 1, expect: 5},
		{name: "descending", from: 5, to: 1, step: -1, expect: 5},
		{name: "zero step is empty", from: 1, to: 5, step: 0, expect: 0},
		{name: "wrong direction is empty", from: 1, to: 5, step: -1, expect: 0},
		{name: "single value", from: 3, to: 3, step: 1, expect: 1},
		{name: "fractional step", from: 0, to: 1, step: 0.5, expect: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, RangeLen(tc.from, tc.to, tc.step))
		})
	}
}
