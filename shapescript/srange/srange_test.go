package srange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Range_Empty(t *testing.T) {
	testCases := []struct {
		name   string
		r      Range
		expect bool
	}{
		{name: "zero value", r: Range{}, expect: true},
		{name: "start equals end", r: New(4, 4), expect: true},
		{name: "start after end", r: New(5, 2), expect: true},
		{name: "non-empty", r: New(2, 5), expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.r.Empty())
		})
	}
}

func Test_Range_Cover(t *testing.T) {
	testCases := []struct {
		name   string
		r1, r2 Range
		expect Range
	}{
		{name: "disjoint, r1 first", r1: New(0, 2), r2: New(5, 8), expect: New(0, 8)},
		{name: "disjoint, r2 first", r1: New(5, 8), r2: New(0, 2), expect: New(0, 8)},
		{name: "overlapping", r1: New(0, 5), r2: New(3, 8), expect: New(0, 8)},
		{name: "nested", r1: New(0, 10), r2: New(3, 5), expect: New(0, 10)},
		{name: "identical", r1: New(2, 4), r2: New(2, 4), expect: New(2, 4)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.r1.Cover(tc.r2))
			assert.Equal(t, tc.expect, tc.r2.Cover(tc.r1), "Cover should be symmetric")
		})
	}
}

func Test_Range_Text(t *testing.T) {
	src := "hello world"

	testCases := []struct {
		name   string
		r      Range
		expect string
	}{
		{name: "simple slice", r: New(0, 5), expect: "hello"},
		{name: "full text", r: New(0, 11), expect: "hello world"},
		{name: "clamped end", r: New(6, 100), expect: "world"},
		{name: "negative start clamped", r: New(-5, 5), expect: "hello"},
		{name: "reversed range swaps", r: New(5, 0), expect: "hello"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.r.Text(src))
		})
	}
}

func Test_LineAndColumn(t *testing.T) {
	src := "abc\ndef\r\nghi"

	testCases := []struct {
		name       string
		ix         int
		wantLine   int
		wantColumn int
	}{
		{name: "start of text", ix: 0, wantLine: 1, wantColumn: 1},
		{name: "mid first line", ix: 2, wantLine: 1, wantColumn: 3},
		{name: "start of second line", ix: 4, wantLine: 2, wantColumn: 1},
		{name: "start of third line after CRLF", ix: 9, wantLine: 3, wantColumn: 1},
		{name: "past end clamps", ix: 1000, wantLine: 3, wantColumn: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line, col := LineAndColumn(src, tc.ix)
			assert.Equal(t, tc.wantLine, line)
			assert.Equal(t, tc.wantColumn, col)
		})
	}
}

func Test_LineRange(t *testing.T) {
	src := "  indented line\nsecond"

	r := LineRange(src, 5, false)
	assert.Equal(t, "indented line", r.Text(src))

	r = LineRange(src, 5, true)
	assert.Equal(t, "  indented line", r.Text(src))
}

func Test_Caret(t *testing.T) {
	src := "define x = 1\n"
	r := New(7, 8) // the "x"

	out := Caret(src, r, 0)
	lines := splitLines(out)
	assert.Len(t, lines, 2)
	assert.Equal(t, "define x = 1", lines[0])
	assert.Equal(t, "       ^", lines[1])
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
