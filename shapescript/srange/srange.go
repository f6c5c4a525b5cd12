// Package srange provides a half-open index interval into a ShapeScript
// source string along with the line/column lookups that diagnostics are
// built from. The lexer and parser never branch on line/column; only the
// diag package consults this information when rendering a message.
package srange

import "strings"

// Range is a half-open byte-index interval [Start, End) into a source
// string. The zero value is the empty range at offset 0.
type Range struct {
	Start int
	End   int
}

// New returns the Range [start, end).
func New(start, end int) Range {
	return Range{Start: start, End: end}
}

// Empty returns whether the range contains no bytes.
func (r Range) Empty() bool {
	return r.Start >= r.End
}

// Cover returns the smallest Range that contains both r and o.
func (r Range) Cover(o Range) Range {
	start := r.Start
	if o.Start < start {
		start = o.Start
	}
	end := r.End
	if o.End > end {
		end = o.End
	}
	return Range{Start: start, End: end}
}

// Text returns the substring of src covered by r. Out-of-bounds offsets are
// clamped to the bounds of src.
func (r Range) Text(src string) string {
	start, end := clamp(src, r.Start), clamp(src, r.End)
	if start > end {
		start, end = end, start
	}
	return src[start:end]
}

func clamp(src string, ix int) int {
	if ix < 0 {
		return 0
	}
	if ix > len(src) {
		return len(src)
	}
	return ix
}

// LineAt returns the 1-indexed line number that byte offset ix falls on
// within src. Line boundaries are "\n", "\r", and "\r\n".
func LineAt(src string, ix int) int {
	line, _ := LineAndColumn(src, ix)
	return line
}

// LineAndColumn returns the 1-indexed line and column of byte offset ix
// within src. Column is a count of bytes (not runes) since the preceding
// line boundary.
func LineAndColumn(src string, ix int) (line, column int) {
	ix = clamp(src, ix)

	line = 1
	lineStart := 0

	i := 0
	for i < ix {
		ch := src[i]
		if ch == '\r' {
			line++
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			i++
			lineStart = i
			continue
		}
		if ch == '\n' {
			line++
			i++
			lineStart = i
			continue
		}
		i++
	}

	column = ix - lineStart + 1
	return line, column
}

// LineRange returns the Range spanning the full line of source text that
// byte offset ix falls within, not including the line terminator itself. If
// includeIndent is false, leading whitespace on the line is excluded.
func LineRange(src string, ix int, includeIndent bool) Range {
	ix = clamp(src, ix)

	start := ix
	for start > 0 && !isBoundaryByte(src[start-1]) {
		start--
	}

	end := ix
	for end < len(src) && !isBoundaryByte(src[end]) {
		end++
	}

	if !includeIndent {
		for start < end && isIndent(src[start]) {
			start++
		}
	}

	return Range{Start: start, End: end}
}

func isBoundaryByte(b byte) bool {
	return b == '\n' || b == '\r'
}

func isIndent(b byte) bool {
	return b == ' ' || b == '\t'
}

// Caret renders a two-line "source line" + "caret pointer" snippet for the
// given range, using the whole line the range starts on. width is the
// maximum line length before the line is truncated with an ellipsis; pass 0
// for no limit.
func Caret(src string, r Range, width int) string {
	lineRange := LineRange(src, r.Start, true)
	line := lineRange.Text(src)
	line = strings.TrimRight(line, "\r\n")

	caretStart := r.Start - lineRange.Start
	caretLen := r.End - r.Start
	if caretLen < 1 {
		caretLen = 1
	}

	if width > 0 && len(line) > width {
		line = line[:width] + "..."
		if caretStart > width {
			caretStart = width
		}
	}

	var sb strings.Builder
	sb.WriteString(line)
	sb.WriteByte('\n')
	for i := 0; i < caretStart; i++ {
		if i < len(line) && line[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	for i := 0; i < caretLen; i++ {
		sb.WriteByte('^')
	}
	return sb.String()
}
