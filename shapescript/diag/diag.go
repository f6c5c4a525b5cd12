// Package diag implements ShapeScript's structured error reporting:
// lexer/parser/runtime diagnostics carrying a message, an optional hint, an
// optional single-token suggestion, and a source range, rendered with a
// caret-highlighted snippet. This mirrors the teacher's tqerrors package
// (a message plus a human-facing companion string) generalized to carry a
// source range instead of a "game message".
package diag

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunaq/internal/util"
	"github.com/dekarrin/tunaq/shapescript/srange"
	"github.com/google/uuid"
)

// Category is the top-level classification of an Error, matching spec.md
// §4.J's closed set.
type Category int

const (
	Lexer Category = iota
	Parser
	Runtime
)

func (c Category) String() string {
	switch c {
	case Lexer:
		return "lexer"
	case Parser:
		return "parser"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Kind is the specific error within a Category. The full enumeration across
// all categories is closed; see the constants below.
type Kind int

const (
	// Lexer kinds.
	InvalidNumber Kind = iota
	UnexpectedToken
	UnterminatedString
	InvalidEscapeSequence

	// Parser kinds (UnexpectedToken is shared with the lexer category).
	ParserCustom

	// Runtime kinds.
	UnknownSymbol
	UnknownMember
	TypeMismatch
	MissingArgument
	UnexpectedArgument
	AssertionFailure
	FileNotFound
	FileAccessRestricted
	FileTypeMismatch
	FileParsingError
	ImportError
	UnusedValue
	UnknownFont
)

// Error is a single ShapeScript diagnostic. The zero value is not valid;
// construct with the category-specific functions below.
type Error struct {
	// ID is a random identifier generated when this Error is constructed.
	// Two Errors reported for the same problem get different IDs.
	ID uuid.UUID

	Category Category
	Kind     Kind

	// Message is a short description with no trailing period.
	Message string

	// Hint is an optional full sentence, ending with a period.
	Hint string

	// Suggestion is an optional single replacement token.
	Suggestion string

	Range srange.Range

	wrapped error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the error that e wraps, if any (used by import error
// chaining, §7).
func (e *Error) Unwrap() error {
	return e.wrapped
}

// newError builds an Error with a freshly generated ID.
func newError(cat Category, kind Kind, r srange.Range, msg string) *Error {
	return &Error{
		ID:       uuid.New(),
		Category: cat,
		Kind:     kind,
		Message:  msg,
		Range:    r,
	}
}

// WithHint returns e with Hint set, for chaining at the construction site.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithSuggestion returns e with Suggestion set.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithWrapped returns e with an inner error attached (used when wrapping a
// nested import's error, §7).
func (e *Error) WithWrapped(inner error) *Error {
	e.wrapped = inner
	return e
}

// --- Lexer errors ---

func InvalidNumberError(r srange.Range, lexeme string) *Error {
	return newError(Lexer, InvalidNumber, r, fmt.Sprintf("invalid number literal %q", lexeme))
}

func UnexpectedTokenError(r srange.Range, got string) *Error {
	return newError(Lexer, UnexpectedToken, r, fmt.Sprintf("unexpected character %q", got))
}

func UnterminatedStringError(r srange.Range) *Error {
	return newError(Lexer, UnterminatedString, r, "unterminated string literal").
		WithHint("Strings cannot contain a literal newline; close the string with a matching \".")
}

func InvalidEscapeSequenceError(r srange.Range, seq string) *Error {
	return newError(Lexer, InvalidEscapeSequence, r, fmt.Sprintf("invalid escape sequence %q", seq))
}

// --- Parser errors ---

func UnexpectedParserTokenError(r srange.Range, got string, expected string) *Error {
	msg := fmt.Sprintf("unexpected token %q", got)
	e := newError(Parser, UnexpectedToken, r, msg)
	if expected != "" {
		e.Hint = fmt.Sprintf("Expected %s.", expected)
	}
	return e
}

func CustomParserError(r srange.Range, msg string, hint string) *Error {
	e := newError(Parser, ParserCustom, r, msg)
	e.Hint = hint
	return e
}

// --- Runtime errors ---

func UnknownSymbolError(r srange.Range, name string, candidates []string) *Error {
	e := newError(Runtime, UnknownSymbol, r, fmt.Sprintf("unknown symbol %q", name))
	if s := Suggest(name, candidates); s != "" {
		e.Suggestion = s
	}
	return e
}

func UnknownMemberError(r srange.Range, name string, ofType string, options []string) *Error {
	e := newError(Runtime, UnknownMember, r, fmt.Sprintf("%s has no member %q", ofType, name))
	if s := Suggest(name, options); s != "" {
		e.Suggestion = s
	} else if len(options) > 0 {
		e.Hint = fmt.Sprintf("Available members are %s.", util.MakeTextList(options))
	}
	return e
}

func TypeMismatchError(r srange.Range, forWhat string, index int, expected, got string) *Error {
	msg := fmt.Sprintf("type mismatch for %s argument %d: expected %s, got %s", forWhat, index, expected, got)
	return newError(Runtime, TypeMismatch, r, msg)
}

func MissingArgumentError(r srange.Range, name string, index int, expected string) *Error {
	msg := fmt.Sprintf("missing argument %d (%s) to %s", index, expected, name)
	return newError(Runtime, MissingArgument, r, msg)
}

func UnexpectedArgumentError(r srange.Range, name string, max int) *Error {
	msg := fmt.Sprintf("too many arguments to %s (expected at most %d)", name, max)
	return newError(Runtime, UnexpectedArgument, r, msg)
}

func AssertionFailureError(r srange.Range, msg string) *Error {
	return newError(Runtime, AssertionFailure, r, msg)
}

func FileNotFoundError(r srange.Range, path string) *Error {
	return newError(Runtime, FileNotFound, r, fmt.Sprintf("file not found: %s", path))
}

func FileAccessRestrictedError(r srange.Range, path string) *Error {
	return newError(Runtime, FileAccessRestricted, r, fmt.Sprintf("access to file restricted: %s", path))
}

func FileTypeMismatchError(r srange.Range, path string) *Error {
	return newError(Runtime, FileTypeMismatch, r, fmt.Sprintf("unsupported file type: %s", path))
}

func FileParsingErrorError(r srange.Range, path string, inner error) *Error {
	return newError(Runtime, FileParsingError, r, fmt.Sprintf("error parsing %s: %v", path, inner)).WithWrapped(inner)
}

// ImportErrorWrap wraps an inner error encountered while evaluating an
// imported file, attaching the importing source's range (§7: "Nested import
// errors wrap the inner error with the importing source and its range").
func ImportErrorWrap(r srange.Range, path string, inner error) *Error {
	return newError(Runtime, ImportError, r, fmt.Sprintf("error importing %s: %v", path, inner)).WithWrapped(inner)
}

func UnusedValueError(r srange.Range, what string) *Error {
	return newError(Runtime, UnusedValue, r, fmt.Sprintf("unused value: %s", what))
}

func UnknownFontError(r srange.Range, name string) *Error {
	return newError(Runtime, UnknownFont, r, fmt.Sprintf("unknown font %q", name))
}

// aliasTable maps common mistakes to their ShapeScript-correct spelling,
// consulted by Suggest before falling back to edit distance.
var aliasTable = map[string]string{
	"colour": "color",
	"and":    "and",
	"&&":     "and",
	"||":     "or",
	"=":      "=",
	":=":     "define",
	"<>":     "<>",
}

// Suggest returns the best candidate name for a misspelled identifier,
// or "" if none is close enough. It first checks the alias table, then
// falls back to Levenshtein distance against the in-scope candidate list,
// accepting a candidate only if its distance is at most ceil(len(name)/2).
func Suggest(name string, candidates []string) string {
	if alias, ok := aliasTable[name]; ok {
		for _, c := range candidates {
			if c == alias {
				return alias
			}
		}
	}

	maxDist := (len(name) + 1) / 2
	best := ""
	bestDist := maxDist + 1

	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if d <= maxDist && d < bestDist {
			best = c
			bestDist = d
		}
	}

	return best
}

// Distance returns the classic case-sensitive Levenshtein edit distance
// between a and b, as required by spec.md §8's testable properties.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// Render produces the full human-readable diagnostic: the message, a
// line/column pointer, a caret-highlighted source snippet, and any hint or
// suggestion, in the style tqerrors/syntaxerr messages are assembled in the
// teacher's Interpreter.
func (e *Error) Render(source string) string {
	return e.RenderFile("", source)
}

// RenderFile is Render but prefixes the file name to the location line, for
// diagnostics about a specific named source file.
func (e *Error) RenderFile(file, source string) string {
	line, col := srange.LineAndColumn(source, e.Range.Start)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s error: %s\n", e.Category, e.Message)
	if file != "" {
		fmt.Fprintf(&sb, "  at %s:%d:%d\n", file, line, col)
	} else {
		fmt.Fprintf(&sb, "  at line %d, column %d\n", line, col)
	}

	// wrap the snippet the same way the teacher wraps templated text before
	// display, so a long source line doesn't overrun the console.
	snippet := srange.Caret(source, e.Range, 120)
	wrapped := rosed.Edit(snippet).Wrap(116).String()
	for _, ln := range strings.Split(wrapped, "\n") {
		sb.WriteString("  ")
		sb.WriteString(ln)
		sb.WriteByte('\n')
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "  did you mean %q?\n", e.Suggestion)
	}
	if e.Hint != "" {
		fmt.Fprintf(&sb, "  %s\n", e.Hint)
	}

	return strings.TrimRight(sb.String(), "\n")
}
