package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/tunaq/internal/direrr"
	"github.com/dekarrin/tunaq/shapescript/eval"
	"github.com/dekarrin/tunaq/shapescript/value"
)

// localDelegate resolves imports relative to a base directory on disk. It
// is the reference Delegate implementation named in SPEC_FULL.md's §6
// addition, letting the CLI exercise the evaluator end-to-end without a
// real geometry kernel.
type localDelegate struct {
	baseDir string
	logs    []string
}

func newLocalDelegate(sourcePath string) *localDelegate {
	return &localDelegate{baseDir: filepath.Dir(sourcePath)}
}

func (d *localDelegate) ResolveURL(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Clean(filepath.Join(d.baseDir, path)), nil
}

func (d *localDelegate) ReadSource(url string) (string, error) {
	data, err := os.ReadFile(url)
	if err != nil {
		return "", direrr.Wrap(err, "read source", fmt.Sprintf("could not read %s", url))
	}
	return string(data), nil
}

// ImportGeometry loads a non-.shape file's raw bytes and wraps them in an
// opaque Mesh handle; this CLI has no real geometry kernel (out of scope
// per spec.md §1), so the handle holds just the file's path and byte count,
// which is enough for the reference nullBuilder/tests to confirm an import
// ran.
func (d *localDelegate) ImportGeometry(url string) (value.Value, error) {
	data, err := os.ReadFile(url)
	if err != nil {
		return value.Value{}, direrr.Wrap(err, "import geometry", fmt.Sprintf("could not import %s", url))
	}
	return value.MeshOf(importedFile{path: url, byteLen: len(data)}), nil
}

type importedFile struct {
	path    string
	byteLen int
}

func (d *localDelegate) DebugLog(values []value.Value) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = describeForLog(v)
	}
	d.logs = append(d.logs, strings.Join(parts, " "))
	fmt.Println(strings.Join(parts, " "))
}

func describeForLog(v value.Value) string {
	switch v.Kind() {
	case value.String:
		return v.Str()
	case value.Number:
		return fmt.Sprintf("%g", v.Num())
	case value.Boolean:
		return fmt.Sprintf("%t", v.Bool())
	default:
		return v.Kind().String()
	}
}

// nullBuilder is the reference GeometryBuilder named in SPEC_FULL.md's §6
// addition: it performs no real geometry construction and instead returns
// an opaque token counting how many times Build has been called, so CLI
// sessions and tests can confirm the evaluator invoked it the expected
// number of times per tag.
type nullBuilder struct {
	calls int
	byTag map[string]int
}

func newNullBuilder() *nullBuilder {
	return &nullBuilder{byTag: make(map[string]int)}
}

type buildToken struct {
	Tag   string
	Index int
}

func (b *nullBuilder) Build(tag string, args value.Value, transform eval.Transform, material eval.Material, children []value.Value) (any, error) {
	b.calls++
	b.byTag[tag]++
	return buildToken{Tag: tag, Index: b.calls}, nil
}
