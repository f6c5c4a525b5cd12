package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/tunaq/shapescript/eval"
	"github.com/dekarrin/tunaq/shapescript/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_localDelegate_ResolveURL_relativeJoinsBaseDir(t *testing.T) {
	d := newLocalDelegate(filepath.Join("models", "main.shape"))
	got, err := d.ResolveURL("lib.shape")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("models", "lib.shape"), got)
}

func Test_localDelegate_ResolveURL_absoluteIsUnchanged(t *testing.T) {
	d := newLocalDelegate(filepath.Join("models", "main.shape"))
	abs := filepath.Join(string(filepath.Separator), "other", "lib.shape")
	got, err := d.ResolveURL(abs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(abs), got)
}

func Test_localDelegate_ReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.shape")
	require.NoError(t, os.WriteFile(path, []byte("cube { size 1 1 1 }\n"), 0644))

	d := newLocalDelegate(path)
	src, err := d.ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, "cube { size 1 1 1 }\n", src)
}

func Test_localDelegate_ReadSource_missingFileErrors(t *testing.T) {
	d := newLocalDelegate("main.shape")
	_, err := d.ReadSource(filepath.Join(t.TempDir(), "missing.shape"))
	assert.Error(t, err)
}

func Test_localDelegate_ImportGeometry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	require.NoError(t, os.WriteFile(path, []byte("vertices"), 0644))

	d := newLocalDelegate(path)
	v, err := d.ImportGeometry(path)
	require.NoError(t, err)
	assert.Equal(t, value.Mesh, v.Kind())

	handle, ok := v.Handle().(importedFile)
	require.True(t, ok)
	assert.Equal(t, path, handle.path)
	assert.Equal(t, len("vertices"), handle.byteLen)
}

func Test_localDelegate_ImportGeometry_missingFileErrors(t *testing.T) {
	d := newLocalDelegate("main.shape")
	_, err := d.ImportGeometry(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}

func Test_localDelegate_DebugLog_formatsEachValueKind(t *testing.T) {
	d := newLocalDelegate("main.shape")
	d.DebugLog([]value.Value{
		value.StringOf("hi"),
		value.NumberOf(2.5),
		value.BooleanOf(true),
	})
	require.Len(t, d.logs, 1)
	assert.Equal(t, "hi 2.5 true", d.logs[0])
}

func Test_nullBuilder_countsCallsPerTag(t *testing.T) {
	b := newNullBuilder()
	_, err := b.Build("cube", value.TupleOf(), eval.Transform{}, eval.Material{}, nil)
	require.NoError(t, err)
	_, err = b.Build("cube", value.TupleOf(), eval.Transform{}, eval.Material{}, nil)
	require.NoError(t, err)
	_, err = b.Build("sphere", value.TupleOf(), eval.Transform{}, eval.Material{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, b.calls)
	assert.Equal(t, 2, b.byTag["cube"])
	assert.Equal(t, 1, b.byTag["sphere"])
}

func Test_nullBuilder_Build_returnsIncrementingIndex(t *testing.T) {
	b := newNullBuilder()
	first, err := b.Build("cube", value.TupleOf(), eval.Transform{}, eval.Material{}, nil)
	require.NoError(t, err)
	second, err := b.Build("cube", value.TupleOf(), eval.Transform{}, eval.Material{}, nil)
	require.NoError(t, err)

	tok1, ok := first.(buildToken)
	require.True(t, ok)
	tok2, ok := second.(buildToken)
	require.True(t, ok)
	assert.Equal(t, 1, tok1.Index)
	assert.Equal(t, 2, tok2.Index)
}
