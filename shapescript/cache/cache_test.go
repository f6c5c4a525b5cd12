package cache

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/tunaq/shapescript/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src, url string) *parse.Program {
	t.Helper()
	prog, err := parse.Parse(src, url)
	require.NoError(t, err)
	return prog
}

func Test_Store_GetMiss(t *testing.T) {
	s := New()
	_, ok := s.Get("http://example.com/lib.shape")
	assert.False(t, ok)
}

func Test_Store_PutThenGet(t *testing.T) {
	s := New()
	prog := mustParse(t, "cube { size 1 1 1 }\n", "lib.shape")
	s.Put("lib.shape", prog)

	got, ok := s.Get("lib.shape")
	require.True(t, ok)
	assert.Equal(t, prog, got)
}

func Test_Store_SaveAndLoadFromDisk_roundTrip(t *testing.T) {
	s := New()
	s.Put("a.shape", mustParse(t, "cube { size 1 1 1 }\n", "a.shape"))
	s.Put("b.shape", mustParse(t, "sphere { size 2 2 2 }\n", "b.shape"))

	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, s.SaveToDisk(path))

	loaded := New()
	require.NoError(t, loaded.LoadFromDisk(path))

	for _, url := range []string{"a.shape", "b.shape"} {
		want, ok := s.Get(url)
		require.True(t, ok)
		got, ok := loaded.Get(url)
		require.True(t, ok)
		assert.Equal(t, want.Source, got.Source)
		assert.Equal(t, want.FileURL, got.FileURL)
	}
}

func Test_Store_LoadFromDisk_staleHashIsSkipped(t *testing.T) {
	s := New()
	s.Put("a.shape", mustParse(t, "cube { size 1 1 1 }\n", "a.shape"))

	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, s.SaveToDisk(path))

	// Tamper with the in-memory entry's hash so the persisted snapshot no
	// longer matches what SaveToDisk would have written for this source,
	// simulating a corrupted or hand-edited cache file.
	s.entries["a.shape"].sourceHash = "not-a-real-hash"
	require.NoError(t, s.SaveToDisk(path))

	loaded := New()
	require.NoError(t, loaded.LoadFromDisk(path))
	_, ok := loaded.Get("a.shape")
	assert.False(t, ok, "entries whose stored hash doesn't match their source must not be loaded")
}

func Test_Store_LoadFromDisk_missingFileErrors(t *testing.T) {
	s := New()
	err := s.LoadFromDisk(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	assert.Error(t, err)
}

func Test_Store_LoadFromDisk_corruptDataErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, writeFile(path, []byte("not a rezi stream")))

	s := New()
	err := s.LoadFromDisk(path)
	assert.Error(t, err)
}

func Test_Store_PutOverwritesExistingEntry(t *testing.T) {
	s := New()
	s.Put("a.shape", mustParse(t, "cube { size 1 1 1 }\n", "a.shape"))
	s.Put("a.shape", mustParse(t, "sphere { size 2 2 2 }\n", "a.shape"))

	got, ok := s.Get("a.shape")
	require.True(t, ok)
	assert.Equal(t, "sphere { size 2 2 2 }\n", got.Source)
}

func Test_hashSource_isStableAndSensitiveToContent(t *testing.T) {
	a := hashSource("cube { size 1 1 1 }\n")
	b := hashSource("cube { size 1 1 1 }\n")
	c := hashSource("sphere { size 1 1 1 }\n")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
