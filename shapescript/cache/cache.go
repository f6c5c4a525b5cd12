// Package cache implements a Program cache keyed by absolute URL
// (spec.md §4.K, an addition beyond the distilled spec): an in-memory
// store satisfying the evaluator's per-evaluation import-cache need, plus
// optional disk persistence across process runs using rezi.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/tunaq/shapescript/parse"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Store is a URL-keyed Program cache. The zero value is not valid; use New.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	sourceHash string
	program    *parse.Program
}

func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Get returns the cached program for url, if present.
func (s *Store) Get(url string) (*parse.Program, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[url]
	if !ok {
		return nil, false
	}
	return e.program, true
}

// Put stores prog under url, keyed additionally by a hash of its source so
// a stale disk snapshot can be detected on load (see diskEntry).
func (s *Store) Put(url string, prog *parse.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[url] = &entry{sourceHash: hashSource(prog.Source), program: prog}
}

func hashSource(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// diskEntry is the serializable snapshot rezi persists: the resolved URL,
// a hash of the source text at cache-write time, and the source text
// itself. The parsed Statement tree is intentionally NOT part of this
// snapshot (see the package doc note in LoadFromDisk) — on load, a cache
// hit is detected by URL+hash and the program is re-parsed from Source,
// which is cheap relative to avoiding a network re-fetch.
type diskEntry struct {
	URL        string
	SourceHash string
	Source     string
	FileURL    string
}

// SaveToDisk writes every cached program to path as a rezi-encoded slice
// of diskEntry records.
func (s *Store) SaveToDisk(path string) error {
	s.mu.RLock()
	snapshot := make([]diskEntry, 0, len(s.entries))
	for url, e := range s.entries {
		snapshot = append(snapshot, diskEntry{
			URL:        url,
			SourceHash: e.sourceHash,
			Source:     e.program.Source,
			FileURL:    e.program.FileURL,
		})
	}
	s.mu.RUnlock()

	data := rezi.EncBinary(snapshot)
	return writeFile(path, data)
}

// LoadFromDisk reads path (as written by SaveToDisk) and re-parses each
// entry's source text into a Program, repopulating the in-memory store.
//
// The on-disk format stores source text rather than the parsed Stmt/Expr
// tree itself: spec.md §4.K models the snapshot as "{SourceHash,
// Statements}", but shapescript/parse's Stmt/Expr nodes are a closed set
// of interface-satisfying structs, and rezi's reflective binary codec
// (grounded on the teacher's sqlite.go round-trip of concrete-field
// structs like game.State) has no registration hook for re-hydrating an
// arbitrary interface value without knowing its concrete type up front.
// Re-parsing cached source text on load gets the same practical benefit —
// skipping a network re-fetch of the import — without requiring a
// per-node-type registry that spec.md's needs don't otherwise justify.
func (s *Store) LoadFromDisk(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	var snapshot []diskEntry
	if _, err := rezi.DecBinary(data, &snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range snapshot {
		if hashSource(e.Source) != e.SourceHash {
			continue
		}
		prog, err := parse.Parse(e.Source, e.FileURL)
		if err != nil {
			continue
		}
		s.entries[e.URL] = &entry{sourceHash: e.SourceHash, program: prog}
	}
	return nil
}
