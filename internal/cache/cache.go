// Package cache stores per-file analysis results keyed by content and
// rule set, in memory (LRU) and optionally on disk (msgpack).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"tokensniff/internal/diag"
)

// schemaVersion is bumped whenever Entry changes shape.
const schemaVersion uint16 = 1

// DefaultMemoryEntries sizes the in-memory tier.
const DefaultMemoryEntries = 4096

// Key identifies one analysis: file path and content, grammar, tab width
// and the registry fingerprint.
type Key [sha256.Size]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// KeyFor computes the key of an analysis.
func KeyFor(path string, content []byte, grammar string, tabWidth int, fingerprint string) Key {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%s\x00%s\x00%d\x00%s\x00", schemaVersion, path, grammar, tabWidth, fingerprint)
	_, _ = h.Write(content)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Entry is a cached result.
type Entry struct {
	Schema      uint16
	Path        string
	Diagnostics []diag.Diagnostic
	Counts      diag.Counts
	Fatal       bool
}

// Store layers an LRU over an optional disk cache.
type Store struct {
	mem  *lru.Cache[Key, *Entry]
	disk *Disk
}

// New creates a store; disk may be nil.
func New(memEntries int, disk *Disk) (*Store, error) {
	if memEntries <= 0 {
		memEntries = DefaultMemoryEntries
	}
	mem, err := lru.New[Key, *Entry](memEntries)
	if err != nil {
		return nil, err
	}
	return &Store{mem: mem, disk: disk}, nil
}

// Get looks the key up in memory, then on disk.
func (s *Store) Get(k Key) (*Entry, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	if e, ok := s.mem.Get(k); ok {
		return e, true, nil
	}
	var e Entry
	ok, err := s.disk.Get(k, &e)
	if err != nil || !ok {
		return nil, false, err
	}
	if e.Schema != schemaVersion {
		return nil, false, nil
	}
	s.mem.Add(k, &e)
	return &e, true, nil
}

// Put stores e in both tiers.
func (s *Store) Put(k Key, e *Entry) error {
	if s == nil || e == nil {
		return nil
	}
	e.Schema = schemaVersion
	s.mem.Add(k, e)
	return s.disk.Put(k, e)
}

// Len returns the number of entries held in memory.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return s.mem.Len()
}

// Purge drops both tiers.
func (s *Store) Purge() error {
	if s == nil {
		return nil
	}
	s.mem.Purge()
	return s.disk.DropAll()
}
