// Package local is an in-process vector store using brute-force cosine
// similarity. When constructed with a persist directory it writes one
// JSON file per collection and reloads them on startup; with an empty
// directory it is purely in-memory.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"docrag/internal/domain"
)

type record struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Vector   []float32       `json:"vector"`
	Metadata domain.Metadata `json:"metadata"`
}

// Store holds named collections, optionally backed by a directory.
type Store struct {
	mu          sync.RWMutex
	dir         string
	collections map[string]*collection
}

// NewStore opens a store. A non-empty dir is created if needed and any
// collection files already in it are loaded.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir, collections: make(map[string]*collection)}
	if dir == "" {
		return s, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		c, err := loadCollection(s, name, filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		s.collections[name] = c
	}
	return s, nil
}

// GetOrCreateCollection returns the named collection, creating it if
// absent. Creation is not persisted until the first write.
func (s *Store) GetOrCreateCollection(_ context.Context, name string) (domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return c, nil
	}
	c := &collection{store: s, name: name, index: make(map[string]int)}
	s.collections[name] = c
	return c, nil
}

// GetCollection returns the named collection or ErrCollectionNotFound.
func (s *Store) GetCollection(_ context.Context, name string) (domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrCollectionNotFound)
	}
	return c, nil
}

type collection struct {
	store *Store
	name  string

	mu      sync.RWMutex
	records []record
	index   map[string]int // id -> position in records
}

func loadCollection(s *Store, name, path string) (*collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", name, err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("load collection %s: %w", name, err)
	}
	c := &collection{store: s, name: name, records: records, index: make(map[string]int, len(records))}
	for i, r := range records {
		c.index[r.ID] = i
	}
	return c, nil
}

func (c *collection) Name() string { return c.name }

// Add writes units in one call, overwriting records whose id already
// exists so re-ingesting a file does not grow the collection.
func (c *collection) Add(_ context.Context, units []domain.EmbeddedUnit) error {
	seen := make(map[string]struct{}, len(units))
	for _, u := range units {
		if u.ID == "" {
			return fmt.Errorf("empty unit id: %w", domain.ErrInvalidConfig)
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("duplicate id %q in one add: %w", u.ID, domain.ErrInvalidConfig)
		}
		seen[u.ID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range units {
		r := record{ID: u.ID, Text: u.Unit.Text, Vector: u.Vector, Metadata: u.Metadata}
		if i, ok := c.index[u.ID]; ok {
			c.records[i] = r
			continue
		}
		c.index[u.ID] = len(c.records)
		c.records = append(c.records, r)
	}
	return c.persistLocked()
}

// Query ranks all records by cosine similarity and returns at most k,
// best-first.
func (c *collection) Query(_ context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k %d: %w", k, domain.ErrInvalidConfig)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make([]domain.RetrievalResult, 0, len(c.records))
	for _, r := range c.records {
		results = append(results, domain.RetrievalResult{
			Text:     r.Text,
			Metadata: r.Metadata,
			Score:    cosine(vector, r.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (c *collection) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), nil
}

// persistLocked writes the collection file via a temp-file rename so a
// crash mid-write never leaves a truncated collection.
func (c *collection) persistLocked() error {
	if c.store.dir == "" {
		return nil
	}
	data, err := json.Marshal(c.records)
	if err != nil {
		return fmt.Errorf("persist collection %s: %w", c.name, err)
	}
	path := filepath.Join(c.store.dir, c.name+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("persist collection %s: %w", c.name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("persist collection %s: %w", c.name, err)
	}
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
