// Package store persists per-user resolution state. Each document namespace
// owns one bag, always read and written as a whole object so the two marker
// maps inside it can never drift apart.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"decklint/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS bags (
	namespace TEXT PRIMARY KEY,
	data TEXT NOT NULL
);`

// Kind selects which marker map a resolution lands in.
type Kind string

const (
	KindResolved    Kind = "resolved"
	KindIntentional Kind = "intentional"
)

// Marker records when an issue was marked.
type Marker struct {
	At time.Time `json:"at"`
}

// Bag is the whole persisted object for one document namespace.
type Bag struct {
	Resolved       map[string]Marker `json:"resolved"`
	Intentional    map[string]Marker `json:"intentional"`
	LastScanCounts *model.Counts     `json:"lastScanCounts"`
}

func emptyBag() Bag {
	return Bag{
		Resolved:    map[string]Marker{},
		Intentional: map[string]Marker{},
	}
}

// Store is the sqlite-backed bag store.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the per-user database location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".decklint", "decklint.db"), nil
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	return open(path)
}

// OpenMemory opens an in-memory store. Used by tests.
func OpenMemory() (*Store, error) {
	return open(":memory:")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Bag loads the bag for a namespace. A missing or malformed row yields
// empty defaults, never an error about corruption.
func (s *Store) Bag(ctx context.Context, namespace string) (Bag, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM bags WHERE namespace = ?", namespace).Scan(&data)
	if err == sql.ErrNoRows {
		return emptyBag(), nil
	}
	if err != nil {
		return Bag{}, fmt.Errorf("load bag: %w", err)
	}

	var bag Bag
	if err := json.Unmarshal([]byte(data), &bag); err != nil {
		return emptyBag(), nil
	}
	if bag.Resolved == nil {
		bag.Resolved = map[string]Marker{}
	}
	if bag.Intentional == nil {
		bag.Intentional = map[string]Marker{}
	}
	return bag, nil
}

// SetBag replaces the whole bag for a namespace. It returns only after the
// write is committed, so in-memory state derived from the bag can be
// refreshed safely afterwards.
func (s *Store) SetBag(ctx context.Context, namespace string, bag Bag) error {
	data, err := json.Marshal(bag)
	if err != nil {
		return fmt.Errorf("encode bag: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO bags (namespace, data) VALUES (?, ?) ON CONFLICT(namespace) DO UPDATE SET data = excluded.data",
		namespace, string(data),
	)
	if err != nil {
		return fmt.Errorf("save bag: %w", err)
	}
	return nil
}

// MarkResolved records a marker of the given kind against an issue key.
func (s *Store) MarkResolved(ctx context.Context, namespace, key string, kind Kind) error {
	bag, err := s.Bag(ctx, namespace)
	if err != nil {
		return err
	}
	marker := Marker{At: time.Now().UTC()}
	switch kind {
	case KindResolved:
		bag.Resolved[key] = marker
	case KindIntentional:
		bag.Intentional[key] = marker
	default:
		return fmt.Errorf("unknown resolution kind %q", kind)
	}
	return s.SetBag(ctx, namespace, bag)
}

// ClearResolved resets both marker maps for a namespace. The previous-scan
// counts reset with them; the next scan establishes a fresh baseline.
func (s *Store) ClearResolved(ctx context.Context, namespace string) error {
	return s.SetBag(ctx, namespace, emptyBag())
}

// ResolvedIndex returns the set of keys marked in either map.
func (s *Store) ResolvedIndex(ctx context.Context, namespace string) (map[string]bool, error) {
	bag, err := s.Bag(ctx, namespace)
	if err != nil {
		return nil, err
	}
	index := make(map[string]bool, len(bag.Resolved)+len(bag.Intentional))
	for k := range bag.Resolved {
		index[k] = true
	}
	for k := range bag.Intentional {
		index[k] = true
	}
	return index, nil
}

// LastScanCounts returns the persisted counts snapshot, or nil when no scan
// has been recorded for this namespace.
func (s *Store) LastScanCounts(ctx context.Context, namespace string) (*model.Counts, error) {
	bag, err := s.Bag(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return bag.LastScanCounts, nil
}

// SetLastScanCounts overwrites the counts snapshot used for delta
// computation.
func (s *Store) SetLastScanCounts(ctx context.Context, namespace string, counts *model.Counts) error {
	bag, err := s.Bag(ctx, namespace)
	if err != nil {
		return err
	}
	bag.LastScanCounts = counts
	return s.SetBag(ctx, namespace, bag)
}
