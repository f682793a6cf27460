// Package policy holds the Q-table and the stores it is persisted to.
package policy

import (
	"boxes/canonical"
	"boxes/game"
	"errors"
	"io/fs"
	"sort"
	"strings"
)

// ErrNoPolicy is returned by a Store that has nothing to load.
var ErrNoPolicy = errors.New("no saved policy, train first")

// Key is a canonical state paired with a move expressed in that state's frame.
type Key struct {
	State canonical.Key
	Move  game.Edge
}

type Entry struct {
	Key
	Value float64
}

// Table maps (state, move) pairs to value estimates. Absent keys read as 0.
// A Table is not safe for concurrent use.
type Table struct {
	size   int
	values map[Key]float64
}

func NewTable(size int) *Table {
	return &Table{size: size, values: map[Key]float64{}}
}

func (t *Table) Size() int { return t.size }
func (t *Table) Len() int  { return len(t.values) }

func (t *Table) Get(k Key) float64 {
	return t.values[k]
}

func (t *Table) Lookup(k Key) (float64, bool) {
	v, ok := t.values[k]
	return v, ok
}

func (t *Table) Set(k Key, v float64) {
	t.values[k] = v
}

// Entries returns every entry ordered by state key, then by move.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.values))
	for k, v := range t.values {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := strings.Compare(string(entries[i].State), string(entries[j].State)); c != 0 {
			return c < 0
		}
		return entries[i].Move.Less(entries[j].Move)
	})
	return entries
}

// Store persists a Table.
type Store interface {
	Save(t *Table) error
	Load() (*Table, error)
}

func missing(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &noPolicyError{path: path, err: err}
	}
	return nil
}

type noPolicyError struct {
	path string
	err  error
}

func (e *noPolicyError) Error() string {
	return ErrNoPolicy.Error() + ": " + e.path
}

func (e *noPolicyError) Unwrap() []error {
	return []error{ErrNoPolicy, e.err}
}
