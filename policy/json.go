package policy

import (
	"boxes/canonical"
	"boxes/game"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const jsonVersion = 1

var ErrBadPolicy = errors.New("malformed policy")

// JSONFile stores a Table as a JSON document. Every entry spells out its
// canonical state as nested integer arrays, so the file can be read without
// knowing the in-memory key encoding.
type JSONFile struct {
	Path string
}

type jsonPolicy struct {
	Version  int         `json:"version"`
	GridSize int         `json:"grid_size"`
	Entries  []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Edges  [][4]int `json:"edges"`
	Owners [][]int  `json:"owners"`
	Move   [4]int   `json:"move"`
	Value  float64  `json:"value"`
}

func (s JSONFile) Save(t *Table) error {
	doc := jsonPolicy{Version: jsonVersion, GridSize: t.Size()}
	doc.Entries = make([]jsonEntry, 0, t.Len())
	for _, e := range t.Entries() {
		form, err := canonical.DecodeKey(t.Size(), e.State)
		if err != nil {
			return fmt.Errorf("failed to encode policy entry: %w", err)
		}
		entry := jsonEntry{
			Edges:  make([][4]int, len(form.Lines)),
			Owners: make([][]int, len(form.Owners)),
			Move:   e.Move.Tuple(),
			Value:  e.Value,
		}
		for i, l := range form.Lines {
			entry.Edges[i] = l.Tuple()
		}
		for row, owners := range form.Owners {
			entry.Owners[row] = make([]int, len(owners))
			for col, o := range owners {
				entry.Owners[row][col] = int(o)
			}
		}
		doc.Entries = append(doc.Entries, entry)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create policy directory: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("failed to replace policy file: %w", err)
	}
	return nil
}

func (s JSONFile) Load() (*Table, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if e := missing(s.Path, err); e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var doc jsonPolicy
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadPolicy, s.Path, err)
	}
	if doc.Version != jsonVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadPolicy, doc.Version)
	}
	if doc.GridSize < 1 || doc.GridSize > canonical.MaxSize {
		return nil, fmt.Errorf("%w: grid size %d", ErrBadPolicy, doc.GridSize)
	}

	t := NewTable(doc.GridSize)
	for i, entry := range doc.Entries {
		k, err := entry.key(doc.GridSize)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrBadPolicy, i, err)
		}
		t.Set(k, entry.Value)
	}
	return t, nil
}

func (e jsonEntry) key(size int) (Key, error) {
	board := game.NewBoard(size)
	form := canonical.Form{Size: size, Lines: make([]game.Edge, len(e.Edges))}
	for i, tuple := range e.Edges {
		edge, err := edgeOf(board, tuple)
		if err != nil {
			return Key{}, err
		}
		form.Lines[i] = edge
	}
	sort.Slice(form.Lines, func(i, j int) bool { return form.Lines[i].Less(form.Lines[j]) })

	if len(e.Owners) != size {
		return Key{}, fmt.Errorf("owner grid has %d rows, want %d", len(e.Owners), size)
	}
	form.Owners = make([][]game.Player, size)
	for row, owners := range e.Owners {
		if len(owners) != size {
			return Key{}, fmt.Errorf("owner row %d has %d cells, want %d", row, len(owners), size)
		}
		form.Owners[row] = make([]game.Player, size)
		for col, o := range owners {
			if o < int(game.Unowned) || o > int(game.PlayerB) {
				return Key{}, fmt.Errorf("unknown owner %d", o)
			}
			form.Owners[row][col] = game.Player(o)
		}
	}

	move, err := edgeOf(board, e.Move)
	if err != nil {
		return Key{}, err
	}
	return Key{State: form.Key(), Move: move}, nil
}

func edgeOf(board *game.Board, tuple [4]int) (game.Edge, error) {
	e := game.NewEdge(tuple[0], tuple[1], tuple[2], tuple[3])
	if !e.Adjacent() || !board.Contains(e) {
		return game.Edge{}, fmt.Errorf("invalid edge %v", tuple)
	}
	return e.Normalize(), nil
}
