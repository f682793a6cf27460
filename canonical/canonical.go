// Package canonical collapses the eight rotations and reflections of a board
// position into one representative, so positions that are the same up to
// symmetry share a single key.
//
// A rotation maps dot (x, y) to (y, n-x) and a reflection maps it to (x, n-y).
// Box owners move with their four corner dots under the same maps.
package canonical

import (
	"boxes/game"
	"sort"
)

// Form is a normalized position: lines with ordered endpoints in ascending
// order, and the owner grid with game.Unowned for empty boxes.
type Form struct {
	Size   int
	Lines  []game.Edge
	Owners [][]game.Player
}

type Canonicalizer struct {
	size int
}

func New(size int) *Canonicalizer {
	return &Canonicalizer{size: size}
}

func (c *Canonicalizer) Size() int { return c.size }

// Canonicalize returns the smallest normalized variant of raw under Compare.
func (c *Canonicalizer) Canonicalize(raw game.RawState) Form {
	f, _ := c.Orient(raw)
	return f
}

// Orient is Canonicalize that also reports every Variants index producing the
// form. A symmetric position has more than one.
func (c *Canonicalizer) Orient(raw game.RawState) (Form, []int) {
	variants := c.Variants(raw)
	best, indices := normalize(c.size, variants[0]), []int{0}
	for i, v := range variants[1:] {
		f := normalize(c.size, v)
		switch cmp := f.Compare(best); {
		case cmp < 0:
			best, indices = f, []int{i + 1}
		case cmp == 0:
			indices = append(indices, i+1)
		}
	}
	return best, indices
}

// MoveIn carries e into the canonical frame given by Orient's indices, taking
// the smallest image so moves that are symmetric in the position coincide.
func (c *Canonicalizer) MoveIn(indices []int, e game.Edge) game.Edge {
	best := c.MapEdge(indices[0], e)
	for _, i := range indices[1:] {
		if m := c.MapEdge(i, e); m.Less(best) {
			best = m
		}
	}
	return best
}

// MapEdge applies symmetry i of Variants to e: the reflection first when i >= 4,
// then i mod 4 quarter turns. The result is normalized.
func (c *Canonicalizer) MapEdge(i int, e game.Edge) game.Edge {
	n := c.size
	if i >= 4 {
		e = game.NewEdge(e.X1, n-e.Y1, e.X2, n-e.Y2)
	}
	for r := 0; r < i%4; r++ {
		e = game.NewEdge(e.Y1, n-e.X1, e.Y2, n-e.X2)
	}
	return e.Normalize()
}

// Key is shorthand for Canonicalize(raw).Key().
func (c *Canonicalizer) Key(raw game.RawState) Key {
	return c.Canonicalize(raw).Key()
}

// Variants returns the identity, the three successive quarter turns, the
// reflection, and the three quarter turns of the reflection.
func (c *Canonicalizer) Variants(raw game.RawState) [8]game.RawState {
	var out [8]game.RawState
	out[0] = raw
	for i := 1; i < 4; i++ {
		out[i] = c.Rotate(out[i-1])
	}
	out[4] = c.Reflect(raw)
	for i := 5; i < 8; i++ {
		out[i] = c.Rotate(out[i-1])
	}
	return out
}

// Rotate turns the position a quarter: (x, y) -> (y, n-x).
func (c *Canonicalizer) Rotate(raw game.RawState) game.RawState {
	n := c.size
	lines := make([]game.Edge, len(raw.Lines))
	for i, e := range raw.Lines {
		lines[i] = game.NewEdge(e.Y1, n-e.X1, e.Y2, n-e.X2)
	}
	// Box (r, c) lands on (n-1-c, r).
	owners := newGrid(n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			owners[row][col] = ownerAt(raw, col, n-1-row)
		}
	}
	return game.RawState{Size: n, Lines: lines, Owners: owners}
}

// Reflect mirrors the position across the horizontal axis: (x, y) -> (x, n-y).
func (c *Canonicalizer) Reflect(raw game.RawState) game.RawState {
	n := c.size
	lines := make([]game.Edge, len(raw.Lines))
	for i, e := range raw.Lines {
		lines[i] = game.NewEdge(e.X1, n-e.Y1, e.X2, n-e.Y2)
	}
	// Box (r, c) lands on (n-1-r, c).
	owners := newGrid(n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			owners[row][col] = ownerAt(raw, n-1-row, col)
		}
	}
	return game.RawState{Size: n, Lines: lines, Owners: owners}
}

func normalize(size int, raw game.RawState) Form {
	lines := make([]game.Edge, len(raw.Lines))
	for i, e := range raw.Lines {
		lines[i] = e.Normalize()
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Less(lines[j]) })

	owners := newGrid(size)
	for row := range owners {
		for col := range owners[row] {
			owners[row][col] = ownerAt(raw, row, col)
		}
	}
	return Form{Size: size, Lines: lines, Owners: owners}
}

// ownerAt reads an owner, treating a missing or foreign value as unowned.
func ownerAt(raw game.RawState, row, col int) game.Player {
	if row >= len(raw.Owners) || col >= len(raw.Owners[row]) {
		return game.Unowned
	}
	switch p := raw.Owners[row][col]; p {
	case game.PlayerA, game.PlayerB:
		return p
	default:
		return game.Unowned
	}
}

func newGrid(n int) [][]game.Player {
	grid := make([][]game.Player, n)
	for row := range grid {
		grid[row] = make([]game.Player, n)
	}
	return grid
}

// Compare orders forms by their line sequences, then by their owner grids read row by row.
func (f Form) Compare(o Form) int {
	for i := 0; i < len(f.Lines) && i < len(o.Lines); i++ {
		if c := f.Lines[i].Compare(o.Lines[i]); c != 0 {
			return c
		}
	}
	if len(f.Lines) != len(o.Lines) {
		if len(f.Lines) < len(o.Lines) {
			return -1
		}
		return 1
	}
	for row := 0; row < len(f.Owners) && row < len(o.Owners); row++ {
		for col := 0; col < len(f.Owners[row]) && col < len(o.Owners[row]); col++ {
			a, b := f.Owners[row][col], o.Owners[row][col]
			if a != b {
				if a < b {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}

// Raw turns the form back into a snapshot, e.g. to canonicalize it again.
func (f Form) Raw() game.RawState {
	lines := make([]game.Edge, len(f.Lines))
	copy(lines, f.Lines)
	owners := newGrid(f.Size)
	for row := range owners {
		copy(owners[row], f.Owners[row])
	}
	return game.RawState{Size: f.Size, Lines: lines, Owners: owners}
}
