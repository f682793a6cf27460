package game

import "sort"

// Cell addresses a box by row and column.
type Cell struct {
	Row int
	Col int
}

// Board holds the drawn lines and box owners of an n×n grid of boxes.
// Lines are stored normalized, so lookups ignore endpoint order.
type Board struct {
	size   int
	lines  map[Edge]struct{}
	order  []Edge
	owners [][]Player // [row][col]
}

func NewBoard(size int) *Board {
	b := &Board{size: size}
	b.Reset()
	return b
}

// TotalEdges is the number of lines on a grid with size boxes per side.
func TotalEdges(size int) int {
	return 2 * size * (size + 1)
}

func (b *Board) Reset() {
	b.lines = make(map[Edge]struct{}, TotalEdges(b.size))
	b.order = b.order[:0]
	b.owners = make([][]Player, b.size)
	for row := range b.owners {
		b.owners[row] = make([]Player, b.size)
	}
}

func (b *Board) Size() int { return b.size }

func (b *Board) EdgeCount() int { return len(b.order) }

func (b *Board) Full() bool { return len(b.order) == TotalEdges(b.size) }

func (b *Board) Has(e Edge) bool {
	_, ok := b.lines[e.Normalize()]
	return ok
}

// Contains reports whether both endpoints of e lie on the grid.
func (b *Board) Contains(e Edge) bool {
	return b.onGrid(e.From()) && b.onGrid(e.To())
}

func (b *Board) onGrid(p Point) bool {
	return p.X >= 0 && p.X <= b.size && p.Y >= 0 && p.Y <= b.size
}

// Draw records e and reports false if it was already present.
func (b *Board) Draw(e Edge) bool {
	n := e.Normalize()
	if _, ok := b.lines[n]; ok {
		return false
	}
	b.lines[n] = struct{}{}
	b.order = append(b.order, e)
	return true
}

// Lines returns the drawn lines in the order they were drawn.
func (b *Board) Lines() []Edge {
	out := make([]Edge, len(b.order))
	copy(out, b.order)
	return out
}

// Sorted returns the normalized lines in ascending order.
func (b *Board) Sorted() []Edge {
	out := make([]Edge, 0, len(b.lines))
	for e := range b.lines {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (b *Board) Owner(row, col int) Player {
	return b.owners[row][col]
}

// Claim gives an unowned box to p. Owned boxes never change hands.
func (b *Board) Claim(row, col int, p Player) bool {
	if b.owners[row][col] != Unowned {
		return false
	}
	b.owners[row][col] = p
	return true
}

// Owners returns a copy of the owner grid.
func (b *Board) Owners() [][]Player {
	out := make([][]Player, b.size)
	for row := range b.owners {
		out[row] = make([]Player, b.size)
		copy(out[row], b.owners[row])
	}
	return out
}

// BoxEdges returns the top, bottom, left and right lines of a box.
func BoxEdges(row, col int) [4]Edge {
	return [4]Edge{
		NewEdge(col, row, col+1, row),
		NewEdge(col, row+1, col+1, row+1),
		NewEdge(col, row, col, row+1),
		NewEdge(col+1, row, col+1, row+1),
	}
}

// DrawnAround counts the drawn lines of a box.
func (b *Board) DrawnAround(row, col int) int {
	count := 0
	for _, e := range BoxEdges(row, col) {
		if b.Has(e) {
			count++
		}
	}
	return count
}

// BoxesBeside returns the one or two boxes a line borders.
func (b *Board) BoxesBeside(e Edge) []Cell {
	n := e.Normalize()
	var candidates [2]Cell
	if n.Horizontal() {
		candidates = [2]Cell{{Row: n.Y1 - 1, Col: n.X1}, {Row: n.Y1, Col: n.X1}}
	} else {
		candidates = [2]Cell{{Row: n.Y1, Col: n.X1 - 1}, {Row: n.Y1, Col: n.X1}}
	}
	cells := make([]Cell, 0, 2)
	for _, c := range candidates {
		if c.Row >= 0 && c.Row < b.size && c.Col >= 0 && c.Col < b.size {
			cells = append(cells, c)
		}
	}
	return cells
}

// AllEdges lists every line of the grid: horizontal lines row by row, then vertical lines column by column.
func AllEdges(size int) []Edge {
	edges := make([]Edge, 0, TotalEdges(size))
	for row := 0; row <= size; row++ {
		for col := 0; col < size; col++ {
			edges = append(edges, NewEdge(col, row, col+1, row))
		}
	}
	for col := 0; col <= size; col++ {
		for row := 0; row < size; row++ {
			edges = append(edges, NewEdge(col, row, col, row+1))
		}
	}
	return edges
}
