package game

import "fmt"

// Point is a grid dot. X is the column and Y the row, both in [0, n].
type Point struct {
	X int
	Y int
}

func (p Point) less(o Point) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// Edge is a line between two dots. It is undirected: compare edges through Normalize.
type Edge struct {
	X1, Y1 int
	X2, Y2 int
}

func NewEdge(x1, y1, x2, y2 int) Edge {
	return Edge{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (e Edge) From() Point { return Point{X: e.X1, Y: e.Y1} }
func (e Edge) To() Point   { return Point{X: e.X2, Y: e.Y2} }

// Normalize orders the endpoints so the smaller (x, y) dot comes first.
func (e Edge) Normalize() Edge {
	if e.To().less(e.From()) {
		return Edge{X1: e.X2, Y1: e.Y2, X2: e.X1, Y2: e.Y1}
	}
	return e
}

// Same reports whether e and o join the same two dots.
func (e Edge) Same(o Edge) bool {
	return e.Normalize() == o.Normalize()
}

// Adjacent reports whether the endpoints are one unit apart.
func (e Edge) Adjacent() bool {
	return abs(e.X1-e.X2)+abs(e.Y1-e.Y2) == 1
}

func (e Edge) Horizontal() bool {
	return e.Y1 == e.Y2
}

// Less orders edges as (x1, y1, x2, y2) tuples.
func (e Edge) Less(o Edge) bool {
	return e.Compare(o) < 0
}

func (e Edge) Compare(o Edge) int {
	a := e.Tuple()
	b := o.Tuple()
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (e Edge) Tuple() [4]int {
	return [4]int{e.X1, e.Y1, e.X2, e.Y2}
}

func (e Edge) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", e.X1, e.Y1, e.X2, e.Y2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
