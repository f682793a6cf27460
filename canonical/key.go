package canonical

import (
	"boxes/game"
	"errors"
	"fmt"
	"strings"
)

// Key is a compact encoding of a Form, usable as a map key.
// Layout: two bytes of line count, four bytes per line, then one byte per box row by row.
type Key string

// MaxSize is the largest grid whose full board fits the two-byte line count
// (2*180*181 = 65160 lines). Coordinates fit a byte well beyond it.
const MaxSize = 180

var ErrBadKey = errors.New("malformed canonical key")

func (f Form) Key() Key {
	var b strings.Builder
	b.Grow(2 + 4*len(f.Lines) + f.Size*f.Size)
	b.WriteByte(byte(len(f.Lines) >> 8))
	b.WriteByte(byte(len(f.Lines)))
	for _, e := range f.Lines {
		b.WriteByte(byte(e.X1))
		b.WriteByte(byte(e.Y1))
		b.WriteByte(byte(e.X2))
		b.WriteByte(byte(e.Y2))
	}
	for _, row := range f.Owners {
		for _, owner := range row {
			b.WriteByte(byte(owner))
		}
	}
	return Key(b.String())
}

// DecodeKey rebuilds the Form a key was made from.
func DecodeKey(size int, k Key) (Form, error) {
	s := string(k)
	if len(s) < 2 {
		return Form{}, fmt.Errorf("%w: %d bytes", ErrBadKey, len(s))
	}
	count := int(s[0])<<8 | int(s[1])
	if want := 2 + 4*count + size*size; len(s) != want {
		return Form{}, fmt.Errorf("%w: got %d bytes, want %d for %d lines on a %dx%d grid", ErrBadKey, len(s), want, count, size, size)
	}

	f := Form{Size: size, Lines: make([]game.Edge, count), Owners: newGrid(size)}
	pos := 2
	for i := range f.Lines {
		f.Lines[i] = game.NewEdge(int(s[pos]), int(s[pos+1]), int(s[pos+2]), int(s[pos+3]))
		pos += 4
	}
	for row := range f.Owners {
		for col := range f.Owners[row] {
			owner := game.Player(s[pos])
			if owner != game.Unowned && owner != game.PlayerA && owner != game.PlayerB {
				return Form{}, fmt.Errorf("%w: unknown owner %d", ErrBadKey, owner)
			}
			f.Owners[row][col] = owner
			pos++
		}
	}
	return f, nil
}
