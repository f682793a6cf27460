package gamemaster

import (
	"boxes/game"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

type palette struct {
	line   func(a ...interface{}) string
	owners map[game.Player]func(a ...interface{}) string
}

var plain = palette{
	line: fmt.Sprint,
	owners: map[game.Player]func(a ...interface{}) string{
		game.Unowned: fmt.Sprint,
		game.PlayerA: fmt.Sprint,
		game.PlayerB: fmt.Sprint,
	},
}

var colored = palette{
	line: color.New(color.FgYellow).SprintFunc(),
	owners: map[game.Player]func(a ...interface{}) string{
		game.Unowned: fmt.Sprint,
		game.PlayerA: color.New(color.FgCyan, color.Bold).SprintFunc(),
		game.PlayerB: color.New(color.FgMagenta, color.Bold).SprintFunc(),
	},
}

// Render writes the board with colored lines and box owners.
func Render(w io.Writer, gs *game.GameState) {
	log.Debug().Msgf("board state:\n%s", Board(gs))
	fmt.Fprintln(w, draw(gs.Board(), colored))
}

// Board returns the uncolored text picture of the board.
func Board(gs *game.GameState) string {
	return draw(gs.Board(), plain)
}

func draw(b *game.Board, p palette) string {
	n := b.Size()
	delimiter := strings.Repeat("-", n*4+1)

	var sb strings.Builder
	sb.WriteString(delimiter + "\n")
	horizontal := func(row int) {
		for col := 0; col < n; col++ {
			sb.WriteString("*")
			if b.Has(game.NewEdge(col, row, col+1, row)) {
				sb.WriteString(p.line("---"))
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString("*\n")
	}
	for row := 0; row < n; row++ {
		horizontal(row)
		for col := 0; col <= n; col++ {
			if b.Has(game.NewEdge(col, row, col, row+1)) {
				sb.WriteString(p.line("|"))
			} else {
				sb.WriteString(" ")
			}
			if col < n {
				owner := b.Owner(row, col)
				sb.WriteString(" " + p.owners[owner](owner.String()) + " ")
			}
		}
		sb.WriteString("\n")
	}
	horizontal(n)
	sb.WriteString(delimiter)
	return sb.String()
}
