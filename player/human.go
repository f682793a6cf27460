package player

import (
	"boxes/game"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

var ErrMalformed = errors.New("expected four integers: col1 row1 col2 row2")

// Lines reads an input stream one line at a time in the background so a
// blocked read can be abandoned when the context is cancelled. Every consumer
// of the stream must share one Lines.
type Lines struct {
	ch <-chan line
}

type line struct {
	text string
	err  error
}

func NewLines(in io.Reader) *Lines {
	ch := make(chan line)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			ch <- line{text: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			ch <- line{err: err}
		}
	}()
	return &Lines{ch: ch}
}

// Next blocks until a line arrives. It returns io.EOF once the input is exhausted.
func (l *Lines) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case ln, ok := <-l.ch:
		if !ok {
			return "", io.EOF
		}
		return ln.text, ln.err
	}
}

// Human asks for moves on a text stream until it gets a line that can be drawn.
type Human struct {
	Nop
	lines *Lines
	out   io.Writer
	warn  *color.Color
}

func NewHuman(lines *Lines, out io.Writer) *Human {
	return &Human{lines: lines, out: out, warn: color.New(color.FgRed)}
}

func (h *Human) ChooseMove(ctx context.Context, gs *game.GameState) (game.Edge, error) {
	for {
		fmt.Fprintf(h.out, "Player %s, enter your move (col1 row1 col2 row2): ", gs.Turn())
		text, err := h.lines.Next(ctx)
		if err != nil {
			fmt.Fprintln(h.out)
			return game.Edge{}, err
		}
		e, err := ParseMove(text)
		if err == nil {
			err = gs.Check(e)
		}
		if err != nil {
			log.Debug().Str("input", text).Err(err).Msg("rejected human input")
			h.warn.Fprintf(h.out, "%v, try again\n", err)
			continue
		}
		return e, nil
	}
}

// ParseMove reads "col1 row1 col2 row2" into an edge.
func ParseMove(text string) (game.Edge, error) {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		return game.Edge{}, ErrMalformed
	}
	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return game.Edge{}, ErrMalformed
		}
		v[i] = n
	}
	return game.NewEdge(v[0], v[1], v[2], v[3]), nil
}
