// Package gamemaster runs interactive games on a terminal.
package gamemaster

import (
	"boxes/agent"
	"boxes/engine"
	"boxes/game"
	"boxes/player"
	"boxes/policy"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Mode int

const (
	HumanVsHuman Mode = iota + 1
	HumanVsAI
	AIVsHuman
)

var ErrInvalidMode = errors.New("invalid choice, expected 1, 2, 3, hvh, hva or avh")

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "hvh":
		return HumanVsHuman, nil
	case "2", "hva":
		return HumanVsAI, nil
	case "3", "avh":
		return AIVsHuman, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (m Mode) String() string {
	switch m {
	case HumanVsHuman:
		return "Human vs Human"
	case HumanVsAI:
		return "Human vs AI (Human as Player A)"
	case AIVsHuman:
		return "AI vs Human (Human as Player B)"
	default:
		return "unknown"
	}
}

type Option func(s *Session)

func WithSize(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.size = size
		}
	}
}

// Session plays games on one terminal until the input ends or the context is cancelled.
type Session struct {
	run   *engine.Run
	store policy.Store
	lines *player.Lines
	out   io.Writer
	size  int
}

func NewSession(run *engine.Run, store policy.Store, in io.Reader, out io.Writer, options ...Option) *Session {
	s := &Session{ // Default values
		run:   run,
		store: store,
		lines: player.NewLines(in),
		out:   out,
		size:  engine.DefaultSize,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SelectMode shows the mode menu and reads one answer.
func (s *Session) SelectMode(ctx context.Context) (Mode, error) {
	fmt.Fprintln(s.out, "Select game mode:")
	for m := HumanVsHuman; m <= AIVsHuman; m++ {
		fmt.Fprintf(s.out, "%d. %s\n", m, m)
	}
	fmt.Fprint(s.out, "Enter the number corresponding to your choice: ")
	text, err := s.lines.Next(ctx)
	if err != nil {
		fmt.Fprintln(s.out)
		return 0, err
	}
	return ParseMode(text)
}

// Run loops games in mode. Running out of input ends the session cleanly.
func (s *Session) Run(ctx context.Context, mode Mode) error {
	a, b, err := s.players(mode)
	if err != nil {
		return err
	}

	e := engine.NewEngine(s.run,
		engine.WithSize(s.size),
		engine.WithRenderer(func(gs *game.GameState) { Render(s.out, gs) }),
	)
	s.run.Log.Info().Msgf("starting %s session on a %dx%d grid", mode, s.size, s.size)

	for {
		fmt.Fprintf(s.out, "Wins: A=%d B=%d Tie=%d\n",
			s.run.Wins(game.PlayerA), s.run.Wins(game.PlayerB), s.run.Ties())

		result, err := e.Play(ctx, a, b)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out, "Input closed, goodbye.")
			return nil
		case errors.Is(err, engine.ErrInterrupted):
			fmt.Fprintln(s.out, "Game interrupted.")
			return err
		case err != nil:
			return err
		}
		fmt.Fprintf(s.out, "Game over. Result: %s\n", result)
	}
}

func (s *Session) players(mode Mode) (player.Player, player.Player, error) {
	human := player.NewHuman(s.lines, s.out)
	switch mode {
	case HumanVsHuman:
		return human, human, nil
	case HumanVsAI, AIVsHuman:
		ai := agent.NewQLearning(s.size, agent.WithTraining(false), agent.WithCollector(s.run.Collector))
		if err := ai.Load(s.store); err != nil {
			return nil, nil, err
		}
		if mode == HumanVsAI {
			return human, ai, nil
		}
		return ai, human, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
}
