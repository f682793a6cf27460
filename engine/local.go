package engine

import (
	"boxes/experiments/metrics"
	"boxes/game"
	"boxes/player"
	"context"
	"errors"
	"fmt"
	"time"
)

const DefaultSize = 3

// MaxRejections bounds consecutive rejected moves from one player before the game is abandoned.
const MaxRejections = 100

var (
	ErrInterrupted = player.ErrInterrupted
	ErrStuck       = errors.New("player keeps choosing invalid moves")
)

// Renderer is called with the board before the first move and after every accepted move.
type Renderer func(gs *game.GameState)

type Option func(e *Engine)

func WithSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.size = size
		}
	}
}

func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		e.render = r
	}
}

// Engine plays games between two players and reports them to its Run.
type Engine struct {
	run    *Run
	size   int
	render Renderer
}

func NewEngine(run *Run, options ...Option) *Engine {
	e := &Engine{ // Default values
		run:    run,
		size:   DefaultSize,
		render: func(*game.GameState) {},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) Size() int { return e.size }

// Play runs one game with a as PlayerA and b as PlayerB. Rejected moves are
// retried by the same player. Accepted moves are logged to the run's line log,
// which is flushed however the game ends. A cancelled context stops the game
// between moves with ErrInterrupted.
func (e *Engine) Play(ctx context.Context, a, b player.Player) (result game.Result, err error) {
	id := e.run.NextGame()
	logger := e.run.Log.With().Int("game", id).Logger()
	seats := map[game.Player]player.Player{game.PlayerA: a, game.PlayerB: b}
	gs := game.NewGameState(e.size)
	start := time.Now()
	e.run.Collector.GameStarted()

	defer func() {
		if flushErr := e.run.Lines.Flush(); flushErr != nil {
			err = errors.Join(err, flushErr)
		}
		if err != nil {
			e.run.Collector.GameFinished(game.Undecided, len(gs.History()), time.Since(start))
		}
	}()

	logger.Info().Msgf("player %s is starting", gs.Turn())
	e.render(gs)

	rejections := 0
	for !gs.Terminal() {
		if ctx.Err() != nil {
			logger.Warn().Msg("game interrupted")
			return game.Undecided, ErrInterrupted
		}

		mover := gs.Turn()
		p := seats[mover]
		move, err := p.ChooseMove(ctx, gs)
		if err != nil {
			if errors.Is(err, ErrInterrupted) || ctx.Err() != nil {
				logger.Warn().Msg("game interrupted")
				return game.Undecided, ErrInterrupted
			}
			return game.Undecided, fmt.Errorf("player %s failed to choose a move: %w", mover, err)
		}

		before := gs.Raw()
		turn := gs.TurnID()
		out, err := gs.Play(move)
		if err != nil {
			rejections++
			e.run.Collector.MoveRejected()
			logger.Warn().Err(err).Msgf("player %s tried %s", mover, move)
			if rejections >= MaxRejections {
				return game.Undecided, fmt.Errorf("%w: player %s, %d rejections in a row", ErrStuck, mover, rejections)
			}
			continue
		}
		rejections = 0

		if err := e.run.Lines.Append(metrics.LineRecord{
			GameID: id,
			TurnID: turn,
			Player: mover.String(),
			X1:     move.X1,
			Y1:     move.Y1,
			X2:     move.X2,
			Y2:     move.Y2,
		}); err != nil {
			return game.Undecided, fmt.Errorf("failed to log line: %w", err)
		}
		e.run.Collector.MoveApplied(mover, out)
		logger.Debug().
			Int("turn", turn).
			Bool("box", out.BoxCompleted).
			Int("setups", out.Setups).
			Msgf("player %s drew %s", mover, move)

		gs.PassTurn()
		p.OnMoveResult(player.Feedback{
			Seat:      mover,
			Before:    before,
			Move:      move,
			Outcome:   out,
			After:     gs.Raw(),
			NextMoves: gs.LegalMoves(),
			Result:    gs.Winner(),
		})
		e.render(gs)
	}

	result = gs.Winner()
	final := gs.Raw()
	a.OnGameEnd(game.PlayerA, final, result)
	b.OnGameEnd(game.PlayerB, final, result)
	e.run.Record(result)
	e.run.Collector.GameFinished(result, len(gs.History()), time.Since(start))

	logger.Info().
		Int("score_a", gs.Score(game.PlayerA)).
		Int("score_b", gs.Score(game.PlayerB)).
		Dur("duration", time.Since(start)).
		Msgf("game over with winner: %s", result)
	return result, nil
}
