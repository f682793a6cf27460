package player

import (
	"boxes/game"
	"context"
	"errors"
)

// ErrInterrupted is returned when the context is cancelled while a player is choosing.
var ErrInterrupted = errors.New("interrupted")

// Feedback describes one accepted move, sent to the player that made it.
type Feedback struct {
	Seat      game.Player
	Before    game.RawState
	Move      game.Edge
	Outcome   game.Outcome
	After     game.RawState
	NextMoves []game.Edge // legal moves after the move, empty once the board is full
	Result    game.Result // Undecided unless the move ended the game
}

// Player is anything that can take a seat at the board. The engine calls the
// hooks for every player alike; players that do not learn ignore them.
type Player interface {
	ChooseMove(ctx context.Context, gs *game.GameState) (game.Edge, error)
	OnMoveResult(f Feedback)
	OnGameEnd(seat game.Player, final game.RawState, result game.Result)
}

// Nop provides empty hooks for players that do not learn.
type Nop struct{}

func (Nop) OnMoveResult(Feedback)                             {}
func (Nop) OnGameEnd(game.Player, game.RawState, game.Result) {}
