package player

import (
	"boxes/game"
	"boxes/utils"
	"context"

	"golang.org/x/exp/rand"
)

// Random draws a uniformly random legal line.
type Random struct {
	Nop
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) ChooseMove(ctx context.Context, gs *game.GameState) (game.Edge, error) {
	if err := ctx.Err(); err != nil {
		return game.Edge{}, ErrInterrupted
	}
	moves := gs.LegalMoves()
	if len(moves) == 0 {
		return game.Edge{}, game.ErrGameOver
	}
	return utils.Choice(r.rng, moves), nil
}
