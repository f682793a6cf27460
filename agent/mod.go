package agent

import "boxes/game"

const (
	BOX   = 1.0  // completing at least one box
	SETUP = -0.5 // leaving a box one line short for the opponent
	WIN   = 1.0
	LOSS  = -1.0
	TIE   = 0.0
)

// Rewards are the per-move shaping terms and the terminal rewards.
type Rewards struct {
	Box   float64
	Setup float64
	Win   float64
	Loss  float64
	Tie   float64
}

func DefaultRewards() Rewards {
	return Rewards{Box: BOX, Setup: SETUP, Win: WIN, Loss: LOSS, Tie: TIE}
}

// Terminal is the reward seat receives when the game ends with result.
func (r Rewards) Terminal(seat game.Player, result game.Result) float64 {
	switch {
	case result == game.Undecided:
		return 0
	case result == game.Tie:
		return r.Tie
	case result.Winner() == seat:
		return r.Win
	default:
		return r.Loss
	}
}

// Shaped is the immediate reward for one move. Both terms may apply.
func (r Rewards) Shaped(boxCompleted, givesBox bool) float64 {
	reward := 0.0
	if boxCompleted {
		reward += r.Box
	}
	if givesBox {
		reward += r.Setup
	}
	return reward
}
