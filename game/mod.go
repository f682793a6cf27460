package game

import "errors"

// Player identifies a seat at the board. Unowned doubles as the owner of a box nobody has completed yet.
type Player int8

const (
	Unowned Player = iota
	PlayerA
	PlayerB
)

func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Unowned
	}
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return " "
	}
}

// Result is the outcome of a game, Undecided until every edge is drawn.
type Result int8

const (
	Undecided Result = iota
	WinA
	WinB
	Tie
)

// ResultFor returns the result in which p wins.
func ResultFor(p Player) Result {
	switch p {
	case PlayerA:
		return WinA
	case PlayerB:
		return WinB
	default:
		return Tie
	}
}

func (r Result) String() string {
	switch r {
	case WinA:
		return "A"
	case WinB:
		return "B"
	case Tie:
		return "Tie"
	default:
		return "undecided"
	}
}

// Winner returns the winning seat, Unowned for a tie or an undecided game.
func (r Result) Winner() Player {
	switch r {
	case WinA:
		return PlayerA
	case WinB:
		return PlayerB
	default:
		return Unowned
	}
}

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrSamePoint   = invalid("coordinates are identical")
	ErrNotAdjacent = invalid("points must be adjacent and form a straight line")
	ErrOffBoard    = invalid("line is outside the grid")
	ErrLineDrawn   = invalid("line already exists")
	ErrGameOver    = invalid("game is over")
)

type moveError struct {
	reason string
}

func invalid(reason string) error {
	return &moveError{reason: reason}
}

func (e *moveError) Error() string {
	return "invalid move: " + e.reason
}

func (e *moveError) Is(target error) bool {
	return target == ErrInvalidMove
}
