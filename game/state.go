package game

// Line is one accepted move in the order it was played.
type Line struct {
	Turn   int
	Player Player
	Edge   Edge
}

// Outcome describes what an accepted move did to the board.
type Outcome struct {
	BoxCompleted bool // at least one box was completed by this move
	Completed    int  // boxes completed by this move
	Setups       int  // boxes beside the move left one line short for the opponent
}

// RawState is a snapshot of the drawn lines (normalized, sorted) and the box owners.
type RawState struct {
	Size   int
	Lines  []Edge
	Owners [][]Player // [row][col]
}

// GameState runs a game over a Board. Turn order is left to the caller:
// PassTurn must be called after every accepted move, boxes never grant an extra turn.
type GameState struct {
	board   *Board
	turn    Player
	turnID  int
	scores  map[Player]int
	history []Line
}

func NewGameState(size int) *GameState {
	gs := &GameState{board: NewBoard(size)}
	gs.Reset()
	return gs
}

// Reset clears the board and gives the first turn to PlayerA.
func (gs *GameState) Reset() {
	gs.board.Reset()
	gs.turn = PlayerA
	gs.turnID = 1
	gs.scores = map[Player]int{PlayerA: 0, PlayerB: 0}
	gs.history = nil
}

func (gs *GameState) Board() *Board { return gs.board }
func (gs *GameState) Size() int     { return gs.board.size }
func (gs *GameState) Turn() Player  { return gs.turn }

// TurnID is the id the next accepted move will carry, starting at 1.
func (gs *GameState) TurnID() int { return gs.turnID }

func (gs *GameState) PassTurn() {
	gs.turn = gs.turn.Opponent()
}

func (gs *GameState) Score(p Player) int {
	return gs.scores[p]
}

func (gs *GameState) History() []Line {
	out := make([]Line, len(gs.history))
	copy(out, gs.history)
	return out
}

// Check reports why e would be rejected, or nil if Play would accept it.
func (gs *GameState) Check(e Edge) error {
	switch {
	case gs.Terminal():
		return ErrGameOver
	case e.From() == e.To():
		return ErrSamePoint
	case !e.Adjacent():
		return ErrNotAdjacent
	case !gs.board.Contains(e):
		return ErrOffBoard
	case gs.board.Has(e):
		return ErrLineDrawn
	}
	return nil
}

// Play draws e for the current player. A rejected move leaves the state untouched.
func (gs *GameState) Play(e Edge) (Outcome, error) {
	if err := gs.Check(e); err != nil {
		return Outcome{}, err
	}

	gs.board.Draw(e)
	gs.history = append(gs.history, Line{Turn: gs.turnID, Player: gs.turn, Edge: e})
	gs.turnID++

	var out Outcome
	for row := 0; row < gs.board.size; row++ {
		for col := 0; col < gs.board.size; col++ {
			if gs.board.DrawnAround(row, col) == 4 && gs.board.Claim(row, col, gs.turn) {
				gs.scores[gs.turn]++
				out.Completed++
			}
		}
	}
	out.BoxCompleted = out.Completed > 0
	out.Setups = gs.setups(e)
	return out, nil
}

// setups counts the unowned boxes beside e that are one line away from completion.
func (gs *GameState) setups(e Edge) int {
	count := 0
	for _, c := range gs.board.BoxesBeside(e) {
		if gs.board.Owner(c.Row, c.Col) == Unowned && gs.board.DrawnAround(c.Row, c.Col) == 3 {
			count++
		}
	}
	return count
}

// LegalMoves returns every undrawn line, horizontal lines first.
func (gs *GameState) LegalMoves() []Edge {
	all := AllEdges(gs.board.size)
	moves := make([]Edge, 0, len(all)-gs.board.EdgeCount())
	for _, e := range all {
		if !gs.board.Has(e) {
			moves = append(moves, e)
		}
	}
	return moves
}

func (gs *GameState) Terminal() bool {
	return gs.board.Full()
}

func (gs *GameState) Raw() RawState {
	return RawState{
		Size:   gs.board.size,
		Lines:  gs.board.Sorted(),
		Owners: gs.board.Owners(),
	}
}

// Winner compares box counts once the board is full.
func (gs *GameState) Winner() Result {
	if !gs.Terminal() {
		return Undecided
	}
	a, b := gs.scores[PlayerA], gs.scores[PlayerB]
	switch {
	case a > b:
		return WinA
	case b > a:
		return WinB
	default:
		return Tie
	}
}
